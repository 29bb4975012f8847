package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"abccurve/internal/models"
	"abccurve/internal/repository"
)

// Operator workflow states for a product. Arbitrary strings are rejected so
// filters stay meaningful.
var allowedStatuses = map[string]bool{
	"pending":     true,
	"in-progress": true,
	"done":        true,
	"ignored":     true,
}

type StatusService struct {
	Repo repository.Repository
}

// Set writes the operator annotation for a product, last write wins.
func (s *StatusService) Set(ctx context.Context, productID, status, note string) (*models.ProductStatus, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	productID = strings.TrimSpace(productID)
	status = strings.ToLower(strings.TrimSpace(status))
	if productID == "" {
		return nil, fmt.Errorf("product id required")
	}
	if !allowedStatuses[status] {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	item := &models.ProductStatus{
		ProductID: productID,
		Status:    status,
		Note:      strings.TrimSpace(note),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.Repo.UpsertProductStatus(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *StatusService) Get(ctx context.Context, productID string) (*models.ProductStatus, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.GetProductStatus(ctx, strings.TrimSpace(productID))
}

// List returns annotations for the given products, or all of them when the
// id list is empty.
func (s *StatusService) List(ctx context.Context, productIDs []string) ([]models.ProductStatus, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListProductStatuses(ctx, productIDs)
}

func (s *StatusService) Clear(ctx context.Context, productID string) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	return s.Repo.DeleteProductStatus(ctx, strings.TrimSpace(productID))
}

package service

import (
	"context"
	"sync"
	"time"

	"abccurve/internal/models"
	"abccurve/internal/repository"
)

// stubRepo is an in-memory repository for service tests.
type stubRepo struct {
	mu        sync.Mutex
	reports   map[string]*models.Report
	statuses  map[string]*models.ProductStatus
	snapshots []models.AnalysisSnapshot
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		reports:  map[string]*models.Report{},
		statuses: map[string]*models.ProductStatus{},
	}
}

func (r *stubRepo) UpsertReport(_ context.Context, item *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.reports {
		if existing.ContentHash == item.ContentHash && id != item.ID {
			delete(r.reports, id)
		}
	}
	cp := *item
	r.reports[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetReportByID(_ context.Context, id string) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.reports[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) GetReportByContentHash(_ context.Context, hash string) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.reports {
		if item.ContentHash == hash {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListReports(_ context.Context, _ repository.ListReportsParams) ([]models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Report
	for _, item := range r.reports {
		out = append(out, *item)
	}
	return out, nil
}

func (r *stubRepo) CountReports(_ context.Context, _ repository.ListReportsParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.reports)), nil
}

func (r *stubRepo) TouchReport(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.reports[id]; ok {
		item.LastAccessedAt = at
	}
	return nil
}

func (r *stubRepo) UpdateReportEnrichment(_ context.Context, id string, enrichment []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.reports[id]; ok {
		item.EnrichmentJSON = enrichment
	}
	return nil
}

func (r *stubRepo) DeleteIdleReports(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, item := range r.reports {
		if item.LastAccessedAt.Before(before) {
			delete(r.reports, id)
			n++
		}
	}
	return n, nil
}

func (r *stubRepo) UpsertProductStatus(_ context.Context, item *models.ProductStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.statuses[item.ProductID] = &cp
	return nil
}

func (r *stubRepo) GetProductStatus(_ context.Context, productID string) (*models.ProductStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.statuses[productID]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) ListProductStatuses(_ context.Context, productIDs []string) ([]models.ProductStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProductStatus
	if len(productIDs) == 0 {
		for _, item := range r.statuses {
			out = append(out, *item)
		}
		return out, nil
	}
	for _, id := range productIDs {
		if item, ok := r.statuses[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubRepo) DeleteProductStatus(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.statuses, productID)
	return nil
}

func (r *stubRepo) InsertSnapshot(_ context.Context, item *models.AnalysisSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, *item)
	return nil
}

// ListSnapshots mirrors the store's contract: newest first, filtered.
func (r *stubRepo) ListSnapshots(_ context.Context, params repository.ListSnapshotsParams) ([]models.AnalysisSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AnalysisSnapshot
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		s := r.snapshots[i]
		if params.Client != nil && s.Client != *params.Client {
			continue
		}
		if params.Channel != nil && s.Channel != *params.Channel {
			continue
		}
		out = append(out, s)
		if params.Limit > 0 && len(out) == params.Limit {
			break
		}
	}
	return out, nil
}

func (r *stubRepo) CountSnapshots(_ context.Context, _ repository.ListSnapshotsParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.snapshots)), nil
}

func (r *stubRepo) DeleteSnapshotsBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []models.AnalysisSnapshot
	var n int64
	for _, s := range r.snapshots {
		if s.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.snapshots = kept
	return n, nil
}

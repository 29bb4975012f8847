package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"abccurve/internal/models"
	"abccurve/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- reports ----------------------------------------------------------------

func (s *Store) UpsertReport(ctx context.Context, item *models.Report) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"channel",
			"filename",
			"client",
			"reference_date",
			"product_count",
			"total_revenue",
			"total_quantity",
			"facts_json",
			"enrichment_json",
			"last_accessed_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Report
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetReportByContentHash(ctx context.Context, hash string) (*models.Report, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Report
	err := s.db.WithContext(ctx).Where("content_hash = ?", hash).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListReports(ctx context.Context, params repository.ListReportsParams) ([]models.Report, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.reportQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.Report
	if err := query.
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountReports(ctx context.Context, params repository.ListReportsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var n int64
	if err := s.reportQuery(ctx, params).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) reportQuery(ctx context.Context, params repository.ListReportsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Report{})
	if params.Channel != nil && strings.TrimSpace(*params.Channel) != "" {
		query = query.Where("channel = ?", strings.TrimSpace(*params.Channel))
	}
	if params.Client != nil && strings.TrimSpace(*params.Client) != "" {
		query = query.Where("client = ?", strings.TrimSpace(*params.Client))
	}
	return query
}

func (s *Store) TouchReport(ctx context.Context, id string, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return s.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Update("last_accessed_at", at).Error
}

func (s *Store) UpdateReportEnrichment(ctx context.Context, id string, enrichment []byte) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Update("enrichment_json", enrichment).Error
}

func (s *Store) DeleteIdleReports(ctx context.Context, lastAccessBefore time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("last_accessed_at < ?", lastAccessBefore).
		Delete(&models.Report{})
	return res.RowsAffected, res.Error
}

// --- product statuses -------------------------------------------------------

func (s *Store) UpsertProductStatus(ctx context.Context, item *models.ProductStatus) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ProductID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"note",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetProductStatus(ctx context.Context, productID string) (*models.ProductStatus, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.ProductStatus
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListProductStatuses(ctx context.Context, productIDs []string) ([]models.ProductStatus, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.ProductStatus{})
	if len(productIDs) > 0 {
		query = query.Where("product_id IN ?", productIDs)
	}
	var items []models.ProductStatus
	if err := query.Order("product_id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteProductStatus(ctx context.Context, productID string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductStatus{}).Error
}

// --- snapshots --------------------------------------------------------------

func (s *Store) InsertSnapshot(ctx context.Context, item *models.AnalysisSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.AnalysisSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.snapshotQuery(ctx, params)
	order := "created_at desc"
	if params.Asc != nil && *params.Asc {
		order = "created_at asc"
	}
	var items []models.AnalysisSnapshot
	if err := query.
		Order(order).
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSnapshots(ctx context.Context, params repository.ListSnapshotsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var n int64
	if err := s.snapshotQuery(ctx, params).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) snapshotQuery(ctx context.Context, params repository.ListSnapshotsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.AnalysisSnapshot{})
	if params.Client != nil && strings.TrimSpace(*params.Client) != "" {
		query = query.Where("client = ?", strings.TrimSpace(*params.Client))
	}
	if params.Channel != nil && strings.TrimSpace(*params.Channel) != "" {
		query = query.Where("channel = ?", strings.TrimSpace(*params.Channel))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("created_at <= ?", *params.Until)
	}
	return query
}

func (s *Store) DeleteSnapshotsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.AnalysisSnapshot{})
	return res.RowsAffected, res.Error
}

// --- helpers ----------------------------------------------------------------

var orderable = map[string]bool{
	"created_at":       true,
	"last_accessed_at": true,
	"filename":         true,
	"channel":          true,
	"total_revenue":    true,
	"product_count":    true,
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(strings.ToLower(orderBy))
	if !orderable[col] {
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return query.Order(col + " " + dir)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

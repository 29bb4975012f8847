package repository

import (
	"context"
	"time"

	"abccurve/internal/models"
)

// Repository is the persistence surface used by the analysis services.
type Repository interface {
	// Reports (parsed fact tables, memoized by content hash).
	UpsertReport(ctx context.Context, item *models.Report) error
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	GetReportByContentHash(ctx context.Context, hash string) (*models.Report, error)
	ListReports(ctx context.Context, params ListReportsParams) ([]models.Report, error)
	CountReports(ctx context.Context, params ListReportsParams) (int64, error)
	TouchReport(ctx context.Context, id string, at time.Time) error
	UpdateReportEnrichment(ctx context.Context, id string, enrichment []byte) error
	DeleteIdleReports(ctx context.Context, lastAccessBefore time.Time) (int64, error)

	// Product status annotations (operator workflow, last write wins).
	UpsertProductStatus(ctx context.Context, item *models.ProductStatus) error
	GetProductStatus(ctx context.Context, productID string) (*models.ProductStatus, error)
	ListProductStatuses(ctx context.Context, productIDs []string) ([]models.ProductStatus, error)
	DeleteProductStatus(ctx context.Context, productID string) error

	// Analysis snapshots (longitudinal KPIs per upload).
	InsertSnapshot(ctx context.Context, item *models.AnalysisSnapshot) error
	ListSnapshots(ctx context.Context, params ListSnapshotsParams) ([]models.AnalysisSnapshot, error)
	CountSnapshots(ctx context.Context, params ListSnapshotsParams) (int64, error)
	DeleteSnapshotsBefore(ctx context.Context, before time.Time) (int64, error)
}

type ListReportsParams struct {
	Limit   int
	Offset  int
	Channel *string
	Client  *string
	OrderBy string
	Asc     *bool
}

type ListSnapshotsParams struct {
	Limit   int
	Offset  int
	Client  *string
	Channel *string
	Since   *time.Time
	Until   *time.Time
	Asc     *bool
}

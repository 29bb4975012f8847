package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"abccurve/internal/config"
	"abccurve/internal/models"
	"abccurve/internal/repository"
)

// SnapshotService persists the headline numbers of each analysis so
// consecutive uploads for the same client and channel can be compared.
type SnapshotService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Rules  config.RulesConfig
}

// Record stores one snapshot derived from a freshly ingested analysis.
func (s *SnapshotService) Record(ctx context.Context, a *Analysis) error {
	if s == nil || s.Repo == nil || a == nil || a.Report == nil {
		return nil
	}
	sum := BuildSummary(a, s.Rules.Risk)

	item := &models.AnalysisSnapshot{
		ReportID:       a.Report.ID,
		Client:         a.Report.Client,
		Channel:        a.Report.Channel,
		TotalListings:  sum.TotalListings,
		TotalRevenue:   sum.TotalRevenue,
		TotalQuantity:  sum.TotalQuantity,
		ConcentrationA: sum.ConcentrationA,
		AverageTicket:  sum.AverageTicket,
		LeakCount:      sum.LeakCount,
		LeakValue:      sum.LeakValue,
		AnchorCount:    sum.AnchorCount,
		AnchorValue:    sum.AnchorValue,
		CreatedAt:      time.Now().UTC(),
	}
	// The ads split only exists for transaction-level exports; channels
	// without it leave the pointers nil rather than recording zeros.
	if a.Table != nil && len(a.Table.Ads) > 0 {
		ads := a.Table.Ads[0]
		pct := ads.AdsPct
		adsRev := ads.AdsRevenue
		organic := ads.OrganicRevenue
		item.AdsSharePct = &pct
		item.AdsRevenue = &adsRev
		item.OrganicValue = &organic
	}
	if extras, err := json.Marshal(map[string]any{
		"front_counts":       sum.FrontCounts,
		"curve_distribution": sum.CurveDistribution,
	}); err == nil {
		item.Extras = datatypes.JSON(extras)
	}
	return s.Repo.InsertSnapshot(ctx, item)
}

// List pages through stored snapshots.
func (s *SnapshotService) List(ctx context.Context, params repository.ListSnapshotsParams) ([]models.AnalysisSnapshot, int64, error) {
	if s == nil || s.Repo == nil {
		return nil, 0, nil
	}
	items, err := s.Repo.ListSnapshots(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountSnapshots(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SnapshotDelta compares the two most recent snapshots of one
// (client, channel) series. Previous is nil when only one exists.
type SnapshotDelta struct {
	Latest   models.AnalysisSnapshot  `json:"latest"`
	Previous *models.AnalysisSnapshot `json:"previous,omitempty"`

	RevenueDelta       *decimal.Decimal `json:"revenue_delta,omitempty"`
	QuantityDelta      *int             `json:"quantity_delta,omitempty"`
	LeakValueDelta     *decimal.Decimal `json:"leak_value_delta,omitempty"`
	AnchorValueDelta   *decimal.Decimal `json:"anchor_value_delta,omitempty"`
	ConcentrationDelta *float64         `json:"concentration_delta,omitempty"`
}

// Delta returns the latest snapshot for the series and its difference from
// the one before it. A series with no snapshots yields nil.
func (s *SnapshotService) Delta(ctx context.Context, client, channel string) (*SnapshotDelta, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	params := repository.ListSnapshotsParams{Limit: 2}
	if client != "" {
		params.Client = &client
	}
	if channel != "" {
		params.Channel = &channel
	}
	items, err := s.Repo.ListSnapshots(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	out := &SnapshotDelta{Latest: items[0]}
	if len(items) < 2 {
		return out, nil
	}
	prev := items[1]
	out.Previous = &prev

	rev := out.Latest.TotalRevenue.Sub(prev.TotalRevenue)
	out.RevenueDelta = &rev
	qty := out.Latest.TotalQuantity - prev.TotalQuantity
	out.QuantityDelta = &qty
	leak := out.Latest.LeakValue.Sub(prev.LeakValue)
	out.LeakValueDelta = &leak
	anchor := out.Latest.AnchorValue.Sub(prev.AnchorValue)
	out.AnchorValueDelta = &anchor
	if out.Latest.ConcentrationA != nil && prev.ConcentrationA != nil {
		conc := *out.Latest.ConcentrationA - *prev.ConcentrationA
		out.ConcentrationDelta = &conc
	}
	return out, nil
}

// Prune drops snapshots older than keep.
func (s *SnapshotService) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-keep)
	n, err := s.Repo.DeleteSnapshotsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.Logger != nil {
		s.Logger.Info("old snapshots pruned", zap.Int64("count", n))
	}
	return n, nil
}

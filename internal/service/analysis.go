package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"abccurve/internal/config"
	"abccurve/internal/curve"
	"abccurve/internal/models"
	"abccurve/internal/plan"
	"abccurve/internal/report"
	"abccurve/internal/repository"
	"abccurve/internal/segment"
)

// Analysis is everything derived from one upload: the fact table with
// curves assigned, segment membership and the prioritized plan.
type Analysis struct {
	Report   *models.Report
	Table    *report.FactTable
	Segments *segment.Result
	Plan     *plan.Plan
}

type AnalysisService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Rules  config.RulesConfig

	Snapshots *SnapshotService

	cache *analysisCache
}

func NewAnalysis(repo repository.Repository, logger *zap.Logger, rules config.RulesConfig, cacheEntries int) *AnalysisService {
	return &AnalysisService{
		Repo:   repo,
		Logger: logger,
		Rules:  rules,
		cache:  newAnalysisCache(cacheEntries),
	}
}

// IngestInput is one upload request.
type IngestInput struct {
	Filename   string
	Client     string
	Channel    string // empty means autodetect
	Data       []byte
	Enrichment []byte // optional cost/margin/ads file
	EnrichName string
}

// Ingest parses an upload into a new analysis, or returns the stored one
// when the exact same file content was seen before.
func (s *AnalysisService) Ingest(ctx context.Context, in IngestInput) (*Analysis, bool, error) {
	if s == nil || len(in.Data) == 0 {
		return nil, false, fmt.Errorf("empty upload")
	}
	hash := contentHash(in.Data, in.Enrichment)

	if a := s.cache.getByHash(hash); a != nil {
		s.touch(ctx, a.Report.ID)
		return a, true, nil
	}
	if s.Repo != nil {
		stored, err := s.Repo.GetReportByContentHash(ctx, hash)
		if err != nil {
			return nil, false, err
		}
		if stored != nil {
			a, err := s.rehydrate(ctx, stored)
			if err != nil {
				return nil, false, err
			}
			return a, true, nil
		}
	}

	channel := strings.TrimSpace(in.Channel)
	if channel == "" {
		detected, err := report.DetectChannel(in.Data)
		if err != nil {
			return nil, false, err
		}
		channel = detected
	}
	table, err := report.Parse(channel, in.Data)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s upload: %w", channel, err)
	}

	var enrich map[string]report.Enrichment
	if len(in.Enrichment) > 0 {
		enrich, err = report.ParseEnrichment(in.Enrichment, in.EnrichName)
		switch {
		case errors.Is(err, report.ErrNoEnrichmentID):
			// No resolvable id column downgrades to "no enrichment
			// provided"; the analysis proceeds without financials.
			enrich = nil
			if s.Logger != nil {
				s.Logger.Warn("enrichment ignored", zap.Error(err),
					zap.String("filename", in.EnrichName))
			}
		case err != nil:
			return nil, false, fmt.Errorf("parse enrichment: %w", err)
		default:
			report.JoinEnrichment(table, enrich)
		}
	}
	// Canonical workbooks carry curves computed over the seller's full
	// population; reclassifying a possibly filtered subset would distort
	// them. Raw exports always get classified here.
	if channel != report.ChannelCanonical {
		curve.Assign(table, s.Rules.Curve)
	}

	rec, err := s.buildRecord(hash, in, table, enrich)
	if err != nil {
		return nil, false, err
	}
	if s.Repo != nil {
		if err := s.Repo.UpsertReport(ctx, rec); err != nil {
			return nil, false, err
		}
	}

	a := s.derive(rec, table)
	s.cache.put(a)

	if s.Snapshots != nil {
		if err := s.Snapshots.Record(ctx, a); err != nil && s.Logger != nil {
			s.Logger.Warn("record analysis snapshot", zap.Error(err))
		}
	}
	if s.Logger != nil {
		s.Logger.Info("upload analyzed",
			zap.String("report_id", rec.ID),
			zap.String("channel", channel),
			zap.Int("products", len(table.Products)))
	}
	return a, false, nil
}

// Get loads an analysis by report id, from memory or from storage.
func (s *AnalysisService) Get(ctx context.Context, reportID string) (*Analysis, error) {
	if s == nil {
		return nil, fmt.Errorf("analysis service not configured")
	}
	if a := s.cache.getByID(reportID); a != nil {
		s.touch(ctx, reportID)
		return a, nil
	}
	if s.Repo == nil {
		return nil, nil
	}
	stored, err := s.Repo.GetReportByID(ctx, reportID)
	if err != nil || stored == nil {
		return nil, err
	}
	return s.rehydrate(ctx, stored)
}

// AttachEnrichment joins a cost/margin/ads file onto an existing report and
// recomputes the downstream stages. Unlike the optional side file at ingest,
// attaching is an explicit request for enrichment, so a file without a
// resolvable id column is reported back instead of being ignored.
func (s *AnalysisService) AttachEnrichment(ctx context.Context, reportID string, data []byte, filename string) (*Analysis, error) {
	a, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	enrich, err := report.ParseEnrichment(data, filename)
	if err != nil {
		return nil, fmt.Errorf("parse enrichment: %w", err)
	}
	report.JoinEnrichment(a.Table, enrich)

	enrichRaw, err := json.Marshal(enrich)
	if err != nil {
		return nil, err
	}
	a.Report.EnrichmentJSON = datatypes.JSON(enrichRaw)
	// Cached facts stay the parse result; rehydrate re-joins the stored
	// enrichment, so only the enrichment column needs the write.
	if s.Repo != nil {
		if err := s.Repo.UpdateReportEnrichment(ctx, a.Report.ID, enrichRaw); err != nil {
			return nil, err
		}
	}

	s.cache.drop(reportID)
	out := s.derive(a.Report, a.Table)
	s.cache.put(out)
	return out, nil
}

// ListReports pages through stored uploads.
func (s *AnalysisService) ListReports(ctx context.Context, params repository.ListReportsParams) ([]models.Report, int64, error) {
	if s == nil || s.Repo == nil {
		return nil, 0, nil
	}
	items, err := s.Repo.ListReports(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountReports(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// EvictIdle drops reports whose last access is older than maxIdle, both
// from storage and from the in-memory cache.
func (s *AnalysisService) EvictIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-maxIdle)
	n, err := s.Repo.DeleteIdleReports(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.Logger != nil {
		s.Logger.Info("idle reports evicted", zap.Int64("count", n))
	}
	return n, nil
}

func (s *AnalysisService) derive(rec *models.Report, table *report.FactTable) *Analysis {
	segs := segment.Evaluate(table, s.Rules.Segment)
	return &Analysis{
		Report:   rec,
		Table:    table,
		Segments: segs,
		Plan:     plan.Build(table, segs, s.Rules),
	}
}

func (s *AnalysisService) rehydrate(ctx context.Context, stored *models.Report) (*Analysis, error) {
	var table report.FactTable
	if err := json.Unmarshal(stored.FactsJSON, &table); err != nil {
		return nil, fmt.Errorf("decode stored facts: %w", err)
	}
	if len(stored.EnrichmentJSON) > 0 {
		var enrich map[string]report.Enrichment
		if err := json.Unmarshal(stored.EnrichmentJSON, &enrich); err != nil {
			return nil, fmt.Errorf("decode stored enrichment: %w", err)
		}
		report.JoinEnrichment(&table, enrich)
	}
	a := s.derive(stored, &table)
	s.cache.put(a)
	s.touch(ctx, stored.ID)
	return a, nil
}

func (s *AnalysisService) buildRecord(hash string, in IngestInput, table *report.FactTable, enrich map[string]report.Enrichment) (*models.Report, error) {
	factsRaw, err := json.Marshal(table)
	if err != nil {
		return nil, err
	}
	rec := &models.Report{
		ID:             uuid.NewString(),
		ContentHash:    hash,
		Channel:        table.Channel,
		Filename:       in.Filename,
		Client:         strings.TrimSpace(in.Client),
		ProductCount:   len(table.Products),
		TotalRevenue:   table.TotalRevenue(),
		TotalQuantity:  table.TotalQuantity(),
		FactsJSON:      datatypes.JSON(factsRaw),
		LastAccessedAt: time.Now().UTC(),
	}
	if !table.ReferenceDate.IsZero() {
		ref := table.ReferenceDate
		rec.ReferenceDate = &ref
	}
	if len(enrich) > 0 {
		enrichRaw, err := json.Marshal(enrich)
		if err != nil {
			return nil, err
		}
		rec.EnrichmentJSON = datatypes.JSON(enrichRaw)
	}
	return rec, nil
}

func (s *AnalysisService) touch(ctx context.Context, id string) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.TouchReport(ctx, id, time.Now().UTC()); err != nil && s.Logger != nil {
		s.Logger.Warn("touch report", zap.String("report_id", id), zap.Error(err))
	}
}

// contentHash keys the memoization on the exact bytes of both uploads.
func contentHash(data, enrichment []byte) string {
	h := sha256.New()
	h.Write(data)
	if len(enrichment) > 0 {
		h.Write(enrichment)
	}
	return hex.EncodeToString(h.Sum(nil))
}

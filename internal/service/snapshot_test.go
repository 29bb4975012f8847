package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"abccurve/internal/config"
	"abccurve/internal/models"
	"abccurve/internal/report"
	"abccurve/internal/repository"
)

func TestSnapshotDelta(t *testing.T) {
	repo := newStubRepo()
	svc := &SnapshotService{Repo: repo, Logger: zap.NewNop(), Rules: config.DefaultRules()}
	ctx := context.Background()

	older := 0.52
	newer := 0.61
	if err := repo.InsertSnapshot(ctx, &models.AnalysisSnapshot{
		Client: "acme", Channel: "mercado-livre",
		TotalRevenue:   decimal.NewFromInt(10000),
		TotalQuantity:  120,
		LeakValue:      decimal.NewFromInt(800),
		AnchorValue:    decimal.NewFromInt(4000),
		ConcentrationA: &older,
		CreatedAt:      time.Now().Add(-24 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.InsertSnapshot(ctx, &models.AnalysisSnapshot{
		Client: "acme", Channel: "mercado-livre",
		TotalRevenue:   decimal.NewFromInt(12500),
		TotalQuantity:  150,
		LeakValue:      decimal.NewFromInt(500),
		AnchorValue:    decimal.NewFromInt(4600),
		ConcentrationA: &newer,
		CreatedAt:      time.Now(),
	}); err != nil {
		t.Fatal(err)
	}
	// A different series must not leak into the comparison.
	if err := repo.InsertSnapshot(ctx, &models.AnalysisSnapshot{
		Client: "other", Channel: "shopee",
		TotalRevenue: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatal(err)
	}

	d, err := svc.Delta(ctx, "acme", "mercado-livre")
	if err != nil {
		t.Fatalf("delta: %v", err)
	}
	if d == nil || d.Previous == nil {
		t.Fatal("expected both snapshots")
	}
	if d.Latest.TotalRevenue.String() != "12500" {
		t.Fatalf("latest = %s", d.Latest.TotalRevenue)
	}
	if d.RevenueDelta == nil || d.RevenueDelta.String() != "2500" {
		t.Fatalf("revenue delta = %v", d.RevenueDelta)
	}
	if d.QuantityDelta == nil || *d.QuantityDelta != 30 {
		t.Fatalf("quantity delta = %v", d.QuantityDelta)
	}
	if d.LeakValueDelta == nil || d.LeakValueDelta.String() != "-300" {
		t.Fatalf("leak delta = %v", d.LeakValueDelta)
	}
	if d.ConcentrationDelta == nil || *d.ConcentrationDelta < 0.089 || *d.ConcentrationDelta > 0.091 {
		t.Fatalf("concentration delta = %v", d.ConcentrationDelta)
	}
}

func TestRecordCapturesAdsSplit(t *testing.T) {
	repo := newStubRepo()
	svc := &SnapshotService{Repo: repo, Logger: zap.NewNop(), Rules: config.DefaultRules()}

	table := &report.FactTable{
		Channel: report.ChannelMercadoLivre,
		Products: []report.ProductFact{
			{ProductID: "MLB1", Title: "Capa", Quantity: [4]int{4}, Revenue: [4]decimal.Decimal{decimal.NewFromInt(400)}},
		},
		Ads: []report.AdsBreakdown{
			{Window: report.Window0to30, AdsPct: 0.25, AdsQty: 1, OrganicQty: 3,
				AdsRevenue: decimal.NewFromInt(100), OrganicRevenue: decimal.NewFromInt(300)},
		},
	}
	a := &Analysis{
		Report: &models.Report{ID: "r1", Client: "acme", Channel: report.ChannelMercadoLivre},
		Table:  table,
	}
	if err := svc.Record(context.Background(), a); err != nil {
		t.Fatalf("record: %v", err)
	}

	items, err := repo.ListSnapshots(context.Background(), repository.ListSnapshotsParams{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("snapshots = %d", len(items))
	}
	snap := items[0]
	if snap.AdsSharePct == nil || *snap.AdsSharePct != 0.25 {
		t.Fatalf("ads share = %v, want 0.25", snap.AdsSharePct)
	}
	if snap.AdsRevenue == nil || snap.AdsRevenue.String() != "100" {
		t.Fatalf("ads revenue = %v", snap.AdsRevenue)
	}
	if snap.OrganicValue == nil || snap.OrganicValue.String() != "300" {
		t.Fatalf("organic value = %v", snap.OrganicValue)
	}
}

func TestRecordWithoutAdsSplitKeepsNil(t *testing.T) {
	repo := newStubRepo()
	svc := &SnapshotService{Repo: repo, Logger: zap.NewNop(), Rules: config.DefaultRules()}

	a := &Analysis{
		Report: &models.Report{ID: "r2", Client: "acme", Channel: report.ChannelCanonical},
		Table:  &report.FactTable{Channel: report.ChannelCanonical, Products: []report.ProductFact{}},
	}
	if err := svc.Record(context.Background(), a); err != nil {
		t.Fatalf("record: %v", err)
	}

	items, err := repo.ListSnapshots(context.Background(), repository.ListSnapshotsParams{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("snapshots = %d", len(items))
	}
	if items[0].AdsSharePct != nil || items[0].AdsRevenue != nil || items[0].OrganicValue != nil {
		t.Fatal("channels without an ads split must record no-data, not zeros")
	}
}

func TestSnapshotDeltaSingleEntry(t *testing.T) {
	repo := newStubRepo()
	svc := &SnapshotService{Repo: repo, Logger: zap.NewNop(), Rules: config.DefaultRules()}
	ctx := context.Background()

	if err := repo.InsertSnapshot(ctx, &models.AnalysisSnapshot{
		Client: "acme", Channel: "shopee",
		TotalRevenue: decimal.NewFromInt(900),
	}); err != nil {
		t.Fatal(err)
	}

	d, err := svc.Delta(ctx, "acme", "shopee")
	if err != nil {
		t.Fatalf("delta: %v", err)
	}
	if d == nil {
		t.Fatal("expected latest snapshot")
	}
	if d.Previous != nil || d.RevenueDelta != nil {
		t.Fatal("single snapshot must not fabricate a comparison")
	}
}

func TestSnapshotDeltaEmptySeries(t *testing.T) {
	svc := &SnapshotService{Repo: newStubRepo(), Rules: config.DefaultRules()}
	d, err := svc.Delta(context.Background(), "nobody", "")
	if err != nil {
		t.Fatalf("delta: %v", err)
	}
	if d != nil {
		t.Fatalf("expected nil for empty series, got %+v", d)
	}
}

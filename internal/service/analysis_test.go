package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"abccurve/internal/config"
	"abccurve/internal/report"
	"abccurve/internal/repository"
)

// canonicalWorkbook builds a pre-computed curve workbook in memory.
func canonicalWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", report.CanonicalSheet); err != nil {
		t.Fatal(err)
	}

	rows := [][]any{
		{"MLB", "Título",
			"Qntd 0-30", "Fat. 0-30", "Curva 0-30",
			"Qntd 31-60", "Fat. 31-60", "Curva 31-60",
			"Qntd 61-90", "Fat. 61-90", "Curva 61-90",
			"Qntd 91-120", "Fat. 91-120", "Curva 91-120"},
		{"MLB100", "Capa de celular", 50, 5000.0, "A", 48, 4800.0, "A", 52, 5200.0, "A", 47, 4700.0, "A"},
		{"MLB200", "Fone bluetooth", 0, 0.0, "-", 20, 1000.0, "A", 24, 1200.0, "B", 18, 900.0, "C"},
		{"MLB300", "Chaveiro", 0, 0.0, "-", 4, 120.0, "C", 3, 90.0, "C", 3, 90.0, "C"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(report.CanonicalSheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestService(repo *stubRepo) *AnalysisService {
	rules := config.DefaultRules()
	svc := NewAnalysis(repo, zap.NewNop(), rules, 4)
	svc.Snapshots = &SnapshotService{Repo: repo, Logger: zap.NewNop(), Rules: rules}
	return svc
}

func TestIngestMemoizesByContent(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	data := canonicalWorkbook(t)

	a1, cached, err := svc.Ingest(context.Background(), IngestInput{Filename: "export.xlsx", Data: data})
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if cached {
		t.Fatal("first ingest must not be cached")
	}
	if len(a1.Table.Products) != 3 {
		t.Fatalf("got %d products, want 3", len(a1.Table.Products))
	}

	a2, cached, err := svc.Ingest(context.Background(), IngestInput{Filename: "renamed.xlsx", Data: data})
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if !cached {
		t.Fatal("identical content must hit the memo")
	}
	if a2.Report.ID != a1.Report.ID {
		t.Fatalf("memoized ingest returned a different report: %s vs %s", a2.Report.ID, a1.Report.ID)
	}
	if n, _ := repo.CountReports(context.Background(), repository.ListReportsParams{}); n != 1 {
		t.Fatalf("stored reports = %d, want 1", n)
	}
	if len(repo.snapshots) != 1 {
		t.Fatalf("snapshots = %d, want 1 (memo hit must not re-record)", len(repo.snapshots))
	}
}

func TestGetRehydratesFromStorage(t *testing.T) {
	repo := newStubRepo()
	data := canonicalWorkbook(t)

	first := newTestService(repo)
	a, _, err := first.Ingest(context.Background(), IngestInput{Filename: "export.xlsx", Data: data})
	if err != nil {
		t.Fatal(err)
	}

	// Fresh service, cold cache, same storage.
	second := newTestService(repo)
	got, err := second.Get(context.Background(), a.Report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("stored report not found")
	}
	if len(got.Table.Products) != 3 {
		t.Fatalf("rehydrated %d products, want 3", len(got.Table.Products))
	}
	if !got.Segments.Anchor["MLB100"] {
		t.Fatal("anchor membership lost in rehydration")
	}
	if _, ok := got.Segments.Leak["MLB200"]; !ok {
		t.Fatal("leak membership lost in rehydration")
	}
}

func TestAttachEnrichmentRecomputesRisk(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	a, _, err := svc.Ingest(context.Background(), IngestInput{Filename: "export.xlsx", Data: canonicalWorkbook(t)})
	if err != nil {
		t.Fatal(err)
	}

	enrichCSV := []byte("MLB;custo_unitario;margem_percentual;investimento_ads\nMLB100;60,00;;400,00\n")
	out, err := svc.AttachEnrichment(context.Background(), a.Report.ID, enrichCSV, "custos.csv")
	if err != nil {
		t.Fatalf("attach enrichment: %v", err)
	}
	var anchor *report.ProductFact
	for i := range out.Table.Products {
		if out.Table.Products[i].ProductID == "MLB100" {
			anchor = &out.Table.Products[i]
		}
	}
	if anchor == nil || anchor.UnitCost == nil {
		t.Fatal("enrichment not joined onto MLB100")
	}
	if !anchor.UnitCost.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("unit cost = %s, want 60", anchor.UnitCost)
	}

	for _, e := range out.Plan.Entries {
		if e.ProductID == "MLB100" && string(e.Risk) == "No data (optional)" {
			t.Fatal("risk must be classified after enrichment")
		}
	}
}

func TestAttachedEnrichmentSurvivesRehydration(t *testing.T) {
	repo := newStubRepo()
	first := newTestService(repo)
	a, _, err := first.Ingest(context.Background(), IngestInput{Filename: "export.xlsx", Data: canonicalWorkbook(t)})
	if err != nil {
		t.Fatal(err)
	}
	enrichCSV := []byte("MLB;custo_unitario\nMLB100;60,00\n")
	if _, err := first.AttachEnrichment(context.Background(), a.Report.ID, enrichCSV, "custos.csv"); err != nil {
		t.Fatalf("attach enrichment: %v", err)
	}

	// Fresh service, cold cache: the enrichment column alone must be
	// enough to rebuild the joined table.
	second := newTestService(repo)
	got, err := second.Get(context.Background(), a.Report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("stored report not found")
	}
	var cost *decimal.Decimal
	for _, p := range got.Table.Products {
		if p.ProductID == "MLB100" {
			cost = p.UnitCost
		}
	}
	if cost == nil || !cost.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("unit cost after rehydration = %v, want 60", cost)
	}
}

func TestIngestIgnoresEnrichmentWithoutIDColumn(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	// The side file has values but no id/sku column to join on.
	enrichCSV := []byte("custo_unitario;margem_percentual;investimento_ads\n60,00;;400,00\n")
	a, cached, err := svc.Ingest(context.Background(), IngestInput{
		Filename:   "export.xlsx",
		Data:       canonicalWorkbook(t),
		Enrichment: enrichCSV,
		EnrichName: "custos.csv",
	})
	if err != nil {
		t.Fatalf("ingest must degrade, not fail: %v", err)
	}
	if cached {
		t.Fatal("first ingest reported cached")
	}
	for _, p := range a.Table.Products {
		if p.HasEnrichment() {
			t.Fatalf("%s carries enrichment from an unjoinable file", p.ProductID)
		}
	}
	for _, e := range a.Plan.Entries {
		if string(e.Risk) != "No data (optional)" {
			t.Fatalf("risk for %s = %q, want the no-data label", e.ProductID, e.Risk)
		}
	}
}

func TestAttachEnrichmentWithoutIDColumnFails(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	a, _, err := svc.Ingest(context.Background(), IngestInput{Filename: "export.xlsx", Data: canonicalWorkbook(t)})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.AttachEnrichment(context.Background(), a.Report.ID,
		[]byte("custo_unitario\n10,00\n"), "custos.csv")
	if !errors.Is(err, report.ErrNoEnrichmentID) {
		t.Fatalf("explicit attach must surface the bad file, got %v", err)
	}
}

func TestFilterPlanByFrontAndSearch(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	a, _, err := svc.Ingest(context.Background(), IngestInput{Filename: "export.xlsx", Data: canonicalWorkbook(t)})
	if err != nil {
		t.Fatal(err)
	}

	leaks := FilterPlan(a, ViewFilter{Fronts: []string{"Correction, Revenue leak"}})
	if len(leaks) != 1 || leaks[0].ProductID != "MLB200" {
		t.Fatalf("front filter: got %+v", leaks)
	}

	byTitle := FilterPlan(a, ViewFilter{Search: "fone"})
	if len(byTitle) != 1 || byTitle[0].ProductID != "MLB200" {
		t.Fatalf("search filter: got %+v", byTitle)
	}

	rich := FilterFacts(a.Table, ViewFilter{MinRevenue: decimal.NewFromInt(3000)})
	if len(rich) != 2 {
		t.Fatalf("min revenue filter: got %d products, want 2", len(rich))
	}
}

func TestBuildSummary(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	a, _, err := svc.Ingest(context.Background(), IngestInput{Filename: "export.xlsx", Data: canonicalWorkbook(t)})
	if err != nil {
		t.Fatal(err)
	}

	sum := BuildSummary(a, config.DefaultRules().Risk)
	if sum.TotalListings != 3 {
		t.Fatalf("total listings = %d", sum.TotalListings)
	}
	if sum.CurveDistribution["A"] != 1 || sum.CurveDistribution["-"] != 2 {
		t.Fatalf("curve distribution = %v", sum.CurveDistribution)
	}
	if sum.ConcentrationA == nil || *sum.ConcentrationA != 1.0 {
		t.Fatalf("concentration = %v, want 1.0", sum.ConcentrationA)
	}
	if sum.ConcentrationReading == "" || sum.TicketReading == "" {
		t.Fatal("readings missing")
	}
	if sum.LeakCount != 1 || !sum.LeakValue.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("leak summary = %d / %s", sum.LeakCount, sum.LeakValue)
	}
	if sum.AnchorCount != 1 {
		t.Fatalf("anchor count = %d", sum.AnchorCount)
	}
}

package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"abccurve/internal/config"
	"abccurve/internal/report"
	"abccurve/internal/segment"
)

func sampleTable() *report.FactTable {
	ft := &report.FactTable{Channel: report.ChannelMercadoLivre}

	anchor := report.ProductFact{ProductID: "MLB100", Title: "Capa de celular",
		Curves: [4]report.Curve{report.CurveA, report.CurveA, report.CurveA, report.CurveA}}
	leak := report.ProductFact{ProductID: "MLB200", Title: "Fone bluetooth",
		Curves: [4]report.Curve{report.CurveNone, report.CurveA, report.CurveB, report.CurveC}}
	dead := report.ProductFact{ProductID: "MLB300", Title: "Chaveiro",
		Curves: [4]report.Curve{report.CurveNone, report.CurveC, report.CurveC, report.CurveC}}

	for w := 0; w < report.NumWindows; w++ {
		anchor.Quantity[w] = 10 + w
		anchor.Revenue[w] = decimal.NewFromFloat(1234.56).Add(decimal.NewFromInt(int64(w)))
	}
	leak.Quantity[1] = 20
	leak.Revenue[1] = decimal.NewFromInt(1000)
	dead.Quantity[1], dead.Quantity[2], dead.Quantity[3] = 3, 2, 5
	dead.Revenue[1] = decimal.NewFromInt(60)
	dead.Revenue[2] = decimal.NewFromInt(40)
	dead.Revenue[3] = decimal.NewFromInt(100)

	ft.Products = []report.ProductFact{anchor, leak, dead}
	return ft
}

func TestWorkbookRoundTrip(t *testing.T) {
	ft := sampleTable()

	buf, err := WriteWorkbook(FactTable(ft))
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	back, err := report.LoadCanonical(buf.Bytes())
	if err != nil {
		t.Fatalf("reload canonical: %v", err)
	}
	if len(back.Products) != len(ft.Products) {
		t.Fatalf("got %d products, want %d", len(back.Products), len(ft.Products))
	}

	byID := map[string]report.ProductFact{}
	for _, p := range back.Products {
		byID[p.ProductID] = p
	}
	for _, want := range ft.Products {
		got, ok := byID[want.ProductID]
		if !ok {
			t.Fatalf("product %s lost in round trip", want.ProductID)
		}
		for w := 0; w < report.NumWindows; w++ {
			if got.Quantity[w] != want.Quantity[w] {
				t.Fatalf("%s window %d: quantity %d, want %d", want.ProductID, w, got.Quantity[w], want.Quantity[w])
			}
			if diff := got.Revenue[w].Sub(want.Revenue[w]).Abs(); diff.GreaterThan(decimal.NewFromFloat(0.01)) {
				t.Fatalf("%s window %d: revenue %s, want %s", want.ProductID, w, got.Revenue[w], want.Revenue[w])
			}
			if got.Curves[w] != want.Curves[w] {
				t.Fatalf("%s window %d: curve %s, want %s", want.ProductID, w, got.Curves[w], want.Curves[w])
			}
		}
	}
}

func TestCSVHasBOMAndSemicolons(t *testing.T) {
	ft := sampleTable()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, FactTable(ft)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, utf8BOM) {
		t.Fatal("missing UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	if len(lines) != len(ft.Products)+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(ft.Products)+1)
	}
	if !strings.Contains(lines[0], "MLB;Título") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "1234.56") {
		t.Fatalf("money cell not rendered with two decimals: %q", lines[1])
	}
}

func TestLeakTableSortedByLoss(t *testing.T) {
	ft := sampleTable()

	small := report.ProductFact{ProductID: "MLB400", Title: "Adesivo",
		Curves: [4]report.Curve{report.CurveC, report.CurveB, report.CurveC, report.CurveC}}
	small.Quantity[1] = 2
	small.Revenue[1] = decimal.NewFromInt(80)
	ft.Products = append(ft.Products, small)

	seg := segment.Evaluate(ft, config.DefaultRules().Segment)
	tab := Leak(ft, seg)
	if len(tab.Rows) != 2 {
		t.Fatalf("got %d leak rows, want 2", len(tab.Rows))
	}
	if tab.Rows[0][0] != "MLB200" || tab.Rows[1][0] != "MLB400" {
		t.Fatalf("leak rows out of order: %v, %v", tab.Rows[0][0], tab.Rows[1][0])
	}
}

func TestAnchorsTable(t *testing.T) {
	ft := sampleTable()
	seg := segment.Evaluate(ft, config.DefaultRules().Segment)
	tab := Anchors(ft, seg)
	if len(tab.Rows) != 1 {
		t.Fatalf("got %d anchor rows, want 1", len(tab.Rows))
	}
	if tab.Rows[0][0] != "MLB100" {
		t.Fatalf("anchor row id = %v", tab.Rows[0][0])
	}
}

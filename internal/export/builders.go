package export

import (
	"sort"

	"abccurve/internal/plan"
	"abccurve/internal/report"
	"abccurve/internal/segment"
)

// Column titles follow the canonical spreadsheet vocabulary so exported
// files can be uploaded straight back into the analyzer.
var windowSuffixes = [report.NumWindows]string{"0-30", "31-60", "61-90", "91-120"}

// FactTable renders the full analyzed table in the canonical layout.
func FactTable(ft *report.FactTable) *Table {
	cols := []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
	}
	for _, s := range windowSuffixes {
		cols = append(cols,
			Column{Title: "Qntd " + s, Kind: KindInteger},
			Column{Title: "Fat. " + s, Kind: KindMoney},
			Column{Title: "Curva " + s, Kind: KindText},
		)
	}
	cols = append(cols,
		Column{Title: "Qtd total", Kind: KindInteger},
		Column{Title: "Fat total", Kind: KindMoney},
	)

	t := &Table{Name: report.CanonicalSheet, Columns: cols}
	for _, p := range ft.Products {
		row := []any{p.ProductID, p.Title}
		for w := 0; w < report.NumWindows; w++ {
			row = append(row, p.Quantity[w], p.Revenue[w], string(p.Curves[w]))
		}
		row = append(row, p.TotalQuantity(), p.TotalRevenue())
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Anchors lists the defense-front products, biggest revenue first.
func Anchors(ft *report.FactTable, seg *segment.Result) *Table {
	t := &Table{Name: "Ancoras", Columns: []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
		{Title: "Fat total", Kind: KindMoney},
		{Title: "Qtd total", Kind: KindInteger},
		{Title: "TM total", Kind: KindMoney},
		{Title: "Curva 0-30", Kind: KindText},
		{Title: "Curva 31-60", Kind: KindText},
		{Title: "Curva 61-90", Kind: KindText},
		{Title: "Curva 91-120", Kind: KindText},
	}}
	for _, p := range selectByID(ft, seg.Anchor) {
		ticket, _ := p.AverageTicket()
		t.Rows = append(t.Rows, []any{
			p.ProductID, p.Title, p.TotalRevenue(), p.TotalQuantity(), ticket,
			string(p.Curves[0]), string(p.Curves[1]), string(p.Curves[2]), string(p.Curves[3]),
		})
	}
	sortRowsByMoney(t, 2, true)
	return t
}

// Leak lists revenue-leak products with the loss estimate, biggest loss
// first.
func Leak(ft *report.FactTable, seg *segment.Result) *Table {
	t := &Table{Name: "Fuga de receita", Columns: []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
		{Title: "Curva 31-60", Kind: KindText},
		{Title: "Curva 61-90", Kind: KindText},
		{Title: "Curva 0-30", Kind: KindText},
		{Title: "Fat anterior ref", Kind: KindMoney},
		{Title: "Fat. 0-30", Kind: KindMoney},
		{Title: "Perda estimada", Kind: KindMoney},
	}}
	for _, p := range ft.Products {
		leak, ok := seg.Leak[p.ProductID]
		if !ok {
			continue
		}
		t.Rows = append(t.Rows, []any{
			p.ProductID, p.Title,
			string(p.Curves[1]), string(p.Curves[2]), string(p.Curves[0]),
			leak.ReferenceRevenue, p.Revenue[0], leak.EstimatedLoss,
		})
	}
	sortRowsByMoney(t, 7, true)
	return t
}

// Inactivate lists pause candidates.
func Inactivate(ft *report.FactTable, seg *segment.Result) *Table {
	t := &Table{Name: "Inativar", Columns: []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
		{Title: "Fat total", Kind: KindMoney},
		{Title: "Qtd total", Kind: KindInteger},
		{Title: "Curva 0-30", Kind: KindText},
		{Title: "Qntd 0-30", Kind: KindInteger},
		{Title: "Qntd 31-60", Kind: KindInteger},
		{Title: "Qntd 61-90", Kind: KindInteger},
	}}
	for _, p := range selectByID(ft, seg.Inactivate) {
		t.Rows = append(t.Rows, []any{
			p.ProductID, p.Title, p.TotalRevenue(), p.TotalQuantity(),
			string(p.Curves[0]), p.Quantity[0], p.Quantity[1], p.Quantity[2],
		})
	}
	return t
}

// Revitalize lists the quick-adjustment candidates.
func Revitalize(ft *report.FactTable, seg *segment.Result) *Table {
	t := &Table{Name: "Revitalizar", Columns: []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
		{Title: "Fat total", Kind: KindMoney},
		{Title: "Qtd total", Kind: KindInteger},
		{Title: "Curva 31-60", Kind: KindText},
		{Title: "Curva 0-30", Kind: KindText},
		{Title: "Qntd 31-60", Kind: KindInteger},
		{Title: "Qntd 0-30", Kind: KindInteger},
	}}
	for _, p := range selectByID(ft, seg.Revitalize) {
		t.Rows = append(t.Rows, []any{
			p.ProductID, p.Title, p.TotalRevenue(), p.TotalQuantity(),
			string(p.Curves[1]), string(p.Curves[0]), p.Quantity[1], p.Quantity[0],
		})
	}
	return t
}

// Opportunity lists the volume-band candidates.
func Opportunity(ft *report.FactTable, seg *segment.Result) *Table {
	t := &Table{Name: "Oportunidade 50 a 60", Columns: []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
		{Title: "Fat total", Kind: KindMoney},
		{Title: "Curva 0-30", Kind: KindText},
		{Title: "Qntd 0-30", Kind: KindInteger},
		{Title: "Curva 31-60", Kind: KindText},
		{Title: "Qntd 31-60", Kind: KindInteger},
	}}
	for _, p := range selectByID(ft, seg.Opportunity) {
		t.Rows = append(t.Rows, []any{
			p.ProductID, p.Title, p.TotalRevenue(),
			string(p.Curves[0]), p.Quantity[0], string(p.Curves[1]), p.Quantity[1],
		})
	}
	return t
}

// Combo lists dead-stock combo candidates, cheapest historical ticket
// first.
func Combo(ft *report.FactTable, seg *segment.Result) *Table {
	t := &Table{Name: "Combos e liquidacao", Columns: []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
		{Title: "TM histórico", Kind: KindMoney},
		{Title: "Fat. 31-60", Kind: KindMoney},
		{Title: "Fat. 61-90", Kind: KindMoney},
		{Title: "Fat. 91-120", Kind: KindMoney},
		{Title: "Fat. 0-30", Kind: KindMoney},
	}}
	for _, p := range selectByID(ft, seg.DeadStock) {
		ticket, _ := p.HistoricalTicket()
		t.Rows = append(t.Rows, []any{
			p.ProductID, p.Title, ticket,
			p.Revenue[1], p.Revenue[2], p.Revenue[3], p.Revenue[0],
		})
	}
	sortRowsByMoney(t, 2, false)
	return t
}

// PlanTable renders the prioritized tactical plan.
func PlanTable(ft *report.FactTable, pl *plan.Plan) *Table {
	byID := make(map[string]*report.ProductFact, len(ft.Products))
	for i := range ft.Products {
		byID[ft.Products[i].ProductID] = &ft.Products[i]
	}

	t := &Table{Name: "Plano tatico", Columns: []Column{
		{Title: "MLB", Kind: KindText},
		{Title: "Título", Kind: KindText},
		{Title: "Frente", Kind: KindText},
		{Title: "Curva 31-60", Kind: KindText},
		{Title: "Curva 0-30", Kind: KindText},
		{Title: "Qntd 31-60", Kind: KindInteger},
		{Title: "Qntd 0-30", Kind: KindInteger},
		{Title: "Fat. 0-30", Kind: KindMoney},
		{Title: "Fat total", Kind: KindMoney},
		{Title: "TM total", Kind: KindMoney},
		{Title: "TACOS 0-30", Kind: KindPercent},
		{Title: "ROAS 0-30", Kind: KindScore},
		{Title: "Lucro pós ads 0-30", Kind: KindMoney},
		{Title: "Risco", Kind: KindText},
		{Title: "Prioridade", Kind: KindScore},
		{Title: "Urgência", Kind: KindText},
		{Title: "Ação sugerida", Kind: KindText},
		{Title: "Plano 15 dias", Kind: KindText},
		{Title: "Plano 30 dias", Kind: KindText},
	}}
	for _, e := range pl.Entries {
		p, ok := byID[e.ProductID]
		if !ok {
			continue
		}
		ticket, _ := p.AverageTicket()
		t.Rows = append(t.Rows, []any{
			e.ProductID, e.Title, string(e.Front),
			string(p.Curves[1]), string(p.Curves[0]),
			p.Quantity[1], p.Quantity[0],
			p.Revenue[0], p.TotalRevenue(), ticket,
			e.Financials.Tacos, e.Financials.Roas, e.Financials.PostAdProfit,
			string(e.Risk), e.Score, e.Urgency,
			e.Action.Label, e.Action.Plan15, e.Action.Plan30,
		})
	}
	return t
}

func selectByID(ft *report.FactTable, members map[string]bool) []report.ProductFact {
	var out []report.ProductFact
	for _, p := range ft.Products {
		if members[p.ProductID] {
			out = append(out, p)
		}
	}
	return out
}

func sortRowsByMoney(t *Table, col int, desc bool) {
	sort.SliceStable(t.Rows, func(a, b int) bool {
		da := moneyCell(t.Rows[a][col])
		db := moneyCell(t.Rows[b][col])
		if desc {
			return da.GreaterThan(db)
		}
		return da.LessThan(db)
	})
}

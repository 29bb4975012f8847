// Package segment evaluates the business rule battery over an analyzed
// fact table. Every predicate is independent and operates read-only on the
// table; membership sets may overlap and are resolved to a single front
// downstream.
package segment

import (
	"github.com/shopspring/decimal"

	"abccurve/internal/config"
	"abccurve/internal/report"
)

// Leak carries the loss estimate for a revenue-leak product.
type Leak struct {
	ReferenceRevenue decimal.Decimal `json:"reference_revenue"`
	EstimatedLoss    decimal.Decimal `json:"estimated_loss"`
}

// Result holds segment membership keyed by product id.
type Result struct {
	Anchor      map[string]bool `json:"anchor"`
	Leak        map[string]Leak `json:"leak"`
	Rising      map[string]bool `json:"rising"`
	DeadStock   map[string]bool `json:"dead_stock"`
	CRecurrent  map[string]bool `json:"c_recurrent"`
	NoSales90   map[string]bool `json:"no_sales_90"`
	NoSales60   map[string]bool `json:"no_sales_60"`
	Revitalize  map[string]bool `json:"revitalize"`
	Inactivate  map[string]bool `json:"inactivate"`
	Opportunity map[string]bool `json:"opportunity"`
}

// Evaluate runs every predicate over the table. The table must already have
// curves assigned.
func Evaluate(t *report.FactTable, cfg config.SegmentConfig) *Result {
	r := &Result{
		Anchor:      map[string]bool{},
		Leak:        map[string]Leak{},
		Rising:      map[string]bool{},
		DeadStock:   map[string]bool{},
		CRecurrent:  map[string]bool{},
		NoSales90:   map[string]bool{},
		NoSales60:   map[string]bool{},
		Revitalize:  map[string]bool{},
		Inactivate:  map[string]bool{},
		Opportunity: map[string]bool{},
	}
	if t == nil {
		return r
	}
	for i := range t.Products {
		p := &t.Products[i]
		id := p.ProductID

		if isAnchor(p) {
			r.Anchor[id] = true
		}
		if leak, ok := leakOf(p); ok {
			r.Leak[id] = leak
		}
		if isRising(p) {
			r.Rising[id] = true
		}
		if isDeadStock(p, cfg) {
			r.DeadStock[id] = true
		}
		if isCRecurrent(p, cfg) {
			r.CRecurrent[id] = true
		}
		noSales60 := p.Quantity[0] == 0 && p.Quantity[1] == 0
		noSales90 := noSales60 && p.Quantity[2] == 0
		if noSales60 {
			r.NoSales60[id] = true
		}
		if noSales90 {
			r.NoSales90[id] = true
		}
		if isRevitalize(p, cfg) {
			r.Revitalize[id] = true
		}
		if isInactivate(p, cfg, noSales90, noSales60) {
			r.Inactivate[id] = true
		}
		if isOpportunity(p, cfg) {
			r.Opportunity[id] = true
		}
	}
	return r
}

func isAnchor(p *report.ProductFact) bool {
	for w := 0; w < report.NumWindows; w++ {
		if p.Curves[w] != report.CurveA {
			return false
		}
	}
	return true
}

func goodCurve(c report.Curve) bool {
	return c == report.CurveA || c == report.CurveB
}

func poorCurve(c report.Curve) bool {
	return c == report.CurveC || c == report.CurveNone
}

// leakOf detects a recent fall from a good curve. The reference revenue is
// the most recent good window; the loss never goes negative.
func leakOf(p *report.ProductFact) (Leak, bool) {
	if !poorCurve(p.Curves[0]) {
		return Leak{}, false
	}
	var ref decimal.Decimal
	switch {
	case goodCurve(p.Curves[1]):
		ref = p.Revenue[1]
	case goodCurve(p.Curves[2]):
		ref = p.Revenue[2]
	default:
		return Leak{}, false
	}
	loss := ref.Sub(p.Revenue[0])
	if loss.Sign() < 0 {
		loss = decimal.Zero
	}
	return Leak{ReferenceRevenue: ref, EstimatedLoss: loss}, true
}

func isRising(p *report.ProductFact) bool {
	if p.Curves[0] != report.CurveA {
		return false
	}
	for w := 1; w < report.NumWindows; w++ {
		if p.Curves[w] != report.CurveA {
			return true
		}
	}
	return false
}

func isDeadStock(p *report.ProductFact, cfg config.SegmentConfig) bool {
	if p.Revenue[0].Sign() != 0 {
		return false
	}
	histRev := p.HistoricalRevenue()
	if histRev.Sign() <= 0 {
		return false
	}
	histQty := p.HistoricalQuantity()
	if histQty == 0 {
		return false
	}
	ticket := histRev.Div(decimal.NewFromInt(int64(histQty)))
	return ticket.LessThan(decimal.NewFromFloat(cfg.DeadStockTicketCeiling))
}

func isCRecurrent(p *report.ProductFact, cfg config.SegmentConfig) bool {
	n := 0
	for w := 0; w < report.NumWindows; w++ {
		if p.Curves[w] == report.CurveC {
			n++
		}
	}
	return n >= cfg.CRecurrentMinWindows
}

func recentDrop(p *report.ProductFact) bool {
	return p.Curves[0].Rank() < p.Curves[1].Rank()
}

func isRevitalize(p *report.ProductFact, cfg config.SegmentConfig) bool {
	if !recentDrop(p) {
		return false
	}
	inBand := func(q int) bool {
		return q >= cfg.RevitalizeBandMin && q <= cfg.RevitalizeBandMax
	}
	if inBand(p.Quantity[0]) {
		return true
	}
	if inBand(p.Quantity[1]) && p.Quantity[0] <= cfg.RevitalizeRecentMax {
		return true
	}
	strongDrop := p.Curves[1].Rank()-p.Curves[0].Rank() >= cfg.StrongDropRankSpread
	return strongDrop && p.Quantity[0] >= cfg.RevitalizeStrongMin && p.Quantity[0] <= cfg.RevitalizeStrongMax
}

func isInactivate(p *report.ProductFact, cfg config.SegmentConfig, noSales90, noSales60 bool) bool {
	if noSales90 {
		return true
	}
	if noSales60 && poorCurve(p.Curves[0]) && recentDrop(p) {
		return true
	}
	return isCRecurrent(p, cfg) && p.Quantity[0] == 0 && p.Quantity[1] == 0
}

func isOpportunity(p *report.ProductFact, cfg config.SegmentConfig) bool {
	inBand := func(q int) bool {
		return q >= cfg.OpportunityBandMin && q <= cfg.OpportunityBandMax
	}
	return inBand(p.Quantity[0]) || inBand(p.Quantity[1])
}

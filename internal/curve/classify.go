// Package curve assigns the ABC revenue-concentration classification
// per analysis window.
package curve

import (
	"sort"

	"github.com/shopspring/decimal"

	"abccurve/internal/config"
	"abccurve/internal/report"
)

// Assign computes the curve for every product in every window, in place.
// Each window is classified independently against its own revenue
// distribution; membership is not comparable across windows beyond the
// A>B>C>"-" ordering.
func Assign(t *report.FactTable, cfg config.CurveConfig) {
	if t == nil {
		return
	}
	for w := 0; w < report.NumWindows; w++ {
		assignWindow(t.Products, w, cfg)
	}
}

// assignWindow sorts the window's revenue descending (stable, so ties keep
// table order), accumulates the cumulative share of the window total, and
// cuts at the A/B thresholds. A product with exactly zero revenue is always
// "-", even where cumulative rounding would have reached it: the zero check
// overrides the share math, not the other way around.
func assignWindow(products []report.ProductFact, w int, cfg config.CurveConfig) {
	total := decimal.Zero
	for i := range products {
		total = total.Add(products[i].Revenue[w])
	}
	if total.Sign() <= 0 {
		for i := range products {
			products[i].Curves[w] = report.CurveNone
		}
		return
	}

	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return products[idx[a]].Revenue[w].GreaterThan(products[idx[b]].Revenue[w])
	})

	aCut := decimal.NewFromFloat(cfg.AThreshold)
	bCut := decimal.NewFromFloat(cfg.BThreshold)

	cum := decimal.Zero
	for _, i := range idx {
		rev := products[i].Revenue[w]
		cum = cum.Add(rev)
		if rev.Sign() == 0 {
			products[i].Curves[w] = report.CurveNone
			continue
		}
		share := cum.Div(total)
		switch {
		case share.LessThanOrEqual(aCut):
			products[i].Curves[w] = report.CurveA
		case share.LessThanOrEqual(bCut):
			products[i].Curves[w] = report.CurveB
		default:
			products[i].Curves[w] = report.CurveC
		}
	}
}

package plan

import (
	"github.com/shopspring/decimal"

	"abccurve/internal/report"
)

// Financials carries the enrichment-derived money metrics for the most
// recent window. Nil means the input needed to derive the metric was not
// provided; that is different from a computed zero.
type Financials struct {
	AveragePrice *decimal.Decimal `json:"average_price,omitempty"`
	GrossProfit  *decimal.Decimal `json:"gross_profit,omitempty"`
	Tacos        *decimal.Decimal `json:"tacos,omitempty"`
	Roas         *decimal.Decimal `json:"roas,omitempty"`
	PostAdProfit *decimal.Decimal `json:"post_ad_profit,omitempty"`
	PostAdMargin *decimal.Decimal `json:"post_ad_margin,omitempty"`
}

// ComputeFinancials derives per-product money metrics from the 0-30 window
// and the joined enrichment fields. Gross profit prefers the unit-cost path
// and falls back to the declared margin fraction when cost is absent.
func ComputeFinancials(p *report.ProductFact) Financials {
	var f Financials

	rev := p.Revenue[0]
	qty := p.Quantity[0]

	if qty > 0 {
		avg := rev.Div(decimal.NewFromInt(int64(qty)))
		f.AveragePrice = &avg
	}

	switch {
	case p.UnitCost != nil && f.AveragePrice != nil:
		gp := f.AveragePrice.Sub(*p.UnitCost).Mul(decimal.NewFromInt(int64(qty)))
		f.GrossProfit = &gp
	case p.MarginFraction != nil:
		gp := rev.Mul(*p.MarginFraction)
		f.GrossProfit = &gp
	}

	if p.AdSpend != nil {
		if rev.Sign() > 0 {
			t := p.AdSpend.Div(rev)
			f.Tacos = &t
		}
		if p.AdSpend.Sign() > 0 {
			r := rev.Div(*p.AdSpend)
			f.Roas = &r
		}
		if f.GrossProfit != nil {
			pp := f.GrossProfit.Sub(*p.AdSpend)
			f.PostAdProfit = &pp
			if rev.Sign() > 0 {
				m := pp.Div(rev)
				f.PostAdMargin = &m
			}
		}
	}

	return f
}

package plan

import (
	"github.com/shopspring/decimal"

	"abccurve/internal/config"
	"abccurve/internal/report"
)

// Risk is the profit-risk classification attached to a product when
// enrichment data exists.
type Risk string

const (
	RiskNoData     Risk = "No data (optional)"
	RiskLoss       Risk = "High risk, loss"
	RiskHighAdCost Risk = "Medium risk, high ad cost"
	RiskGoodMargin Risk = "Opportunity, good margin"
	RiskOK         Risk = "Ok, monitor"
)

// ClassifyRisk walks the decision chain top to bottom, first match wins.
func ClassifyRisk(p *report.ProductFact, f Financials, cfg config.RiskConfig) Risk {
	if !p.HasEnrichment() {
		return RiskNoData
	}
	if f.PostAdProfit != nil && f.PostAdProfit.Sign() < 0 {
		return RiskLoss
	}
	if f.Tacos != nil && f.Tacos.GreaterThan(decimal.NewFromFloat(cfg.TacosCeiling)) {
		return RiskHighAdCost
	}
	if f.PostAdMargin != nil && f.PostAdMargin.GreaterThanOrEqual(decimal.NewFromFloat(cfg.MarginFloor)) {
		return RiskGoodMargin
	}
	return RiskOK
}

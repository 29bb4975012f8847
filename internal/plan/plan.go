// Package plan turns segmentation results into a prioritized, actionable
// plan: one front, one risk class, one action bundle and one score per
// product.
package plan

import (
	"sort"

	"github.com/shopspring/decimal"

	"abccurve/internal/config"
	"abccurve/internal/report"
	"abccurve/internal/segment"
)

// Entry is one product's row in the prioritized plan.
type Entry struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`

	Front      Front      `json:"front"`
	Risk       Risk       `json:"risk"`
	Action     Action     `json:"action"`
	Financials Financials `json:"financials"`

	EstimatedLoss *decimal.Decimal `json:"estimated_loss,omitempty"`

	Score   float64 `json:"score"`
	Urgency string  `json:"urgency"`
}

// Plan is the full prioritized output, sorted by score descending.
type Plan struct {
	Entries []Entry `json:"entries"`
}

// Build assembles the plan for every product in the table. Scoring
// normalizes estimated loss, post-ad profit and recent revenue over the
// whole population, so the result is relative to the file being analyzed.
func Build(t *report.FactTable, seg *segment.Result, rules config.RulesConfig) *Plan {
	p := &Plan{}
	if t == nil || len(t.Products) == 0 {
		return p
	}

	n := len(t.Products)
	entries := make([]Entry, n)
	losses := make([]*float64, n)
	profits := make([]*float64, n)
	revenues := make([]*float64, n)

	for i := range t.Products {
		prod := &t.Products[i]
		fin := ComputeFinancials(prod)
		risk := ClassifyRisk(prod, fin, rules.Risk)

		e := Entry{
			ProductID:  prod.ProductID,
			Title:      prod.Title,
			Front:      ResolveFront(prod.ProductID, seg),
			Risk:       risk,
			Action:     Recommend(prod, seg, risk, fin),
			Financials: fin,
		}

		if leak, ok := seg.Leak[prod.ProductID]; ok {
			loss := leak.EstimatedLoss
			e.EstimatedLoss = &loss
			v, _ := loss.Float64()
			losses[i] = &v
		}
		if fin.PostAdProfit != nil {
			v, _ := fin.PostAdProfit.Float64()
			profits[i] = &v
		}
		rev, _ := prod.Revenue[0].Float64()
		revenues[i] = &rev

		entries[i] = e
	}

	lossN := minMax(losses)
	profitN := minMax(profits)
	revN := minMax(revenues)

	for i := range entries {
		score := rules.Score.WeightLoss*lossN[i] +
			rules.Score.WeightProfit*profitN[i] +
			rules.Score.WeightRevenue*revN[i]
		score += frontBonus(entries[i].Front, rules.Score)
		score += riskBonus(entries[i].Risk, rules.Score)
		if score < 0 {
			score = 0
		}
		entries[i].Score = score
		entries[i].Urgency = urgencyLabel(score, rules.Score)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].Score != entries[b].Score {
			return entries[a].Score > entries[b].Score
		}
		return entries[a].ProductID < entries[b].ProductID
	})
	p.Entries = entries
	return p
}

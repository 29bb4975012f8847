package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductFact is the canonical per-product row of the fact table: quantity,
// revenue and curve per window, plus the optional enrichment join. Enrichment
// pointers stay nil when the seller sent no enrichment file; nil means
// "no data", which consumers must not read as zero.
type ProductFact struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`

	Quantity [NumWindows]int             `json:"quantity"`
	Revenue  [NumWindows]decimal.Decimal `json:"revenue"`
	Curves   [NumWindows]Curve           `json:"curves"`

	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	MarginFraction *decimal.Decimal `json:"margin_fraction,omitempty"`
	AdSpend        *decimal.Decimal `json:"ad_spend,omitempty"`
}

func (p ProductFact) TotalQuantity() int {
	total := 0
	for _, q := range p.Quantity {
		total += q
	}
	return total
}

func (p ProductFact) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.Revenue {
		total = total.Add(r)
	}
	return total
}

// AverageTicket is total revenue over total quantity; ok is false when the
// product never sold.
func (p ProductFact) AverageTicket() (decimal.Decimal, bool) {
	qty := p.TotalQuantity()
	if qty <= 0 {
		return decimal.Zero, false
	}
	return p.TotalRevenue().Div(decimal.NewFromInt(int64(qty))), true
}

// HistoricalRevenue sums the three windows before the current one.
func (p ProductFact) HistoricalRevenue() decimal.Decimal {
	total := decimal.Zero
	for i := 1; i < NumWindows; i++ {
		total = total.Add(p.Revenue[i])
	}
	return total
}

func (p ProductFact) HistoricalQuantity() int {
	total := 0
	for i := 1; i < NumWindows; i++ {
		total += p.Quantity[i]
	}
	return total
}

// HistoricalTicket is the average ticket over the three historical windows;
// ok is false with no historical sales.
func (p ProductFact) HistoricalTicket() (decimal.Decimal, bool) {
	qty := p.HistoricalQuantity()
	if qty <= 0 {
		return decimal.Zero, false
	}
	return p.HistoricalRevenue().Div(decimal.NewFromInt(int64(qty))), true
}

// HasEnrichment reports whether any enrichment field was supplied.
func (p ProductFact) HasEnrichment() bool {
	return p.UnitCost != nil || p.MarginFraction != nil || p.AdSpend != nil
}

// LogisticsBreakdown is the per-window shipping-mode split, an auxiliary
// reporting output computed from raw transactions. Not part of ProductFact.
type LogisticsBreakdown struct {
	Window Window `json:"window"`

	FullPct     float64 `json:"full_pct"`
	CorreiosPct float64 `json:"correios_pct"`
	FlexPct     float64 `json:"flex_pct"`
	OtherPct    float64 `json:"other_pct"`

	FullQty     int `json:"full_qty"`
	CorreiosQty int `json:"correios_qty"`
	FlexQty     int `json:"flex_qty"`
	OtherQty    int `json:"other_qty"`

	FullRevenue     decimal.Decimal `json:"full_revenue"`
	CorreiosRevenue decimal.Decimal `json:"correios_revenue"`
	FlexRevenue     decimal.Decimal `json:"flex_revenue"`
	OtherRevenue    decimal.Decimal `json:"other_revenue"`
}

// AdsBreakdown is the per-window ad-sale vs organic split.
type AdsBreakdown struct {
	Window Window `json:"window"`

	AdsPct     float64 `json:"ads_pct"`
	OrganicPct float64 `json:"organic_pct"`

	AdsQty     int `json:"ads_qty"`
	OrganicQty int `json:"organic_qty"`

	AdsRevenue     decimal.Decimal `json:"ads_revenue"`
	OrganicRevenue decimal.Decimal `json:"organic_revenue"`
}

// FactTable is the immutable result of parsing one upload. Built once,
// cached by content identity, consumed read-only by every downstream stage.
type FactTable struct {
	Channel       string               `json:"channel"`
	ReferenceDate time.Time            `json:"reference_date"`
	Products      []ProductFact        `json:"products"`
	Logistics     []LogisticsBreakdown `json:"logistics,omitempty"`
	Ads           []AdsBreakdown       `json:"ads,omitempty"`
}

func (t *FactTable) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range t.Products {
		total = total.Add(p.TotalRevenue())
	}
	return total
}

func (t *FactTable) TotalQuantity() int {
	total := 0
	for _, p := range t.Products {
		total += p.TotalQuantity()
	}
	return total
}

// Enrichment is one row of the optional cost/margin/ad-spend file,
// keyed by product id.
type Enrichment struct {
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	MarginFraction *decimal.Decimal `json:"margin_fraction,omitempty"`
	AdSpend        *decimal.Decimal `json:"ad_spend,omitempty"`
}

// JoinEnrichment left-joins enrichment rows onto the fact table. Products
// without a row keep nil fields.
func JoinEnrichment(t *FactTable, enrich map[string]Enrichment) {
	if t == nil || len(enrich) == 0 {
		return
	}
	for i := range t.Products {
		e, ok := enrich[t.Products[i].ProductID]
		if !ok {
			continue
		}
		t.Products[i].UnitCost = e.UnitCost
		t.Products[i].MarginFraction = e.MarginFraction
		t.Products[i].AdSpend = e.AdSpend
	}
}

package service

import (
	"time"

	"github.com/shopspring/decimal"

	"abccurve/internal/config"
	"abccurve/internal/report"
)

// WindowKPI is the per-window aggregate line of the dashboard.
type WindowKPI struct {
	Window        report.Window    `json:"window"`
	Quantity      int              `json:"quantity"`
	Revenue       decimal.Decimal  `json:"revenue"`
	AverageTicket *decimal.Decimal `json:"average_ticket,omitempty"`
}

// CurveRevenue is revenue grouped by curve inside one window.
type CurveRevenue struct {
	Window  report.Window   `json:"window"`
	Curve   report.Curve    `json:"curve"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary is the macro diagnosis of one analysis.
type Summary struct {
	Channel       string     `json:"channel"`
	ReferenceDate *time.Time `json:"reference_date,omitempty"`

	TotalListings int              `json:"total_listings"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	TotalQuantity int              `json:"total_quantity"`
	AverageTicket *decimal.Decimal `json:"average_ticket,omitempty"`

	WindowKPIs        []WindowKPI    `json:"window_kpis"`
	CurveDistribution map[string]int `json:"curve_distribution"`
	RevenueByCurve    []CurveRevenue `json:"revenue_by_curve"`

	ConcentrationA       *float64 `json:"concentration_a,omitempty"`
	ConcentrationReading string   `json:"concentration_reading"`
	TicketReading        string   `json:"ticket_reading"`

	FrontCounts map[string]int `json:"front_counts"`

	LeakCount int             `json:"leak_count"`
	LeakValue decimal.Decimal `json:"leak_value"`

	AnchorCount int             `json:"anchor_count"`
	AnchorValue decimal.Decimal `json:"anchor_value"`
}

// BuildSummary computes the macro diagnosis over a full analysis.
func BuildSummary(a *Analysis, cfg config.RiskConfig) *Summary {
	if a == nil || a.Table == nil {
		return &Summary{}
	}
	t := a.Table

	s := &Summary{
		Channel:           t.Channel,
		TotalListings:     len(t.Products),
		TotalRevenue:      t.TotalRevenue(),
		TotalQuantity:     t.TotalQuantity(),
		CurveDistribution: map[string]int{"A": 0, "B": 0, "C": 0, "-": 0},
		FrontCounts:       map[string]int{},
		LeakValue:         decimal.Zero,
		AnchorValue:       decimal.Zero,
	}
	if !t.ReferenceDate.IsZero() {
		ref := t.ReferenceDate
		s.ReferenceDate = &ref
	}
	if s.TotalQuantity > 0 {
		ticket := s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalQuantity)))
		s.AverageTicket = &ticket
	}

	revByCurve := map[int]map[report.Curve]decimal.Decimal{}
	for w := 0; w < report.NumWindows; w++ {
		revByCurve[w] = map[report.Curve]decimal.Decimal{}
	}
	windowQty := [report.NumWindows]int{}
	windowRev := [report.NumWindows]decimal.Decimal{}
	recentARev := decimal.Zero

	for _, p := range t.Products {
		s.CurveDistribution[string(p.Curves[0])]++
		for w := 0; w < report.NumWindows; w++ {
			windowQty[w] += p.Quantity[w]
			windowRev[w] = windowRev[w].Add(p.Revenue[w])
			revByCurve[w][p.Curves[w]] = revByCurve[w][p.Curves[w]].Add(p.Revenue[w])
		}
		if p.Curves[0] == report.CurveA {
			recentARev = recentARev.Add(p.Revenue[0])
		}
	}

	for w, win := range report.Windows {
		kpi := WindowKPI{Window: win, Quantity: windowQty[w], Revenue: windowRev[w]}
		if windowQty[w] > 0 {
			ticket := windowRev[w].Div(decimal.NewFromInt(int64(windowQty[w])))
			kpi.AverageTicket = &ticket
		}
		s.WindowKPIs = append(s.WindowKPIs, kpi)
		for _, c := range []report.Curve{report.CurveA, report.CurveB, report.CurveC, report.CurveNone} {
			s.RevenueByCurve = append(s.RevenueByCurve, CurveRevenue{
				Window:  win,
				Curve:   c,
				Revenue: revByCurve[w][c],
			})
		}
	}

	if windowRev[0].Sign() > 0 {
		conc, _ := recentARev.Div(windowRev[0]).Float64()
		s.ConcentrationA = &conc
	}
	s.ConcentrationReading = concentrationReading(s.ConcentrationA, cfg)
	s.TicketReading = ticketReading(s.WindowKPIs)

	if a.Segments != nil {
		for _, leak := range a.Segments.Leak {
			s.LeakCount++
			s.LeakValue = s.LeakValue.Add(leak.EstimatedLoss)
		}
		s.AnchorCount = len(a.Segments.Anchor)
		for _, p := range t.Products {
			if a.Segments.Anchor[p.ProductID] {
				s.AnchorValue = s.AnchorValue.Add(p.TotalRevenue())
			}
		}
	}
	if a.Plan != nil {
		for _, e := range a.Plan.Entries {
			s.FrontCounts[string(e.Front)]++
		}
	}
	return s
}

func concentrationReading(conc *float64, cfg config.RiskConfig) string {
	switch {
	case conc == nil:
		return "No recent revenue to measure curve-A concentration."
	case *conc >= cfg.ConcentrationHigh:
		return "High dependence on curve A. A stockout or a competitor on a few items hits the month directly."
	case *conc >= cfg.ConcentrationModerate:
		return "Moderate dependence. Worth promoting strong B items to reduce risk."
	default:
		return "Low dependence. Less risk, but it demands attention to catalog efficiency."
	}
}

// ticketReading compares the weighted average ticket of the three most
// recent windows, oldest to newest, the way an account manager reads it.
func ticketReading(kpis []WindowKPI) string {
	if len(kpis) < 3 || kpis[0].AverageTicket == nil || kpis[1].AverageTicket == nil || kpis[2].AverageTicket == nil {
		return "Not enough data to read the average ticket."
	}
	a := *kpis[0].AverageTicket // 0-30
	b := *kpis[1].AverageTicket // 31-60
	c := *kpis[2].AverageTicket // 61-90
	switch {
	case a.LessThan(b) && b.LessThan(c):
		return "The average ticket is rising consistently. That tends to help margin, but can cut volume if prices are stretching."
	case a.GreaterThan(b) && b.GreaterThan(c):
		return "The average ticket is falling consistently. That may point to promotions or a cheaper mix, and it usually squeezes margin."
	case b.LessThan(a) && c.GreaterThan(b):
		return "The ticket fell and then recovered. Usually promotions followed by the mix or pricing coming back."
	case b.GreaterThan(a) && c.LessThan(b):
		return "The ticket rose and then fell. It can be a stockout of higher-value items or a change in the mix."
	default:
		return "The average ticket is oscillating. Cross-check mix and competition to understand the margin impact."
	}
}

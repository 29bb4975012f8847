package plan

import (
	"fmt"
	"strings"

	"abccurve/internal/report"
	"abccurve/internal/segment"
)

// Action bundles the suggested action label with the timed execution plans.
type Action struct {
	Label  string `json:"label"`
	Plan15 string `json:"plan_15"`
	Plan30 string `json:"plan_30"`
}

// Recommend builds the action text for one product. Segment membership is
// checked in a fixed order; cleanup candidates come first because pausing a
// dead listing beats polishing it. The risk detail is appended to the label
// whenever enrichment produced a classification.
func Recommend(p *report.ProductFact, seg *segment.Result, risk Risk, f Financials) Action {
	detail := riskDetail(risk, f)
	id := p.ProductID

	switch {
	case seg.Inactivate[id]:
		return Action{
			Label: "Deactivate or pause." + detail,
			Plan15: "Day 1 to 3: confirm the listing is active, in stock and priced right. If all checks out and it still does not sell, pause it.\n" +
				"Day 4 to 10: move the focus to items that turn over.\n" +
				"Day 11 to 15: keep it paused unless there is a recovery signal.",
			Plan30: "Week 1: decide whether it stays in the catalog.\n" +
				"Week 2: if it stays, reactivate with a minimum sales target and a simple adjustment.\n" +
				"Week 3 and 4: if it does not react, deactivate for good.",
		}
	case seg.DeadStock[id]:
		return Action{
			Label: "Clearance or bundles." + detail,
			Plan15: "Day 1 to 5: build a bundle with anchors or B items. The goal is turnover, not maximum margin.\n" +
				"Day 6 to 15: adjust the bundle price and improve the listing offer.",
			Plan30: "Week 1: create kits and variations to increase outflow.\n" +
				"Week 2 to 4: if it turns, keep the strategy. If not, move toward deactivation.",
		}
	case hasLeak(id, seg):
		return Action{
			Label: "Immediate revenue-leak correction." + detail,
			Plan15: "Day 1 to 2: check stockouts, delivery time, reputation and direct competition.\n" +
				"Day 3 to 7: adjust price and shipping into the competitive range.\n" +
				"Day 8 to 15: light ads on exact terms, cut waste.",
			Plan30: "Week 1: adjust title and attributes to recover relevance.\n" +
				"Week 2: optimize the listing page for conversion.\n" +
				"Week 3 and 4: keep spend only where there are sales and recover the curve.",
		}
	case seg.Anchor[id]:
		return Action{
			Label: "Defense and controlled scaling." + detail,
			Plan15: "Day 1 to 3: secure stock and avoid stockouts.\n" +
				"Day 4 to 10: improve conversion (title, photos, variations).\n" +
				"Day 11 to 15: raise budget in small steps, watch for waste.",
			Plan30: "Week 1: split campaigns by intent.\n" +
				"Week 2: small price test if it makes sense.\n" +
				"Week 3 and 4: scale while keeping ticket and margin under control.",
		}
	case seg.Rising[id]:
		return Action{
			Label: "Attack to consolidate growth." + detail,
			Plan15: "Day 1 to 5: identify the growth trigger and replicate it.\n" +
				"Day 6 to 10: widen exposure on profitable terms.\n" +
				"Day 11 to 15: reinforce the page to hold conversion.",
			Plan30: "Week 1: separate campaigns for strong terms and long tail.\n" +
				"Week 2: protect the average ticket.\n" +
				"Week 3 and 4: scale without locking up stock.",
		}
	case seg.Opportunity[id]:
		return Action{
			Label: "Volume-band opportunity, leverage or drain." + detail,
			Plan15: "Day 1 to 3: validate margin and competitiveness.\n" +
				"Day 4 to 10: widen exposure on terms that sell.\n" +
				"Day 11 to 15: adjust bids only on winning terms.",
			Plan30: "Week 1: optimize the page for conversion.\n" +
				"Week 2: test a kit or variation to raise the ticket.\n" +
				"Week 3 and 4: consolidate as a scaling project or drain with a clear target.",
		}
	case seg.Revitalize[id]:
		return Action{
			Label: "Revitalize with a quick adjustment." + detail,
			Plan15: "Day 1 to 4: audit the listing, price, shipping, title, photos and stock.\n" +
				"Day 5 to 10: light campaign on specific terms.\n" +
				"Day 11 to 15: increase only where there are sales.",
			Plan30: "Week 1: reorganize variations and attributes.\n" +
				"Week 2: test a kit or a commercial condition.\n" +
				"Week 3 and 4: if it does not react, lower the priority.",
		}
	}

	switch p.Curves[0] {
	case report.CurveA:
		return Action{
			Label:  "Hold and optimize." + detail,
			Plan15: "Day 1 to 7: cut waste and improve conversion.\nDay 8 to 15: adjust bids and terms.",
			Plan30: "Week 1: page improvements.\nWeek 2 to 4: scale only if ticket and turnover hold.",
		}
	case report.CurveB, report.CurveC:
		return Action{
			Label:  "Optimize and set the focus." + detail,
			Plan15: "Day 1 to 5: check competitiveness and terms.\nDay 6 to 15: decide whether it becomes growth or mix.",
			Plan30: "Week 1: strategy by margin and turnover.\nWeek 2 to 4: execute and measure.",
		}
	default:
		return Action{
			Label:  "No recent sales, review continuity." + detail,
			Plan15: "Day 1 to 7: confirm the listing is active and in stock.\nDay 8 to 15: if there is no signal, pause.",
			Plan30: "Week 1: test minimal adjustments.\nWeek 2 to 4: if it does not react, deactivate.",
		}
	}
}

func riskDetail(risk Risk, f Financials) string {
	if risk == RiskNoData {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, " Risk: %s.", risk)
	if f.Tacos != nil {
		fmt.Fprintf(&b, " TACOS 0-30: %s%%.", f.Tacos.Mul(hundred).Round(2))
	}
	if f.PostAdProfit != nil {
		fmt.Fprintf(&b, " Post-ad profit 0-30: R$ %s.", f.PostAdProfit.StringFixed(2))
	}
	return b.String()
}

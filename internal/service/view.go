package service

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"abccurve/internal/plan"
	"abccurve/internal/report"
)

// ViewFilter narrows a computed analysis for presentation. Zero values mean
// no filtering on that axis.
type ViewFilter struct {
	Curves     []string // recent-window curve letters: A, B, C, -
	Fronts     []string
	MinRevenue decimal.Decimal // minimum total revenue across all windows
	Search     string          // case-insensitive match on id or title
}

// FilterFacts returns the products that pass the filter, in table order.
func FilterFacts(t *report.FactTable, f ViewFilter) []report.ProductFact {
	if t == nil {
		return nil
	}
	curves := curveSet(f.Curves)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	return lo.Filter(t.Products, func(p report.ProductFact, _ int) bool {
		if len(curves) > 0 && !curves[string(p.Curves[0])] {
			return false
		}
		if f.MinRevenue.Sign() > 0 && p.TotalRevenue().LessThan(f.MinRevenue) {
			return false
		}
		if search != "" && !matches(p.ProductID, p.Title, search) {
			return false
		}
		return true
	})
}

// FilterPlan returns the plan entries that pass the filter, keeping the
// score order.
func FilterPlan(a *Analysis, f ViewFilter) []plan.Entry {
	if a == nil || a.Plan == nil {
		return nil
	}
	fronts := lo.SliceToMap(f.Fronts, func(v string) (string, bool) {
		return strings.ToLower(strings.TrimSpace(v)), true
	})
	curves := curveSet(f.Curves)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	byID := make(map[string]*report.ProductFact, len(a.Table.Products))
	for i := range a.Table.Products {
		byID[a.Table.Products[i].ProductID] = &a.Table.Products[i]
	}

	return lo.Filter(a.Plan.Entries, func(e plan.Entry, _ int) bool {
		if len(fronts) > 0 && !fronts[strings.ToLower(string(e.Front))] {
			return false
		}
		p, ok := byID[e.ProductID]
		if !ok {
			return false
		}
		if len(curves) > 0 && !curves[string(p.Curves[0])] {
			return false
		}
		if f.MinRevenue.Sign() > 0 && p.TotalRevenue().LessThan(f.MinRevenue) {
			return false
		}
		if search != "" && !matches(e.ProductID, e.Title, search) {
			return false
		}
		return true
	})
}

func curveSet(curves []string) map[string]bool {
	set := map[string]bool{}
	for _, c := range curves {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = true
		}
	}
	return set
}

func matches(id, title, search string) bool {
	return strings.Contains(strings.ToLower(id), search) ||
		strings.Contains(strings.ToLower(title), search)
}

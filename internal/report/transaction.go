package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one sale row of a raw export. It only lives long enough to
// be bucketed and aggregated; nothing downstream sees individual rows.
type Transaction struct {
	Date      time.Time
	Quantity  int
	Revenue   decimal.Decimal
	ProductID string
	Title     string
	Shipping  string
	AdSale    bool
}

// Aggregate buckets transactions into windows relative to the newest
// transaction date, sums quantity and revenue per (product, window), and
// computes the logistics and ads side breakdowns. Curves are not assigned
// here. An empty input yields an empty, valid table.
func Aggregate(channel string, txs []Transaction) *FactTable {
	table := &FactTable{Channel: channel}
	if len(txs) == 0 {
		table.Products = []ProductFact{}
		return table
	}

	ref := txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.After(ref) {
			ref = tx.Date
		}
	}
	table.ReferenceDate = ref

	type key struct {
		id     string
		window int
	}
	sums := make(map[key]*struct {
		qty int
		rev decimal.Decimal
	})
	titles := make(map[string]string)
	order := make([]string, 0)

	type sideCount struct {
		rows                                    int
		full, correios, flex, other             int
		fullRev, correiosRev, flexRev, otherRev decimal.Decimal
		ads, organic                            int
		adsRev, organicRev                      decimal.Decimal
	}
	var sides [NumWindows]sideCount

	for _, tx := range txs {
		age := daysBetween(tx.Date, ref)
		w, ok := WindowForAge(age)
		if !ok {
			continue
		}

		if _, seen := titles[tx.ProductID]; !seen {
			titles[tx.ProductID] = tx.Title
			order = append(order, tx.ProductID)
		}
		k := key{id: tx.ProductID, window: w}
		agg := sums[k]
		if agg == nil {
			agg = &struct {
				qty int
				rev decimal.Decimal
			}{rev: decimal.Zero}
			sums[k] = agg
		}
		agg.qty += tx.Quantity
		agg.rev = agg.rev.Add(tx.Revenue)

		side := &sides[w]
		side.rows++
		switch classifyShipping(tx.Shipping) {
		case shippingFull:
			side.full++
			side.fullRev = side.fullRev.Add(tx.Revenue)
		case shippingCorreios:
			side.correios++
			side.correiosRev = side.correiosRev.Add(tx.Revenue)
		case shippingFlex:
			side.flex++
			side.flexRev = side.flexRev.Add(tx.Revenue)
		default:
			side.other++
			side.otherRev = side.otherRev.Add(tx.Revenue)
		}
		if tx.AdSale {
			side.ads++
			side.adsRev = side.adsRev.Add(tx.Revenue)
		} else {
			side.organic++
			side.organicRev = side.organicRev.Add(tx.Revenue)
		}
	}

	sort.Strings(order)
	table.Products = make([]ProductFact, 0, len(order))
	for _, id := range order {
		fact := ProductFact{ProductID: id, Title: titles[id]}
		for w := range Windows {
			fact.Revenue[w] = decimal.Zero
			fact.Curves[w] = CurveNone
			if agg, ok := sums[key{id: id, window: w}]; ok {
				fact.Quantity[w] = agg.qty
				fact.Revenue[w] = agg.rev
			}
		}
		table.Products = append(table.Products, fact)
	}

	table.Logistics = make([]LogisticsBreakdown, 0, NumWindows)
	table.Ads = make([]AdsBreakdown, 0, NumWindows)
	for w, win := range Windows {
		side := sides[w]
		log := LogisticsBreakdown{
			Window:          win,
			FullQty:         side.full,
			CorreiosQty:     side.correios,
			FlexQty:         side.flex,
			OtherQty:        side.other,
			FullRevenue:     side.fullRev,
			CorreiosRevenue: side.correiosRev,
			FlexRevenue:     side.flexRev,
			OtherRevenue:    side.otherRev,
		}
		ads := AdsBreakdown{
			Window:         win,
			AdsQty:         side.ads,
			OrganicQty:     side.organic,
			AdsRevenue:     side.adsRev,
			OrganicRevenue: side.organicRev,
		}
		if side.rows > 0 {
			total := float64(side.rows)
			log.FullPct = float64(side.full) / total
			log.CorreiosPct = float64(side.correios) / total
			log.FlexPct = float64(side.flex) / total
			log.OtherPct = float64(side.other) / total
			ads.AdsPct = float64(side.ads) / total
			ads.OrganicPct = float64(side.organic) / total
		}
		table.Logistics = append(table.Logistics, log)
		table.Ads = append(table.Ads, ads)
	}

	return table
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

type shippingClass int

const (
	shippingOther shippingClass = iota
	shippingFull
	shippingCorreios
	shippingFlex
)

// classifyShipping mirrors the marketplace's own shipping vocabulary;
// anything unknown falls into "other".
func classifyShipping(mode string) shippingClass {
	s := strings.ToLower(mode)
	switch {
	case strings.Contains(s, "full"):
		return shippingFull
	case strings.Contains(s, "correios"),
		strings.Contains(s, "pontos"),
		strings.Contains(s, "ponto de envio"):
		return shippingCorreios
	case strings.Contains(s, "flex"):
		return shippingFlex
	default:
		return shippingOther
	}
}

package plan

import (
	"github.com/shopspring/decimal"

	"abccurve/internal/config"
)

var hundred = decimal.NewFromInt(100)

// Urgency labels derived from the priority score.
const (
	UrgencyNow     = "now"
	UrgencyWeek    = "this week"
	UrgencyMonth   = "this month"
	UrgencyMonitor = "monitor"
)

// minMax normalizes a series to [0,1]. Nil entries stay 0. A degenerate
// series, constant or all nil, normalizes to all zeros rather than NaN.
func minMax(vals []*float64) []float64 {
	out := make([]float64, len(vals))
	var lo, hi float64
	seen := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		if !seen {
			lo, hi = *v, *v
			seen = true
			continue
		}
		if *v < lo {
			lo = *v
		}
		if *v > hi {
			hi = *v
		}
	}
	if !seen || hi == lo {
		return out
	}
	span := hi - lo
	for i, v := range vals {
		if v != nil {
			out[i] = (*v - lo) / span
		}
	}
	return out
}

func frontBonus(f Front, cfg config.ScoreConfig) float64 {
	switch f {
	case FrontCorrection:
		return cfg.BonusLeak
	case FrontAttack:
		return cfg.BonusRising
	case FrontDefense:
		return cfg.BonusAnchor
	case FrontCleanup:
		return -cfg.PenaltyCleanup
	default:
		return 0
	}
}

func riskBonus(r Risk, cfg config.ScoreConfig) float64 {
	switch r {
	case RiskGoodMargin:
		return cfg.BonusGoodMargin
	case RiskLoss:
		return -cfg.PenaltyHighRisk
	default:
		return 0
	}
}

func urgencyLabel(score float64, cfg config.ScoreConfig) string {
	switch {
	case score >= cfg.UrgencyNow:
		return UrgencyNow
	case score >= cfg.UrgencyWeek:
		return UrgencyWeek
	case score >= cfg.UrgencyMonth:
		return UrgencyMonth
	default:
		return UrgencyMonitor
	}
}

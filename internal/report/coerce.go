package report

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseMoney coerces one localized money cell. The exports mix plain numbers
// with Brazilian-formatted strings ("1.234,56", "R$ 45,90"); when both "."
// and "," appear, "." is the thousands separator. Unparseable cells coerce
// to zero, never error: a few malformed rows must not block the report.
func ParseMoney(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseQuantity coerces a unit count; unparseable or fractional garbage
// coerces to zero.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return int(f)
	}
	return 0
}

// ParsePercent coerces "31,93%" style cells into a fraction.
func ParsePercent(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f / 100
}

// dayFirstLayouts are the general day-first attempts, plus the ISO forms a
// spreadsheet library may hand back for real date cells.
var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"01-02-06 15:04",
	"01-02-06",
}

// explicitLayouts is the second stage: the exact formats the marketplace
// export is known to use.
var explicitLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// excel serial date range guard: ~1954 through ~2064.
const (
	excelSerialMin = 20000
	excelSerialMax = 60000
)

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func parseWithLayouts(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Unformatted date cells come through as the raw serial number.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= excelSerialMin && f <= excelSerialMax {
		days := int(f)
		frac := f - float64(days)
		t := excelEpoch.AddDate(0, 0, days)
		return t.Add(time.Duration(frac * 24 * float64(time.Hour))), true
	}
	return time.Time{}, false
}

var ptMonths = map[string]string{
	"janeiro":   "01",
	"fevereiro": "02",
	"março":     "03",
	"marco":     "03",
	"abril":     "04",
	"maio":      "05",
	"junho":     "06",
	"julho":     "07",
	"agosto":    "08",
	"setembro":  "09",
	"outubro":   "10",
	"novembro":  "11",
	"dezembro":  "12",
}

var (
	timeSuffixRe = regexp.MustCompile(`\b\d{1,2}h(?:s\.?)?(?:\d{2})?\b`)
	deSepRe      = regexp.MustCompile(`\s*\bde\b\s*`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// parseNaturalDate is the last-resort stage for written-out dates like
// "14 de março de 2024 10h30": month names become numbers, the
// time-of-day suffix is dropped, and the result goes through the
// day-first layouts again.
func parseNaturalDate(raw string) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return time.Time{}, false
	}
	s = timeSuffixRe.ReplaceAllString(s, "")
	for name, num := range ptMonths {
		s = strings.ReplaceAll(s, name, num)
	}
	s = deSepRe.ReplaceAllString(s, "/")
	s = spacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
	return parseWithLayouts(s, dayFirstLayouts)
}

// ParseDateColumn coerces a whole raw date column in stages: general
// day-first parsing, then the explicit export formats, then the natural
// language fallback. A stage applies to the entire column and the next
// only runs when the previous one parsed nothing at all, since retrying
// per row would mask a systematic format mismatch. Entries that still fail
// stay nil and their rows are dropped by the caller.
func ParseDateColumn(raw []string) []*time.Time {
	out := make([]*time.Time, len(raw))

	stages := []func(string) (time.Time, bool){
		func(s string) (time.Time, bool) { return parseWithLayouts(s, dayFirstLayouts) },
		func(s string) (time.Time, bool) { return parseWithLayouts(s, explicitLayouts) },
		parseNaturalDate,
	}

	for _, stage := range stages {
		matched := 0
		for i, s := range raw {
			if t, ok := stage(s); ok {
				t := t
				out[i] = &t
				matched++
			}
		}
		if matched > 0 {
			return out
		}
	}
	return out
}

// Package export renders analysis results as delimited text or as a
// formatted spreadsheet workbook.
package export

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind drives per-column cell formatting in both output formats.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindMoney
	KindPercent
	KindScore
)

type Column struct {
	Title string
	Kind  Kind
}

// Table is a format-agnostic grid. Cells hold string, int, float64,
// decimal.Decimal or nil; the writers format them per column kind.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// moneyCell reads a cell back as a decimal for sorting.
func moneyCell(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x != nil {
			return *x
		}
	case float64:
		return decimal.NewFromFloat(x)
	}
	return decimal.Zero
}

// cellString renders one cell for the delimited output. Money keeps two
// decimal places with a dot separator so the canonical reader can load the
// file back.
func cellString(v any, k Kind) string {
	if v == nil {
		return "-"
	}
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		switch k {
		case KindPercent:
			return decimal.NewFromFloat(x * 100).Round(2).String() + "%"
		case KindMoney:
			return decimal.NewFromFloat(x).StringFixed(2)
		default:
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
	case decimal.Decimal:
		switch k {
		case KindPercent:
			return x.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
		case KindMoney:
			return x.StringFixed(2)
		default:
			return x.String()
		}
	case *decimal.Decimal:
		if x == nil {
			return "-"
		}
		return cellString(*x, k)
	default:
		return fmt.Sprint(x)
	}
}

package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ChannelCanonical = "canonical"

// CanonicalSheet is the sheet name a pre-built curve workbook is recognized
// by; its presence bypasses raw parsing entirely.
const CanonicalSheet = "Export"

var canonicalWindowSuffixes = [NumWindows]string{"0-30", "31-60", "61-90", "91-120"}

// LoadCanonical reads a workbook already in the wide per-product shape
// (one row per product, quantity/revenue/curve columns per window). Missing
// metric columns default to zero and missing curve columns to "-", matching
// how partial sheets are tolerated everywhere else.
func LoadCanonical(data []byte) (*FactTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if !hasSheet(f, CanonicalSheet) {
		return nil, fmt.Errorf("sheet %q not found", CanonicalSheet)
	}
	rows, err := readSheetRows(f, CanonicalSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", CanonicalSheet, err)
	}
	if len(rows) == 0 {
		return &FactTable{Channel: ChannelCanonical, Products: []ProductFact{}}, nil
	}

	cols := rows[0]
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	colID, err := requireColumn(cols, "product id", "MLB")
	if err != nil {
		return nil, err
	}
	colTitle, _ := resolveColumn(cols, "Título")

	var colQty, colRev, colCurve [NumWindows]int
	var hasQty, hasRev, hasCurve [NumWindows]bool
	for w, suffix := range canonicalWindowSuffixes {
		colQty[w], hasQty[w] = resolveColumn(cols, "Qntd "+suffix)
		colRev[w], hasRev[w] = resolveColumn(cols, "Fat. "+suffix)
		colCurve[w], hasCurve[w] = resolveColumn(cols, "Curva "+suffix)
	}

	table := &FactTable{
		Channel:       ChannelCanonical,
		ReferenceDate: time.Time{},
		Products:      []ProductFact{},
	}
	for _, row := range rows[1:] {
		id := cellAt(row, colID)
		if blankIdentifier(id) {
			continue
		}
		fact := ProductFact{ProductID: id}
		if colTitle >= 0 {
			fact.Title = cellAt(row, colTitle)
		}
		for w := range Windows {
			fact.Revenue[w] = decimal.Zero
			fact.Curves[w] = CurveNone
			if hasQty[w] {
				fact.Quantity[w] = ParseQuantity(cellAt(row, colQty[w]))
			}
			if hasRev[w] {
				fact.Revenue[w] = ParseMoney(cellAt(row, colRev[w]))
			}
			if hasCurve[w] {
				if c := Curve(cellAt(row, colCurve[w])); c.Valid() {
					fact.Curves[w] = c
				}
			}
		}
		table.Products = append(table.Products, fact)
	}

	return table, nil
}

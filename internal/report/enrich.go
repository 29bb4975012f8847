package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrNoEnrichmentID means the enrichment file has no resolvable product-id
// column. By contract this downgrades to "no enrichment provided" rather
// than failing the analysis.
var ErrNoEnrichmentID = errors.New("enrichment file has no product id column")

var enrichmentIDAliases = []string{"MLB", "mlb", "Mlb", "sku", "SKU", "id", "ID"}

// ParseEnrichment reads the optional cost/margin/ad-spend file (xlsx or
// delimited text) into a map keyed by product id. Duplicate ids keep the
// last row. Margins supplied as percentages (>1) are normalized to
// fractions. Any subset of the value columns may be present.
func ParseEnrichment(data []byte, filename string) (map[string]Enrichment, error) {
	rows, err := enrichmentRows(data, filename)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoEnrichmentID
	}

	cols := rows[0]
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	colID, ok := -1, false
	for _, alias := range enrichmentIDAliases {
		for i, c := range cols {
			if c == alias {
				colID, ok = i, true
				break
			}
		}
		if ok {
			break
		}
	}
	if !ok {
		return nil, ErrNoEnrichmentID
	}

	colCost, hasCost := resolveColumn(cols, "custo_unitario")
	colMargin, hasMargin := resolveColumn(cols, "margem_percentual")
	colAds, hasAds := resolveColumn(cols, "investimento_ads")

	out := make(map[string]Enrichment)
	for _, row := range rows[1:] {
		id := cellAt(row, colID)
		if blankIdentifier(id) {
			continue
		}
		var e Enrichment
		if hasCost {
			e.UnitCost = optionalMoney(cellAt(row, colCost))
		}
		if hasMargin {
			e.MarginFraction = normalizeMargin(optionalMoney(cellAt(row, colMargin)))
		}
		if hasAds {
			e.AdSpend = optionalMoney(cellAt(row, colAds))
		}
		out[id] = e
	}
	return out, nil
}

// optionalMoney keeps the no-data/zero distinction: blank cells stay nil.
func optionalMoney(raw string) *decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d := ParseMoney(raw)
	return &d
}

// normalizeMargin maps percentage-style margins (45 meaning 45%) onto the
// fraction scale used everywhere else.
func normalizeMargin(m *decimal.Decimal) *decimal.Decimal {
	if m == nil {
		return nil
	}
	if m.GreaterThan(decimal.NewFromInt(1)) {
		d := m.Div(decimal.NewFromInt(100))
		return &d
	}
	return m
}

func enrichmentRows(data []byte, filename string) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return readDelimited(data)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Not a workbook; fall back to delimited text.
		return readDelimited(data)
	}
	defer f.Close()
	sheet := firstSheet(f)
	if sheet == "" {
		return nil, ErrNoEnrichmentID
	}
	return readSheetRows(f, sheet)
}

// readDelimited sniffs the separator from the header line; seller files
// arrive both comma- and semicolon-separated.
func readDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	head, _, _ := bytes.Cut(data, []byte("\n"))
	sep := ','
	if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
		sep = ';'
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return rows, nil
}

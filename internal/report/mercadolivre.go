package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const ChannelMercadoLivre = "mercado-livre"

// mlHeaderAnchors identify the real header row below the export's metadata
// preamble.
var mlHeaderAnchors = []string{"data da venda", "# de anúncio", "de anúncio"}

// adSaleValues are the affirmative forms of the "sold via ad" flag column.
var adSaleValues = map[string]bool{"sim": true, "s": true, "yes": true, "y": true}

// ParseMercadoLivre converts a raw Mercado Livre sales export (120-day
// report) into the fact table. The header row position and column naming
// vary between sellers and export versions, so everything goes through the
// resolver rather than fixed positions.
func ParseMercadoLivre(data []byte) (*FactTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := firstSheet(f)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := readSheetRows(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Aggregate(ChannelMercadoLivre, nil), nil
	}

	headerRow := findHeaderRow(rows, mlHeaderAnchors)
	cols := rows[headerRow]
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	colDate, err := requireColumn(cols, "date", "Data da venda")
	if err != nil {
		return nil, err
	}
	colUnits, err := requireColumn(cols, "units", "Unidades")
	if err != nil {
		return nil, err
	}
	colRevenue, err := requireColumn(cols, "revenue", "Receita por produtos (BRL)", "Receita por produtos")
	if err != nil {
		return nil, err
	}
	colID, err := requireColumn(cols, "listing id", "# de anúncio")
	if err != nil {
		return nil, err
	}
	colTitle, err := requireColumn(cols, "title", "Título do anúncio")
	if err != nil {
		return nil, err
	}
	colShipping, err := requireColumn(cols, "shipping mode", "Forma de entrega")
	if err != nil {
		return nil, err
	}
	colSKU, hasSKU := resolveColumn(cols, "SKU")
	colAds, hasAds := resolveAny(cols, "Venda por publicidade", "publicidade")

	body := rows[headerRow+1:]
	rawDates := make([]string, len(body))
	for i, row := range body {
		rawDates[i] = cellAt(row, colDate)
	}
	dates := ParseDateColumn(rawDates)

	txs := make([]Transaction, 0, len(body))
	for i, row := range body {
		if dates[i] == nil {
			continue
		}
		id := cellAt(row, colID)
		if blankIdentifier(id) && hasSKU {
			// Some rows carry identity only in the secondary field.
			id = cellAt(row, colSKU)
		}
		if blankIdentifier(id) {
			continue
		}

		adSale := false
		if hasAds {
			adSale = adSaleValues[strings.ToLower(cellAt(row, colAds))]
		}

		txs = append(txs, Transaction{
			Date:      *dates[i],
			Quantity:  ParseQuantity(cellAt(row, colUnits)),
			Revenue:   ParseMoney(cellAt(row, colRevenue)),
			ProductID: id,
			Title:     cellAt(row, colTitle),
			Shipping:  cellAt(row, colShipping),
			AdSale:    adSale,
		})
	}

	return Aggregate(ChannelMercadoLivre, txs), nil
}

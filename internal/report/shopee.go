package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ChannelShopee = "shopee"

// shopeeIndicators are header names characteristic of the Shopee product
// performance export; two or more in the first row identify the channel.
var shopeeIndicators = []string{
	"ID do Item",
	"SKU Principle",
	"Visitantes do Produto",
	"Taxa de conversão (Pedido pago)",
	"Vendas (Pedido pago) (BRL)",
}

// ParseShopee converts the Shopee product-performance export. Shopee reports
// cover one aggregated period with no per-transaction dates, so the whole
// export lands in the current window and the historical windows stay zero;
// the curve classifier then marks them "-" naturally. Logistics and ads
// breakdowns do not exist in this format.
func ParseShopee(data []byte) (*FactTable, error) {
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
		return &FactTable{Channel: ChannelShopee, Products: []ProductFact{}}, nil
	}

	cols := rows[0]
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	colSKU, err := requireColumn(cols, "product id", "SKU Principle", "ID do Item")
	if err != nil {
		return nil, err
	}
	colTitle, err := requireColumn(cols, "title", "Produto")
	if err != nil {
		return nil, err
	}
	colUnits, err := requireColumn(cols, "units", "Unidades (Pedido pago)")
	if err != nil {
		return nil, err
	}
	colRevenue, err := requireColumn(cols, "revenue", "Vendas (Pedido pago) (BRL)")
	if err != nil {
		return nil, err
	}
	// Parent rows are the aggregated per-product lines; variation rows have
	// this cell blank.
	colVisitors, hasVisitors := resolveColumn(cols, "Visitantes do Produto")

	table := &FactTable{
		Channel:       ChannelShopee,
		ReferenceDate: time.Time{},
		Products:      []ProductFact{},
	}

	seen := map[string]int{}
	for _, row := range rows[1:] {
		if hasVisitors && cellAt(row, colVisitors) == "" {
			continue
		}
		id := cellAt(row, colSKU)
		if blankIdentifier(id) {
			continue
		}
		qty := ParseQuantity(cellAt(row, colUnits))
		rev := ParseMoney(cellAt(row, colRevenue))

		if idx, ok := seen[id]; ok {
			table.Products[idx].Quantity[0] += qty
			table.Products[idx].Revenue[0] = table.Products[idx].Revenue[0].Add(rev)
			continue
		}
		fact := ProductFact{ProductID: id, Title: cellAt(row, colTitle)}
		for w := range fact.Revenue {
			fact.Revenue[w] = decimal.Zero
			fact.Curves[w] = CurveNone
		}
		fact.Quantity[0] = qty
		fact.Revenue[0] = rev
		seen[id] = len(table.Products)
		table.Products = append(table.Products, fact)
	}

	return table, nil
}

func shopeeIndicatorCount(header []string) int {
	matches := 0
	for _, cell := range header {
		for _, ind := range shopeeIndicators {
			if strings.Contains(cell, ind) {
				matches++
				break
			}
		}
	}
	return matches
}

package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DetectChannel decides which parsing path an upload takes: a pre-built
// canonical workbook (recognized by its named sheet), a Shopee performance
// export (recognized by its indicator columns), or the Mercado Livre raw
// export. Mercado Livre is the default when nothing else matches; its
// parser fails loudly with the missing column if the file is genuinely
// unrecognizable.
func DetectChannel(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if hasSheet(f, CanonicalSheet) {
		return ChannelCanonical, nil
	}

	sheet := firstSheet(f)
	if sheet == "" {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := readSheetRows(f, sheet)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) > 0 && shopeeIndicatorCount(rows[0]) >= 2 {
		return ChannelShopee, nil
	}

	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			lower := strings.ToLower(cell)
			for _, anchor := range mlHeaderAnchors {
				if strings.Contains(lower, anchor) {
					return ChannelMercadoLivre, nil
				}
			}
		}
	}
	return ChannelMercadoLivre, nil
}

// Parse dispatches to the channel parser.
func Parse(channel string, data []byte) (*FactTable, error) {
	switch channel {
	case ChannelCanonical:
		return LoadCanonical(data)
	case ChannelShopee:
		return ParseShopee(data)
	case ChannelMercadoLivre:
		return ParseMercadoLivre(data)
	default:
		return nil, fmt.Errorf("unknown channel %q", channel)
	}
}

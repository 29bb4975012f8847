package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	moneyFormat   = `"R$" #,##0.00`
	percentFormat = `0.00%`
	integerFormat = `#,##0`
	scoreFormat   = `0.000`
)

// WriteWorkbook renders one sheet per table with a bold frozen header row,
// an auto-filter over the used range and number formats per column kind.
func WriteWorkbook(tables ...*Table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		sheet := sheetName(t.Name, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return f.WriteToBuffer()
}

func writeSheet(f *excelize.File, sheet string, t *Table) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}

	for c, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Title); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c := range t.Columns {
			var v any
			if c < len(row) {
				v = row[c]
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return err
	}
	lastRow := len(t.Rows) + 1

	end, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return err
	}

	for c, col := range t.Columns {
		format := columnFormat(col.Kind)
		if format == "" {
			continue
		}
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if len(t.Rows) > 0 {
			first := fmt.Sprintf("%s2", name)
			last := fmt.Sprintf("%s%d", name, lastRow)
			if err := f.SetCellStyle(sheet, first, last, style); err != nil {
				return err
			}
		}
	}

	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func columnFormat(k Kind) string {
	switch k {
	case KindMoney:
		return moneyFormat
	case KindPercent:
		return percentFormat
	case KindInteger:
		return integerFormat
	case KindScore:
		return scoreFormat
	default:
		return ""
	}
}

// cellValue converts a table cell to something excelize serializes as the
// right native type. Decimals go out as float so number formats apply.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return ""
		}
		return x.InexactFloat64()
	default:
		return v
	}
}

// sheetName keeps names inside the 31-char workbook limit.
func sheetName(name string, i int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

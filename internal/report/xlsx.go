package report

import (
	"github.com/xuri/excelize/v2"
)

// readSheetRows drains one sheet through the streaming row iterator.
// Seller exports are thousands of rows, so the whole sheet fits in memory;
// streaming still avoids materializing the styled cell graph. Raw cell
// values keep currency and date cells out of the workbook's display
// formatting, which the coercion layer handles itself.
func readSheetRows(f *excelize.File, sheet string) ([][]string, error) {
	iter, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var rows [][]string
	for iter.Next() {
		cols, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		rows = append(rows, cols)
	}
	return rows, iter.Error()
}

func firstSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

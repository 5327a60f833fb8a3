package ingest

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// decodeExcel parses an XLSX workbook. A single sheet is used
// automatically; with multiple sheets the caller must select one, so the
// decode fails with a SheetChoiceError carrying the available names.
func decodeExcel(data []byte, sheet string) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: "excel", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &RawTable{}, nil
	}

	name := sheet
	if name == "" {
		if len(sheets) > 1 {
			return nil, &SheetChoiceError{Sheets: sheets}
		}
		name = sheets[0]
	} else if !containsSheet(sheets, name) {
		return nil, &SheetChoiceError{Sheets: sheets}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, &DecodeError{Format: "excel", Err: err}
	}

	if len(rows) == 0 {
		return &RawTable{}, nil
	}

	table := &RawTable{
		Columns: rows[0],
		Rows:    padRows(rows[1:], len(rows[0])),
	}
	return table, nil
}

func containsSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

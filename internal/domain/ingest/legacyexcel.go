package ingest

import (
	"bytes"

	"github.com/shakinm/xlsReader/xls"
)

// decodeLegacyExcel parses a binary XLS workbook (OLE compound format,
// which excelize does not read). Sheet selection follows the same rules as
// the XLSX path.
func decodeLegacyExcel(data []byte, sheet string) (*RawTable, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: "xls", Err: err}
	}

	count := wb.GetNumberSheets()
	if count == 0 {
		return &RawTable{}, nil
	}

	names := make([]string, count)
	for i := 0; i < count; i++ {
		sh, err := wb.GetSheet(i)
		if err != nil {
			return nil, &DecodeError{Format: "xls", Err: err}
		}
		names[i] = sh.GetName()
	}

	index := 0
	if sheet == "" {
		if count > 1 {
			return nil, &SheetChoiceError{Sheets: names}
		}
	} else {
		index = -1
		for i, name := range names {
			if name == sheet {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, &SheetChoiceError{Sheets: names}
		}
	}

	sh, err := wb.GetSheet(index)
	if err != nil {
		return nil, &DecodeError{Format: "xls", Err: err}
	}

	var rows [][]string
	for r := 0; r <= sh.GetNumberRows(); r++ {
		row, err := sh.GetRow(r)
		if err != nil {
			continue
		}
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		return &RawTable{}, nil
	}

	return &RawTable{
		Columns: rows[0],
		Rows:    padRows(rows[1:], len(rows[0])),
	}, nil
}

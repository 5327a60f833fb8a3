// Package export serializes a cleaned transaction table into downloadable
// byte formats.
package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// SheetName is the sheet written into spreadsheet exports.
const SheetName = "Transactions"

type csvRow struct {
	Date     string  `csv:"Date"`
	Name     string  `csv:"Name"`
	Amount   float64 `csv:"Amount"`
	Category string  `csv:"Category"`
}

type csvRowTyped struct {
	Date     string  `csv:"Date"`
	Name     string  `csv:"Name"`
	Amount   float64 `csv:"Amount"`
	Category string  `csv:"Category"`
	Type     string  `csv:"Type"`
}

// CSV renders the table as comma-separated text with a header row. The
// Type column appears only when the table carries one.
func CSV(t *schema.Table) ([]byte, error) {
	if t.HasType {
		rows := make([]csvRowTyped, len(t.Records))
		for i, r := range t.Records {
			rows[i] = csvRowTyped{r.Date, r.Name, r.Amount, r.Category, r.Type}
		}
		return marshalCSV(&rows)
	}

	rows := make([]csvRow, len(t.Records))
	for i, r := range t.Records {
		rows[i] = csvRow{r.Date, r.Name, r.Amount, r.Category}
	}
	return marshalCSV(&rows)
}

func marshalCSV(rows any) ([]byte, error) {
	out, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return nil, fmt.Errorf("encode csv export: %w", err)
	}
	return out, nil
}

// Excel renders the table as an XLSX workbook with a single sheet.
func Excel(t *schema.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("encode excel export: %w", err)
	}

	header := make([]any, 0, t.ColumnCount())
	for _, col := range t.Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("encode excel export: %w", err)
	}

	for i, r := range t.Records {
		row := []any{r.Date, r.Name, r.Amount, r.Category}
		if t.HasType {
			row = append(row, r.Type)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("encode excel export: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("encode excel export: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode excel export: %w", err)
	}
	return buf.Bytes(), nil
}

package ingest

import (
	"bytes"
	"errors"
	"io"

	"github.com/parquet-go/parquet-go"
)

// decodeParquet reads a flat parquet file into a raw table. Values are
// rendered through their parquet textual representation; numeric typing is
// recovered later by the cleaning stage.
func decodeParquet(data []byte) (*RawTable, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: "parquet", Err: err}
	}

	fields := f.Schema().Fields()
	table := &RawTable{Columns: make([]string, len(fields))}
	for i, field := range fields {
		table.Columns[i] = field.Name()
	}

	buf := make([]parquet.Row, 128)
	for _, group := range f.RowGroups() {
		rows := group.Rows()

		for {
			n, err := rows.ReadRows(buf)
			for _, pqRow := range buf[:n] {
				row := make([]string, len(table.Columns))
				for _, value := range pqRow {
					col := value.Column()
					if col < 0 || col >= len(row) {
						continue
					}
					if !value.IsNull() {
						row[col] = value.String()
					}
				}
				table.Rows = append(table.Rows, row)
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rows.Close()
				return nil, &DecodeError{Format: "parquet", Err: err}
			}
			if n == 0 {
				break
			}
		}

		if err := rows.Close(); err != nil {
			return nil, &DecodeError{Format: "parquet", Err: err}
		}
	}

	return table, nil
}

package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// sniffDelimiter inspects the first non-empty line and picks the delimiter
// that splits it into the most fields. Exported CSVs frequently use ';' or
// '\t' despite the extension; dispatch stays by extension, this only
// refines the delimiter within it.
func sniffDelimiter(data []byte, fallback rune) rune {
	line := firstLine(data)
	if line == "" {
		return fallback
	}

	best := fallback
	bestCount := strings.Count(line, string(fallback))
	for _, d := range []rune{';', '\t', ',', '|'} {
		if count := strings.Count(line, string(d)); count > bestCount {
			best = d
			bestCount = count
		}
	}
	return best
}

func firstLine(data []byte) string {
	s := strings.TrimPrefix(string(data), "\uFEFF")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimRight(s, "\r")
}

// decodeDelimited parses CSV/TSV bytes into a raw table. The first row is
// the header; whether it actually holds column names is the normalizer's
// problem (headerless detection happens there).
func decodeDelimited(data []byte, delimiter rune) (*RawTable, error) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &RawTable{}, nil
		}
		return nil, &DecodeError{Format: "csv", Err: err}
	}

	table := &RawTable{Columns: header}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Format: "csv", Err: err}
		}
		table.Rows = append(table.Rows, record)
	}

	table.Rows = padRows(table.Rows, len(table.Columns))
	return table, nil
}

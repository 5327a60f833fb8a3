package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ManualRow is one hand-entered transaction. All fields are raw text; the
// normal cleaning pipeline applies afterwards.
type ManualRow struct {
	Date   string
	Name   string
	Amount string
	Type   string
}

// ManualEntryFunc supplies hand-entered rows when no decoder strategy can
// read a document.
type ManualEntryFunc func() ([]ManualRow, error)

// ParseManualRows reads comma-separated transactions, one per line as
// "date,name,amount[,type]". Blank lines are skipped. A malformed line
// fails the whole batch so rows are never silently dropped.
func ParseManualRows(r io.Reader) ([]ManualRow, error) {
	var rows []ManualRow

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ",", 4)
		if len(parts) < 3 {
			return nil, fmt.Errorf("manual entry line %d: need at least date,name,amount, got %q", lineNo, line)
		}

		row := ManualRow{
			Date:   strings.TrimSpace(parts[0]),
			Name:   strings.TrimSpace(parts[1]),
			Amount: strings.TrimSpace(parts[2]),
		}
		if len(parts) == 4 {
			row.Type = strings.TrimSpace(parts[3])
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("manual entry: %w", err)
	}
	return rows, nil
}

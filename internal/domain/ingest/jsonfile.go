package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// decodeJSON parses a JSON array of flat objects. Column order follows
// first appearance across the records; keys seen later are appended.
func decodeJSON(data []byte) (*RawTable, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var records []map[string]any
	if err := decoder.Decode(&records); err != nil {
		return nil, &DecodeError{Format: "json", Err: err}
	}

	table := &RawTable{}
	seen := map[string]int{}

	for _, record := range records {
		// Register unseen keys in a deterministic order within the record.
		keys := make([]string, 0, len(record))
		for k := range record {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = len(table.Columns)
				table.Columns = append(table.Columns, k)
			}
		}
	}

	for _, record := range records {
		row := make([]string, len(table.Columns))
		for k, v := range record {
			row[seen[k]] = jsonCellString(v)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// jsonCellString renders a decoded JSON value as a cell. Nested structures
// are re-serialized rather than dropped.
func jsonCellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

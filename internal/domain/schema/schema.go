// Package schema defines the canonical transaction shape that every
// ingestion path must produce, plus validation against it.
package schema

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical column names. Every persisted record carries the first four;
// Type is present only when the source supplies or implies it.
const (
	ColDate     = "Date"
	ColName     = "Name"
	ColAmount   = "Amount"
	ColCategory = "Category"
	ColType     = "Type"
)

// Defaults applied to missing required fields.
const (
	DefaultName     = "Unknown"
	DefaultCategory = "Uncategorized"
)

// Transaction type classifiers.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// DateLayout is the storage representation used when a date has to be
// synthesized at ingestion time.
const DateLayout = "2006-01-02"

// TimestampLayout is the representation for upload timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one canonical transaction row. Date stays a string: source
// files carry dates in too many grammars to normalize losslessly, and the
// storage format keeps whatever shape the file declared.
type Record struct {
	Date     string  `json:"Date" csv:"Date"`
	Name     string  `json:"Name" csv:"Name"`
	Amount   float64 `json:"Amount" csv:"Amount"`
	Category string  `json:"Category" csv:"Category"`
	Type     string  `json:"Type,omitempty" csv:"Type"`
}

// Key returns a stable structural-equality key for delta computation.
// Two records with identical field values are indistinguishable.
func (r Record) Key() string {
	amount := strconv.FormatFloat(r.Amount, 'f', -1, 64)
	return strings.Join([]string{r.Date, r.Name, amount, r.Category, r.Type}, "\x1f")
}

// Table is an ordered collection of canonical records owned by one user.
type Table struct {
	Records []Record `json:"records"`
	// HasType reports whether the source carried a Type column
	// (PDF statement extraction does; plain tabular uploads do not).
	HasType bool `json:"has_type,omitempty"`
}

// Empty returns an empty, schema-shaped table.
func Empty() *Table {
	return &Table{Records: []Record{}}
}

// Columns returns the canonical column set of the table.
func (t *Table) Columns() []string {
	cols := []string{ColDate, ColName, ColAmount, ColCategory}
	if t.HasType {
		cols = append(cols, ColType)
	}
	return cols
}

// RowCount returns the number of records.
func (t *Table) RowCount() int {
	return len(t.Records)
}

// ColumnCount returns the number of canonical columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns())
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Records: make([]Record, len(t.Records)),
		HasType: t.HasType,
	}
	copy(out.Records, t.Records)
	return out
}

// Equal reports whether two tables hold the same records in the same order.
func (t *Table) Equal(other *Table) bool {
	if len(t.Records) != len(other.Records) {
		return false
	}
	for i := range t.Records {
		if t.Records[i] != other.Records[i] {
			return false
		}
	}
	return true
}

// Delta returns the records in next that are absent from prev, using
// multiset structural equality: duplicate rows are matched one-for-one and
// ordering does not matter.
func Delta(next, prev []Record) []Record {
	remaining := make(map[string]int, len(prev))
	for _, r := range prev {
		remaining[r.Key()]++
	}

	var out []Record
	for _, r := range next {
		key := r.Key()
		if remaining[key] > 0 {
			remaining[key]--
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseDate attempts to parse a record date for sorting purposes.
// Returns the zero time when no known grammar applies.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006/01/02",
		"02/01/2006",
		"01/02/2006",
		"02/01/06",
		"01/02/06",
		"02-01-2006",
		"02.01.2006",
		"2 Jan 2006",
		"2 Jan 06",
		"Jan 2, 2006",
		"Jan 2",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsNumeric reports whether the amount is a usable number.
func IsNumeric(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// Package clean turns a normalized raw table into a schema-conformant
// transaction table: typed amounts, defaults for missing values, trimmed
// text and a deterministic sort order. Cleaning is idempotent, so a table
// that went through Apply once comes out of a second pass unchanged.
package clean

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// incomeWords mirror the statement classifier so hand-entered rows get the
// same Type inference as extracted ones.
var incomeWords = []string{"deposit", "credit", "salary", "refund", "transfer in", "transfer-in"}

// FromRaw converts a normalized raw table into typed records. Amount cells
// that do not parse become NaN here; Apply turns the sentinel into 0.0.
// Rows whose every cell is empty are dropped.
func FromRaw(rt *ingest.RawTable) *schema.Table {
	idx := map[string]int{}
	for i, col := range rt.Columns {
		idx[col] = i
	}

	table := schema.Empty()
	_, table.HasType = idx[schema.ColType]

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for _, row := range rt.Rows {
		if emptyRow(row) {
			continue
		}
		table.Records = append(table.Records, schema.Record{
			Date:     cell(row, schema.ColDate),
			Name:     cell(row, schema.ColName),
			Amount:   ParseAmount(cell(row, schema.ColAmount)),
			Category: cell(row, schema.ColCategory),
			Type:     cell(row, schema.ColType),
		})
	}

	return table
}

// Apply enforces the value-level schema invariants in place: defaults for
// missing fields, trimmed text, title-cased categories, numeric amounts
// and the (Category ascending, Date descending) sort.
func Apply(t *schema.Table, now time.Time) {
	for i := range t.Records {
		r := &t.Records[i]

		r.Date = strings.TrimSpace(r.Date)
		r.Name = strings.TrimSpace(r.Name)
		r.Category = strings.TrimSpace(r.Category)
		r.Type = strings.TrimSpace(r.Type)

		if !schema.IsNumeric(r.Amount) {
			r.Amount = 0.0
		}
		if r.Date == "" {
			r.Date = now.Format(schema.DateLayout)
		}
		if r.Name == "" {
			r.Name = schema.DefaultName
		}
		if r.Category == "" {
			r.Category = schema.DefaultCategory
		}
		r.Category = titleCase(r.Category)

		if t.HasType && r.Type == "" {
			r.Type = inferType(r.Name)
		}
	}

	sortRecords(t.Records)
}

// ParseAmount converts a raw amount cell into a float. Currency symbols,
// thousands separators and surrounding whitespace are stripped; a
// parenthesized value is negative (accounting notation). Unparsable input
// yields NaN rather than an error so one bad cell cannot sink the batch.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		case r == ',', r == ' ', r == '$', r == '€', r == '£', r == '¥':
			// separators and currency markers
		default:
			return math.NaN()
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return math.NaN()
	}
	if negative {
		d = d.Neg()
	}
	return d.InexactFloat64()
}

func sortRecords(records []schema.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Category != records[j].Category {
			return records[i].Category < records[j].Category
		}
		ti, iok := schema.ParseDate(records[i].Date)
		tj, jok := schema.ParseDate(records[j].Date)
		if iok != jok {
			return iok // parseable dates before unparseable ones
		}
		return ti.After(tj)
	})
}

func inferType(name string) string {
	lower := strings.ToLower(name)
	for _, word := range incomeWords {
		if strings.Contains(lower, word) {
			return schema.TypeIncome
		}
	}
	return schema.TypeExpense
}

// titleCase capitalizes the first letter of each word and lowers the rest,
// so "food & drink" and "FOOD & DRINK" collapse to one category.
func titleCase(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
			startOfWord = true
		}
	}
	return b.String()
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

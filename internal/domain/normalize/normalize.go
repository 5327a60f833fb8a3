// Package normalize renames arbitrary upload columns to the canonical
// transaction schema. Confident matches are renamed, everything else keeps
// its (lower-cased) original name, and any required column still missing
// afterwards is synthesized with a default.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// Normalizer maps raw table columns onto the canonical column set.
type Normalizer struct {
	Matcher ColumnMatcher
	Aliases []AliasGroup
	// Now supplies the date used to backfill a missing Date column.
	// Injectable for tests; nil means time.Now.
	Now func() time.Time

	logger zerolog.Logger
}

// New creates a normalizer with the default alias table.
func New(logger zerolog.Logger, matcher ColumnMatcher) *Normalizer {
	return &Normalizer{
		Matcher: matcher,
		Aliases: DefaultAliases(),
		logger:  logger,
	}
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// Apply rewrites the table's columns in place: headerless pre-pass, alias
// matching, duplicate-column resolution and canonical backfill. Dropped
// duplicate columns are reported through the table's warnings.
func (n *Normalizer) Apply(t *ingest.RawTable) {
	if t.Canonical {
		// The decoder already produced canonical column names; alias
		// matching would send Type to Category. Only backfill applies.
		n.backfill(t)
		return
	}

	if headerless(t.Columns) {
		for i := range t.Columns {
			t.Columns[i] = fmt.Sprintf("col_%d", i)
		}
		n.logger.Info().Str("file", t.Source).Msg("headerless file, synthesized positional column names")
	}

	for i, col := range t.Columns {
		t.Columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	for i, col := range t.Columns {
		for _, group := range n.Aliases {
			if n.Matcher.Match(col, group.Aliases) {
				t.Columns[i] = group.Canonical
				break
			}
		}
	}

	n.dropDuplicates(t)
	n.backfill(t)
}

// dropDuplicates keeps only the first column for each canonical name.
// Later duplicates are removed with their data, which is lossy; the
// warning makes the drop visible to the caller.
func (n *Normalizer) dropDuplicates(t *ingest.RawTable) {
	seen := map[string]bool{}
	keep := make([]int, 0, len(t.Columns))

	for i, col := range t.Columns {
		if seen[col] {
			t.Warn("duplicate column %q dropped, keeping the first occurrence", col)
			n.logger.Warn().Str("column", col).Msg("duplicate column dropped")
			continue
		}
		seen[col] = true
		keep = append(keep, i)
	}

	if len(keep) == len(t.Columns) {
		return
	}

	columns := make([]string, len(keep))
	for j, i := range keep {
		columns[j] = t.Columns[i]
	}
	t.Columns = columns

	for r, row := range t.Rows {
		projected := make([]string, len(keep))
		for j, i := range keep {
			if i < len(row) {
				projected[j] = row[i]
			}
		}
		t.Rows[r] = projected
	}
}

// backfill synthesizes any required canonical column still absent. A
// missing Amount is first inferred from a numeric column; defaulting to
// zero is the last resort.
func (n *Normalizer) backfill(t *ingest.RawTable) {
	present := map[string]bool{}
	for _, col := range t.Columns {
		present[col] = true
	}

	if !present[schema.ColAmount] {
		if i := firstNumericColumn(t); i >= 0 {
			n.logger.Info().Str("column", t.Columns[i]).Msg("inferred amount from numeric column")
			t.Columns[i] = schema.ColAmount
			present[schema.ColAmount] = true
		}
	}

	for _, col := range []string{schema.ColName, schema.ColAmount, schema.ColDate, schema.ColCategory} {
		if present[col] {
			continue
		}

		var value string
		switch col {
		case schema.ColAmount:
			value = "0.0"
		case schema.ColDate:
			value = n.now().Format(schema.DateLayout)
		case schema.ColCategory:
			// Left empty here; the cleaning stage fills its own default.
			value = ""
		default:
			value = schema.DefaultName
		}

		t.Columns = append(t.Columns, col)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], value)
		}
		n.logger.Info().Str("column", col).Str("default", value).Msg("synthesized missing column")
	}
}

// headerless reports whether every column name looks auto-generated:
// blank, an "unnamed" placeholder, or purely numeric (a data row promoted
// to header).
func headerless(columns []string) bool {
	if len(columns) == 0 {
		return false
	}
	for _, col := range columns {
		name := strings.TrimSpace(col)
		if name == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), "unnamed") {
			continue
		}
		if isDigits(name) {
			continue
		}
		return false
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// firstNumericColumn finds the first column whose non-empty cells all
// parse as numbers, skipping columns already claimed by a canonical name.
func firstNumericColumn(t *ingest.RawTable) int {
	canonical := map[string]bool{
		schema.ColDate: true, schema.ColName: true,
		schema.ColAmount: true, schema.ColCategory: true, schema.ColType: true,
	}

	for i, col := range t.Columns {
		if canonical[col] {
			continue
		}

		numeric := false
		ok := true
		for _, row := range t.Rows {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err != nil {
				ok = false
				break
			}
			numeric = true
		}
		if ok && numeric {
			return i
		}
	}
	return -1
}

package normalize

import (
	"strings"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/match"
)

// ColumnMatcher decides whether an input column name belongs to an alias
// group.
type ColumnMatcher interface {
	Match(column string, aliases []string) bool
}

// FuzzyMatcher scores the column name against every alias and accepts the
// best score when it clears the threshold. Tolerates abbreviations and
// typos ("amt" matches "amount", "descripton" matches "description").
type FuzzyMatcher struct {
	// Threshold on the 0-100 similarity scale. 70 is a good default:
	// permissive enough for abbreviations, strict enough to leave columns
	// like "notes" alone.
	Threshold int
}

func (m FuzzyMatcher) Match(column string, aliases []string) bool {
	best := 0
	for _, alias := range aliases {
		if score := match.Score(column, alias); score > best {
			best = score
		}
	}
	return best >= m.Threshold
}

// SubstringMatcher accepts a column when any alias occurs inside its name.
// The fallback when fuzzy matching is disabled.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(column string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(column, alias) {
			return true
		}
	}
	return false
}

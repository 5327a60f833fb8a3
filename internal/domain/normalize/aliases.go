package normalize

import "github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"

// AliasGroup binds a canonical column name to the lower-cased input names
// that should map to it.
type AliasGroup struct {
	Canonical string
	Aliases   []string
}

// DefaultAliases returns the built-in alias table. Group order matters:
// the first canonical target with an accepted match wins, so Amount is
// probed before Name ("total" must not land on a description column).
func DefaultAliases() []AliasGroup {
	return []AliasGroup{
		{schema.ColAmount, []string{"amount", "sum", "price", "cost", "total", "payment", "value", "expense"}},
		{schema.ColName, []string{"name", "merchant", "vendor", "store", "description", "desc", "transaction", "details", "item"}},
		{schema.ColDate, []string{"date", "time", "day", "when", "timestamp"}},
		{schema.ColCategory, []string{"category", "cat", "type", "group", "label", "classification"}},
	}
}

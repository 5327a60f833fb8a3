package clean

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"4.50", 4.50},
		{"  12 ", 12},
		{"$1,234.56", 1234.56},
		{"€99.90", 99.90},
		{"-20.00", -20},
		{"(45.67)", -45.67},
		{"1 234,00", 123400}, // separators stripped, not locale-aware
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, ParseAmount(tc.in), 1e-9, tc.in)
	}

	for _, bad := range []string{"", "abc", "12.3x", "N/A"} {
		assert.True(t, math.IsNaN(ParseAmount(bad)), bad)
	}
}

func TestFromRaw(t *testing.T) {
	t.Run("typed conversion", func(t *testing.T) {
		rt := &ingest.RawTable{
			Columns: []string{schema.ColDate, schema.ColName, schema.ColAmount, schema.ColCategory},
			Rows: [][]string{
				{"2024-01-01", "Coffee", "$4.50", "Food"},
				{"2024-01-02", "Refund", "(20.00)", "Shopping"},
			},
		}

		table := FromRaw(rt)

		require.Len(t, table.Records, 2)
		assert.False(t, table.HasType)
		assert.InDelta(t, 4.50, table.Records[0].Amount, 1e-9)
		assert.InDelta(t, -20.00, table.Records[1].Amount, 1e-9)
	})

	t.Run("fully empty rows dropped", func(t *testing.T) {
		rt := &ingest.RawTable{
			Columns: []string{schema.ColDate, schema.ColName, schema.ColAmount, schema.ColCategory},
			Rows: [][]string{
				{"", "", "", ""},
				{"2024-01-01", "Coffee", "4.50", "Food"},
				{"  ", "", " ", ""},
			},
		}

		table := FromRaw(rt)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "Coffee", table.Records[0].Name)
	})

	t.Run("partially empty rows kept", func(t *testing.T) {
		rt := &ingest.RawTable{
			Columns: []string{schema.ColDate, schema.ColName, schema.ColAmount, schema.ColCategory},
			Rows: [][]string{
				{"", "Coffee", "", ""},
			},
		}

		table := FromRaw(rt)
		require.Len(t, table.Records, 1)
		assert.True(t, math.IsNaN(table.Records[0].Amount))
	})

	t.Run("type column detected", func(t *testing.T) {
		rt := &ingest.RawTable{
			Columns: []string{schema.ColDate, schema.ColName, schema.ColAmount, schema.ColCategory, schema.ColType},
			Rows: [][]string{
				{"2024-01-01", "Salary", "1250.00", "", "Income"},
			},
		}

		table := FromRaw(rt)
		assert.True(t, table.HasType)
		assert.Equal(t, schema.TypeIncome, table.Records[0].Type)
	})
}

func TestApply(t *testing.T) {
	t.Run("defaults and trimming", func(t *testing.T) {
		table := &schema.Table{Records: []schema.Record{
			{Date: "", Name: "  Coffee  ", Amount: math.NaN(), Category: ""},
		}}

		Apply(table, testNow)

		r := table.Records[0]
		assert.Equal(t, "2024-06-15", r.Date)
		assert.Equal(t, "Coffee", r.Name)
		assert.Equal(t, 0.0, r.Amount)
		assert.Equal(t, schema.DefaultCategory, r.Category)
	})

	t.Run("category title cased", func(t *testing.T) {
		table := &schema.Table{Records: []schema.Record{
			{Date: "2024-01-01", Name: "A", Amount: 1, Category: "food & drink"},
			{Date: "2024-01-01", Name: "B", Amount: 1, Category: "FOOD & DRINK"},
		}}

		Apply(table, testNow)

		assert.Equal(t, "Food & Drink", table.Records[0].Category)
		assert.Equal(t, table.Records[0].Category, table.Records[1].Category)
	})

	t.Run("sorted by category then date descending", func(t *testing.T) {
		table := &schema.Table{Records: []schema.Record{
			{Date: "2024-01-01", Name: "A", Amount: 1, Category: "Transport"},
			{Date: "2024-03-01", Name: "B", Amount: 1, Category: "Food"},
			{Date: "2024-01-15", Name: "C", Amount: 1, Category: "Food"},
		}}

		Apply(table, testNow)

		assert.Equal(t, "B", table.Records[0].Name)
		assert.Equal(t, "C", table.Records[1].Name)
		assert.Equal(t, "A", table.Records[2].Name)
	})

	t.Run("type inferred when column present", func(t *testing.T) {
		table := &schema.Table{
			HasType: true,
			Records: []schema.Record{
				{Date: "2024-01-01", Name: "SALARY DEPOSIT", Amount: 1250},
				{Date: "2024-01-02", Name: "Coffee", Amount: 4.5},
				{Date: "2024-01-03", Name: "Lunch", Amount: 12, Type: "Income"},
			},
		}

		Apply(table, testNow)

		byName := map[string]string{}
		for _, r := range table.Records {
			byName[r.Name] = r.Type
		}
		assert.Equal(t, schema.TypeIncome, byName["SALARY DEPOSIT"])
		assert.Equal(t, schema.TypeExpense, byName["Coffee"])
		assert.Equal(t, "Income", byName["Lunch"]) // explicit value untouched
	})

	t.Run("idempotent", func(t *testing.T) {
		table := &schema.Table{Records: []schema.Record{
			{Date: "2024-01-01", Name: " Coffee ", Amount: math.NaN(), Category: "food"},
			{Date: "", Name: "", Amount: 12, Category: "Transport"},
		}}

		Apply(table, testNow)
		first := table.Clone()
		Apply(table, testNow)

		assert.True(t, table.Equal(first))
	})
}

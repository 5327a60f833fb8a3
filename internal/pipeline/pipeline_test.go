package pipeline

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/normalize"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type ocrStub struct{ text string }

func (o ocrStub) Available() bool                      { return true }
func (o ocrStub) ExtractText(_ []byte) (string, error) { return o.text, nil }

// blankPDF builds a structurally valid single-page PDF with no text layer,
// the shape a scanned statement arrives in.
func blankPDF(t *testing.T) []byte {
	t.Helper()

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := map[int]int{}
	writeObj := func(num int, body string) {
		offsets[num] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", num, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>")
	writeObj(4, "<< /Length 0 >>\nstream\n\nendstream")

	xref := b.Len()
	b.WriteString("xref\n0 5\n0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes()
}

func newTestPipeline() *Pipeline {
	decoder := ingest.NewDecoder(zerolog.Nop(), 50, 50000)
	normalizer := normalize.New(zerolog.Nop(), normalize.FuzzyMatcher{Threshold: 70})
	normalizer.Now = func() time.Time { return testNow }

	p := New(zerolog.Nop(), decoder, normalizer)
	p.Now = func() time.Time { return testNow }
	return p
}

func TestProcessCSV(t *testing.T) {
	p := newTestPipeline()

	data := []byte("txn date,merchant,amt,cat\n" +
		"2024-01-02,Coffee Shop,4.50,food\n" +
		"2024-01-01,Grocery Store,$88.10,food\n")

	result, err := p.Process("upload.csv", data, ingest.Options{})
	require.NoError(t, err)

	require.Len(t, result.Table.Records, 2)
	assert.Equal(t, 4, result.ColumnCount)
	assert.False(t, result.Table.HasType)

	// Sorted by category then date descending; categories title-cased.
	first := result.Table.Records[0]
	assert.Equal(t, "Coffee Shop", first.Name)
	assert.Equal(t, "Food", first.Category)
	assert.InDelta(t, 88.10, result.Table.Records[1].Amount, 1e-9)
}

func TestProcessMissingColumnsBackfilled(t *testing.T) {
	p := newTestPipeline()

	data := []byte("merchant\nCoffee Shop\nGrocery Store\n")

	result, err := p.Process("names-only.csv", data, ingest.Options{})
	require.NoError(t, err)

	for _, r := range result.Table.Records {
		assert.Equal(t, "2024-06-15", r.Date)
		assert.Equal(t, 0.0, r.Amount)
		assert.Equal(t, schema.DefaultCategory, r.Category)
	}
}

func TestProcessRenamedColumnsScenario(t *testing.T) {
	p := newTestPipeline()

	data := []byte("txn date,desc,amt\n2024-01-05,Coffee Shop,4.50\n")

	result, err := p.Process("renamed.csv", data, ingest.Options{})
	require.NoError(t, err)

	require.Len(t, result.Table.Records, 1)
	r := result.Table.Records[0]
	assert.Equal(t, "2024-01-05", r.Date)
	assert.Equal(t, "Coffee Shop", r.Name)
	assert.InDelta(t, 4.50, r.Amount, 1e-9)
	assert.Equal(t, schema.DefaultCategory, r.Category)
}

func TestProcessStatementTable(t *testing.T) {
	p := newTestPipeline()

	raw := &ingest.RawTable{
		Source:    "statement.pdf",
		Canonical: true,
		Columns:   []string{schema.ColDate, schema.ColName, schema.ColAmount, schema.ColType},
		Rows:      [][]string{{"03/05/24", "GROCERY STORE PURCHASE", "45.67", "Expense"}},
	}

	result, err := p.fromRaw(raw)
	require.NoError(t, err)

	require.Len(t, result.Table.Records, 1)
	assert.True(t, result.Table.HasType)
	assert.Equal(t, 5, result.ColumnCount)

	r := result.Table.Records[0]
	assert.Equal(t, "03/05/24", r.Date)
	assert.Equal(t, "GROCERY STORE PURCHASE", r.Name)
	assert.InDelta(t, 45.67, r.Amount, 1e-9)
	assert.Equal(t, schema.TypeExpense, r.Type)
	assert.Equal(t, schema.DefaultCategory, r.Category)
}

func TestProcessScannedStatementViaOCR(t *testing.T) {
	p := newTestPipeline()

	text := "03/05/24 GROCERY STORE PURCHASE 45.67\n2024-03-01 SALARY DEPOSIT 1,250.00"
	result, err := p.Process("scan.pdf", blankPDF(t), ingest.Options{OCR: ocrStub{text: text}})
	require.NoError(t, err)

	require.Len(t, result.Table.Records, 2)
	assert.True(t, result.Table.HasType)

	byName := map[string]schema.Record{}
	for _, r := range result.Table.Records {
		byName[r.Name] = r
	}

	grocery := byName["GROCERY STORE PURCHASE"]
	assert.Equal(t, schema.TypeExpense, grocery.Type)
	assert.InDelta(t, 45.67, grocery.Amount, 1e-9)
	assert.Equal(t, schema.DefaultCategory, grocery.Category)

	salary := byName["SALARY DEPOSIT"]
	assert.Equal(t, schema.TypeIncome, salary.Type)
	assert.InDelta(t, 1250.00, salary.Amount, 1e-9)
}

func TestProcessHeaderlessFile(t *testing.T) {
	p := newTestPipeline()

	data := []byte("0,1,2\n2024-01-01,Coffee,4.50\n2024-01-02,Lunch,12.00\n")

	result, err := p.Process("headerless.csv", data, ingest.Options{})
	require.NoError(t, err)

	require.Len(t, result.Table.Records, 2)
	for _, r := range result.Table.Records {
		assert.True(t, schema.IsNumeric(r.Amount))
		assert.NotZero(t, r.Amount)
	}
}

func TestProcessResultAlwaysValidates(t *testing.T) {
	p := newTestPipeline()

	// Messy input: missing values, unparsable amounts, whitespace.
	data := []byte("date,name,amount,category\n" +
		"2024-01-01,  Coffee  ,not-a-number,\n" +
		",,,\n" +
		",Lunch,12.00,food\n")

	result, err := p.Process("messy.csv", data, ingest.Options{})
	require.NoError(t, err)

	assert.Empty(t, schema.ValidateRecords(result.Table.Records))
	require.Len(t, result.Table.Records, 2) // fully-empty row dropped
}

func TestProcessDecodeErrorsPropagate(t *testing.T) {
	p := newTestPipeline()

	_, err := p.Process("report.docx", []byte("x"), ingest.Options{})
	assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)

	_, err = p.Process("empty.csv", []byte("date,name,amount\n"), ingest.Options{})
	assert.ErrorIs(t, err, ingest.ErrEmptyContent)
}

func TestProcessWarningsPropagate(t *testing.T) {
	decoder := ingest.NewDecoder(zerolog.Nop(), 50, 1)
	normalizer := normalize.New(zerolog.Nop(), normalize.FuzzyMatcher{Threshold: 70})
	p := New(zerolog.Nop(), decoder, normalizer)

	data := []byte("date,name,amount\n2024-01-01,A,1.00\n2024-01-02,B,2.00\n")

	result, err := p.Process("big.csv", data, ingest.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "large dataset")
}

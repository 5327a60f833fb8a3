// Package pipeline runs an upload through the full ingestion chain:
// decode, column normalization, cleaning and schema validation. The output
// is a canonical transaction table ready to persist, plus every warning
// and line error collected along the way.
package pipeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/clean"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/ingest"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/normalize"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	decoder    *ingest.Decoder
	normalizer *normalize.Normalizer
	logger     zerolog.Logger

	// Now supplies the ingestion timestamp used for backfilled dates.
	// Injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Result is the outcome of a successful upload.
type Result struct {
	Table       *schema.Table
	Warnings    []string
	LineErrors  []ingest.LineError
	RowCount    int
	ColumnCount int
}

// New creates a pipeline from its stages.
func New(logger zerolog.Logger, decoder *ingest.Decoder, normalizer *normalize.Normalizer) *Pipeline {
	return &Pipeline{
		decoder:    decoder,
		normalizer: normalizer,
		logger:     logger,
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Process runs the upload through decode, normalize, clean and validate.
// The returned error is either a typed ingestion error or a
// *schema.ValidationError; on success the table satisfies every schema
// invariant.
func (p *Pipeline) Process(filename string, data []byte, opts ingest.Options) (*Result, error) {
	raw, err := p.decoder.Decode(filename, data, opts)
	if err != nil {
		return nil, err
	}
	return p.fromRaw(raw)
}

// fromRaw runs the decoded table through normalization, cleaning and the
// final schema check.
func (p *Pipeline) fromRaw(raw *ingest.RawTable) (*Result, error) {
	now := p.now()

	p.normalizer.Apply(raw)

	table := clean.FromRaw(raw)
	clean.Apply(table, now)

	// Cleaning backfills every required field, so failures here mean a bug
	// in an upstream stage, not bad user data. Surface them anyway.
	if failures := schema.ValidateRecords(table.Records); len(failures) > 0 {
		return nil, &schema.ValidationError{Rows: failures}
	}

	result := &Result{
		Table:       table,
		Warnings:    raw.Warnings,
		LineErrors:  raw.LineErrors,
		RowCount:    table.RowCount(),
		ColumnCount: table.ColumnCount(),
	}

	p.logger.Info().
		Str("file", raw.Source).
		Int("rows", result.RowCount).
		Int("warnings", len(result.Warnings)).
		Int("line_errors", len(result.LineErrors)).
		Msg("upload processed")

	return result, nil
}

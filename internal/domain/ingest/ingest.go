// Package ingest decodes uploaded files into a raw tabular structure with
// arbitrary column names. Dispatch is by file extension; every decoder
// either produces rows or fails with a typed, human-readable error.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// RawTable is the row-oriented output of a format decoder, before any
// column normalization or cleaning.
type RawTable struct {
	Source  string
	Columns []string
	Rows    [][]string
	// Canonical marks tables whose columns already carry the canonical
	// schema names (PDF statement extraction, manual entry). The
	// normalizer must not run alias matching on these: "type" is a
	// Category alias in arbitrary uploads, but here Type is the
	// income/expense classification.
	Canonical bool
	// Warnings are non-fatal conditions the caller should surface to the
	// user (size guardrails, truncated archives, dropped columns).
	Warnings []string
	// LineErrors collects statement lines that could not be parsed into a
	// transaction (PDF path only). They are excluded from Rows but never
	// hidden from the caller.
	LineErrors []LineError
}

// LineError is a single unparseable statement line.
type LineError struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Warn appends a warning to the table.
func (t *RawTable) Warn(format string, args ...any) {
	t.Warnings = append(t.Warnings, fmt.Sprintf(format, args...))
}

// Typed ingestion errors. Wrapped causes keep the underlying library
// message for diagnosis.
var (
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrEmptyContent         = errors.New("file has no rows or columns")
	ErrNoArchiveMember      = errors.New("no supported files found in ZIP archive")
	ErrManualEntryRequired  = errors.New("document has no extractable transactions; manual entry required")
	ErrSheetSelectionNeeded = errors.New("workbook has multiple sheets")
)

// SheetChoiceError is returned for multi-sheet workbooks when the caller
// has not selected a sheet. It carries the available names so the UI can
// ask.
type SheetChoiceError struct {
	Sheets []string
}

func (e *SheetChoiceError) Error() string {
	return fmt.Sprintf("workbook has %d sheets, select one of: %s",
		len(e.Sheets), strings.Join(e.Sheets, ", "))
}

func (e *SheetChoiceError) Unwrap() error { return ErrSheetSelectionNeeded }

// DecodeError wraps an underlying format-library failure.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s file: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Options carries per-upload decode settings and optional capabilities.
type Options struct {
	// Sheet selects a workbook sheet by name for multi-sheet Excel files.
	Sheet string
	// OCR is the optional OCR capability, used only for PDFs with no
	// extractable text layer. Nil means the capability is absent.
	OCR OCRProvider
	// ManualEntry is the terminal fallback for documents nothing else can
	// read. Nil means manual entry is unavailable and the decode fails
	// with ErrManualEntryRequired.
	ManualEntry ManualEntryFunc
}

// tabularExtensions are the formats a ZIP member may resolve to.
var tabularExtensions = []string{".csv", ".xlsx", ".xls", ".json", ".txt", ".parquet"}

// Decoder turns uploaded bytes into a RawTable. Guardrail thresholds are
// soft: crossing them adds a warning, processing always proceeds.
type Decoder struct {
	SizeWarnBytes int64
	RowWarnLimit  int
	logger        zerolog.Logger
}

// NewDecoder creates a decoder with the given guardrail thresholds.
func NewDecoder(logger zerolog.Logger, sizeWarnMB, rowWarnLimit int) *Decoder {
	return &Decoder{
		SizeWarnBytes: int64(sizeWarnMB) << 20,
		RowWarnLimit:  rowWarnLimit,
		logger:        logger,
	}
}

// Decode dispatches on the filename extension and returns the decoded raw
// table. The returned error is one of the typed ingestion errors or a
// *DecodeError wrapping the format library's failure.
func (d *Decoder) Decode(filename string, data []byte, opts Options) (*RawTable, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		table *RawTable
		err   error
	)

	switch ext {
	case ".csv":
		table, err = decodeDelimited(data, sniffDelimiter(data, ','))
	case ".txt":
		table, err = decodeDelimited(data, '\t')
	case ".xlsx":
		table, err = decodeExcel(data, opts.Sheet)
	case ".xls":
		table, err = decodeLegacyExcel(data, opts.Sheet)
	case ".json":
		table, err = decodeJSON(data)
	case ".parquet":
		table, err = decodeParquet(data)
	case ".zip":
		return d.decodeArchive(filename, data, opts)
	case ".pdf":
		table, err = d.decodePDF(data, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, err
	}

	table.Source = filename
	if len(table.Rows) == 0 || len(table.Columns) == 0 {
		return nil, ErrEmptyContent
	}

	d.applyGuardrails(table, int64(len(data)))

	d.logger.Info().
		Str("file", filename).
		Int("rows", len(table.Rows)).
		Int("columns", len(table.Columns)).
		Msg("decoded upload")

	return table, nil
}

// applyGuardrails surfaces size and row-count warnings without aborting.
func (d *Decoder) applyGuardrails(table *RawTable, size int64) {
	if d.SizeWarnBytes > 0 && size > d.SizeWarnBytes {
		table.Warn("large file detected (%.1f MB), processing may take longer",
			float64(size)/(1<<20))
	}
	if d.RowWarnLimit > 0 && len(table.Rows) > d.RowWarnLimit {
		table.Warn("large dataset detected (%d rows), consider a smaller sample",
			len(table.Rows))
	}
}

// padRows brings every row to the column count, padding short rows with
// empty cells and truncating long ones.
func padRows(rows [][]string, width int) [][]string {
	for i, row := range rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		case len(row) > width:
			rows[i] = row[:width]
		}
	}
	return rows
}

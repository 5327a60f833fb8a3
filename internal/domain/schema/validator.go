package schema

import (
	"fmt"
	"strings"
)

// RowError describes a single record failing schema validation.
type RowError struct {
	Row     int    // index within the validated batch
	Field   string // canonical column that failed
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d, field %s: %s", e.Row, e.Field, e.Message)
}

// ValidationError aggregates every row-level failure of a batch. Callers
// always get the full list, never just the first failure.
type ValidationError struct {
	Rows []RowError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		msgs = append(msgs, r.Error())
	}
	return fmt.Sprintf("invalid data format:\n%s", strings.Join(msgs, "\n"))
}

// ValidateRecords checks a batch of records against the canonical schema and
// returns the list of per-row failures. An empty result means the batch is
// valid; the caller decides whether any failure is fatal.
func ValidateRecords(records []Record) []RowError {
	var failures []RowError

	for i, r := range records {
		if strings.TrimSpace(r.Date) == "" {
			failures = append(failures, RowError{
				Row:     i,
				Field:   ColDate,
				Message: "required field is empty",
			})
		}
		if strings.TrimSpace(r.Name) == "" {
			failures = append(failures, RowError{
				Row:     i,
				Field:   ColName,
				Message: "required field is empty",
			})
		}
		if !IsNumeric(r.Amount) {
			failures = append(failures, RowError{
				Row:     i,
				Field:   ColAmount,
				Message: "value is not a number",
			})
		}
	}

	return failures
}

// ValidateDelta validates only the records in next that are absent from
// prev, so repeated saves of a mostly-unchanged table stay cheap. Returns a
// *ValidationError carrying every failing row, or nil when the delta is
// valid.
func ValidateDelta(next, prev []Record) error {
	delta := Delta(next, prev)
	if failures := ValidateRecords(delta); len(failures) > 0 {
		return &ValidationError{Rows: failures}
	}
	return nil
}

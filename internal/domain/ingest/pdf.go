package ingest

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// decodePDF extracts transactions from a PDF statement through an ordered
// strategy chain: position-grouped row extraction, then plain-text line
// extraction, then OCR (only when the document has no text layer), then
// manual entry as the terminal fallback.
func (d *Decoder) decodePDF(data []byte, opts Options) (*RawTable, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: "pdf", Err: err}
	}

	now := time.Now()

	// Strategy 1: structured rows. Text fragments grouped by their vertical
	// position reconstruct statement table rows even when the text stream
	// is out of visual order.
	lines := pdfRowLines(reader)
	hadText := hasTextContent(lines)
	rows, lineErrors := extractStatementLines(lines, now)

	// Strategy 2: plain text layer, line oriented.
	if len(rows) == 0 {
		lines = pdfPlainLines(reader)
		hadText = hadText || hasTextContent(lines)
		rows, lineErrors = extractStatementLines(lines, now)
	}

	// Strategy 3: OCR, only when there is no extractable text layer.
	if len(rows) == 0 && !hadText && opts.OCR != nil && opts.OCR.Available() {
		text, ocrErr := opts.OCR.ExtractText(data)
		if ocrErr != nil {
			return nil, &DecodeError{Format: "pdf", Err: ocrErr}
		}
		rows, lineErrors = extractStatementLines(strings.Split(text, "\n"), now)
	}

	// Strategy 4: interactive manual entry.
	if len(rows) == 0 {
		if opts.ManualEntry == nil {
			return nil, ErrManualEntryRequired
		}
		manual, manualErr := opts.ManualEntry()
		if manualErr != nil {
			return nil, &DecodeError{Format: "pdf", Err: manualErr}
		}
		for _, m := range manual {
			rows = append(rows, []string{m.Date, m.Name, m.Amount, m.Type})
		}
	}

	table := &RawTable{
		Columns:    append([]string{}, statementColumns...),
		Rows:       rows,
		LineErrors: lineErrors,
		Canonical:  true,
	}
	if len(lineErrors) > 0 {
		table.Warn("%d statement lines could not be parsed", len(lineErrors))
	}
	return table, nil
}

// pdfRowLines joins position-grouped text fragments per page row.
func pdfRowLines(reader *pdf.Reader) []string {
	var lines []string

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue // fall through to the plain-text strategy
		}
		for _, row := range rows {
			var cells []string
			for _, text := range row.Content {
				if s := strings.TrimSpace(text.S); s != "" {
					cells = append(cells, s)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, "  "))
			}
		}
	}

	return lines
}

// pdfPlainLines splits the raw text layer into lines.
func pdfPlainLines(reader *pdf.Reader) []string {
	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil
	}
	content, err := io.ReadAll(textReader)
	if err != nil {
		return nil
	}
	return strings.Split(string(content), "\n")
}

func hasTextContent(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

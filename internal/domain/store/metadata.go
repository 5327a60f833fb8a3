package store

import (
	"time"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// HistoryLimit caps the upload history kept per user, newest first.
const HistoryLimit = 10

// UploadRecord is one entry in the upload history.
type UploadRecord struct {
	Filename    string `json:"filename"`
	Timestamp   string `json:"timestamp"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
}

// UploadMetadata is the per-user sidecar written next to the transaction
// table.
type UploadMetadata struct {
	LastUploadFilename  string         `json:"last_upload_filename"`
	LastUploadTimestamp string         `json:"last_upload_timestamp"`
	UploadHistory       []UploadRecord `json:"upload_history"`
}

// RecordUpload prepends an upload to the history and trims it to the cap.
func (m *UploadMetadata) RecordUpload(filename string, at time.Time, rows, cols int) {
	timestamp := at.Format(schema.TimestampLayout)

	m.LastUploadFilename = filename
	m.LastUploadTimestamp = timestamp

	history := make([]UploadRecord, 0, len(m.UploadHistory)+1)
	history = append(history, UploadRecord{
		Filename:    filename,
		Timestamp:   timestamp,
		RowCount:    rows,
		ColumnCount: cols,
	})
	history = append(history, m.UploadHistory...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	m.UploadHistory = history
}

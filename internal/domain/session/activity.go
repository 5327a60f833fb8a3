package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// ActivityLog records user-visible actions (uploads, edits, exports).
type ActivityLog interface {
	Append(identity, action string) error
}

// ActivityEntry is one line of the activity log file.
type ActivityEntry struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// FileActivityLog appends JSON lines to a single log file.
type FileActivityLog struct {
	mu   sync.Mutex
	path string
}

// NewFileActivityLog creates a log writing to path; the file is created on
// first append.
func NewFileActivityLog(path string) *FileActivityLog {
	return &FileActivityLog{path: path}
}

// Append writes one entry. Concurrent appends are serialized.
func (l *FileActivityLog) Append(identity, action string) error {
	entry := ActivityEntry{
		ID:        uuid.NewString(),
		User:      identity,
		Action:    action,
		Timestamp: time.Now().Format(schema.TimestampLayout),
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode activity entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append activity log: %w", err)
	}
	return nil
}

// NopActivityLog discards every entry.
type NopActivityLog struct{}

func (NopActivityLog) Append(string, string) error { return nil }

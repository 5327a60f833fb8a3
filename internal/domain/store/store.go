// Package store persists each user's transaction table and upload metadata
// as JSON files keyed by a sanitized user identity. Writes are serialized
// per user through a file-scoped lock; reads are lock-free and lenient, so
// a corrupt record degrades to an empty table instead of a crash.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
)

// Store reads and writes user records under a single data directory.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// New creates the data directory if needed and returns a store rooted at it.
func New(logger zerolog.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// SanitizeIdentity maps a user identity onto a filesystem-safe storage key:
// lower-cased, every non-alphanumeric rune replaced with an underscore.
// The mapping is not injective ("a.b" and "a_b" collide); identities are
// expected to be unique after sanitization.
func SanitizeIdentity(identity string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(identity)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (s *Store) dataPath(identity string) string {
	return filepath.Join(s.dir, SanitizeIdentity(identity)+".json")
}

func (s *Store) metadataPath(identity string) string {
	return filepath.Join(s.dir, SanitizeIdentity(identity)+"_metadata.json")
}

// Load returns the user's transaction table. A missing file yields an
// empty table and no error; a corrupt or schema-invalid file yields an
// empty table plus the error, so the session can keep running.
func (s *Store) Load(identity string) (*schema.Table, error) {
	data, err := os.ReadFile(s.dataPath(identity))
	if errors.Is(err, os.ErrNotExist) {
		return schema.Empty(), nil
	}
	if err != nil {
		return schema.Empty(), fmt.Errorf("read user data: %w", err)
	}

	var records []schema.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn().Str("user", SanitizeIdentity(identity)).Err(err).Msg("corrupt user data file")
		return schema.Empty(), fmt.Errorf("corrupt user data: %w", err)
	}

	if failures := schema.ValidateRecords(records); len(failures) > 0 {
		return schema.Empty(), &schema.ValidationError{Rows: failures}
	}

	table := &schema.Table{Records: records}
	for _, r := range records {
		if r.Type != "" {
			table.HasType = true
			break
		}
	}
	return table, nil
}

// Save writes the full table for the user, replacing previous contents.
// The write holds an exclusive file lock, validates the delta against the
// stored records first and is atomic on disk (temp file + rename), so a
// failed save never leaves a half-written record behind. A non-nil meta is
// written alongside under the same lock.
func (s *Store) Save(identity string, table *schema.Table, meta *UploadMetadata) error {
	path := s.dataPath(identity)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire user file lock: %w", err)
	}
	defer lock.Unlock()

	var previous []schema.Record
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &previous); err != nil {
			// A corrupt stored file cannot anchor the delta; validate the
			// full table and let the save repair the file.
			s.logger.Warn().Str("user", SanitizeIdentity(identity)).Err(err).Msg("stored data unreadable, validating full table")
			previous = nil
		}
	}

	if err := schema.ValidateDelta(table.Records, previous); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(table.Records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode user data: %w", err)
	}
	if err := s.writeAtomic(path, payload); err != nil {
		return err
	}

	if meta != nil {
		metaPayload, err := json.MarshalIndent(meta, "", "    ")
		if err != nil {
			return fmt.Errorf("encode upload metadata: %w", err)
		}
		if err := s.writeAtomic(s.metadataPath(identity), metaPayload); err != nil {
			return err
		}
	}

	s.logger.Info().
		Str("user", SanitizeIdentity(identity)).
		Int("rows", table.RowCount()).
		Msg("saved user data")
	return nil
}

// LoadMetadata returns the user's upload metadata, or a zero value when
// none has been written yet.
func (s *Store) LoadMetadata(identity string) (*UploadMetadata, error) {
	data, err := os.ReadFile(s.metadataPath(identity))
	if errors.Is(err, os.ErrNotExist) {
		return &UploadMetadata{}, nil
	}
	if err != nil {
		return &UploadMetadata{}, fmt.Errorf("read upload metadata: %w", err)
	}

	var meta UploadMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return &UploadMetadata{}, fmt.Errorf("corrupt upload metadata: %w", err)
	}
	return &meta, nil
}

func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".write-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

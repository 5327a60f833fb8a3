// Package session holds the per-user in-memory state of an interactive
// session: the cached transaction table and upload metadata. The cache is
// loaded from the store on first access and explicitly flushed back after
// mutation; there is no global mutable state.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MrPrince419/Expense-DashBoard/internal/domain/schema"
	"github.com/MrPrince419/Expense-DashBoard/internal/domain/store"
)

// Session is the exclusively-owned state of one user's session.
type Session struct {
	ID       string
	Identity string

	mu    sync.Mutex
	store *store.Store
	table *schema.Table
	meta  *store.UploadMetadata
}

// Refresh reloads the cached table and metadata from the store, discarding
// local state. A load error leaves the session with an empty table.
func (s *Session) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.store.Load(s.Identity)
	s.table = table

	meta, metaErr := s.store.LoadMetadata(s.Identity)
	s.meta = meta

	if err != nil {
		return err
	}
	return metaErr
}

// Table returns a copy of the cached table; mutating it does not touch the
// session until Replace or Edit is called.
func (s *Session) Table() *schema.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Clone()
}

// Metadata returns a copy of the cached upload metadata. The history
// slice is copied too, so mutating the result cannot touch the session.
func (s *Session) Metadata() store.UploadMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := *s.meta
	meta.UploadHistory = append([]store.UploadRecord(nil), s.meta.UploadHistory...)
	return meta
}

// Replace swaps in a freshly uploaded table, records the upload in the
// metadata history and flushes both to the store. The cache is updated
// only when the save succeeds.
func (s *Session) Replace(table *schema.Table, filename string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := *s.meta
	meta.RecordUpload(filename, at, table.RowCount(), table.ColumnCount())

	if err := s.store.Save(s.Identity, table, &meta); err != nil {
		return err
	}

	s.table = table.Clone()
	s.meta = &meta
	return nil
}

// Edit updates one record in place and flushes the table. The index refers
// to the current table order.
func (s *Session) Edit(index int, record schema.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.table.Records) {
		return fmt.Errorf("record index %d out of range (table has %d rows)", index, len(s.table.Records))
	}

	updated := s.table.Clone()
	updated.Records[index] = record

	if err := s.store.Save(s.Identity, updated, nil); err != nil {
		return err
	}

	s.table = updated
	return nil
}

// Manager hands out one session per user identity.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    *store.Store
	logger   zerolog.Logger
}

// NewManager creates a session manager backed by the given store.
func NewManager(logger zerolog.Logger, st *store.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    st,
		logger:   logger,
	}
}

// Get returns the session for the identity, creating and refreshing it on
// first access. A refresh error on creation is surfaced but the session is
// still usable with an empty table.
func (m *Manager) Get(identity string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[identity]; ok {
		m.mu.Unlock()
		return s, nil
	}

	s := &Session{
		ID:       uuid.NewString(),
		Identity: identity,
		store:    m.store,
	}
	m.sessions[identity] = s
	m.mu.Unlock()

	err := s.Refresh()
	if err != nil {
		m.logger.Warn().Str("user", identity).Err(err).Msg("session started with unreadable stored data")
	}
	m.logger.Info().Str("user", identity).Str("session", s.ID).Msg("session started")
	return s, err
}

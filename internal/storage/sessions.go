// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/util"
)

// SchemaVersion is the current on-disk format. Older files are migrated
// on load and rewritten in this format on the next save.
const SchemaVersion = 2

const sessionsFile = "sessions.json"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrSessionNotFound is returned when a session ID does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SessionError wraps a storage failure with the session ID involved.
type SessionError struct {
	ID  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %v", e.ID, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// Is supports errors.Is(err, ErrSessionNotFound).
func (e *SessionError) Is(target error) bool {
	return target == ErrSessionNotFound && errors.Is(e.Err, ErrSessionNotFound)
}

// =============================================================================
// ON-DISK FORMAT
// =============================================================================

// historyDocument is the persisted shape: a versioned envelope around the
// full session list. The whole document is rewritten on every save.
type historyDocument struct {
	SchemaVersion int              `json:"schema_version"`
	ActiveID      string           `json:"active_id,omitempty"`
	Sessions      []*model.Session `json:"sessions"`
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore persists conversation history as a single JSON document.
//
// RELIABILITY: Load is fail-soft. A missing, corrupt, or unreadable file
// yields an empty store and a logged warning, never a startup failure:
// losing history beats losing the ability to ask questions. Saves go
// through an atomic write so a crash leaves the old file or the new one,
// never a truncated mix.
type SessionStore struct {
	mu       sync.RWMutex
	path     string
	sessions []*model.Session
	activeID string
	log      zerolog.Logger
}

// NewSessionStore creates a store rooted at dir. Nothing is read until
// Load is called.
func NewSessionStore(dir string, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		path: filepath.Join(dir, sessionsFile),
		log:  log.With().Str("component", "storage").Logger(),
	}
}

// Path returns the location of the history file.
func (s *SessionStore) Path() string {
	return s.path
}

// Load reads the history file. Never returns an error: any failure is
// logged and the store starts empty.
func (s *SessionStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("history unreadable, starting empty")
		}
		s.sessions = nil
		return
	}

	doc, err := decodeHistory(data)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("history corrupt, starting empty")
		s.sessions = nil
		return
	}

	s.sessions = doc.Sessions
	s.activeID = doc.ActiveID
	s.sortLocked()
	s.log.Debug().Int("sessions", len(s.sessions)).Msg("history loaded")
}

// decodeHistory parses any historical on-disk shape into the current one.
//
// v2: {"schema_version":2,"sessions":[...]}
// v1: {"sessions":[...]} without a version field
// v0: a bare JSON array of sessions
func decodeHistory(data []byte) (*historyDocument, error) {
	var doc historyDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Sessions != nil {
		return &doc, nil
	}

	// Oldest clients wrote the session list directly.
	var bare []*model.Session
	if err := json.Unmarshal(data, &bare); err == nil {
		return &historyDocument{SchemaVersion: SchemaVersion, Sessions: bare}, nil
	}

	// An empty object is a valid empty store.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("unrecognized history format: %w", err)
	}
	return &historyDocument{SchemaVersion: SchemaVersion}, nil
}

// Save writes the full document atomically.
func (s *SessionStore) Save() error {
	s.mu.RLock()
	doc := historyDocument{
		SchemaVersion: SchemaVersion,
		ActiveID:      s.activeID,
		Sessions:      s.sessions,
	}
	data, err := json.MarshalIndent(&doc, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("history save failed")
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a session by ID and persists the store.
// Sessions are kept most-recently-active first.
func (s *SessionStore) Upsert(session *model.Session) error {
	s.mu.Lock()
	replaced := false
	for i, existing := range s.sessions {
		if existing.ID == session.ID {
			s.sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		s.sessions = append([]*model.Session{session}, s.sessions...)
	}
	s.activeID = session.ID
	s.sortLocked()
	s.mu.Unlock()

	return s.Save()
}

// Remove deletes a session by ID and persists the store.
func (s *SessionStore) Remove(id string) error {
	s.mu.Lock()
	idx := -1
	for i, existing := range s.sessions {
		if existing.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &SessionError{ID: id, Err: ErrSessionNotFound}
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.mu.Unlock()

	return s.Save()
}

// Get returns a deep copy of a session by ID.
func (s *SessionStore) Get(id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.ID == id {
			return session.Clone(), nil
		}
	}
	return nil, &SessionError{ID: id, Err: ErrSessionNotFound}
}

// List returns deep copies of all sessions, most recently active first.
func (s *SessionStore) List() []*model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Session, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = session.Clone()
	}
	return out
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ActiveID returns the ID of the last active session, or "".
func (s *SessionStore) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// sortLocked orders sessions by LastActiveAt descending. Callers hold mu.
func (s *SessionStore) sortLocked() {
	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].LastActiveAt.After(s.sessions[j].LastActiveAt)
	})
}

// Package memory provides an in-process session and journal store.
// It backs journal-less runs and tests; nothing survives the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hectorbennett/command-pattern/internal/storage"
)

// Store keeps sessions and journals in memory. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]storage.Session
	journals map[string][]storage.Record
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]storage.Session),
		journals: make(map[string][]storage.Record),
	}
}

// Close releases nothing; it exists to satisfy storage.Store.
func (s *Store) Close() error {
	return nil
}

// PutSession creates or replaces a session record.
func (s *Store) PutSession(ctx context.Context, session storage.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// GetSession fetches a session record by ID.
func (s *Store) GetSession(ctx context.Context, id string) (storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return storage.Session{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return storage.Session{}, storage.ErrNotFound
	}
	return session, nil
}

// ListSessions returns all sessions ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]storage.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

// DeleteSession removes a session record and its journal.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, id)
	delete(s.journals, id)
	return nil
}

// AppendRecord writes one journal record for a session. A record with
// an existing Seq replaces it.
func (s *Store) AppendRecord(ctx context.Context, sessionID string, rec storage.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if rec.Seq == 0 {
		return fmt.Errorf("record seq is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.journals[sessionID]
	i := sort.Search(len(records), func(i int) bool { return records[i].Seq >= rec.Seq })
	if i < len(records) && records[i].Seq == rec.Seq {
		records[i] = rec
	} else {
		records = append(records, storage.Record{})
		copy(records[i+1:], records[i:])
		records[i] = rec
	}
	s.journals[sessionID] = records
	return nil
}

// ListRecords returns up to limit journal records with Seq greater than
// afterSeq, in Seq order.
func (s *Store) ListRecords(ctx context.Context, sessionID string, afterSeq uint64, limit int) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.journals[sessionID]
	i := sort.Search(len(records), func(i int) bool { return records[i].Seq > afterSeq })
	rest := records[i:]
	if limit > 0 && len(rest) > limit {
		rest = rest[:limit]
	}
	out := make([]storage.Record, len(rest))
	copy(out, rest)
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// TruncateRecords removes all journal records with Seq greater than
// afterSeq.
func (s *Store) TruncateRecords(ctx context.Context, sessionID string, afterSeq uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.journals[sessionID]
	i := sort.Search(len(records), func(i int) bool { return records[i].Seq > afterSeq })
	s.journals[sessionID] = records[:i]
	return nil
}

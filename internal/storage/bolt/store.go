// Package bolt provides a BoltDB-backed session and journal store.
package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/hectorbennett/command-pattern/internal/storage"
)

const (
	sessionBucket = "session"
	journalBucket = "journal"
)

// Store persists sessions and journals in a single BoltDB file.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutSession creates or replaces a session record.
func (s *Store) PutSession(ctx context.Context, session storage.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.Put([]byte(session.ID), payload)
	})
}

// GetSession fetches a session record by ID.
func (s *Store) GetSession(ctx context.Context, id string) (storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return storage.Session{}, err
	}
	if s == nil || s.db == nil {
		return storage.Session{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	var session storage.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := bucket.Get([]byte(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.Session{}, err
	}

	return session, nil
}

// ListSessions returns all sessions ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var sessions []storage.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.ForEach(func(_, payload []byte) error {
			var session storage.Session
			if err := json.Unmarshal(payload, &session); err != nil {
				return fmt.Errorf("unmarshal session: %w", err)
			}
			sessions = append(sessions, session)
			return nil
		})
	})
	if err != nil {
		return nil, err
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
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("session id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		sessions := tx.Bucket([]byte(sessionBucket))
		if sessions == nil {
			return fmt.Errorf("session bucket is missing")
		}
		if sessions.Get([]byte(id)) == nil {
			return storage.ErrNotFound
		}
		if err := sessions.Delete([]byte(id)); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}

		journal := tx.Bucket([]byte(journalBucket))
		if journal == nil {
			return fmt.Errorf("journal bucket is missing")
		}
		for _, key := range keysWithPrefix(journal, recordPrefix(id)) {
			if err := journal.Delete(key); err != nil {
				return fmt.Errorf("delete record: %w", err)
			}
		}
		return nil
	})
}

// AppendRecord writes one journal record for a session.
func (s *Store) AppendRecord(ctx context.Context, sessionID string, rec storage.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if rec.Seq == 0 {
		return fmt.Errorf("record seq is required")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket is missing")
		}
		return bucket.Put(recordKey(sessionID, rec.Seq), payload)
	})
}

// ListRecords returns up to limit journal records with Seq greater than
// afterSeq, in Seq order.
func (s *Store) ListRecords(ctx context.Context, sessionID string, afterSeq uint64, limit int) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	var records []storage.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket is missing")
		}
		prefix := recordPrefix(sessionID)
		c := bucket.Cursor()
		for k, v := c.Seek(recordKey(sessionID, afterSeq+1)); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var rec storage.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal record: %w", err)
			}
			records = append(records, rec)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// TruncateRecords removes all journal records with Seq greater than
// afterSeq.
func (s *Store) TruncateRecords(ctx context.Context, sessionID string, afterSeq uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket is missing")
		}

		prefix := recordPrefix(sessionID)
		var stale [][]byte
		c := bucket.Cursor()
		for k, _ := c.Seek(recordKey(sessionID, afterSeq+1)); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, key := range stale {
			if err := bucket.Delete(key); err != nil {
				return fmt.Errorf("delete record: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{sessionBucket, journalBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// recordKey builds a journal key that sorts by session, then sequence.
func recordKey(sessionID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s/%020d", sessionID, seq))
}

func recordPrefix(sessionID string) []byte {
	return []byte(sessionID + "/")
}

func keysWithPrefix(bucket *bbolt.Bucket, prefix []byte) [][]byte {
	var keys [][]byte
	c := bucket.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	return keys
}

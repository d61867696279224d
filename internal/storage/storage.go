package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Record kinds written by the built-in command codec. Additional kinds
// are registered on a Codec by the packages that own them.
const (
	KindNodeAdd    = "node.add"
	KindNodeRemove = "node.remove"
	KindEdgeAdd    = "edge.add"
	KindEdgeRemove = "edge.remove"
	KindAttrSet    = "attr.set"
	KindCompound   = "compound"
)

// Record is a single journaled command. Seq is 1-based and dense within
// a session: record n corresponds to log entry n-1.
type Record struct {
	Seq     uint64          `json:"seq"`
	Kind    string          `json:"kind"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

// Session is the persisted pointer state of one command journal.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Revision  int       `json:"revision"`
	Cursor    int       `json:"cursor"`
}

// Store persists sessions and their command journals.
type Store interface {
	// PutSession creates or replaces a session.
	PutSession(ctx context.Context, session Session) error

	// GetSession fetches a session by ID. Returns ErrNotFound if the
	// session does not exist.
	GetSession(ctx context.Context, id string) (Session, error)

	// ListSessions returns all sessions ordered by creation time.
	ListSessions(ctx context.Context) ([]Session, error)

	// DeleteSession removes a session and its journal. Deleting a
	// missing session returns ErrNotFound.
	DeleteSession(ctx context.Context, id string) error

	// AppendRecord writes one journal record for a session.
	AppendRecord(ctx context.Context, sessionID string, rec Record) error

	// ListRecords returns up to limit journal records with Seq greater
	// than afterSeq, in Seq order. A limit of zero or less means no
	// limit.
	ListRecords(ctx context.Context, sessionID string, afterSeq uint64, limit int) ([]Record, error)

	// TruncateRecords removes all journal records with Seq greater
	// than afterSeq.
	TruncateRecords(ctx context.Context, sessionID string, afterSeq uint64) error

	// Close releases the store's resources.
	Close() error
}

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
	"github.com/hectorbennett/command-pattern/internal/engine/history"
	"github.com/hectorbennett/command-pattern/internal/storage"
)

// Re-export commonly used types for convenience.
type (
	// Node is a point in the graph, identified by its coordinates.
	Node = graph.Node

	// Edge is a directed connection between two nodes.
	Edge = graph.Edge

	// Command is an undoable graph mutation.
	Command = history.Command

	// Checkpoint marks a revision that can be returned to later.
	Checkpoint = history.Checkpoint

	// Session is the persisted pointer state of a command journal.
	Session = storage.Session
)

// Engine is the main facade for the command-driven graph store.
// It combines the graph, the command history, and journal persistence
// into a unified, thread-safe API.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	// Core components
	graph   *graph.Graph
	history *history.History

	// Persistence
	journal storage.Store
	codec   *storage.Codec
	session storage.Session

	// Configuration
	sessionName string
	clock       func() time.Time

	observers []Observer
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		graph: graph.New(),
		codec: storage.NewCodec(),
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.history = history.New()

	if e.session.ID == "" {
		now := e.clock()
		e.session = storage.Session{
			ID:        uuid.NewString(),
			Name:      e.sessionName,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return e
}

// ============================================================================
// Command Construction
// ============================================================================

// AddNodeCommand builds a command that adds a node.
func (e *Engine) AddNodeCommand(n Node) Command {
	return history.NewAddNodeCommand(e.graph, n)
}

// RemoveNodeCommand builds a command that removes a node.
func (e *Engine) RemoveNodeCommand(n Node) Command {
	return history.NewRemoveNodeCommand(e.graph, n)
}

// AddEdgeCommand builds a command that adds an edge.
func (e *Engine) AddEdgeCommand(edge Edge) Command {
	return history.NewAddEdgeCommand(e.graph, edge)
}

// RemoveEdgeCommand builds a command that removes an edge.
func (e *Engine) RemoveEdgeCommand(edge Edge) Command {
	return history.NewRemoveEdgeCommand(e.graph, edge)
}

// SetAttrCommand builds a command that sets an attribute path on a node.
func (e *Engine) SetAttrCommand(n Node, path string, value any) Command {
	return history.NewSetAttrCommand(e.graph, n, path, value)
}

// ============================================================================
// Write Operations
// ============================================================================

// Append records a command at the current revision without executing
// it. Entries above the revision are discarded, from the journal first
// and then from the in-memory log. A later Execute applies everything
// pending.
func (e *Engine) Append(ctx context.Context, cmd Command) error {
	e.mu.Lock()
	change, err := e.appendOneLocked(ctx, cmd)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(change)
	return nil
}

// Execute applies all pending commands in order. On a command failure
// the commands already applied stay applied, the error is returned, and
// a later Execute resumes from the failed command.
func (e *Engine) Execute(ctx context.Context) error {
	e.mu.Lock()
	change, err := e.executeLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(change)
	return nil
}

// Apply appends the given commands and executes everything pending.
func (e *Engine) Apply(ctx context.Context, cmds ...Command) error {
	e.mu.Lock()
	var changes []*Change
	var err error
	for _, cmd := range cmds {
		var change *Change
		if change, err = e.appendOneLocked(ctx, cmd); err != nil {
			break
		}
		changes = append(changes, change)
	}
	if err == nil {
		var change *Change
		if change, err = e.executeLocked(ctx); err == nil {
			changes = append(changes, change)
		}
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}
	for _, change := range changes {
		e.notify(change)
	}
	return nil
}

// AddNode adds a node through the command history.
func (e *Engine) AddNode(ctx context.Context, n Node) error {
	return e.Apply(ctx, e.AddNodeCommand(n))
}

// RemoveNode removes a node through the command history.
func (e *Engine) RemoveNode(ctx context.Context, n Node) error {
	return e.Apply(ctx, e.RemoveNodeCommand(n))
}

// AddEdge adds an edge through the command history.
func (e *Engine) AddEdge(ctx context.Context, edge Edge) error {
	return e.Apply(ctx, e.AddEdgeCommand(edge))
}

// RemoveEdge removes an edge through the command history.
func (e *Engine) RemoveEdge(ctx context.Context, edge Edge) error {
	return e.Apply(ctx, e.RemoveEdgeCommand(edge))
}

// SetAttr sets an attribute path on a node through the command history.
func (e *Engine) SetAttr(ctx context.Context, n Node, path string, value any) error {
	return e.Apply(ctx, e.SetAttrCommand(n, path, value))
}

// appendOneLocked journals a command and appends it to the in-memory
// log. The journal is written first so a failed write leaves the
// in-memory state untouched.
func (e *Engine) appendOneLocked(ctx context.Context, cmd Command) (*Change, error) {
	if cmd == nil {
		return nil, ErrNilCommand
	}

	if e.journal != nil {
		kind, payload, err := e.codec.Encode(cmd)
		if err != nil {
			return nil, fmt.Errorf("journal append: %w", err)
		}

		rev := uint64(e.history.Revision())
		if e.history.CanRedo() {
			if err := e.journal.TruncateRecords(ctx, e.session.ID, rev); err != nil {
				return nil, fmt.Errorf("journal truncate: %w", err)
			}
		}

		rec := storage.Record{
			Seq:     rev + 1,
			Kind:    kind,
			At:      e.clock(),
			Payload: payload,
		}
		if err := e.journal.AppendRecord(ctx, e.session.ID, rec); err != nil {
			return nil, fmt.Errorf("journal append: %w", err)
		}
	}

	e.history.Append(cmd)
	if err := e.persistSessionLocked(ctx); err != nil {
		return nil, err
	}
	return e.changeLocked(OpAppend, cmd.Description()), nil
}

// executeLocked runs the pending commands and persists the moved
// cursor. A command error takes precedence over a session save error.
func (e *Engine) executeLocked(ctx context.Context) (*Change, error) {
	before := e.history.Cursor()
	execErr := e.history.Execute()
	saveErr := e.persistSessionLocked(ctx)
	if execErr != nil {
		return nil, execErr
	}
	if saveErr != nil {
		return nil, saveErr
	}
	if e.history.Cursor() == before {
		return nil, nil
	}
	return e.changeLocked(OpExecute, ""), nil
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo rolls back the most recent command. Undo with nothing to undo
// is a no-op and returns nil.
func (e *Engine) Undo(ctx context.Context) error {
	e.mu.Lock()
	change, err := e.undoLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(change)
	return nil
}

// Redo re-executes the most recently undone command. Redo with nothing
// to redo is a no-op and returns nil.
func (e *Engine) Redo(ctx context.Context) error {
	e.mu.Lock()
	change, err := e.redoLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(change)
	return nil
}

func (e *Engine) undoLocked(ctx context.Context) (*Change, error) {
	if !e.history.CanUndo() {
		return nil, nil
	}
	cmd, _ := e.history.Command(e.history.Revision() - 1)
	if err := e.history.Undo(); err != nil {
		return nil, err
	}
	if err := e.persistSessionLocked(ctx); err != nil {
		return nil, err
	}
	return e.changeLocked(OpUndo, cmd.Description()), nil
}

func (e *Engine) redoLocked(ctx context.Context) (*Change, error) {
	if !e.history.CanRedo() {
		return nil, nil
	}
	cmd, _ := e.history.Command(e.history.Revision())
	if err := e.history.Redo(); err != nil {
		return nil, err
	}
	if err := e.persistSessionLocked(ctx); err != nil {
		return nil, err
	}
	return e.changeLocked(OpRedo, cmd.Description()), nil
}

// CanUndo returns true if there is a command to undo.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo returns true if there is a command to redo.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// ============================================================================
// Checkpoints
// ============================================================================

// CreateCheckpoint creates a checkpoint at the current revision.
func (e *Engine) CreateCheckpoint() Checkpoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CreateCheckpoint()
}

// SeekRevision undoes or redoes until the given revision is reached.
func (e *Engine) SeekRevision(ctx context.Context, target int) error {
	e.mu.Lock()
	change, err := e.seekLocked(ctx, target)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(change)
	return nil
}

// SeekCheckpoint walks the history back (or forward) to a checkpoint.
func (e *Engine) SeekCheckpoint(ctx context.Context, cp Checkpoint) error {
	return e.SeekRevision(ctx, cp.Revision())
}

func (e *Engine) seekLocked(ctx context.Context, target int) (*Change, error) {
	before := e.history.Revision()
	seekErr := e.history.SeekRevision(target)
	if e.history.Revision() != before {
		if err := e.persistSessionLocked(ctx); err != nil && seekErr == nil {
			return nil, err
		}
	}
	if seekErr != nil {
		return nil, seekErr
	}
	if e.history.Revision() == before {
		return nil, nil
	}
	return e.changeLocked(OpSeek, ""), nil
}

// ============================================================================
// Read Operations (Graph)
// ============================================================================

// HasNode returns true if the node exists.
func (e *Engine) HasNode(n Node) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.HasNode(n)
}

// HasEdge returns true if the edge exists.
func (e *Engine) HasEdge(edge Edge) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.HasEdge(edge)
}

// NodeCount returns the number of nodes.
func (e *Engine) NodeCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.NodeCount()
}

// EdgeCount returns the number of edges.
func (e *Engine) EdgeCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.EdgeCount()
}

// Nodes returns all nodes in sorted order.
func (e *Engine) Nodes() []Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Nodes()
}

// Edges returns all edges in sorted order.
func (e *Engine) Edges() []Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Edges()
}

// EdgesFrom returns the edges leaving a node, in sorted order.
func (e *Engine) EdgesFrom(n Node) []Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.EdgesFrom(n)
}

// EdgesTo returns the edges entering a node, in sorted order.
func (e *Engine) EdgesTo(n Node) []Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.EdgesTo(n)
}

// Attr returns the value at a path inside a node's attribute document.
func (e *Engine) Attr(n Node, path string) gjson.Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Attr(n, path)
}

// AttrJSON returns a copy of a node's attribute document.
func (e *Engine) AttrJSON(n Node) []byte {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.AttrJSON(n)
}

// ============================================================================
// Read Operations (History)
// ============================================================================

// Revision returns the history's intended-position pointer.
func (e *Engine) Revision() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Revision()
}

// Cursor returns the history's applied-up-to pointer.
func (e *Engine) Cursor() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Cursor()
}

// LogLen returns the number of commands in the history log.
func (e *Engine) LogLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Len()
}

// PendingCount returns the number of appended commands not yet applied.
func (e *Engine) PendingCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.PendingCount()
}

// Descriptions returns the description of every log entry in order.
func (e *Engine) Descriptions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Descriptions()
}

// SessionInfo returns the engine's session with current pointer values.
func (e *Engine) SessionInfo() Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	session := e.session
	session.Revision = e.history.Revision()
	session.Cursor = e.history.Cursor()
	return session
}

// ============================================================================
// Internal
// ============================================================================

// persistSessionLocked refreshes the session pointers and saves them to
// the journal if one is configured.
func (e *Engine) persistSessionLocked(ctx context.Context) error {
	e.session.Revision = e.history.Revision()
	e.session.Cursor = e.history.Cursor()
	e.session.UpdatedAt = e.clock()
	if e.journal == nil {
		return nil
	}
	if err := e.journal.PutSession(ctx, e.session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (e *Engine) changeLocked(op Op, description string) *Change {
	return &Change{
		Op:          op,
		Description: description,
		Revision:    e.history.Revision(),
		Cursor:      e.history.Cursor(),
		LogLen:      e.history.Len(),
	}
}

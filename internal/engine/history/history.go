package history

import "fmt"

// History is a linear, branch-truncating command log with two pointers:
// revision marks the intended position in the log, cursor marks how far
// the log has actually been applied to the store.
//
// Appending is deferred: Append records a command without running it, and
// a later Execute applies everything between cursor and revision. Undo and
// Redo are eager and move both pointers together. Appending while undone
// state exists truncates the entries above revision; they cannot be
// recovered.
//
// The pointers always satisfy 0 <= cursor <= revision <= Len().
//
// A History is not safe for concurrent use; callers serialize access.
type History struct {
	log      []Command
	cursor   int
	revision int
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Append records a command at the current revision without executing it.
// Any entries above the current revision are discarded first.
func (h *History) Append(cmd Command) {
	h.log = append(h.log[:h.revision], cmd)
	h.revision++
}

// Execute applies all pending commands between cursor and revision, in
// order. On success cursor equals revision. On a command failure the
// error is returned immediately: commands already applied stay applied,
// cursor rests on the failed entry, and a later Execute resumes from
// there.
func (h *History) Execute() error {
	for h.cursor < h.revision {
		cmd := h.log[h.cursor]
		if err := cmd.Execute(); err != nil {
			return fmt.Errorf("execute %q: %w", cmd.Description(), err)
		}
		h.cursor++
	}
	return nil
}

// Undo rolls back the command below the current revision and moves both
// pointers down one entry. Undo at revision zero is a no-op and returns
// nil. On a rollback failure the pointers are left unchanged and the
// error is returned.
func (h *History) Undo() error {
	if h.revision == 0 {
		return nil
	}
	cmd := h.log[h.revision-1]
	if err := cmd.Rollback(); err != nil {
		return fmt.Errorf("undo %q: %w", cmd.Description(), err)
	}
	h.revision--
	h.cursor = h.revision
	return nil
}

// Redo re-executes the command at the current revision and moves both
// pointers up one entry. Redo at the top of the log is a no-op and
// returns nil. On an execution failure the pointers are left unchanged
// and the error is returned.
func (h *History) Redo() error {
	if h.revision == len(h.log) {
		return nil
	}
	cmd := h.log[h.revision]
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("redo %q: %w", cmd.Description(), err)
	}
	h.revision++
	h.cursor = h.revision
	return nil
}

// Cursor returns the applied-up-to pointer.
func (h *History) Cursor() int {
	return h.cursor
}

// Revision returns the intended-position pointer.
func (h *History) Revision() int {
	return h.revision
}

// Len returns the number of commands in the log.
func (h *History) Len() int {
	return len(h.log)
}

// CanUndo returns true if undo would roll back a command.
func (h *History) CanUndo() bool {
	return h.revision > 0
}

// CanRedo returns true if redo would re-execute a command.
func (h *History) CanRedo() bool {
	return h.revision < len(h.log)
}

// PendingCount returns the number of appended commands not yet applied.
func (h *History) PendingCount() int {
	return h.revision - h.cursor
}

// Descriptions returns the description of every log entry in order.
func (h *History) Descriptions() []string {
	descs := make([]string, len(h.log))
	for i, cmd := range h.log {
		descs[i] = cmd.Description()
	}
	return descs
}

// Command returns the log entry at the given index.
func (h *History) Command(i int) (Command, bool) {
	if i < 0 || i >= len(h.log) {
		return nil, false
	}
	return h.log[i], true
}

// Clear removes all entries and resets both pointers.
// The store is left as it is.
func (h *History) Clear() {
	h.log = nil
	h.cursor = 0
	h.revision = 0
}

package history

import "fmt"

// Checkpoint represents a revision that can be returned to later.
type Checkpoint struct {
	revision int
}

// Revision returns the revision the checkpoint marks.
func (cp Checkpoint) Revision() int {
	return cp.revision
}

// CreateCheckpoint creates a checkpoint at the current revision.
func (h *History) CreateCheckpoint() Checkpoint {
	return Checkpoint{revision: h.revision}
}

// SeekRevision undoes or redoes one entry at a time until the revision
// pointer reaches target. Returns ErrRevisionOutOfRange if target is
// outside [0, Len()]. A failed step stops the walk with the pointers at
// the last completed entry.
func (h *History) SeekRevision(target int) error {
	if target < 0 || target > len(h.log) {
		return fmt.Errorf("seek revision %d: %w", target, ErrRevisionOutOfRange)
	}
	for h.revision > target {
		if err := h.Undo(); err != nil {
			return err
		}
	}
	for h.revision < target {
		if err := h.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// SeekCheckpoint walks the history back (or forward) to a checkpoint.
func (h *History) SeekCheckpoint(cp Checkpoint) error {
	return h.SeekRevision(cp.revision)
}

// Restore builds a history from a previously recorded log and pointer
// positions without executing anything. The caller is responsible for
// bringing the store into the state the cursor describes.
func Restore(log []Command, revision, cursor int) (*History, error) {
	if revision < 0 || revision > len(log) {
		return nil, fmt.Errorf("restore revision %d with %d entries: %w", revision, len(log), ErrRevisionOutOfRange)
	}
	if cursor < 0 || cursor > revision {
		return nil, fmt.Errorf("restore cursor %d at revision %d: %w", cursor, revision, ErrCursorOutOfRange)
	}
	h := &History{
		log:      make([]Command, len(log)),
		cursor:   cursor,
		revision: revision,
	}
	copy(h.log, log)
	return h, nil
}

package engine

// Op categorizes engine state changes reported to observers.
type Op int

// Engine change operations.
const (
	OpAppend Op = iota
	OpExecute
	OpUndo
	OpRedo
	OpSeek
	OpLoad
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpAppend:
		return "append"
	case OpExecute:
		return "execute"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	case OpSeek:
		return "seek"
	case OpLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Change describes one engine state change.
type Change struct {
	Op          Op
	Description string
	Revision    int
	Cursor      int
	LogLen      int
}

// Observer receives engine state changes.
type Observer func(Change)

// Observe registers an observer. Observers are called synchronously,
// after the engine lock is released, in registration order. Operations
// that change nothing and operations that fail are not reported.
func (e *Engine) Observe(fn Observer) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.observers = append(e.observers, fn)
	e.mu.Unlock()
}

// notify fans a change out to the registered observers. A nil change
// means the operation was a no-op.
func (e *Engine) notify(change *Change) {
	if change == nil {
		return
	}
	e.mu.RLock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.RUnlock()
	for _, fn := range observers {
		fn(*change)
	}
}

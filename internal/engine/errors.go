package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNilCommand indicates a nil command was appended or applied.
	ErrNilCommand = errors.New("nil command")

	// ErrNoJournal indicates an operation that needs a journal was
	// called on a memory-only engine.
	ErrNoJournal = errors.New("engine has no journal")
)

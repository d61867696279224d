package history

import "errors"

// History errors.
var (
	// ErrRevisionOutOfRange indicates a revision outside [0, Len()].
	ErrRevisionOutOfRange = errors.New("revision out of range")

	// ErrCursorOutOfRange indicates a cursor outside [0, revision].
	ErrCursorOutOfRange = errors.New("cursor out of range")
)

package script

import "errors"

// Errors for script host operations.
var (
	// ErrHostClosed is returned when operating on a closed host.
	ErrHostClosed = errors.New("script host is closed")

	// ErrCommandNotFound is returned when a script command name is not
	// registered.
	ErrCommandNotFound = errors.New("script command not found")
)

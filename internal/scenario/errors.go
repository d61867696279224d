package scenario

import "errors"

// ErrUnknownOp indicates a step named an operation that does not exist.
var ErrUnknownOp = errors.New("unknown scenario op")

// ErrNoResolver indicates a script step was built without a script resolver.
var ErrNoResolver = errors.New("no script resolver")

package engine

import (
	"time"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
	"github.com/hectorbennett/command-pattern/internal/storage"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithGraph sets the graph store the engine operates on. Callers that
// build commands outside the engine, such as a script host, share the
// store this way.
func WithGraph(g *graph.Graph) Option {
	return func(e *Engine) {
		if g != nil {
			e.graph = g
		}
	}
}

// WithJournal sets the store that persists the engine's session and
// command journal. Without a journal the engine is memory-only.
func WithJournal(store storage.Store) Option {
	return func(e *Engine) {
		e.journal = store
	}
}

// WithCodec sets the codec used to journal commands. Use this to pass
// a codec with extra record kinds registered on it.
func WithCodec(codec *storage.Codec) Option {
	return func(e *Engine) {
		if codec != nil {
			e.codec = codec
		}
	}
}

// WithSession resumes an existing session identity instead of creating
// a fresh one. Pair it with Load to replay the session's journal.
func WithSession(session storage.Session) Option {
	return func(e *Engine) {
		e.session = session
	}
}

// WithSessionName names the session the engine creates.
// Ignored when WithSession is used.
func WithSessionName(name string) Option {
	return func(e *Engine) {
		e.sessionName = name
	}
}

// WithClock sets the time source for journal timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

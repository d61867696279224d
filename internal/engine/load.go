package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hectorbennett/command-pattern/internal/engine/history"
	"github.com/hectorbennett/command-pattern/internal/storage"
)

// loadPageSize is the number of journal records fetched per page while
// replaying a session.
const loadPageSize = 256

// Load replays the engine's session from the journal. The graph is
// rebuilt by executing the journaled commands up to the saved cursor,
// and the history log and pointers are restored to their saved
// positions. A session that was never saved leaves the engine empty.
//
// Any record kinds beyond the built-in commands must be registered on
// the engine's codec before Load is called. On error the engine's state
// is unspecified and the engine should be discarded.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	change, err := e.loadLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(change)
	return nil
}

func (e *Engine) loadLocked(ctx context.Context) (*Change, error) {
	if e.journal == nil {
		return nil, ErrNoJournal
	}

	session, err := e.journal.GetSession(ctx, e.session.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var log []history.Command
	var after uint64
	for {
		records, err := e.journal.ListRecords(ctx, e.session.ID, after, loadPageSize)
		if err != nil {
			return nil, fmt.Errorf("load records: %w", err)
		}
		if len(records) == 0 {
			break
		}
		for _, rec := range records {
			cmd, err := e.codec.Decode(e.graph, rec)
			if err != nil {
				return nil, fmt.Errorf("load: %w", err)
			}
			log = append(log, cmd)
			after = rec.Seq
		}
		if len(records) < loadPageSize {
			break
		}
	}

	restored, err := history.Restore(log, session.Revision, session.Cursor)
	if err != nil {
		return nil, fmt.Errorf("restore history: %w", err)
	}

	// Rebuild the graph by replaying the applied prefix
	e.graph.Clear()
	for i := 0; i < session.Cursor; i++ {
		if err := log[i].Execute(); err != nil {
			return nil, fmt.Errorf("replay command %d: %w", i+1, err)
		}
	}

	e.history = restored
	e.session = session
	return e.changeLocked(OpLoad, ""), nil
}

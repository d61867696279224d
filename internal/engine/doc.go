// Package engine provides the core command-driven graph store.
//
// The engine package serves as the main facade, combining the graph
// store, the undoable command history, and journal persistence into a
// unified, thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - graph: mutable store of coordinate nodes and directed edges
//   - history: linear, branch-truncating command log with undo/redo
//
// Persistence goes through the storage package: every appended command
// is journaled as a record, and the session's revision and cursor
// pointers are saved alongside, so a later run can replay the journal
// and pick up where the last one stopped.
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write
// mutex to allow concurrent reads while serializing writes. The graph
// and history beneath it are unsynchronized; the engine is their only
// entry point.
//
// # Basic Usage
//
// Create an engine and mutate the graph through commands:
//
//	e := engine.New()
//	ctx := context.Background()
//
//	// Apply commands immediately
//	e.AddNode(ctx, engine.Node{X: 0, Y: 0})
//	e.AddNode(ctx, engine.Node{X: 1, Y: 1})
//	e.AddEdge(ctx, engine.Edge{
//	    From: engine.Node{X: 0, Y: 0},
//	    To:   engine.Node{X: 1, Y: 1},
//	})
//
//	// Undo the edge
//	e.Undo(ctx)
//
//	// Bring it back
//	e.Redo(ctx)
//
// # Deferred Batches
//
// Append records commands without running them; Execute applies
// everything pending in order:
//
//	e.Append(ctx, e.AddNodeCommand(engine.Node{X: 2, Y: 2}))
//	e.Append(ctx, e.AddNodeCommand(engine.Node{X: 3, Y: 3}))
//	e.Execute(ctx) // both nodes appear now
//
// Execution is fail-fast: on a command error the applied prefix stays
// applied and a later Execute resumes from the failed command.
//
// Appending after an undo discards the undone entries; there is no
// branching history.
//
// # Persistence
//
// Give the engine a journal to make sessions durable:
//
//	store, _ := bolt.Open("graphcmd.db")
//	defer store.Close()
//
//	e := engine.New(
//	    engine.WithJournal(store),
//	    engine.WithSessionName("scratch"),
//	)
//	e.AddNode(ctx, engine.Node{X: 0, Y: 0})
//
// A later run resumes the session by ID:
//
//	e := engine.New(
//	    engine.WithJournal(store),
//	    engine.WithSession(saved),
//	)
//	e.Load(ctx) // replays the journal up to the saved cursor
//
// # Checkpoints
//
// Checkpoints mark revisions to return to:
//
//	cp := e.CreateCheckpoint()
//	// ... more commands ...
//	e.SeekCheckpoint(ctx, cp)
//
// # Error Handling
//
// The package defines two error values:
//
//   - ErrNilCommand: a nil command was appended or applied
//   - ErrNoJournal: Load was called on a memory-only engine
//
// Command failures propagate unchanged from the graph, wrapped with
// the failing command's description. Undo with nothing to undo and
// redo with nothing to redo are silent no-ops.
package engine

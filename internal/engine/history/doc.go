// Package history provides linear undo/redo for graph mutations.
//
// The package uses the Command pattern: every mutation is a Command with
// Execute and Rollback methods bound to a graph at construction. Key
// concepts:
//
// # Commands
//
// Built-in commands cover the graph's mutation surface:
//   - AddNodeCommand / RemoveNodeCommand
//   - AddEdgeCommand / RemoveEdgeCommand
//   - SetAttrCommand: path-addressed attribute updates
//   - CompoundCommand: group multiple commands as one unit
//
// Commands that displace state (RemoveNodeCommand, SetAttrCommand)
// capture it during Execute so Rollback restores it exactly.
//
// # The Log
//
// History keeps one command log and two pointers into it. The revision
// pointer marks the intended position, the cursor marks how much has been
// applied:
//
//	h := history.New()
//
//	// Record without executing
//	h.Append(history.NewAddNodeCommand(g, graph.NewNode(0, 0)))
//	h.Append(history.NewAddNodeCommand(g, graph.NewNode(1, 1)))
//
//	// Apply everything pending
//	if err := h.Execute(); err != nil { ... }
//
//	// Traverse
//	h.Undo()
//	h.Redo()
//
// Appending after an undo discards the entries above the current
// revision. There is no branching; the discarded entries are gone.
//
// # Checkpoints
//
// A Checkpoint marks a revision to return to with SeekCheckpoint, and
// SeekRevision walks the pointers to an arbitrary position:
//
//	cp := h.CreateCheckpoint()
//	// ... more commands ...
//	h.SeekCheckpoint(cp)
package history

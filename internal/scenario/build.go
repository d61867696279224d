package scenario

import (
	"fmt"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
	"github.com/hectorbennett/command-pattern/internal/engine/history"
)

// ScriptResolver resolves a script step into a runnable command. The
// script host provides one; args arrive as strings exactly as written
// in the scenario file.
type ScriptResolver func(name string, args ...any) (history.Command, error)

// Build translates steps into commands bound to the given graph.
// Script steps go through resolve; a nil resolver rejects them.
// Nothing is executed here.
func Build(steps []Step, g *graph.Graph, resolve ScriptResolver) ([]history.Command, error) {
	cmds := make([]history.Command, 0, len(steps))
	for i, st := range steps {
		cmd, err := buildStep(st, g, resolve)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func buildStep(st Step, g *graph.Graph, resolve ScriptResolver) (history.Command, error) {
	if err := st.validate(); err != nil {
		return nil, err
	}

	switch st.Op {
	case OpAddNode:
		return history.NewAddNodeCommand(g, st.Node.node()), nil
	case OpRemoveNode:
		return history.NewRemoveNodeCommand(g, st.Node.node()), nil
	case OpAddEdge:
		return history.NewAddEdgeCommand(g, graph.NewEdge(st.From.node(), st.To.node())), nil
	case OpRemoveEdge:
		return history.NewRemoveEdgeCommand(g, graph.NewEdge(st.From.node(), st.To.node())), nil
	case OpSetAttr:
		return history.NewSetAttrCommand(g, st.Node.node(), st.Path, st.Value), nil
	case OpScript:
		if resolve == nil {
			return nil, fmt.Errorf("script %q: %w", st.Name, ErrNoResolver)
		}
		args := make([]any, len(st.Args))
		for i, a := range st.Args {
			args[i] = a
		}
		cmd, err := resolve(st.Name, args...)
		if err != nil {
			return nil, fmt.Errorf("script %q: %w", st.Name, err)
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("op %q: %w", st.Op, ErrUnknownOp)
	}
}

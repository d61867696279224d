package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hectorbennett/command-pattern/internal/engine"
	"github.com/hectorbennett/command-pattern/internal/engine/history"
	"github.com/hectorbennett/command-pattern/internal/scenario"
)

const helpText = `Commands:
  node add <x> <y>                 Add a node
  node rm <x> <y>                  Remove a node
  edge add <x1> <y1> <x2> <y2>     Add a directed edge
  edge rm <x1> <y1> <x2> <y2>      Remove an edge
  attr set <x> <y> <path> <value>  Set a node attribute (value may be JSON)
  attr get <x> <y> <path>          Read a node attribute
  cmd <script> [args...]           Run a registered script command
  apply [-atomic] <file>           Apply a scenario file
  run                              Execute pending commands
  undo                             Undo the last applied command
  redo                             Re-apply the last undone command
  seek <revision>                  Undo or redo to an exact revision
  log                              List history ([x] = applied)
  show                             Print nodes and edges
  status                           Print session and pointer state
  help                             Show this help
  quit                             Exit
`

// Shell is the interactive command loop. Each input line maps onto one
// engine operation.
type Shell struct {
	app *Application
	in  io.Reader
	out io.Writer
}

// NewShell creates a shell bound to the application.
// Nil streams default to os.Stdin and os.Stdout.
func NewShell(app *Application, in io.Reader, out io.Writer) *Shell {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Shell{app: app, in: in, out: out}
}

// Run reads and executes commands until quit or end of input.
// Returns ErrQuit on an explicit quit, nil on end of input.
func (s *Shell) Run() error {
	ctx := context.Background()
	scanner := bufio.NewScanner(s.in)

	for {
		fmt.Fprint(s.out, "graphcmd> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Fprintln(s.out)
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := s.dispatch(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return err
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Fprint(s.out, helpText)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "node":
		return s.nodeCmd(ctx, args)
	case "edge":
		return s.edgeCmd(ctx, args)
	case "attr":
		return s.attrCmd(ctx, args)
	case "cmd":
		return s.scriptCmd(ctx, args)
	case "apply":
		return s.applyCmd(ctx, args)
	case "run":
		return s.runCmd(ctx)
	case "undo":
		return s.undoCmd(ctx)
	case "redo":
		return s.redoCmd(ctx)
	case "seek":
		return s.seekCmd(ctx, args)
	case "log":
		return s.logCmd()
	case "show":
		return s.showCmd()
	case "status":
		return s.statusCmd()
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

// ok prints a confirmation with the current pointer state.
func (s *Shell) ok(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	eng := s.app.engine
	fmt.Fprintf(s.out, "%s  [revision %d, cursor %d]\n", msg, eng.Revision(), eng.Cursor())
}

func (s *Shell) nodeCmd(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: node add|rm <x> <y>")
	}
	n, err := parseNode(args[1], args[2])
	if err != nil {
		return err
	}

	switch args[0] {
	case "add":
		if err := s.app.engine.AddNode(ctx, n); err != nil {
			return err
		}
		s.ok("added node (%d, %d)", n.X, n.Y)
	case "rm":
		if err := s.app.engine.RemoveNode(ctx, n); err != nil {
			return err
		}
		s.ok("removed node (%d, %d)", n.X, n.Y)
	default:
		return errors.New("usage: node add|rm <x> <y>")
	}
	return nil
}

func (s *Shell) edgeCmd(ctx context.Context, args []string) error {
	if len(args) != 5 {
		return errors.New("usage: edge add|rm <x1> <y1> <x2> <y2>")
	}
	from, err := parseNode(args[1], args[2])
	if err != nil {
		return err
	}
	to, err := parseNode(args[3], args[4])
	if err != nil {
		return err
	}
	edge := engine.Edge{From: from, To: to}

	switch args[0] {
	case "add":
		if err := s.app.engine.AddEdge(ctx, edge); err != nil {
			return err
		}
		s.ok("added edge (%d, %d) -> (%d, %d)", from.X, from.Y, to.X, to.Y)
	case "rm":
		if err := s.app.engine.RemoveEdge(ctx, edge); err != nil {
			return err
		}
		s.ok("removed edge (%d, %d) -> (%d, %d)", from.X, from.Y, to.X, to.Y)
	default:
		return errors.New("usage: edge add|rm <x1> <y1> <x2> <y2>")
	}
	return nil
}

func (s *Shell) attrCmd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: attr set|get <x> <y> <path> [value]")
	}

	switch args[0] {
	case "set":
		if len(args) < 5 {
			return errors.New("usage: attr set <x> <y> <path> <value>")
		}
		n, err := parseNode(args[1], args[2])
		if err != nil {
			return err
		}
		value := parseValue(strings.Join(args[4:], " "))
		if err := s.app.engine.SetAttr(ctx, n, args[3], value); err != nil {
			return err
		}
		s.ok("set %q on (%d, %d)", args[3], n.X, n.Y)
	case "get":
		if len(args) != 4 {
			return errors.New("usage: attr get <x> <y> <path>")
		}
		n, err := parseNode(args[1], args[2])
		if err != nil {
			return err
		}
		if !s.app.engine.HasNode(n) {
			return fmt.Errorf("node (%d, %d) not found", n.X, n.Y)
		}
		res := s.app.engine.Attr(n, args[3])
		if !res.Exists() {
			fmt.Fprintf(s.out, "no value at %q\n", args[3])
			return nil
		}
		fmt.Fprintln(s.out, res.String())
	default:
		return errors.New("usage: attr set|get <x> <y> <path> [value]")
	}
	return nil
}

// parseValue interprets attribute value text. Valid JSON passes through
// typed; anything else becomes a plain string.
func parseValue(text string) any {
	if json.Valid([]byte(text)) {
		return json.RawMessage(text)
	}
	return text
}

func (s *Shell) scriptCmd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: cmd <script> [args...]")
	}

	scriptArgs := make([]any, len(args)-1)
	for i, a := range args[1:] {
		scriptArgs[i] = a
	}
	cmd, err := s.resolveScript(args[0], scriptArgs...)
	if err != nil {
		return err
	}

	if err := s.app.engine.Apply(ctx, cmd); err != nil {
		return err
	}
	s.ok("ran %q", args[0])
	return nil
}

// resolveScript adapts the script host to scenario.ScriptResolver.
func (s *Shell) resolveScript(name string, args ...any) (history.Command, error) {
	return s.app.host.Command(name, args...)
}

func (s *Shell) applyCmd(ctx context.Context, args []string) error {
	atomic := false
	if len(args) > 0 && args[0] == "-atomic" {
		atomic = true
		args = args[1:]
	}
	if len(args) != 1 {
		return errors.New("usage: apply [-atomic] <file>")
	}

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	cmds, err := scenario.Build(sc.Steps, s.app.graph, s.resolveScript)
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		fmt.Fprintln(s.out, "scenario has no steps")
		return nil
	}

	if atomic {
		name := sc.Name
		if name == "" {
			name = filepath.Base(args[0])
		}
		if err := s.app.engine.Apply(ctx, history.NewCompoundCommand(name, cmds...)); err != nil {
			return err
		}
		s.ok("applied %d steps as %q", len(cmds), name)
		return nil
	}

	if err := s.app.engine.Apply(ctx, cmds...); err != nil {
		return err
	}
	s.ok("applied %d steps", len(cmds))
	return nil
}

func (s *Shell) runCmd(ctx context.Context) error {
	pending := s.app.engine.PendingCount()
	if pending == 0 {
		fmt.Fprintln(s.out, "nothing pending")
		return nil
	}
	if err := s.app.engine.Execute(ctx); err != nil {
		return err
	}
	s.ok("executed %d commands", pending)
	return nil
}

func (s *Shell) undoCmd(ctx context.Context) error {
	eng := s.app.engine
	if !eng.CanUndo() {
		fmt.Fprintln(s.out, "nothing to undo")
		return nil
	}
	desc := eng.Descriptions()[eng.Revision()-1]
	if err := eng.Undo(ctx); err != nil {
		return err
	}
	s.ok("undid %q", desc)
	return nil
}

func (s *Shell) redoCmd(ctx context.Context) error {
	eng := s.app.engine
	if !eng.CanRedo() {
		fmt.Fprintln(s.out, "nothing to redo")
		return nil
	}
	desc := eng.Descriptions()[eng.Revision()]
	if err := eng.Redo(ctx); err != nil {
		return err
	}
	s.ok("redid %q", desc)
	return nil
}

func (s *Shell) seekCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: seek <revision>")
	}
	target, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("revision %q is not an integer", args[0])
	}
	if err := s.app.engine.SeekRevision(ctx, target); err != nil {
		return err
	}
	s.ok("at revision %d", target)
	return nil
}

func (s *Shell) logCmd() error {
	descs := s.app.engine.Descriptions()
	if len(descs) == 0 {
		fmt.Fprintln(s.out, "history is empty")
		return nil
	}

	cursor := s.app.engine.Cursor()
	for i, d := range descs {
		marker := " "
		if i < cursor {
			marker = "x"
		}
		fmt.Fprintf(s.out, "[%s] %d  %s\n", marker, i+1, d)
	}
	return nil
}

func (s *Shell) showCmd() error {
	eng := s.app.engine
	nodes := eng.Nodes()
	edges := eng.Edges()

	if len(nodes) == 0 && len(edges) == 0 {
		fmt.Fprintln(s.out, "graph is empty")
		return nil
	}

	for _, n := range nodes {
		if doc := eng.AttrJSON(n); len(doc) > 0 {
			fmt.Fprintf(s.out, "node (%d, %d)  %s\n", n.X, n.Y, doc)
		} else {
			fmt.Fprintf(s.out, "node (%d, %d)\n", n.X, n.Y)
		}
	}
	for _, e := range edges {
		fmt.Fprintf(s.out, "edge (%d, %d) -> (%d, %d)\n", e.From.X, e.From.Y, e.To.X, e.To.Y)
	}
	return nil
}

func (s *Shell) statusCmd() error {
	eng := s.app.engine
	info := eng.SessionInfo()

	fmt.Fprintf(s.out, "session:  %s\n", info.ID)
	if info.Name != "" {
		fmt.Fprintf(s.out, "name:     %s\n", info.Name)
	}
	fmt.Fprintf(s.out, "revision: %d\n", eng.Revision())
	fmt.Fprintf(s.out, "cursor:   %d\n", eng.Cursor())
	fmt.Fprintf(s.out, "pending:  %d\n", eng.PendingCount())
	fmt.Fprintf(s.out, "nodes:    %d\n", eng.NodeCount())
	fmt.Fprintf(s.out, "edges:    %d\n", eng.EdgeCount())
	return nil
}

func parseNode(xs, ys string) (engine.Node, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return engine.Node{}, fmt.Errorf("x %q is not an integer", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return engine.Node{}, fmt.Errorf("y %q is not an integer", ys)
	}
	return engine.Node{X: x, Y: y}, nil
}

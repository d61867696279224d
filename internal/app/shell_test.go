package app

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hectorbennett/command-pattern/internal/engine"
)

const pairScript = `
command.register{
	name = "pair",
	description = "Add a connected pair of nodes",
	execute = function(args)
		local x = tonumber(args[1])
		local y = tonumber(args[2])
		graph.add_node(x, y)
		graph.add_node(x + 1, y)
		graph.add_edge(x, y, x + 1, y)
	end,
	rollback = function(args)
		local x = tonumber(args[1])
		local y = tonumber(args[2])
		graph.remove_edge(x, y, x + 1, y)
		graph.remove_node(x + 1, y)
		graph.remove_node(x, y)
	end,
}
`

const applyScenario = `steps:
  - op: add-node
    node: {x: 0, y: 0}
  - op: add-node
    node: {x: 1, y: 1}
  - op: add-edge
    from: {x: 0, y: 0}
    to: {x: 1, y: 1}
  - op: set-attr
    node: {x: 0, y: 0}
    path: label
    value: origin
`

// runShell runs the application against scripted input and returns the
// application and everything the shell wrote.
func runShell(t *testing.T, opts Options, input string) (*Application, string) {
	t.Helper()

	var out bytes.Buffer
	opts.Input = strings.NewReader(input)
	opts.Output = &out
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}

	application, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(application.Shutdown)

	if err := application.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return application, out.String()
}

func TestShellNodeEdgeFlow(t *testing.T) {
	application, out := runShell(t, Options{}, "node add 0 0\nnode add 1 1\nedge add 0 0 1 1\nstatus\nquit\n")

	eng := application.Engine()
	if eng.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", eng.NodeCount())
	}
	if eng.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", eng.EdgeCount())
	}

	if !strings.Contains(out, "added node (0, 0)") {
		t.Errorf("missing node confirmation: %q", out)
	}
	if !strings.Contains(out, "added edge (0, 0) -> (1, 1)") {
		t.Errorf("missing edge confirmation: %q", out)
	}
	if !strings.Contains(out, "revision: 3") {
		t.Errorf("missing status revision: %q", out)
	}
}

func TestShellDuplicateNode(t *testing.T) {
	application, out := runShell(t, Options{}, "node add 0 0\nnode add 0 0\nquit\n")

	if !strings.Contains(out, "error:") || !strings.Contains(out, "node already exists") {
		t.Errorf("missing duplicate error: %q", out)
	}

	// The failed command stays appended but unapplied.
	eng := application.Engine()
	if eng.Revision() != 2 {
		t.Errorf("Revision() = %d, want 2", eng.Revision())
	}
	if eng.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", eng.Cursor())
	}
}

func TestShellAttr(t *testing.T) {
	input := strings.Join([]string{
		"node add 0 0",
		"attr set 0 0 label origin",
		"attr get 0 0 label",
		"attr set 0 0 weight 3",
		"attr get 0 0 weight",
		"attr get 0 0 missing",
		"quit",
	}, "\n") + "\n"

	application, out := runShell(t, Options{}, input)

	if got := application.Engine().Attr(engine.Node{X: 0, Y: 0}, "label").Str; got != "origin" {
		t.Errorf("label = %q, want %q", got, "origin")
	}
	if got := application.Engine().Attr(engine.Node{X: 0, Y: 0}, "weight").Num; got != 3 {
		t.Errorf("weight = %v, want 3", got)
	}

	if !strings.Contains(out, "origin\n") {
		t.Errorf("missing attr get output: %q", out)
	}
	if !strings.Contains(out, `no value at "missing"`) {
		t.Errorf("missing unset-path output: %q", out)
	}
}

func TestShellAttrGetMissingNode(t *testing.T) {
	_, out := runShell(t, Options{}, "attr get 5 5 label\nquit\n")

	if !strings.Contains(out, "error: node (5, 5) not found") {
		t.Errorf("missing node-not-found error: %q", out)
	}
}

func TestShellUndoRedo(t *testing.T) {
	application, out := runShell(t, Options{}, "node add 0 0\nundo\nredo\nquit\n")

	if !strings.Contains(out, `undid "Add node (0, 0)"`) {
		t.Errorf("missing undo confirmation: %q", out)
	}
	if !strings.Contains(out, `redid "Add node (0, 0)"`) {
		t.Errorf("missing redo confirmation: %q", out)
	}
	if !application.Engine().HasNode(engine.Node{X: 0, Y: 0}) {
		t.Error("node missing after redo")
	}
}

func TestShellUndoEmpty(t *testing.T) {
	_, out := runShell(t, Options{}, "undo\nredo\nquit\n")

	if !strings.Contains(out, "nothing to undo") {
		t.Errorf("missing no-op undo message: %q", out)
	}
	if !strings.Contains(out, "nothing to redo") {
		t.Errorf("missing no-op redo message: %q", out)
	}
}

func TestShellUnknownCommand(t *testing.T) {
	_, out := runShell(t, Options{}, "bogus\nquit\n")

	if !strings.Contains(out, `unknown command "bogus"`) {
		t.Errorf("missing unknown command error: %q", out)
	}
}

func TestShellSeekAndLog(t *testing.T) {
	input := strings.Join([]string{
		"node add 0 0",
		"node add 1 1",
		"node add 2 2",
		"seek 1",
		"log",
		"quit",
	}, "\n") + "\n"

	application, out := runShell(t, Options{}, input)

	eng := application.Engine()
	if eng.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", eng.Cursor())
	}
	if eng.Revision() != 3 {
		t.Errorf("Revision() = %d, want 3", eng.Revision())
	}

	if !strings.Contains(out, "[x] 1  Add node (0, 0)") {
		t.Errorf("missing applied log entry: %q", out)
	}
	if !strings.Contains(out, "[ ] 2  Add node (1, 1)") {
		t.Errorf("missing pending log entry: %q", out)
	}
}

func TestShellRunExecutesPending(t *testing.T) {
	input := "node add 0 0\nnode add 1 1\nseek 0\nrun\nquit\n"
	application, out := runShell(t, Options{}, input)

	if !strings.Contains(out, "executed 2 commands") {
		t.Errorf("missing run confirmation: %q", out)
	}
	if got := application.Engine().Cursor(); got != 2 {
		t.Errorf("Cursor() = %d, want 2", got)
	}
}

func TestShellRunNothingPending(t *testing.T) {
	_, out := runShell(t, Options{}, "run\nquit\n")

	if !strings.Contains(out, "nothing pending") {
		t.Errorf("missing empty run message: %q", out)
	}
}

func TestShellApplyScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(applyScenario), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	application, out := runShell(t, Options{}, "apply "+path+"\nquit\n")

	if !strings.Contains(out, "applied 4 steps") {
		t.Errorf("missing apply confirmation: %q", out)
	}

	eng := application.Engine()
	if eng.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", eng.NodeCount())
	}
	if eng.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", eng.EdgeCount())
	}
	if got := eng.Attr(engine.Node{X: 0, Y: 0}, "label").Str; got != "origin" {
		t.Errorf("label = %q, want %q", got, "origin")
	}
	if eng.Revision() != 4 {
		t.Errorf("Revision() = %d, want 4", eng.Revision())
	}
}

func TestShellApplyAtomicRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	content := `steps:
  - op: add-node
    node: {x: 0, y: 0}
  - op: add-node
    node: {x: 0, y: 0}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	application, out := runShell(t, Options{}, "apply -atomic "+path+"\nquit\n")

	if !strings.Contains(out, "error:") || !strings.Contains(out, "node already exists") {
		t.Errorf("missing atomic failure error: %q", out)
	}

	eng := application.Engine()
	if eng.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0 after rollback", eng.NodeCount())
	}
	if eng.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", eng.Revision())
	}
	if eng.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", eng.Cursor())
	}
}

func TestShellApplyMissingFile(t *testing.T) {
	_, out := runShell(t, Options{}, "apply /nonexistent/path.yaml\nquit\n")

	if !strings.Contains(out, "error:") {
		t.Errorf("missing apply error: %q", out)
	}
}

func TestShellScriptCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pair.lua"), []byte(pairScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	application, out := runShell(t, Options{ScriptsDir: dir}, "cmd pair 2 3\nquit\n")

	if !strings.Contains(out, `ran "pair"`) {
		t.Errorf("missing script confirmation: %q", out)
	}

	eng := application.Engine()
	if !eng.HasNode(engine.Node{X: 2, Y: 3}) || !eng.HasNode(engine.Node{X: 3, Y: 3}) {
		t.Error("script nodes missing")
	}
	if eng.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", eng.EdgeCount())
	}
}

func TestShellScriptUndo(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pair.lua"), []byte(pairScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	application, out := runShell(t, Options{ScriptsDir: dir}, "cmd pair 2 3\nundo\nquit\n")

	if !strings.Contains(out, `undid "Add a connected pair of nodes"`) {
		t.Errorf("missing undo confirmation: %q", out)
	}
	if got := application.Engine().NodeCount(); got != 0 {
		t.Errorf("NodeCount() = %d, want 0 after undo", got)
	}
}

func TestShellScriptUnknown(t *testing.T) {
	_, out := runShell(t, Options{}, "cmd missing\nquit\n")

	if !strings.Contains(out, "error:") {
		t.Errorf("missing script error: %q", out)
	}
}

func TestShellHelp(t *testing.T) {
	_, out := runShell(t, Options{}, "help\nquit\n")

	if !strings.Contains(out, "node add <x> <y>") {
		t.Errorf("missing help text: %q", out)
	}
}

func TestShellEOF(t *testing.T) {
	// No quit command; input just ends.
	application, _ := runShell(t, Options{}, "node add 0 0\n")

	if got := application.Engine().NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d, want 1", got)
	}
}

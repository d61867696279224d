package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
)

// Host runs Lua scripts that define named graph commands.
//
// Scripts call command.register with a name and a pair of functions;
// the host turns each registration into an undoable command that the
// engine can append, journal, and replay. The graph module exposed to
// scripts operates directly on the host's graph store.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes all
// Lua execution; commands built by the host take it for every Execute
// and Rollback.
type Host struct {
	mu sync.Mutex

	L     *lua.LState
	graph *graph.Graph

	commands map[string]*commandSpec
	closed   bool
}

// commandSpec is one registered script command.
type commandSpec struct {
	name        string
	description string
	execute     *lua.LFunction
	rollback    *lua.LFunction
}

// NewHost creates a Lua host bound to the given graph store.
// The engine operating on the same store must be built with that store
// so script mutations and command mutations land in one place.
func NewHost(g *graph.Graph) *Host {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // open selectively below
	})

	// Safe subset only: no io, os, debug, or package
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	h := &Host{
		L:        L,
		graph:    g,
		commands: make(map[string]*commandSpec),
	}

	installGraphModule(L, g)
	h.installCommandModule()

	return h
}

// installCommandModule exposes command.register to scripts.
func (h *Host) installCommandModule() {
	mod := h.L.SetFuncs(h.L.NewTable(), map[string]lua.LGFunction{
		"register": h.register,
	})
	h.L.SetGlobal("command", mod)
}

// register backs command.register. It runs inside a Lua execution that
// already holds the host mutex, so it touches the registry directly.
func (h *Host) register(L *lua.LState) int {
	tbl := L.CheckTable(1)

	name, ok := tbl.RawGetString("name").(lua.LString)
	if !ok || name == "" {
		L.RaiseError("command.register: name is required")
		return 0
	}
	execute, ok := tbl.RawGetString("execute").(*lua.LFunction)
	if !ok {
		L.RaiseError("command.register: execute function is required")
		return 0
	}
	rollback, ok := tbl.RawGetString("rollback").(*lua.LFunction)
	if !ok {
		L.RaiseError("command.register: rollback function is required")
		return 0
	}

	spec := &commandSpec{
		name:     string(name),
		execute:  execute,
		rollback: rollback,
	}
	if desc, ok := tbl.RawGetString("description").(lua.LString); ok {
		spec.description = string(desc)
	}

	h.commands[spec.name] = spec
	return 0
}

// LoadFile executes a Lua script file, registering the commands it
// declares. Reloading a file replaces its registrations.
func (h *Host) LoadFile(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	return h.doWithRecovery(func() error {
		if err := h.L.DoFile(path); err != nil {
			return fmt.Errorf("load script %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}

// LoadString executes Lua source, registering the commands it declares.
func (h *Host) LoadString(source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	return h.doWithRecovery(func() error {
		if err := h.L.DoString(source); err != nil {
			return fmt.Errorf("load script: %w", err)
		}
		return nil
	})
}

// LoadDir loads every .lua file in a directory, in name order.
// A missing directory is not an error.
func (h *Host) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read script dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := h.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Command builds an undoable command that runs a registered script.
// Args must be JSON-compatible values; they are passed to the script's
// execute and rollback functions as a table.
func (h *Host) Command(name string, args ...any) (*Command, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHostClosed
	}
	spec, ok := h.commands[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrCommandNotFound)
	}
	return &Command{
		Name:        name,
		Args:        args,
		host:        h,
		description: spec.description,
	}, nil
}

// Names returns the registered command names in sorted order.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// invoke calls one phase of a registered command with the given args.
func (h *Host) invoke(name, phase string, args []any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	spec, ok := h.commands[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrCommandNotFound)
	}

	fn := spec.execute
	if phase == "rollback" {
		fn = spec.rollback
	}

	argTable := h.L.NewTable()
	for i, arg := range args {
		argTable.RawSetInt(i+1, toLua(h.L, arg))
	}

	return h.doWithRecovery(func() error {
		if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, argTable); err != nil {
			return fmt.Errorf("script %q %s: %w", name, phase, err)
		}
		return nil
	})
}

// doWithRecovery executes a function with panic recovery.
func (h *Host) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// IsClosed returns true if the host has been closed.
func (h *Host) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Close releases the Lua state. Commands built by the host return
// ErrHostClosed afterwards.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.L.Close()
	h.closed = true
	return nil
}

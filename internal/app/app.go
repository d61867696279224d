// Package app wires configuration, storage, scripting, and the engine
// into the interactive graphcmd application.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/hectorbennett/command-pattern/internal/config"
	"github.com/hectorbennett/command-pattern/internal/engine"
	"github.com/hectorbennett/command-pattern/internal/engine/graph"
	"github.com/hectorbennett/command-pattern/internal/script"
	"github.com/hectorbennett/command-pattern/internal/storage"
	"github.com/hectorbennett/command-pattern/internal/storage/bolt"
	"github.com/hectorbennett/command-pattern/internal/storage/memory"
)

// Options configures the application. String and bool fields override the
// corresponding configuration values when set.
type Options struct {
	// ConfigPath is the TOML configuration file. A missing file is fine.
	ConfigPath string

	// StoragePath overrides the configured database file.
	StoragePath string

	// Session overrides the configured session name.
	Session string

	// ScriptsDir overrides the configured scripts directory.
	ScriptsDir string

	// Watch enables script reloading.
	Watch bool

	// NoJournal disables command journaling.
	NoJournal bool

	// LogLevel overrides the configured log level.
	LogLevel string

	// Scenarios are scenario files applied before the shell starts.
	Scenarios []string

	// Batch exits after applying Scenarios instead of starting the shell.
	Batch bool

	// Input is the shell's input stream. Defaults to os.Stdin.
	Input io.Reader

	// Output is the shell's output stream. Defaults to os.Stdout.
	Output io.Writer

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application is the central coordinator for graphcmd components.
// It wires the journal store, the script host, and the engine together
// and runs the interactive shell on top of them.
type Application struct {
	cfg    *config.Config
	logger *Logger

	graph   *graph.Graph
	codec   *storage.Codec
	store   storage.Store
	host    *script.Host
	watcher *script.DirWatcher
	engine  *engine.Engine
	shell   *Shell

	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once

	opts Options
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	if err := app.bootstrap(); err != nil {
		app.shutdown()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	applyOverrides(cfg, app.opts)
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logger
	app.logger = NewLogger(ParseLogLevel(cfg.LogLevel), app.opts.LogOutput)

	// 3. Graph, codec, and script host. The host shares the engine's
	// graph so script commands mutate the same store.
	app.graph = graph.New()
	app.codec = storage.NewCodec()
	app.host = script.NewHost(app.graph)
	app.host.RegisterDecoder(app.codec)
	if cfg.ScriptsDir != "" {
		if err := app.host.LoadDir(cfg.ScriptsDir); err != nil {
			return &InitError{Component: "scripts", Err: err}
		}
		app.logger.WithComponent("scripts").Info("loaded %d script commands", len(app.host.Names()))
	}

	// 4. Journal store
	if cfg.Journal {
		if cfg.StoragePath != "" {
			store, err := bolt.Open(cfg.StoragePath)
			if err != nil {
				return &InitError{Component: "storage", Err: err}
			}
			app.store = store
		} else {
			app.store = memory.NewStore()
		}
	}

	// 5. Engine, resuming the named session when it exists
	if err := app.buildEngine(); err != nil {
		return err
	}

	// 6. Script watcher
	if cfg.Watch {
		w, err := script.WatchDir(app.host, cfg.ScriptsDir, app.onScriptReload)
		if err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		app.watcher = w
	}

	// 7. Shell
	app.shell = NewShell(app, app.opts.Input, app.opts.Output)

	return nil
}

// applyOverrides layers option values over the loaded configuration.
func applyOverrides(cfg *config.Config, opts Options) {
	if opts.StoragePath != "" {
		cfg.StoragePath = opts.StoragePath
	}
	if opts.Session != "" {
		cfg.Session = opts.Session
	}
	if opts.ScriptsDir != "" {
		cfg.ScriptsDir = opts.ScriptsDir
	}
	if opts.Watch {
		cfg.Watch = true
	}
	if opts.NoJournal {
		cfg.Journal = false
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
}

// buildEngine creates the engine, restoring the configured session from
// the journal store when one with that name exists.
func (app *Application) buildEngine() error {
	ctx := context.Background()

	engineOpts := []engine.Option{
		engine.WithGraph(app.graph),
		engine.WithCodec(app.codec),
	}
	if app.store != nil {
		engineOpts = append(engineOpts, engine.WithJournal(app.store))
	}

	if app.store != nil && app.cfg.Session != "" {
		session, ok, err := findSession(ctx, app.store, app.cfg.Session)
		if err != nil {
			return &InitError{Component: "session", Err: err}
		}
		if ok {
			eng := engine.New(append(engineOpts, engine.WithSession(session))...)
			if err := eng.Load(ctx); err != nil {
				return &InitError{Component: "session", Err: err}
			}
			app.engine = eng
			app.observeEngine()
			app.logger.WithComponent("engine").Info("resumed session %q (revision %d, cursor %d)",
				session.Name, eng.Revision(), eng.Cursor())
			return nil
		}
	}

	engineOpts = append(engineOpts, engine.WithSessionName(app.cfg.Session))
	app.engine = engine.New(engineOpts...)
	app.observeEngine()
	return nil
}

// findSession returns the most recently created session with the given name.
func findSession(ctx context.Context, store storage.Store, name string) (storage.Session, bool, error) {
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return storage.Session{}, false, err
	}

	var found storage.Session
	ok := false
	for _, s := range sessions {
		if s.Name == name {
			found = s
			ok = true
		}
	}
	return found, ok, nil
}

// observeEngine logs every state change at debug level.
func (app *Application) observeEngine() {
	log := app.logger.WithComponent("engine")
	app.engine.Observe(func(change engine.Change) {
		log.Debug("%s %q (revision %d, cursor %d)", change.Op, change.Description, change.Revision, change.Cursor)
	})
}

// onScriptReload reports watcher reload results.
func (app *Application) onScriptReload(path string, err error) {
	log := app.logger.WithComponent("scripts")
	if err != nil {
		log.Error("reload %s: %v", path, err)
		return
	}
	log.Info("reloaded %s", path)
}

// Run applies any startup scenarios and starts the interactive shell.
// Blocks until the user quits or Shutdown is called.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	info := app.engine.SessionInfo()
	app.logger.Info("session %s ready (revision %d, cursor %d)", info.ID, app.engine.Revision(), app.engine.Cursor())

	ctx := context.Background()
	for _, path := range app.opts.Scenarios {
		if err := app.shell.applyCmd(ctx, []string{path}); err != nil {
			return err
		}
	}
	if app.opts.Batch {
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.shell.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, ErrQuit) {
			return err
		}
		return nil
	case <-app.done:
		return nil
	}
}

// Shutdown releases all resources. Safe to call more than once, whether
// or not Run is active.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)
		app.shutdown()
	})
}

// shutdown closes components in reverse initialization order.
func (app *Application) shutdown() {
	if app.watcher != nil {
		app.componentError("watcher", app.watcher.Close())
	}
	if app.host != nil {
		app.componentError("scripts", app.host.Close())
	}
	if app.store != nil {
		app.componentError("storage", app.store.Close())
	}
}

// componentError logs a close error with component context.
func (app *Application) componentError(component string, err error) {
	if err == nil || app.logger == nil {
		return
	}
	app.logger.WithComponent(component).Error("close: %v", err)
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Engine returns the command engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Package main is the entry point for the graphcmd shell.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hectorbennett/command-pattern/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.StoragePath, "db", "", "Path to the session database")
	flag.StringVar(&opts.Session, "session", "", "Session name to resume or create")
	flag.StringVar(&opts.Session, "s", "", "Session name (shorthand)")
	flag.StringVar(&opts.ScriptsDir, "scripts", "", "Directory of Lua command scripts")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload scripts when they change")
	flag.BoolVar(&opts.NoJournal, "no-journal", false, "Disable command journaling")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Batch, "batch", false, "Apply scenario files and exit without a shell")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "graphcmd - journaled graph mutation shell\n\n")
		fmt.Fprintf(os.Stderr, "Usage: graphcmd [options] [scenarios...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  graphcmd                          Open an in-memory session\n")
		fmt.Fprintf(os.Stderr, "  graphcmd -db graph.db -s plans    Resume the plans session\n")
		fmt.Fprintf(os.Stderr, "  graphcmd -batch setup.yaml        Apply a scenario and exit\n")
		fmt.Fprintf(os.Stderr, "  graphcmd -scripts ./cmds -watch   Hot-reload script commands\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("graphcmd %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Remaining arguments are scenario files to apply on startup
	opts.Scenarios = flag.Args()

	return opts
}

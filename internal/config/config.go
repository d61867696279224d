// Package config builds the effective application configuration from
// defaults, an optional TOML file, and GRAPHCMD_* environment variables,
// in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	// StoragePath is the bbolt database file. Empty means sessions and
	// journals live in memory only.
	StoragePath string `toml:"storage_path" env:"GRAPHCMD_STORAGE_PATH"`

	// Session names the session to resume. Empty starts a fresh session.
	Session string `toml:"session" env:"GRAPHCMD_SESSION"`

	// ScriptsDir is the directory of .lua command scripts. Empty disables
	// script loading.
	ScriptsDir string `toml:"scripts_dir" env:"GRAPHCMD_SCRIPTS_DIR"`

	// Watch reloads scripts when files in ScriptsDir change.
	Watch bool `toml:"watch" env:"GRAPHCMD_WATCH"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" env:"GRAPHCMD_LOG_LEVEL"`

	// Journal persists every appended command. Turning it off keeps
	// history in memory only, even when StoragePath is set.
	Journal bool `toml:"journal" env:"GRAPHCMD_JOURNAL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Journal:  true,
	}
}

// Load builds the effective configuration. A missing file at path is not
// an error; an empty path skips the file step entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays values from a TOML file onto the receiver.
func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		perr := &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Watch && c.ScriptsDir == "" {
		return errors.New("watch requires scripts_dir")
	}
	return nil
}

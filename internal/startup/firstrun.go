// Package startup holds the first-run flow that creates the configuration
// file when it is missing or unreadable.
package startup

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kalambet/debreate/internal/config"
)

// Result is the outcome of Bootstrap.
type Result struct {
	Values map[string]config.Value
	// Initialized is true when defaults were (re)written.
	Initialized bool
}

// Bootstrap loads every configuration value. When the file is missing or
// any key fails to load it writes the defaults and loads again.
func Bootstrap(store *config.Store, logger zerolog.Logger) (Result, error) {
	values, err := store.LoadAll()
	if err == nil {
		return Result{Values: values}, nil
	}

	logger.Info().
		Err(err).
		Str("event", "startup.first_run").
		Str("path", store.Path()).
		Msg("configuration missing or corrupt, writing defaults")

	return initialize(store)
}

// Reset replaces the file with the defaults regardless of its current
// contents. The old file survives a failed reset.
func Reset(store *config.Store) (Result, error) {
	if err := store.ResetDefaults(); err != nil {
		return Result{}, fmt.Errorf("resetting configuration file %s: %w", store.Path(), err)
	}
	return load(store)
}

func initialize(store *config.Store) (Result, error) {
	if err := store.InitializeDefaults(); err != nil {
		return Result{}, fmt.Errorf("creating configuration file %s: %w", store.Path(), err)
	}
	return load(store)
}

func load(store *config.Store) (Result, error) {
	if err := store.Exists(); err != nil {
		return Result{}, fmt.Errorf("creating configuration file %s: %w", store.Path(), err)
	}

	values, err := store.LoadAll()
	if err != nil {
		return Result{}, fmt.Errorf("reading new configuration: %w", err)
	}
	return Result{Values: values, Initialized: true}, nil
}

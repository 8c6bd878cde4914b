// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/fulmenhq/crucible/internal/config"
)

type (
	// App wires CLI services and per-invocation state. All Cobra command
	// handlers receive an App reference; nothing in this package reads
	// package-level mutable state.
	App struct {
		Config config.Provider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		flags rootFlags

		// Resolved by the root PersistentPreRunE.
		cfg     *config.Config
		cfgPath string
		output  config.OutputFormat
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlags holds the persistent flags of the root command.
	rootFlags struct {
		configPath string
		verbose    bool
		output     string
		logLevel   string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		output: config.OutputText,
	}
}

// loadConfig loads configuration honoring the --config flag.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
}

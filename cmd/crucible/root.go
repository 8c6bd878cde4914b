// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fulmenhq/crucible/internal/config"
	"github.com/fulmenhq/crucible/internal/issue"
	"github.com/fulmenhq/crucible/internal/logging"
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/foundry"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that must work with a broken config.
const skipConfigAnnotation = "crucible/skip-config"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the crucible command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crucible",
		Short: "Inspect and exchange the shared crucible catalogs",
		Long: TitleStyle.Render("crucible") + SubtitleStyle.Render(" - typed catalogs shared across the tool family") + `

crucible is the single, versioned source of truth for cross-tool constants
(exit codes, encoding formats, hash algorithms, archive formats) and payload
shapes (digests, archive manifests, validation and extraction results).

` + SubtitleStyle.Render("Examples:") + `
  crucible exit-codes explain 10          Explain exit code 10
  crucible catalogs tags fulpack.ArchiveFormat
  crucible payload decode archive-manifest manifest.json
  crucible payload validate archive-info -o json < info.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/crucible/config.cue)")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output and debug logging")
	flags.StringVarP(&app.flags.output, "output", "o", "", "output format: text, json, yaml or toml")
	flags.StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(
		newExitCodesCommand(app),
		newCatalogsCommand(app),
		newPayloadCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)

	return rootCmd
}

// prepare resolves configuration, logging and output format before any
// subcommand runs.
func (a *App) prepare(cmd *cobra.Command) error {
	a.verbose = a.flags.verbose
	cfg := config.DefaultConfig()
	if cmd.Annotations[skipConfigAnnotation] == "" {
		loaded, path, err := a.loadConfig(cmd.Context())
		if err != nil {
			code := exitCodeFor(err)
			if code == foundry.ExitFailure {
				code = foundry.ExitConfigInvalid
			}
			return &ExitError{Code: code, Err: err}
		}
		cfg, a.cfgPath = loaded, path
	}
	a.cfg = cfg
	a.verbose = a.flags.verbose || cfg.Verbose

	level := cfg.LogLevel
	if a.flags.logLevel != "" {
		level = config.LogLevel(a.flags.logLevel)
		if valid, errs := level.IsValid(); !valid {
			return usageError(errs[0])
		}
	}
	if _, err := logging.Setup(a.stderr, logging.Options{
		Level:   level,
		Format:  cfg.LogFormat,
		Verbose: a.verbose,
	}); err != nil {
		return &ExitError{Code: foundry.ExitConfigInvalid, Err: err}
	}

	a.output = cfg.Output
	if a.flags.output != "" {
		a.output = config.OutputFormat(a.flags.output)
		if valid, errs := a.output.IsValid(); !valid {
			return usageError(errs[0])
		}
	}

	if len(cfg.Catalogs) > 0 {
		if err := config.CheckPins(cfg.Catalogs, config.CatalogVersions(catalog.Descriptors())); err != nil {
			return &ExitError{
				Code: foundry.ExitSsotVersionMismatch,
				Err: issue.NewErrorContext().
					WithOperation("check catalog pins").
					WithResource(a.cfgPath).
					WithIssue(issue.CatalogPinMismatchId).
					WithSuggestion("Run 'crucible catalogs list' to see the compiled catalog versions").
					WithSuggestion("Relax the pin in your config file or upgrade crucible").
					Wrap(err).
					BuildError(),
			}
		}
	}

	slog.Debug("configuration resolved",
		"path", a.cfgPath, "output", a.output, "log_level", level, "pins", len(cfg.Catalogs))
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command tree with args and returns the exit code.
// Errors are written to the app's stderr.
func Run(ctx context.Context, app *App, args []string) foundry.ExitCode {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			app.writeError(w, err)
		}),
	)
	return exitCodeFor(err)
}

// Execute runs the CLI with the process arguments and exits with the
// catalog status of the outcome. This is called by main.main().
func Execute() {
	code := Run(context.Background(), NewApp(Dependencies{}), os.Args[1:])
	os.Exit(code.Status())
}

// writeError renders err for the user. ActionableErrors carry suggestions;
// in verbose mode the exit code and the linked catalog issue follow.
func (a *App) writeError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("error:"), formatErrorForDisplay(err, a.verbose))
	if !a.verbose {
		return
	}
	code := exitCodeFor(err)
	_, _ = fmt.Fprintln(w, VerboseStyle.Render(fmt.Sprintf("exit code %d (%s): %s", code, code, code.Message())))
	if is := issue.IssueOf(err); is != nil {
		out, rerr := is.Render(issueStyle(a.cfg.ColorScheme))
		if rerr != nil {
			slog.Debug("render issue", "id", is.Id(), "error", rerr)
			return
		}
		_, _ = io.WriteString(w, out)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

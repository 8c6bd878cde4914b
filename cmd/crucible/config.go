// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fulmenhq/crucible/internal/config"
	"github.com/fulmenhq/crucible/internal/issue"
	"github.com/fulmenhq/crucible/pkg/foundry"

	"github.com/spf13/cobra"
)

// configPath is the structured form of `config path` and `config init`.
type configPath struct {
	Path    string `json:"path"`
	Exists  bool   `json:"exists"`
	Created bool   `json:"created,omitempty"`
}

// newConfigCommand creates the `crucible config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage crucible configuration",
		Long: `Manage crucible configuration.

Configuration is read from config.cue in the platform config directory, or from
the file given with --config. CRUCIBLE_* environment variables override it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.render(app.cfg, func(w io.Writer) error {
				source := app.cfgPath
				if source == "" {
					source = "(defaults)"
				}
				if _, err := fmt.Fprintln(w, VerboseStyle.Render("// source: "+source)); err != nil {
					return err
				}
				_, err := io.WriteString(w, config.GenerateCUE(app.cfg))
				return err
			})
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print the config file path",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			path := app.flags.configPath
			if path == "" {
				var err error
				if path, err = config.ConfigFilePath(); err != nil {
					return err
				}
			}
			res := configPath{Path: path, Exists: fileExists(path)}
			return app.render(res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Path)
				return err
			})
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default config file",
		Long:        "Write a default config file to the platform config directory. An existing file is kept unless --force is given.",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	configCmd.AddCommand(initCmd)

	return configCmd
}

func initConfig(app *App, force bool) error {
	target, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	existed := fileExists(target)

	path, err := config.CreateDefaultConfig(force)
	if err != nil {
		code := foundry.ExitFailure
		if errors.Is(err, fs.ErrPermission) {
			code = foundry.ExitPermissionDenied
		}
		return &ExitError{
			Code: code,
			Err: issue.NewErrorContext().
				WithOperation("write default config").
				WithResource(target).
				WithSuggestion("Check that the config directory is writable").
				Wrap(err).
				BuildError(),
		}
	}

	res := configPath{Path: path, Exists: true, Created: !existed || force}
	return app.render(res, func(w io.Writer) error {
		if !res.Created {
			_, err := fmt.Fprintf(w, "%s %s (use --force to overwrite)\n", WarningStyle.Render("kept existing config"), path)
			return err
		}
		_, err := fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("wrote"), path)
		return err
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

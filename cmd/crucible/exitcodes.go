// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fulmenhq/crucible/internal/config"
	"github.com/fulmenhq/crucible/internal/issue"
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/foundry"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// explanation is the structured form of `exit-codes explain`.
type explanation struct {
	Info     foundry.Info `json:"info"`
	Markdown string       `json:"markdown"`
}

// newExitCodesCommand creates the `crucible exit-codes` command tree.
func newExitCodesCommand(app *App) *cobra.Command {
	exitCmd := &cobra.Command{
		Use:     "exit-codes",
		Aliases: []string{"exit-code", "codes"},
		Short:   "Inspect the cross-tool exit-code catalog",
		Long: `Inspect the cross-tool exit-code catalog.

Codes are grouped in numeric ranges by category. Any integer can be looked up:
codes outside the catalog classify as "unspecified" instead of failing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var category string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every exit code",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			return listExitCodes(app, category)
		},
	}
	listCmd.Flags().StringVarP(&category, "category", "c", "", "only list codes of this category")
	exitCmd.AddCommand(listCmd)

	exitCmd.AddCommand(&cobra.Command{
		Use:   "show <code|name>",
		Short: "Show the metadata of one exit code",
		Long: `Show the metadata of one exit code.

The argument is a number, a variant name (PortInUse) or a constant name
(EXIT_PORT_IN_USE). Names are case-sensitive.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			code, err := resolveExitCode(args[0])
			if err != nil {
				return err
			}
			info := code.Info()
			return app.render(info, func(w io.Writer) error { return writeExitCode(w, info) })
		},
	})

	exitCmd.AddCommand(&cobra.Command{
		Use:   "explain <code|name>",
		Short: "Explain an exit code as rendered markdown",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			code, err := resolveExitCode(args[0])
			if err != nil {
				return err
			}
			return explainExitCode(app, code)
		},
	})

	exitCmd.AddCommand(&cobra.Command{
		Use:   "signal <number>",
		Short: "Show the exit code produced by a POSIX signal",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return usageError(fmt.Errorf("invalid signal number %q", args[0]))
			}
			code, _ := foundry.ForSignal(n)
			info := code.Info()
			return app.render(info, func(w io.Writer) error { return writeExitCode(w, info) })
		},
	})

	exitCmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List exit-code categories and their ranges",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			return listCategories(app)
		},
	})

	return exitCmd
}

// resolveExitCode parses a code or name. Unknown integers are accepted;
// unknown names are usage errors.
func resolveExitCode(arg string) (foundry.ExitCode, error) {
	code, ok := foundry.Parse(arg)
	if ok {
		return code, nil
	}
	if _, err := strconv.Atoi(arg); err == nil {
		return code, nil
	}
	return code, usageError(issue.NewErrorContext().
		WithOperation("resolve exit code").
		WithResource(arg).
		WithIssue(issue.UnknownExitCodeId).
		WithSuggestion("Run 'crucible exit-codes list' to see the declared codes").
		Wrap(&catalog.UnrecognizedVariantError{Catalog: "foundry.ExitCode", Value: arg}).
		BuildError())
}

func listExitCodes(app *App, category string) error {
	codes := foundry.All()
	if category != "" {
		c, err := foundry.ParseCategory(category)
		if err != nil {
			return usageError(err)
		}
		codes = foundry.ByCategory(c)
	}

	infos := make([]foundry.Info, len(codes))
	for i, code := range codes {
		infos[i] = code.Info()
	}

	return app.render(infos, func(w io.Writer) error {
		t := newTable("CODE", "VARIANT", "CATEGORY", "MESSAGE")
		for _, info := range infos {
			t.Row(strconv.Itoa(info.Code), info.Variant, string(info.Category), info.Message)
		}
		return writeTable(w, t)
	})
}

func listCategories(app *App) error {
	infos := foundry.Categories()
	return app.render(infos, func(w io.Writer) error {
		t := newTable("CATEGORY", "RANGE", "CODES", "DESCRIPTION")
		for _, info := range infos {
			t.Row(
				string(info.Category),
				fmt.Sprintf("%d-%d", info.Min, info.Max),
				strconv.Itoa(len(foundry.ByCategory(info.Category))),
				info.Description,
			)
		}
		return writeTable(w, t)
	})
}

func writeExitCode(w io.Writer, info foundry.Info) error {
	retry := ""
	if hint, ok := info.RetryHint.Get(); ok {
		retry = fmt.Sprintf("%s (%s)", hint, hint.Description())
	}
	signal := ""
	if info.Signal != 0 {
		signal = fmt.Sprintf("%d (%s)", info.Signal, info.SignalName)
	}
	return writeFields(w,
		field{"code", strconv.Itoa(info.Code)},
		field{"variant", info.Variant},
		field{"name", info.Name},
		field{"category", string(info.Category)},
		field{"message", info.Message},
		field{"context", info.Context},
		field{"retry", retry},
		field{"signal", signal},
		field{"bsd", info.BSDEquivalent},
		field{"python", info.PythonNote},
	)
}

// explainMarkdown builds the markdown explanation of one code.
func explainMarkdown(code foundry.ExitCode) string {
	info := code.Info()
	category := info.Category.Info()

	var md strings.Builder
	if info.Variant != "" {
		fmt.Fprintf(&md, "# %d %s (`%s`)\n\n", info.Code, info.Variant, info.Name)
	} else {
		fmt.Fprintf(&md, "# Exit code %d\n\n", info.Code)
	}
	fmt.Fprintf(&md, "%s.\n\n", strings.TrimSuffix(info.Message, "."))
	fmt.Fprintf(&md, "- **Category:** %s (%s)\n", category.Title, category.Description)
	if hint, ok := info.RetryHint.Get(); ok {
		fmt.Fprintf(&md, "- **Retry:** `%s`, %s\n", hint, hint.Description())
	}
	if info.BSDEquivalent != "" {
		fmt.Fprintf(&md, "- **BSD equivalent:** %s\n", info.BSDEquivalent)
	}
	if info.Signal != 0 {
		fmt.Fprintf(&md, "- **Signal:** %s (%d)\n", info.SignalName, info.Signal)
	}
	if info.Context != "" {
		fmt.Fprintf(&md, "\n## When it is used\n%s\n", info.Context)
	}
	if info.PythonNote != "" {
		fmt.Fprintf(&md, "\n## Python\n%s\n", info.PythonNote)
	}
	if !code.Known() {
		md.WriteString("\n" + string(issue.Get(issue.UnknownExitCodeId).MarkdownMsg()) + "\n")
	}
	return md.String()
}

func explainExitCode(app *App, code foundry.ExitCode) error {
	md := explainMarkdown(code)
	return app.render(explanation{Info: code.Info(), Markdown: md}, func(w io.Writer) error {
		renderer, err := glamour.NewTermRenderer(glamourStyle(app.cfg.ColorScheme))
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		out, err := renderer.Render(md)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// glamourStyle maps the configured color scheme to a renderer style. auto
// picks dark or light from the terminal and falls back to plain text.
func glamourStyle(scheme config.ColorScheme) glamour.TermRendererOption {
	switch scheme {
	case config.ColorSchemeDark:
		return glamour.WithStandardStyle("dark")
	case config.ColorSchemeLight:
		return glamour.WithStandardStyle("light")
	default:
		return glamour.WithAutoStyle()
	}
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(validate(cmd, args))
	}
}

// issueStyle is glamourStyle for APIs taking a standard style name.
func issueStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return string(scheme)
	default:
		return "auto"
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/crucible/internal/issue"
	"github.com/fulmenhq/crucible/pkg/codec"
	"github.com/fulmenhq/crucible/pkg/conformance"
	"github.com/fulmenhq/crucible/pkg/foundry"
	"github.com/fulmenhq/crucible/pkg/payload"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Input formats accepted by the payload commands.
const (
	inputJSON = "json"
	inputYAML = "yaml"
	inputCBOR = "cbor"
)

type (
	// payloadFlags holds the flags shared by the payload subcommands.
	payloadFlags struct {
		from    string
		cborOut bool
	}

	// schemaDoc is the structured form of `payload schema`.
	schemaDoc struct {
		Kind       string `json:"kind,omitempty"`
		Definition string `json:"definition,omitempty"`
		Source     string `json:"source"`
	}
)

// newPayloadCommand creates the `crucible payload` command tree.
func newPayloadCommand(app *App) *cobra.Command {
	payloadCmd := &cobra.Command{
		Use:     "payload",
		Aliases: []string{"payloads"},
		Short:   "Decode, validate and exchange catalog payloads",
		Long: `Decode, validate and exchange catalog payloads.

Documents are read from FILE, or from standard input when FILE is omitted or "-".
JSON input may contain comments and trailing commas. Use --from yaml for YAML
documents and --from cbor for hex-encoded CBOR.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	payloadCmd.AddCommand(
		newPayloadKindsCommand(app),
		newPayloadDecodeCommand(app),
		newPayloadValidateCommand(app),
		newPayloadSchemaCommand(app),
		newPayloadSealCommand(app),
		newPayloadOpenCommand(app),
	)
	return payloadCmd
}

func newPayloadKindsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered payload kinds",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			kinds := payload.Kinds()
			return app.render(kinds, func(w io.Writer) error {
				t := newTable("KIND", "CATALOG", "VERSION", "DESCRIPTION")
				for _, k := range kinds {
					t.Row(k.Name, k.Catalog, k.Version, k.Description)
				}
				return writeTable(w, t)
			})
		},
	}
}

func newPayloadDecodeCommand(app *App) *cobra.Command {
	var flags payloadFlags
	cmd := &cobra.Command{
		Use:   "decode <kind> [FILE|-]",
		Short: "Strictly decode a payload and print its canonical form",
		Long: `Strictly decode a payload and print its canonical form.

Decoding checks shape only: unknown enumeration tags and wrong value kinds fail,
cross-field contracts are left to 'crucible payload validate'.`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(_ *cobra.Command, args []string) error {
			k, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			v, err := app.decodePayload(k, args, flags.from)
			if err != nil {
				return err
			}
			if flags.cborOut {
				return writeCBORHex(app.stdout, v)
			}
			return app.render(v, func(w io.Writer) error { return writeJSON(w, v) })
		},
	}
	addInputFlag(cmd, &flags)
	cmd.Flags().BoolVar(&flags.cborOut, "cbor", false, "print the payload as hex-encoded CBOR")
	return cmd
}

func newPayloadValidateCommand(app *App) *cobra.Command {
	var flags payloadFlags
	cmd := &cobra.Command{
		Use:   "validate <kind> [FILE|-]",
		Short: "Check a payload against its schema and contracts",
		Long: `Check a payload against its schema and contracts.

Three stages run on every document: the CUE schema of the kind, strict
decoding, and the cross-field contracts of the decoded value. All findings are
reported; the command exits with status 60 when any stage fails.`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(_ *cobra.Command, args []string) error {
			k, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			data, name, err := app.readDocument(args, 1, flags.from, k)
			if err != nil {
				return err
			}
			report, err := conformance.Check(k.Name, data)
			if err != nil {
				return issue.WrapWithContext(err, "validate payload", name)
			}
			if err := app.render(report, func(w io.Writer) error { return writeReport(w, report, name) }); err != nil {
				return err
			}
			if !report.Conforms {
				return &ExitError{
					Code: foundry.ExitDataInvalid,
					Err: issue.NewErrorContext().
						WithOperation("validate payload").
						WithResource(name).
						WithIssue(issue.ConformanceFailedId).
						Wrap(report.Err()).
						BuildError(),
				}
			}
			return nil
		},
	}
	addInputFlag(cmd, &flags)
	return cmd
}

func newPayloadSchemaCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [kind]",
		Short: "Print the CUE schema of a payload kind",
		Long: `Print the CUE schema of a payload kind, or the whole schema file when no
kind is given.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			doc := schemaDoc{Source: string(conformance.SchemaSource())}
			if len(args) == 1 {
				k, err := lookupKind(args[0])
				if err != nil {
					return err
				}
				src, err := conformance.DefinitionSource(k.Name)
				if err != nil {
					return err
				}
				doc = schemaDoc{Kind: k.Name, Definition: conformance.Definition(k.Name), Source: string(src)}
			}
			return app.render(doc, func(w io.Writer) error {
				_, err := io.WriteString(w, strings.TrimRight(doc.Source, "\n")+"\n")
				return err
			})
		},
	}
}

func newPayloadSealCommand(app *App) *cobra.Command {
	var flags payloadFlags
	cmd := &cobra.Command{
		Use:   "seal <kind> [FILE|-]",
		Short: "Wrap a payload in a versioned envelope",
		Long: `Wrap a payload in a versioned envelope.

The envelope records the catalog and the catalog version compiled into this
build, so readers can refuse payloads written against a newer catalog.`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(_ *cobra.Command, args []string) error {
			k, err := lookupKind(args[0])
			if err != nil {
				return err
			}
			v, err := app.decodePayload(k, args, flags.from)
			if err != nil {
				return err
			}
			env, err := payload.SealKind(k, v)
			if err != nil {
				return err
			}
			if flags.cborOut {
				return writeCBORHex(app.stdout, env)
			}
			return app.render(env, func(w io.Writer) error { return writeJSON(w, env) })
		},
	}
	addInputFlag(cmd, &flags)
	cmd.Flags().BoolVar(&flags.cborOut, "cbor", false, "print the envelope as hex-encoded CBOR")
	return cmd
}

func newPayloadOpenCommand(app *App) *cobra.Command {
	var (
		from  string
		check bool
	)
	cmd := &cobra.Command{
		Use:   "open [FILE|-]",
		Short: "Open an envelope and print its payload",
		Long: `Open an envelope and print its payload.

The envelope's catalog version must share the compiled major version and must
not be newer; otherwise the command exits with status 22.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			data, name, err := app.readInput(args, 0)
			if err != nil {
				return err
			}
			var env *payload.Envelope
			switch from {
			case inputCBOR:
				raw, herr := decodeHex(data)
				if herr != nil {
					return herr
				}
				env, err = payload.OpenCBOR(raw)
			case inputYAML:
				std, yerr := yamlToJSON(data)
				if yerr != nil {
					return yerr
				}
				env, err = payload.Open(std)
			default:
				env, err = payload.Open(data)
			}
			if err != nil {
				return openError(err, name)
			}
			if check {
				if err := env.Check(); err != nil {
					return issue.WrapWithContext(err, "check payload contracts", name)
				}
			}
			return app.render(env.Payload, func(w io.Writer) error { return writeJSON(w, env.Payload) })
		},
	}
	cmd.Flags().StringVar(&from, "from", inputJSON, "input format: json, yaml or cbor (hex)")
	cmd.Flags().BoolVar(&check, "check", false, "also evaluate the payload's cross-field contracts")
	return cmd
}

func addInputFlag(cmd *cobra.Command, flags *payloadFlags) {
	cmd.Flags().StringVar(&flags.from, "from", inputJSON, "input format: json, yaml or cbor (hex)")
}

// lookupKind resolves a kind name, turning unknown names into usage errors.
func lookupKind(name string) (payload.Kind, error) {
	k, err := payload.Lookup(name)
	if err != nil {
		return k, usageError(issue.NewErrorContext().
			WithOperation("resolve payload kind").
			WithResource(name).
			WithIssue(issue.UnknownKindId).
			WithSuggestion("Run 'crucible payload kinds' to list the registered kinds").
			Wrap(err).
			BuildError())
	}
	return k, nil
}

// readDocument reads args[idx] and returns it as JSON. YAML documents are
// converted; CBOR input is decoded as kind k and re-encoded.
func (a *App) readDocument(args []string, idx int, from string, k payload.Kind) ([]byte, string, error) {
	data, name, err := a.readInput(args, idx)
	if err != nil {
		return nil, name, err
	}
	switch from {
	case inputJSON:
		return data, name, nil
	case inputYAML:
		std, err := yamlToJSON(data)
		return std, name, err
	case inputCBOR:
		raw, err := decodeHex(data)
		if err != nil {
			return nil, name, err
		}
		v, err := k.DecodeCBOR(raw)
		if err != nil {
			return nil, name, issue.WrapWithContext(err, "decode payload", name)
		}
		std, err := codec.MarshalJSON(v, false)
		return std, name, err
	default:
		return nil, name, usageError(fmt.Errorf("unknown input format %q (valid: json, yaml, cbor)", from))
	}
}

// decodePayload reads args[1] and strictly decodes it as kind k.
func (a *App) decodePayload(k payload.Kind, args []string, from string) (any, error) {
	if from == inputCBOR {
		data, name, err := a.readInput(args, 1)
		if err != nil {
			return nil, err
		}
		raw, err := decodeHex(data)
		if err != nil {
			return nil, err
		}
		v, err := k.DecodeCBOR(raw)
		if err != nil {
			return nil, issue.WrapWithContext(err, "decode payload", name)
		}
		return v, nil
	}

	data, name, err := a.readDocument(args, 1, from, k)
	if err != nil {
		return nil, err
	}
	v, err := k.Decode(data)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("decode payload").
			WithResource(name).
			WithIssue(issue.PayloadDecodeFailedId).
			WithSuggestion(fmt.Sprintf("Run 'crucible payload schema %s' to see the expected shape", k.Name)).
			Wrap(err).
			BuildError()
	}
	return v, nil
}

// openError adds suggestions for envelope failures.
func openError(err error, name string) error {
	ctx := issue.NewErrorContext().WithOperation("open envelope").WithResource(name).Wrap(err)
	switch exitCodeFor(err) {
	case foundry.ExitSsotVersionMismatch:
		ctx = ctx.WithIssue(issue.VersionMismatchId).
			WithSuggestion("Upgrade crucible to read payloads written against a newer catalog")
	case foundry.ExitDataInvalid:
		ctx = ctx.WithIssue(issue.PayloadDecodeFailedId)
	case foundry.ExitInvalidArgument:
		ctx = ctx.WithIssue(issue.UnknownKindId)
	}
	return ctx.BuildError()
}

// yamlToJSON converts a YAML document to JSON.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ExitError{Code: foundry.ExitParseError, Err: fmt.Errorf("parse yaml: %w", err)}
	}
	if doc == nil {
		return nil, &ExitError{Code: foundry.ExitParseError, Err: codec.ErrEmptyDocument}
	}
	return codec.MarshalJSON(doc, false)
}

// writeCBORHex writes the CBOR encoding of v as a hex line.
func writeCBORHex(w io.Writer, v any) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hex.EncodeToString(data))
	return err
}

// writeReport renders a conformance report for humans.
func writeReport(w io.Writer, r *conformance.Report, name string) error {
	var sb strings.Builder
	header := fmt.Sprintf("%s (%s %s %s)", name, r.Kind, r.Catalog, r.Version)
	if r.Conforms {
		sb.WriteString(SuccessStyle.Render("✓ conforms") + " " + header + "\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString(ErrorStyle.Render("✗ does not conform") + " " + header + "\n")
	if len(r.Schema) > 0 {
		sb.WriteString(SubtitleStyle.Render("schema:") + "\n")
		for _, is := range r.Schema {
			sb.WriteString("  - " + is.String() + "\n")
		}
	}
	if r.DecodeError != "" {
		sb.WriteString(SubtitleStyle.Render("decode:") + "\n  - " + r.DecodeError + "\n")
	}
	if len(r.Violations) > 0 {
		sb.WriteString(SubtitleStyle.Render("contracts:") + "\n")
		for _, v := range r.Violations {
			sb.WriteString("  - " + v.String() + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

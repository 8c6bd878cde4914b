// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"strconv"
	"strings"

	"github.com/fulmenhq/crucible/internal/issue"
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/foundry"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

type (
	// tagInfo is one tag of an enumeration with its description.
	tagInfo struct {
		Tag         string `json:"tag"`
		Description string `json:"description,omitempty"`
	}

	// parseResult is the structured form of `catalogs parse`.
	parseResult struct {
		Catalog     string         `json:"catalog"`
		Input       string         `json:"input"`
		Policy      catalog.Policy `json:"policy"`
		Known       bool           `json:"known"`
		Description string         `json:"description,omitempty"`
	}
)

// newCatalogsCommand creates the `crucible catalogs` command tree.
func newCatalogsCommand(app *App) *cobra.Command {
	catalogsCmd := &cobra.Command{
		Use:     "catalogs",
		Aliases: []string{"catalog", "enums"},
		Short:   "List and query the typed enumerations",
		Long: `List and query the typed enumerations.

Enumerations are named <catalog>.<Type>, e.g. fulpack.ArchiveFormat. Strict
enumerations reject unknown tags; permissive ones accept any value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	catalogsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every enumeration with its version and tags",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			descs := catalog.Descriptors()
			return app.render(descs, func(w io.Writer) error {
				t := newTable("ENUMERATION", "VERSION", "POLICY", "TAGS")
				for _, d := range descs {
					tags := strings.Join(d.Tags, ", ")
					if d.Policy == catalog.Permissive {
						tags = strconv.Itoa(len(d.Tags)) + " named (open)"
					}
					t.Row(d.Name, d.Version, d.Policy.String(), tags)
				}
				return writeTable(w, t)
			})
		},
	})

	catalogsCmd.AddCommand(&cobra.Command{
		Use:   "tags <enumeration>",
		Short: "List the tags of one enumeration",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			d, err := lookupEnumeration(args[0])
			if err != nil {
				return err
			}
			tags := make([]tagInfo, len(d.Tags))
			for i, tag := range d.Tags {
				desc, _ := d.Describe(tag)
				tags[i] = tagInfo{Tag: tag, Description: desc}
			}
			return app.render(tags, func(w io.Writer) error {
				t := newTable("TAG", "DESCRIPTION")
				for _, tag := range tags {
					t.Row(tag.Tag, tag.Description)
				}
				return writeTable(w, t)
			})
		},
	})

	catalogsCmd.AddCommand(&cobra.Command{
		Use:   "parse <enumeration> <tag>",
		Short: "Parse a tag under the enumeration's policy",
		Long: `Parse a tag under the enumeration's policy.

Tags are case-sensitive. A strict enumeration fails with status 60 on an unknown
tag; a permissive one accepts it and reports it as not known.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			d, err := lookupEnumeration(args[0])
			if err != nil {
				return err
			}
			desc, err := d.Describe(args[1])
			if err != nil {
				return &ExitError{
					Code: foundry.ExitDataInvalid,
					Err: issue.NewErrorContext().
						WithOperation("parse tag").
						WithResource(d.Name).
						WithIssue(issue.UnknownVariantId).
						WithSuggestion("Run 'crucible catalogs tags " + d.Name + "' to list the valid tags").
						Wrap(err).
						BuildError(),
				}
			}
			res := parseResult{
				Catalog:     d.Name,
				Input:       args[1],
				Policy:      d.Policy,
				Known:       slices.Contains(d.Tags, args[1]),
				Description: desc,
			}
			return app.render(res, func(w io.Writer) error {
				known := "yes"
				if !res.Known {
					known = "no"
				}
				return writeFields(w,
					field{"enumeration", res.Catalog},
					field{"tag", res.Input},
					field{"policy", res.Policy.String()},
					field{"known", known},
					field{"description", res.Description},
				)
			})
		},
	})

	return catalogsCmd
}

// lookupEnumeration resolves a registered enumeration, turning unknown
// names into usage errors.
func lookupEnumeration(name string) (catalog.Descriptor, error) {
	d, ok := catalog.Lookup(name)
	if !ok {
		return d, usageError(issue.NewErrorContext().
			WithOperation("resolve enumeration").
			WithResource(name).
			WithIssue(issue.UnknownVariantId).
			WithSuggestion("Run 'crucible catalogs list' to see the registered enumerations").
			Wrap(&catalog.UnrecognizedVariantError{Catalog: "catalog", Value: name}).
			BuildError())
	}
	return d, nil
}

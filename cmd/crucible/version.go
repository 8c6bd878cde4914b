// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"runtime"

	"github.com/fulmenhq/crucible/internal/config"
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/foundry"
	"github.com/fulmenhq/crucible/pkg/fulencode"
	"github.com/fulmenhq/crucible/pkg/fulhash"
	"github.com/fulmenhq/crucible/pkg/fulpack"

	"github.com/spf13/cobra"
)

// versionInfo is the structured form of `crucible version`.
type versionInfo struct {
	Version   string            `json:"version"`
	Commit    string            `json:"commit"`
	BuildDate string            `json:"build_date"`
	GoVersion string            `json:"go_version"`
	Catalogs  map[string]string `json:"catalogs"`
}

// compiledCatalogs lists the catalog ids in display order.
var compiledCatalogs = []struct {
	id      string
	version string
}{
	{"foundry", foundry.ExitCodesVersion},
	{"fulencode", fulencode.FulencodeVersion},
	{"fulhash", fulhash.FulhashVersion},
	{"fulpack", fulpack.FulpackVersion},
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the build and catalog versions",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:   Version,
				Commit:    Commit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Catalogs:  config.CatalogVersions(catalog.Descriptors()),
			}
			return app.render(info, func(w io.Writer) error {
				fields := []field{
					{"version", getVersionString()},
					{"go", info.GoVersion},
				}
				for _, c := range compiledCatalogs {
					fields = append(fields, field{c.id, c.version})
				}
				return writeFields(w, fields...)
			})
		},
	}
}

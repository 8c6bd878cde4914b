// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/crucible/internal/config"
	"github.com/fulmenhq/crucible/pkg/codec"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// tomlListKey wraps non-table values, since a TOML document is always a table.
const tomlListKey = "items"

// render writes v in the selected output format. text renders the human
// form and is used for config.OutputText.
func (a *App) render(v any, text func(w io.Writer) error) error {
	switch a.output {
	case config.OutputJSON:
		return writeJSON(a.stdout, v)
	case config.OutputYAML:
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case config.OutputTOML:
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		doc, ok := generic.(map[string]any)
		if !ok {
			doc = map[string]any{tomlListKey: generic}
		}
		out, err := toml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		_, err = a.stdout.Write(out)
		return err
	default:
		return text(a.stdout)
	}
}

// writeJSON writes indented canonical JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	out, err := codec.MarshalJSON(v, true)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

// toGeneric converts v to maps, slices and scalars through its JSON form, so
// that YAML and TOML output use the same field names and enum tags as JSON.
// Integers stay integers and nulls are dropped.
func toGeneric(v any) (any, error) {
	data, err := codec.MarshalJSON(v, false)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return normalize(generic), nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			if val == nil {
				continue
			}
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, 0, len(x))
		for _, val := range x {
			if val != nil {
				out = append(out, normalize(val))
			}
		}
		return out
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	default:
		return v
	}
}

// newTable builds a styled table. lipgloss drops styling when the output is
// not a terminal.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...)
}

// writeTable renders t followed by a newline.
func writeTable(w io.Writer, t *table.Table) error {
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// field is one line of a key/value listing.
type field struct {
	key   string
	value string
}

// writeFields renders an aligned key/value listing, skipping empty values.
func writeFields(w io.Writer, fields ...field) error {
	width := 0
	for _, f := range fields {
		if f.value != "" && len(f.key) > width {
			width = len(f.key)
		}
	}
	var sb strings.Builder
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		key := KeyStyle.Render(f.key + ":")
		sb.WriteString(key + strings.Repeat(" ", width-len(f.key)+1) + f.value + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// SPDX-License-Identifier: MPL-2.0

package conformance

import (
	_ "embed"
	"errors"
	"strings"

	"github.com/fulmenhq/crucible/pkg/codec"
	"github.com/fulmenhq/crucible/pkg/cueutil"
	"github.com/fulmenhq/crucible/pkg/fulhash"
	"github.com/fulmenhq/crucible/pkg/fulpack"
	"github.com/fulmenhq/crucible/pkg/payload"
)

//go:embed schemas.cue
var schemaSource []byte

var schema = cueutil.MustCompileSchema(schemaSource, "schemas.cue")

type (
	// Report is the outcome of checking one document.
	Report struct {
		Kind        string          `json:"kind"`
		Catalog     string          `json:"catalog"`
		Version     string          `json:"version"`
		Conforms    bool            `json:"conforms"`
		Schema      []cueutil.Issue `json:"schema,omitempty"`
		DecodeError string          `json:"decode_error,omitempty"`
		Violations  []Violation     `json:"violations,omitempty"`
	}

	// Violation is a broken cross-field contract.
	Violation struct {
		Payload string `json:"payload,omitempty"`
		Rule    string `json:"rule,omitempty"`
		Detail  string `json:"detail"`
	}
)

// SchemaSource returns the embedded CUE schema.
func SchemaSource() []byte { return schemaSource }

// Definition returns the schema definition of a kind name, e.g.
// "archive-manifest" -> "#ArchiveManifest".
func Definition(kind string) string {
	var b strings.Builder
	b.WriteByte('#')
	for part := range strings.SplitSeq(kind, "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// DefinitionSource returns the CUE definition of a registered kind.
func DefinitionSource(kind string) ([]byte, error) {
	k, err := payload.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return schema.Source(Definition(k.Name))
}

// Check runs every stage on a JSON or JSONC document of the named kind.
// The returned error is reserved for unknown kinds and unreadable input;
// nonconformance is reported in the Report.
func Check(kind string, data []byte, opts ...cueutil.Option) (*Report, error) {
	k, err := payload.Lookup(kind)
	if err != nil {
		return nil, err
	}
	std, err := codec.Standardize(data)
	if err != nil {
		return nil, err
	}

	report := &Report{Kind: k.Name, Catalog: k.Catalog, Version: k.Version}

	if err := schema.ValidateJSON(Definition(k.Name), std, opts...); err != nil {
		var ve *cueutil.ValidationError
		if !errors.As(err, &ve) {
			return nil, err
		}
		report.Schema = ve.Issues
	}

	v, err := k.Decode(std)
	if err != nil {
		report.DecodeError = err.Error()
	} else {
		report.Violations = violations(k.Check(v))
	}

	report.Conforms = len(report.Schema) == 0 && report.DecodeError == "" && len(report.Violations) == 0
	return report, nil
}

// violations flattens a joined invariant error.
func violations(err error) []Violation {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Violation
		for _, e := range joined.Unwrap() {
			out = append(out, violations(e)...)
		}
		return out
	}
	var iv *fulpack.InvariantViolationError
	if errors.As(err, &iv) {
		return []Violation{{Payload: iv.Payload, Rule: iv.Rule, Detail: iv.Detail}}
	}
	var de *fulhash.InvalidDigestError
	if errors.As(err, &de) {
		return []Violation{{Payload: "Digest", Rule: "formatted", Detail: de.Reason}}
	}
	return []Violation{{Detail: err.Error()}}
}

// Err returns nil for a conforming report and an error summarizing the
// findings otherwise.
func (r *Report) Err() error {
	if r.Conforms {
		return nil
	}
	return &Error{Report: r}
}

// ErrNonconforming is the sentinel error wrapped by Error.
var ErrNonconforming = errors.New("payload does not conform")

// Error wraps a failing report.
type Error struct {
	Report *Report
}

// Error implements the error interface.
func (e *Error) Error() string {
	var findings []string
	for _, issue := range e.Report.Schema {
		findings = append(findings, "schema: "+issue.String())
	}
	if e.Report.DecodeError != "" {
		findings = append(findings, "decode: "+e.Report.DecodeError)
	}
	for _, v := range e.Report.Violations {
		findings = append(findings, "contract: "+v.String())
	}
	return e.Report.Kind + " does not conform: " + strings.Join(findings, "; ")
}

// Unwrap returns ErrNonconforming for errors.Is() compatibility.
func (e *Error) Unwrap() error { return ErrNonconforming }

// String renders the violation as "<rule>: <detail>".
func (v Violation) String() string {
	if v.Rule == "" {
		return v.Detail
	}
	return v.Rule + ": " + v.Detail
}

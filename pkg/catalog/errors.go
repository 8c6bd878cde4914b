// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnrecognizedVariant is the sentinel error wrapped by UnrecognizedVariantError.
	ErrUnrecognizedVariant = errors.New("unrecognized variant")
	// ErrShapeMismatch is the sentinel error wrapped by ShapeMismatchError.
	ErrShapeMismatch = errors.New("shape mismatch")
)

type (
	// UnrecognizedVariantError is returned when a closed catalog sees a tag
	// outside its declared set. Value carries the offending text verbatim.
	UnrecognizedVariantError struct {
		Catalog string
		Field   string
		Value   string
	}

	// ShapeMismatchError is returned when decode sees a value of the wrong
	// kind, e.g. a number where a string tag was expected.
	ShapeMismatchError struct {
		Catalog string
		Field   string
		Want    string
		Got     string
	}
)

// Error implements the error interface.
func (e *UnrecognizedVariantError) Error() string {
	msg := fmt.Sprintf("unrecognized %s variant %q", e.Catalog, e.Value)
	if e.Field != "" {
		return e.Field + ": " + msg
	}
	return msg
}

// Unwrap returns ErrUnrecognizedVariant for errors.Is() compatibility.
func (e *UnrecognizedVariantError) Unwrap() error {
	return ErrUnrecognizedVariant
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	var msg strings.Builder
	if e.Field != "" {
		msg.WriteString(e.Field)
		msg.WriteString(": ")
	}
	if e.Catalog != "" {
		msg.WriteString(e.Catalog)
		msg.WriteString(": ")
	}
	fmt.Fprintf(&msg, "expected %s, got %s", e.Want, e.Got)
	return msg.String()
}

// Unwrap returns ErrShapeMismatch for errors.Is() compatibility.
func (e *ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}

// WithField prefixes the field path of a decode error. Catalog decode errors
// get the path merged into their Field; any other error is wrapped as
// "<field>: <err>". A nil error stays nil.
func WithField(field string, err error) error {
	if err == nil || field == "" {
		return err
	}
	switch e := err.(type) {
	case *UnrecognizedVariantError:
		c := *e
		c.Field = joinPath(field, c.Field)
		return &c
	case *ShapeMismatchError:
		c := *e
		c.Field = joinPath(field, c.Field)
		return &c
	default:
		return fmt.Errorf("%s: %w", field, err)
	}
}

// joinPath appends a child path to a parent, omitting the dot before an
// index segment.
func joinPath(parent, child string) string {
	switch {
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}

// shapeFromJSON converts encoding/json type errors into ShapeMismatchError.
// Other errors are returned unchanged.
func shapeFromJSON(catalog string, err error) error {
	var ute *json.UnmarshalTypeError
	if !errors.As(err, &ute) {
		return err
	}
	want := "value"
	if ute.Type != nil {
		want = ute.Type.String()
	}
	return &ShapeMismatchError{
		Catalog: catalog,
		Field:   ute.Field,
		Want:    want,
		Got:     ute.Value,
	}
}

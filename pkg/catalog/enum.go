// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/fulmenhq/crucible/pkg/codec"
)

type (
	// Variant is one member of a closed catalog together with its metadata.
	Variant[T ~string] struct {
		Tag         T
		Description string
	}

	// Enum is a closed, versioned set of string-tagged variants. The tag is
	// the wire form. An Enum is immutable after construction and safe for
	// concurrent use.
	Enum[T ~string] struct {
		name     string
		version  string
		variants []Variant[T]
		index    map[T]int
	}
)

// NewEnum declares a closed catalog. It panics on an empty or duplicate tag
// because catalogs are package-level declarations.
func NewEnum[T ~string](name, version string, variants ...Variant[T]) *Enum[T] {
	e := &Enum[T]{
		name:     name,
		version:  version,
		variants: slices.Clone(variants),
		index:    make(map[T]int, len(variants)),
	}
	for i, v := range variants {
		if v.Tag == "" {
			panic(fmt.Sprintf("catalog: %s: empty tag at position %d", name, i))
		}
		if _, dup := e.index[v.Tag]; dup {
			panic(fmt.Sprintf("catalog: %s: duplicate tag %q", name, v.Tag))
		}
		e.index[v.Tag] = i
	}
	return e
}

// Name returns the catalog name used in error messages.
func (e *Enum[T]) Name() string { return e.name }

// Version returns the catalog version, e.g. "v1.0.0".
func (e *Enum[T]) Version() string { return e.version }

// Values returns every variant in declaration order.
func (e *Enum[T]) Values() []T {
	out := make([]T, len(e.variants))
	for i, v := range e.variants {
		out[i] = v.Tag
	}
	return out
}

// Tags returns every wire tag in declaration order.
func (e *Enum[T]) Tags() []string {
	out := make([]string, len(e.variants))
	for i, v := range e.variants {
		out[i] = string(v.Tag)
	}
	return out
}

// Contains reports whether v is a declared variant.
func (e *Enum[T]) Contains(v T) bool {
	_, ok := e.index[v]
	return ok
}

// Description returns the description of v, or "" when v is not declared.
func (e *Enum[T]) Description(v T) string {
	i, ok := e.index[v]
	if !ok {
		return ""
	}
	return e.variants[i].Description
}

// Parse maps a tag to its variant by exact, case-sensitive match.
func (e *Enum[T]) Parse(tag string) (T, error) {
	if _, ok := e.index[T(tag)]; !ok {
		var zero T
		return zero, &UnrecognizedVariantError{Catalog: e.name, Value: tag}
	}
	return T(tag), nil
}

// Validate returns an *UnrecognizedVariantError when v is not declared.
func (e *Enum[T]) Validate(v T) error {
	if !e.Contains(v) {
		return &UnrecognizedVariantError{Catalog: e.name, Value: string(v)}
	}
	return nil
}

// EncodeText returns the wire tag of v. Undeclared values fail so that no
// invalid tag ever leaves the process.
func (e *Enum[T]) EncodeText(v T) ([]byte, error) {
	if err := e.Validate(v); err != nil {
		return nil, err
	}
	return []byte(v), nil
}

// DecodeText parses text into dst.
func (e *Enum[T]) DecodeText(text []byte, dst *T) error {
	v, err := e.Parse(string(text))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// DecodeJSON decodes a JSON string tag into dst. Any other JSON kind,
// null included, is a *ShapeMismatchError.
func (e *Enum[T]) DecodeJSON(data []byte, dst *T) error {
	if kind := codec.Kind(data); kind != "string" {
		return &ShapeMismatchError{Catalog: e.name, Want: "string", Got: kind}
	}
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return shapeFromJSON(e.name, err)
	}
	return e.DecodeText([]byte(tag), dst)
}

// Descriptor returns the strict-policy descriptor of the catalog.
func (e *Enum[T]) Descriptor() Descriptor {
	return Descriptor{
		Name:    e.name,
		Version: e.version,
		Policy:  Strict,
		Tags:    e.Tags(),
		Describe: func(tag string) (string, error) {
			v, err := e.Parse(tag)
			if err != nil {
				return "", err
			}
			return e.Description(v), nil
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package cueutil

import "cuelang.org/go/cue"

// ParseResult contains the result of a successful CUE parse operation.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the unified CUE value, for callers that need more than the
	// decoded struct (defaults, metadata).
	Unified cue.Value
}

// ParseAndDecode compiles schema, unifies CUE data with the definition at
// schemaPath (e.g. "#Config"), validates and decodes into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	s, err := CompileSchema(schema, "schema.cue")
	if err != nil {
		return nil, err
	}
	return Decode[T](s, schemaPath, data, opts...)
}

// Decode unifies CUE data with a definition of a compiled schema, validates
// and decodes into T.
func Decode[T any](s *Schema, schemaPath string, data []byte, opts ...Option) (*ParseResult[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	options := newOptions(opts)
	unified, err := s.unify(schemaPath, data, false, options)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, options.displayName())
	}
	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	cuejson "cuelang.org/go/encoding/json"
)

// Schema is a compiled CUE schema. Values built from one cue.Context must
// not be used concurrently, so every operation holds the schema lock.
type Schema struct {
	mu    sync.Mutex
	ctx   *cue.Context
	value cue.Value
}

// CompileSchema compiles CUE schema source. filename is used in errors.
func CompileSchema(src []byte, filename string) (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if v.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema %s: %w", filename, v.Err())
	}
	return &Schema{ctx: ctx, value: v}, nil
}

// MustCompileSchema is CompileSchema for embedded schemas; it panics on
// error.
func MustCompileSchema(src []byte, filename string) *Schema {
	s, err := CompileSchema(src, filename)
	if err != nil {
		panic(err)
	}
	return s
}

// Definitions returns the names of the top-level definitions, e.g.
// "#ArchiveEntry", in source order.
func (s *Schema) Definitions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.value.Fields(cue.Definitions(true))
	if err != nil {
		return nil
	}
	var names []string
	for iter.Next() {
		if sel := iter.Selector(); sel.IsDefinition() {
			names = append(names, sel.String())
		}
	}
	return names
}

// Source returns the formatted CUE source of one definition, e.g.
// "#ArchiveEntry: {...}". References to other definitions are kept as
// references.
func (s *Schema) Source(definition string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.value.LookupPath(cue.ParsePath(definition))
	if !v.Exists() {
		return nil, fmt.Errorf("schema definition %s not found", definition)
	}
	body, err := format.Node(v.Syntax(cue.Docs(true), cue.Optional(true), cue.Definitions(true)))
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", definition, err)
	}
	return append([]byte(definition+": "), body...), nil
}

// Validate unifies CUE source with the named definition and validates it.
func (s *Schema) Validate(definition string, data []byte, opts ...Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.unify(definition, data, false, newOptions(opts))
	return err
}

// ValidateJSON unifies a JSON document with the named definition and
// validates it.
func (s *Schema) ValidateJSON(definition string, data []byte, opts ...Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.unify(definition, data, true, newOptions(opts))
	return err
}

// unify must be called with s.mu held.
func (s *Schema) unify(definition string, data []byte, isJSON bool, options parseOptions) (cue.Value, error) {
	filename := options.displayName()
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	root := s.value.LookupPath(cue.ParsePath(definition))
	if !root.Exists() || root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found", definition)
	}

	var user cue.Value
	if isJSON {
		expr, err := cuejson.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		user = s.ctx.BuildExpr(expr)
	} else {
		user = s.ctx.CompileBytes(data, cue.Filename(filename))
	}
	if user.Err() != nil {
		return cue.Value{}, FormatError(user.Err(), filename)
	}

	unified := root.Unify(user)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}

func newOptions(opts []Option) parseOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fulmenhq/crucible/pkg/codec"
)

type fieldInfo struct {
	name     string
	index    int
	required bool
}

var (
	fieldCache sync.Map // reflect.Type -> []fieldInfo

	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
)

// DecodeObject decodes a JSON object into the struct pointed to by v.
//
// Unlike encoding/json, keys match json tag names exactly and
// case-sensitively. Unknown keys are ignored. A field whose tag carries
// neither omitempty nor omitzero is required: a missing key, or a null for
// any field without its own json.Unmarshaler, is a *ShapeMismatchError.
// Optional slices and maps accept null as nil. Failures carry the field path of
// the offending value, e.g. "entries[2].type".
//
// DecodeObject checks shape only; cross-field invariants are never
// evaluated. On error v is left unchanged.
func DecodeObject(catalogName string, data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("catalog: DecodeObject needs a non-nil struct pointer, got %T", v)
	}
	if kind := codec.Kind(data); kind != "object" {
		return &ShapeMismatchError{Catalog: catalogName, Want: "object", Got: kind}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return shapeFromJSON(catalogName, err)
	}

	out := reflect.New(rv.Elem().Type()).Elem()
	for _, f := range fieldsOf(out.Type()) {
		msg, ok := raw[f.name]
		if !ok {
			if f.required {
				return &ShapeMismatchError{Catalog: catalogName, Field: f.name, Want: "field", Got: "missing"}
			}
			continue
		}
		if f.required && codec.IsNull(msg) {
			ft := out.Field(f.index).Type()
			if !reflect.PointerTo(ft).Implements(unmarshalerType) {
				return &ShapeMismatchError{Catalog: catalogName, Field: f.name, Want: kindOf(ft), Got: "null"}
			}
		}
		if err := decodeValue(catalogName, msg, out.Field(f.index)); err != nil {
			return WithField(f.name, err)
		}
	}
	rv.Elem().Set(out)
	return nil
}

func decodeValue(catalogName string, msg json.RawMessage, dst reflect.Value) error {
	t := dst.Type()
	custom := reflect.PointerTo(t).Implements(unmarshalerType)

	if codec.IsNull(msg) && !custom {
		switch t.Kind() {
		case reflect.Slice, reflect.Map, reflect.Interface, reflect.Pointer:
			dst.SetZero()
			return nil
		default:
			return &ShapeMismatchError{Catalog: catalogName, Want: kindOf(t), Got: "null"}
		}
	}

	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 && !custom {
		if kind := codec.Kind(msg); kind != "array" {
			return &ShapeMismatchError{Catalog: catalogName, Want: "array", Got: kind}
		}
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil {
			return shapeFromJSON(catalogName, err)
		}
		list := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			if err := decodeValue(catalogName, item, list.Index(i)); err != nil {
				return WithField(fmt.Sprintf("[%d]", i), err)
			}
		}
		dst.Set(list)
		return nil
	}

	if err := json.Unmarshal(msg, dst.Addr().Interface()); err != nil {
		return shapeFromJSON(catalogName, err)
	}
	return nil
}

func fieldsOf(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		optional := false
		for opt := range strings.SplitSeq(opts, ",") {
			if opt == "omitempty" || opt == "omitzero" {
				optional = true
			}
		}
		fields = append(fields, fieldInfo{name: name, index: i, required: !optional})
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]fieldInfo)
}

func kindOf(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}

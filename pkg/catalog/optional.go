// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/crucible/pkg/codec"
)

// cborNull is the single-byte CBOR encoding of null.
var cborNull = []byte{0xf6}

// Optional holds a value that may be absent. Absence is distinct from every
// value of T, including its zero value.
//
// Struct fields of type Optional[T] should be tagged `json:"name,omitzero"`:
// absent values are then omitted from both JSON and CBOR output rather than
// written as null. On decode a missing key or an explicit null yields None.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool { return o.set }

// IsZero reports absence. encoding/json and fxamacker/cbor consult it for
// the omitzero tag option.
func (o Optional[T]) IsZero() bool { return !o.set }

// ValueOr returns the value when present and def otherwise.
func (o Optional[T]) ValueOr(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

// String formats the held value, or "<none>" when absent.
func (o Optional[T]) String() string {
	if !o.set {
		return "<none>"
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes the held value. An absent value encodes as null; it
// only reaches the output when the field lacks the omitzero option.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent and any other value as present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if codec.IsNull(data) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return shapeFromJSON("", err)
	}
	*o = Some(v)
	return nil
}

// MarshalCBOR encodes the held value with the deterministic codec options.
func (o Optional[T]) MarshalCBOR() ([]byte, error) {
	if !o.set {
		return cborNull, nil
	}
	return codec.Marshal(o.value)
}

// UnmarshalCBOR decodes null or undefined as absent.
func (o *Optional[T]) UnmarshalCBOR(data []byte) error {
	if codec.IsCBORNull(data) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := codec.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

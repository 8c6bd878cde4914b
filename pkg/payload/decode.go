// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"encoding/json"

	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
)

// Decode decodes a JSON or JSONC document into a new value of the kind and
// returns a pointer to it. Only shape is checked; call Check for the
// cross-field contracts.
func (k Kind) Decode(data []byte) (any, error) {
	std, err := codec.Standardize(data)
	if err != nil {
		return nil, err
	}
	if got := codec.Kind(std); got != "object" {
		return nil, &catalog.ShapeMismatchError{Catalog: k.Name, Want: "object", Got: got}
	}
	v := k.New()
	if err := json.Unmarshal(std, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeCBOR decodes a CBOR item into a new value of the kind.
func (k Kind) DecodeCBOR(data []byte) (any, error) {
	v := k.New()
	if err := codec.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeDocument decodes a JSON or JSONC document of the named kind from
// DefaultRegistry.
func DecodeDocument(kind string, data []byte) (any, error) {
	k, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	return k.Decode(data)
}

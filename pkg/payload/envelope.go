// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
)

// ErrVersionMismatch is the sentinel error wrapped by VersionMismatchError.
var ErrVersionMismatch = errors.New("catalog version mismatch")

type (
	// Envelope wraps a payload with the catalog and version it was produced
	// against. After Open, Payload holds a pointer to the decoded value.
	Envelope struct {
		Catalog string `json:"catalog"`
		Version string `json:"version"`
		Kind    string `json:"kind"`
		Payload any    `json:"payload"`
	}

	// VersionMismatchError is returned when an envelope carries a catalog
	// version this binary cannot read.
	VersionMismatchError struct {
		Catalog string
		Want    string
		Got     string
	}

	jsonEnvelope struct {
		Catalog string          `json:"catalog"`
		Version string          `json:"version"`
		Kind    string          `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}

	cborEnvelope struct {
		Catalog string           `json:"catalog"`
		Version string           `json:"version"`
		Kind    string           `json:"kind"`
		Payload codec.RawMessage `json:"payload"`
	}
)

// Error implements the error interface.
func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("%s catalog version %s is not readable by %s (same major, not newer required)",
		e.Catalog, e.Got, e.Want)
}

// Unwrap returns ErrVersionMismatch for errors.Is() compatibility.
func (e *VersionMismatchError) Unwrap() error { return ErrVersionMismatch }

// Seal wraps v in an envelope stamped with the compiled catalog version of
// its kind. v must be a value of a registered kind or a pointer to one.
func Seal(v any) (*Envelope, error) {
	k, err := DefaultRegistry.ForValue(v)
	if err != nil {
		return nil, err
	}
	return SealKind(k, v)
}

// SealKind wraps v, which must belong to kind k.
func SealKind(k Kind, v any) (*Envelope, error) {
	if err := matchesType(k, v); err != nil {
		return nil, err
	}
	return &Envelope{
		Catalog: k.Catalog,
		Version: k.Version,
		Kind:    k.Name,
		Payload: v,
	}, nil
}

// Open decodes a JSON or JSONC envelope, checks its catalog version
// against the compiled one and decodes the payload.
func Open(data []byte) (*Envelope, error) {
	std, err := codec.Standardize(data)
	if err != nil {
		return nil, err
	}
	var raw jsonEnvelope
	if err := catalog.DecodeObject("payload.Envelope", std, &raw); err != nil {
		return nil, err
	}
	k, err := admit(raw.Catalog, raw.Version, raw.Kind)
	if err != nil {
		return nil, err
	}
	v, err := k.Decode(raw.Payload)
	if err != nil {
		return nil, catalog.WithField("payload", err)
	}
	return &Envelope{Catalog: raw.Catalog, Version: raw.Version, Kind: raw.Kind, Payload: v}, nil
}

// OpenCBOR is Open for CBOR envelopes.
func OpenCBOR(data []byte) (*Envelope, error) {
	var raw cborEnvelope
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	k, err := admit(raw.Catalog, raw.Version, raw.Kind)
	if err != nil {
		return nil, err
	}
	v, err := k.DecodeCBOR(raw.Payload)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return &Envelope{Catalog: raw.Catalog, Version: raw.Version, Kind: raw.Kind, Payload: v}, nil
}

// admit resolves the kind of an envelope and checks that its catalog and
// version match the compiled ones.
func admit(catalogID, version, kind string) (Kind, error) {
	k, err := Lookup(kind)
	if err != nil {
		return Kind{}, err
	}
	if catalogID != k.Catalog {
		return Kind{}, fmt.Errorf("%w: kind %s belongs to catalog %s, envelope says %s",
			ErrKindMismatch, kind, k.Catalog, catalogID)
	}
	ok, err := catalog.Compatible(k.Version, version)
	if err != nil {
		return Kind{}, err
	}
	if !ok {
		return Kind{}, &VersionMismatchError{Catalog: k.Catalog, Want: k.Version, Got: version}
	}
	return k, nil
}

// Check evaluates the contracts of the enveloped payload.
func (e *Envelope) Check() error {
	k, err := Lookup(e.Kind)
	if err != nil {
		return err
	}
	return k.Check(e.Payload)
}

func matchesType(k Kind, v any) error {
	rv := reflect.ValueOf(v)
	t := reflect.TypeOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("%w: nil %s", ErrKindMismatch, k.Name)
		}
		t = t.Elem()
	}
	if t != k.typ {
		return fmt.Errorf("%w: kind %s holds %s, got %T", ErrKindMismatch, k.Name, k.typ, v)
	}
	return nil
}

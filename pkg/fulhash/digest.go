// SPDX-License-Identifier: MPL-2.0

package fulhash

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/crucible/pkg/catalog"
)

// ErrInvalidDigest is the sentinel error wrapped by InvalidDigestError.
var ErrInvalidDigest = errors.New("invalid digest")

type (
	// Digest is the standard payload returned by hashing helpers.
	//
	// Bytes carries the raw sum when the producer includes it; JSON renders
	// it as standard base64, CBOR as a byte string.
	Digest struct {
		Algorithm Algorithm                `json:"algorithm"`
		Hex       string                   `json:"hex"`
		Formatted string                   `json:"formatted"`
		Bytes     catalog.Optional[[]byte] `json:"bytes,omitzero"`
	}

	// InvalidDigestError describes why a digest or its text form is invalid.
	InvalidDigestError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidDigestError) Error() string {
	return fmt.Sprintf("invalid digest %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidDigest for errors.Is() compatibility.
func (e *InvalidDigestError) Unwrap() error { return ErrInvalidDigest }

// NewDigest builds a Digest from a raw sum. The sum length must match the
// algorithm. The returned digest carries the raw bytes.
func NewDigest(alg Algorithm, sum []byte) (Digest, error) {
	if err := alg.Validate(); err != nil {
		return Digest{}, err
	}
	h := hex.EncodeToString(sum)
	if len(sum) != alg.Size() {
		return Digest{}, &InvalidDigestError{
			Value:  string(alg) + ":" + h,
			Reason: fmt.Sprintf("%s sums are %d bytes, got %d", alg, alg.Size(), len(sum)),
		}
	}
	return Digest{
		Algorithm: alg,
		Hex:       h,
		Formatted: string(alg) + ":" + h,
		Bytes:     catalog.Some(bytes.Clone(sum)),
	}, nil
}

// ParseDigest parses the canonical "<algorithm>:<hex>" form. The algorithm
// must be a declared tag and the hex must be lowercase with the exact length
// of the algorithm's sum. The returned digest has no raw bytes.
func ParseDigest(s string) (Digest, error) {
	tag, h, ok := strings.Cut(s, ":")
	if !ok {
		return Digest{}, &InvalidDigestError{Value: s, Reason: `missing ":" separator`}
	}
	alg, err := ParseAlgorithm(tag)
	if err != nil {
		return Digest{}, err
	}
	d := Digest{Algorithm: alg, Hex: h, Formatted: s}
	if err := d.checkHex(); err != nil {
		return Digest{}, err
	}
	return d, nil
}

// Check verifies the internal consistency of a decoded digest: a declared
// algorithm, well-formed hex of the right length, Formatted equal to
// "<algorithm>:<hex>" and, when present, Bytes matching Hex.
func (d Digest) Check() error {
	if err := d.Algorithm.Validate(); err != nil {
		return err
	}
	if err := d.checkHex(); err != nil {
		return err
	}
	if want := string(d.Algorithm) + ":" + d.Hex; d.Formatted != want {
		return &InvalidDigestError{Value: d.Formatted, Reason: fmt.Sprintf("formatted should be %q", want)}
	}
	if raw, ok := d.Bytes.Get(); ok && hex.EncodeToString(raw) != d.Hex {
		return &InvalidDigestError{Value: d.Formatted, Reason: "bytes do not match hex"}
	}
	return nil
}

func (d Digest) checkHex() error {
	value := string(d.Algorithm) + ":" + d.Hex
	switch {
	case d.Hex == "":
		return &InvalidDigestError{Value: value, Reason: "empty hex"}
	case len(d.Hex) != d.Algorithm.HexLen():
		return &InvalidDigestError{
			Value:  value,
			Reason: fmt.Sprintf("%s needs %d hex characters, got %d", d.Algorithm, d.Algorithm.HexLen(), len(d.Hex)),
		}
	}
	for _, r := range d.Hex {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return &InvalidDigestError{Value: value, Reason: fmt.Sprintf("%q is not a lowercase hex digit", r)}
		}
	}
	return nil
}

// Equal reports whether two digests name the same algorithm and sum. Raw
// bytes are not compared since they are optional.
func (d Digest) Equal(other Digest) bool {
	return d.Algorithm == other.Algorithm && d.Hex == other.Hex
}

// String returns the canonical form.
func (d Digest) String() string {
	if d.Formatted != "" {
		return d.Formatted
	}
	return string(d.Algorithm) + ":" + d.Hex
}

// UnmarshalJSON decodes a digest object with exact-case keys. Only shape is
// checked here; use Check for consistency.
func (d *Digest) UnmarshalJSON(data []byte) error {
	type fields Digest
	return catalog.DecodeObject("fulhash.Digest", data, (*fields)(d))
}

// SPDX-License-Identifier: MPL-2.0

package fulhash

import (
	"github.com/fulmenhq/crucible/pkg/catalog"
)

// FulhashVersion is the catalog version of the fulhash types.
const FulhashVersion = "v1.0.0"

const (
	AlgorithmXXH3128 Algorithm = "xxh3-128"
	AlgorithmSHA256  Algorithm = "sha256"
	AlgorithmCRC32   Algorithm = "crc32"
	AlgorithmCRC32C  Algorithm = "crc32c"

	// DefaultAlgorithm is used when a caller does not pick one.
	DefaultAlgorithm = AlgorithmXXH3128
)

// Algorithm names a supported hashing algorithm.
type Algorithm string

var algorithms = catalog.NewEnum("fulhash.Algorithm", FulhashVersion,
	catalog.Variant[Algorithm]{Tag: AlgorithmXXH3128, Description: "Fast non-cryptographic hash (default). Excellent collision resistance, extremely high throughput (50GB/s+)."},
	catalog.Variant[Algorithm]{Tag: AlgorithmSHA256, Description: "Cryptographic security standard. Resistant to intentional collisions. Use for security verification."},
	catalog.Variant[Algorithm]{Tag: AlgorithmCRC32, Description: "32-bit Cyclic Redundancy Check. Standard for GZIP/ZIP/PNG legacy format interoperability."},
	catalog.Variant[Algorithm]{Tag: AlgorithmCRC32C, Description: "32-bit CRC (Castagnoli). HW accelerated (SSE4.2/ARMv8). Use for cloud storage (GCS, AWS) and networking."},
)

func init() {
	catalog.Register(algorithms.Descriptor())
}

// AllAlgorithms returns every algorithm in catalog order.
func AllAlgorithms() []Algorithm { return algorithms.Values() }

// ParseAlgorithm parses an algorithm tag.
func ParseAlgorithm(s string) (Algorithm, error) { return algorithms.Parse(s) }

// String returns the wire tag.
func (a Algorithm) String() string { return string(a) }

// Description returns the intended use of the algorithm.
func (a Algorithm) Description() string { return algorithms.Description(a) }

// Size returns the digest length in bytes, or 0 for an undeclared algorithm.
func (a Algorithm) Size() int {
	switch a {
	case AlgorithmXXH3128:
		return 16
	case AlgorithmSHA256:
		return 32
	case AlgorithmCRC32, AlgorithmCRC32C:
		return 4
	default:
		return 0
	}
}

// HexLen returns the length of the lowercase hex rendering of a digest.
func (a Algorithm) HexLen() int { return 2 * a.Size() }

// Cryptographic reports whether the algorithm resists deliberate collisions.
func (a Algorithm) Cryptographic() bool { return a == AlgorithmSHA256 }

// Validate returns an error when a is not a declared algorithm.
func (a Algorithm) Validate() error { return algorithms.Validate(a) }

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) { return algorithms.EncodeText(a) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error { return algorithms.DecodeText(text, a) }

// UnmarshalJSON rejects non-string JSON values.
func (a *Algorithm) UnmarshalJSON(data []byte) error { return algorithms.DecodeJSON(data, a) }

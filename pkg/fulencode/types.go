// SPDX-License-Identifier: MPL-2.0

package fulencode

import (
	"github.com/fulmenhq/crucible/pkg/catalog"
)

// FulencodeVersion is the catalog version of every fulencode enumeration.
const FulencodeVersion = "v1.0.0"

const (
	FormatBase64    EncodingFormat = "base64"
	FormatBase64URL EncodingFormat = "base64url"
	FormatBase64Raw EncodingFormat = "base64_raw"
	FormatBase32    EncodingFormat = "base32"
	FormatBase32Hex EncodingFormat = "base32hex"
	FormatHex       EncodingFormat = "hex"
	FormatUTF8      EncodingFormat = "utf-8"
	FormatUTF16LE   EncodingFormat = "utf-16le"
	FormatUTF16BE   EncodingFormat = "utf-16be"
	FormatISO88591  EncodingFormat = "iso-8859-1"
	FormatCP1252    EncodingFormat = "cp1252"
	FormatASCII     EncodingFormat = "ascii"
)

const (
	ProfileNFC              NormalizationProfile = "nfc"
	ProfileNFD              NormalizationProfile = "nfd"
	ProfileNFKC             NormalizationProfile = "nfkc"
	ProfileNFKD             NormalizationProfile = "nfkd"
	ProfileSafeIdentifiers  NormalizationProfile = "safe_identifiers"
	ProfileSearchOptimized  NormalizationProfile = "search_optimized"
	ProfileFilenameSafe     NormalizationProfile = "filename_safe"
	ProfileTextSafe         NormalizationProfile = "text_safe"
	ProfileLegacyCompatible NormalizationProfile = "legacy_compatible"
)

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

const (
	// FamilyBinaryToText covers formats that render arbitrary bytes as text.
	FamilyBinaryToText Family = "binary-to-text"
	// FamilyCharacter covers character encodings of Unicode text.
	FamilyCharacter Family = "character"
)

type (
	// EncodingFormat names a binary-to-text or character encoding.
	EncodingFormat string

	// NormalizationProfile names a Unicode normalization form or a composite
	// profile built on one.
	NormalizationProfile string

	// ConfidenceLevel grades the result of encoding detection.
	ConfidenceLevel string

	// Family groups encoding formats by what they transform.
	Family string
)

var (
	formats = catalog.NewEnum("fulencode.EncodingFormat", FulencodeVersion,
		catalog.Variant[EncodingFormat]{Tag: FormatBase64, Description: "General purpose binary encoding, email attachments"},
		catalog.Variant[EncodingFormat]{Tag: FormatBase64URL, Description: "URL-safe tokens, JWT, query parameters"},
		catalog.Variant[EncodingFormat]{Tag: FormatBase64Raw, Description: "Base64 without padding"},
		catalog.Variant[EncodingFormat]{Tag: FormatBase32, Description: "Human-readable identifiers, case-insensitive encodings"},
		catalog.Variant[EncodingFormat]{Tag: FormatBase32Hex, Description: "Hexadecimal-ordered Base32"},
		catalog.Variant[EncodingFormat]{Tag: FormatHex, Description: "Checksums, debug output, color codes"},
		catalog.Variant[EncodingFormat]{Tag: FormatUTF8, Description: "Universal text encoding, web, APIs"},
		catalog.Variant[EncodingFormat]{Tag: FormatUTF16LE, Description: "Windows internals, Java string storage"},
		catalog.Variant[EncodingFormat]{Tag: FormatUTF16BE, Description: "Network protocols, some Unix systems"},
		catalog.Variant[EncodingFormat]{Tag: FormatISO88591, Description: "Western European text, HTTP headers"},
		catalog.Variant[EncodingFormat]{Tag: FormatCP1252, Description: "Windows Western European (superset of ISO-8859-1)"},
		catalog.Variant[EncodingFormat]{Tag: FormatASCII, Description: "7-bit printable subset of UTF-8"},
	)

	profiles = catalog.NewEnum("fulencode.NormalizationProfile", FulencodeVersion,
		catalog.Variant[NormalizationProfile]{Tag: ProfileNFC, Description: "Compose combining marks with base characters (e.g., e + ´ → é)"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileNFD, Description: "Decompose composed characters into base + combining marks (é → e + ´)"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileNFKC, Description: "Decompose compatibility equivalents then compose (ﬁ → fi, ² → 2)"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileNFKD, Description: "Full decomposition including compatibility (ﬁ → f + i, ² → 2)"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileSafeIdentifiers, Description: "User names, API keys, identifiers requiring strict validation"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileSearchOptimized, Description: "Full-text search, fuzzy matching"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileFilenameSafe, Description: "Cross-platform file names"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileTextSafe, Description: "Log-safe and UI-safe text display (prevent spoofing and hidden content)"},
		catalog.Variant[NormalizationProfile]{Tag: ProfileLegacyCompatible, Description: "Legacy system integration (limited Unicode support)"},
	)

	confidences = catalog.NewEnum("fulencode.ConfidenceLevel", FulencodeVersion,
		catalog.Variant[ConfidenceLevel]{Tag: ConfidenceHigh, Description: "Very likely correct encoding"},
		catalog.Variant[ConfidenceLevel]{Tag: ConfidenceMedium, Description: "Probable encoding, may need fallback"},
		catalog.Variant[ConfidenceLevel]{Tag: ConfidenceLow, Description: "Ambiguous or uncertain"},
	)
)

func init() {
	catalog.Register(formats.Descriptor())
	catalog.Register(profiles.Descriptor())
	catalog.Register(confidences.Descriptor())
}

// AllEncodingFormats returns every encoding format in catalog order.
func AllEncodingFormats() []EncodingFormat { return formats.Values() }

// ParseEncodingFormat parses an encoding format tag.
func ParseEncodingFormat(s string) (EncodingFormat, error) { return formats.Parse(s) }

// String returns the wire tag.
func (f EncodingFormat) String() string { return string(f) }

// Description returns the typical use of the format.
func (f EncodingFormat) Description() string { return formats.Description(f) }

// Family reports whether f encodes bytes as text or text as bytes. It
// returns "" for undeclared formats.
func (f EncodingFormat) Family() Family {
	switch f {
	case FormatBase64, FormatBase64URL, FormatBase64Raw, FormatBase32, FormatBase32Hex, FormatHex:
		return FamilyBinaryToText
	case FormatUTF8, FormatUTF16LE, FormatUTF16BE, FormatISO88591, FormatCP1252, FormatASCII:
		return FamilyCharacter
	default:
		return ""
	}
}

// Validate returns an error when f is not a declared format.
func (f EncodingFormat) Validate() error { return formats.Validate(f) }

// MarshalText implements encoding.TextMarshaler.
func (f EncodingFormat) MarshalText() ([]byte, error) { return formats.EncodeText(f) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *EncodingFormat) UnmarshalText(text []byte) error { return formats.DecodeText(text, f) }

// UnmarshalJSON rejects non-string JSON values.
func (f *EncodingFormat) UnmarshalJSON(data []byte) error { return formats.DecodeJSON(data, f) }

// AllNormalizationProfiles returns every profile in catalog order.
func AllNormalizationProfiles() []NormalizationProfile { return profiles.Values() }

// ParseNormalizationProfile parses a profile tag.
func ParseNormalizationProfile(s string) (NormalizationProfile, error) { return profiles.Parse(s) }

// String returns the wire tag.
func (p NormalizationProfile) String() string { return string(p) }

// Description returns what the profile does or where it applies.
func (p NormalizationProfile) Description() string { return profiles.Description(p) }

// IsUnicodeForm reports whether p is one of the four Unicode normalization
// forms rather than a composite profile.
func (p NormalizationProfile) IsUnicodeForm() bool {
	switch p {
	case ProfileNFC, ProfileNFD, ProfileNFKC, ProfileNFKD:
		return true
	default:
		return false
	}
}

// Validate returns an error when p is not a declared profile.
func (p NormalizationProfile) Validate() error { return profiles.Validate(p) }

// MarshalText implements encoding.TextMarshaler.
func (p NormalizationProfile) MarshalText() ([]byte, error) { return profiles.EncodeText(p) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *NormalizationProfile) UnmarshalText(text []byte) error {
	return profiles.DecodeText(text, p)
}

// UnmarshalJSON rejects non-string JSON values.
func (p *NormalizationProfile) UnmarshalJSON(data []byte) error {
	return profiles.DecodeJSON(data, p)
}

// AllConfidenceLevels returns every level from most to least confident.
func AllConfidenceLevels() []ConfidenceLevel { return confidences.Values() }

// ParseConfidenceLevel parses a confidence tag.
func ParseConfidenceLevel(s string) (ConfidenceLevel, error) { return confidences.Parse(s) }

// String returns the wire tag.
func (c ConfidenceLevel) String() string { return string(c) }

// Description returns what the level means for a detection result.
func (c ConfidenceLevel) Description() string { return confidences.Description(c) }

// Validate returns an error when c is not a declared level.
func (c ConfidenceLevel) Validate() error { return confidences.Validate(c) }

// MarshalText implements encoding.TextMarshaler.
func (c ConfidenceLevel) MarshalText() ([]byte, error) { return confidences.EncodeText(c) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ConfidenceLevel) UnmarshalText(text []byte) error {
	return confidences.DecodeText(text, c)
}

// UnmarshalJSON rejects non-string JSON values.
func (c *ConfidenceLevel) UnmarshalJSON(data []byte) error {
	return confidences.DecodeJSON(data, c)
}

// SPDX-License-Identifier: MPL-2.0

// Package fulencode declares the closed catalogs shared by encoding tools:
// the supported encoding formats, Unicode normalization profiles and the
// confidence levels reported by encoding detection.
//
// The package only names these values. Encoding, decoding and detection are
// performed by the tools that exchange them.
package fulencode

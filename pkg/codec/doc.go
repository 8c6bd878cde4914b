// SPDX-License-Identifier: MPL-2.0

// Package codec provides the standard JSON and CBOR encoding configuration
// shared by every catalog package.
//
// Catalog values cross two kinds of boundary:
//
//   - JSON for external interfaces: payloads exchanged with sibling tools,
//     CLI output, and files written for humans.
//   - CBOR for internal use: compact persisted payloads and envelopes.
//
// The CBOR encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same logical value always produces identical bytes. Types implementing
// encoding.TextMarshaler encode as CBOR text strings, which keeps catalog
// tags identical across both formats.
//
// Catalog structs carry only `json` tags. fxamacker/cbor reads `json` tags
// as a fallback, so one tag controls field naming and omission for both
// formats.
//
// JSON input may contain comments and trailing commas (JSONC); Standardize
// strips them before strict decoding.
package codec

// SPDX-License-Identifier: MPL-2.0

package fulpack

import (
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
	"github.com/fulmenhq/crucible/pkg/fulhash"
)

type (
	// ArchiveInfo is the metadata returned by the info operation.
	ArchiveInfo struct {
		Format            ArchiveFormat                       `json:"format"`
		EntryCount        int64                               `json:"entry_count"`
		TotalSize         int64                               `json:"total_size"`
		CompressedSize    int64                               `json:"compressed_size"`
		Compression       catalog.Optional[Compression]       `json:"compression,omitzero"`
		CompressionRatio  catalog.Optional[float64]           `json:"compression_ratio,omitzero"`
		HasChecksums      catalog.Optional[bool]              `json:"has_checksums,omitzero"`
		ChecksumAlgorithm catalog.Optional[fulhash.Algorithm] `json:"checksum_algorithm,omitzero"`
		// Created is an RFC 3339 timestamp.
		Created catalog.Optional[string] `json:"created,omitzero"`
	}

	// ArchiveEntry describes one archive member, as returned by scan.
	ArchiveEntry struct {
		Path           string                  `json:"path"`
		Type           EntryType               `json:"type"`
		Size           int64                   `json:"size"`
		CompressedSize catalog.Optional[int64] `json:"compressed_size,omitzero"`
		// Modified is an RFC 3339 timestamp.
		Modified catalog.Optional[string] `json:"modified,omitzero"`
		// Checksum is the SHA-256 of the content as 64 lowercase hex digits.
		Checksum catalog.Optional[string] `json:"checksum,omitzero"`
		// Mode holds Unix permissions as an octal string, e.g. "0644".
		Mode          catalog.Optional[string] `json:"mode,omitzero"`
		SymlinkTarget catalog.Optional[string] `json:"symlink_target,omitzero"`
	}

	// ArchiveManifest is a complete table of contents, kept for large
	// archives and caches.
	ArchiveManifest struct {
		Format         ArchiveFormat                    `json:"format"`
		Version        string                           `json:"version"`
		Generated      string                           `json:"generated"`
		EntryCount     int64                            `json:"entry_count"`
		Entries        []ArchiveEntry                   `json:"entries"`
		TotalSize      catalog.Optional[int64]          `json:"total_size,omitzero"`
		CompressedSize catalog.Optional[int64]          `json:"compressed_size,omitzero"`
		Index          catalog.Optional[map[string]any] `json:"index,omitzero"`
	}

	// ValidationResult is the outcome of the verify operation.
	ValidationResult struct {
		Valid             bool                               `json:"valid"`
		Errors            []string                           `json:"errors"`
		Warnings          []string                           `json:"warnings"`
		EntryCount        int64                              `json:"entry_count"`
		ChecksumsVerified catalog.Optional[int64]            `json:"checksums_verified,omitzero"`
		ChecksPerformed   catalog.Optional[[]IntegrityCheck] `json:"checks_performed,omitzero"`
	}

	// ExtractResult is the outcome of the extract operation.
	ExtractResult struct {
		ExtractedCount    int64                      `json:"extracted_count"`
		SkippedCount      int64                      `json:"skipped_count"`
		ErrorCount        int64                      `json:"error_count"`
		Errors            catalog.Optional[[]string] `json:"errors,omitzero"`
		Warnings          catalog.Optional[[]string] `json:"warnings,omitzero"`
		ChecksumsVerified catalog.Optional[int64]    `json:"checksums_verified,omitzero"`
		TotalBytes        catalog.Optional[int64]    `json:"total_bytes,omitzero"`
	}
)

// UnmarshalJSON decodes with exact-case keys and shape checks only.
func (a *ArchiveInfo) UnmarshalJSON(data []byte) error {
	type fields ArchiveInfo
	return catalog.DecodeObject("fulpack.ArchiveInfo", data, (*fields)(a))
}

// UnmarshalJSON decodes with exact-case keys and shape checks only.
func (e *ArchiveEntry) UnmarshalJSON(data []byte) error {
	type fields ArchiveEntry
	return catalog.DecodeObject("fulpack.ArchiveEntry", data, (*fields)(e))
}

// UnmarshalJSON decodes with exact-case keys and shape checks only. A
// manifest whose entry_count disagrees with its entries still decodes.
func (m *ArchiveManifest) UnmarshalJSON(data []byte) error {
	type fields ArchiveManifest
	return catalog.DecodeObject("fulpack.ArchiveManifest", data, (*fields)(m))
}

// MarshalJSON writes a nil entry list as an empty array.
func (m ArchiveManifest) MarshalJSON() ([]byte, error) {
	type fields ArchiveManifest
	if m.Entries == nil {
		m.Entries = []ArchiveEntry{}
	}
	return codec.MarshalJSON(fields(m), false)
}

// MarshalCBOR writes a nil entry list as an empty array.
func (m ArchiveManifest) MarshalCBOR() ([]byte, error) {
	type fields ArchiveManifest
	if m.Entries == nil {
		m.Entries = []ArchiveEntry{}
	}
	return codec.Marshal(fields(m))
}

// MarshalJSON writes nil error and warning lists as empty arrays.
func (r ValidationResult) MarshalJSON() ([]byte, error) {
	type fields ValidationResult
	return codec.MarshalJSON(fields(r.normalized()), false)
}

// MarshalCBOR writes nil error and warning lists as empty arrays.
func (r ValidationResult) MarshalCBOR() ([]byte, error) {
	type fields ValidationResult
	return codec.Marshal(fields(r.normalized()))
}

// UnmarshalJSON decodes with exact-case keys and shape checks only.
func (r *ValidationResult) UnmarshalJSON(data []byte) error {
	type fields ValidationResult
	return catalog.DecodeObject("fulpack.ValidationResult", data, (*fields)(r))
}

func (r ValidationResult) normalized() ValidationResult {
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	return r
}

// UnmarshalJSON decodes with exact-case keys and shape checks only.
func (r *ExtractResult) UnmarshalJSON(data []byte) error {
	type fields ExtractResult
	return catalog.DecodeObject("fulpack.ExtractResult", data, (*fields)(r))
}

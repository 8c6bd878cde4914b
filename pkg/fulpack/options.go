// SPDX-License-Identifier: MPL-2.0

package fulpack

import (
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/fulhash"
)

// Option bundles carry only what the caller chose. An absent field means
// "use the tool default" and is omitted on the wire, so the zero value of
// every bundle encodes as {}.
type (
	// CreateOptions configures the create operation.
	CreateOptions struct {
		// CompressionLevel ranges from 1 (fastest) to 9 (smallest).
		CompressionLevel    catalog.Optional[int64]             `json:"compression_level,omitzero"`
		IncludePatterns     catalog.Optional[[]string]          `json:"include_patterns,omitzero"`
		ExcludePatterns     catalog.Optional[[]string]          `json:"exclude_patterns,omitzero"`
		ChecksumAlgorithm   catalog.Optional[fulhash.Algorithm] `json:"checksum_algorithm,omitzero"`
		PreservePermissions catalog.Optional[bool]              `json:"preserve_permissions,omitzero"`
		FollowSymlinks      catalog.Optional[bool]              `json:"follow_symlinks,omitzero"`
	}

	// ExtractOptions configures the extract operation. MaxSize and
	// MaxEntries bound the expanded output.
	ExtractOptions struct {
		Overwrite           catalog.Optional[OverwritePolicy] `json:"overwrite,omitzero"`
		VerifyChecksums     catalog.Optional[bool]            `json:"verify_checksums,omitzero"`
		PreservePermissions catalog.Optional[bool]            `json:"preserve_permissions,omitzero"`
		IncludePatterns     catalog.Optional[[]string]        `json:"include_patterns,omitzero"`
		MaxSize             catalog.Optional[int64]           `json:"max_size,omitzero"`
		MaxEntries          catalog.Optional[int64]           `json:"max_entries,omitzero"`
	}

	// ScanOptions configures the scan operation. An absent MaxDepth means
	// unlimited depth.
	ScanOptions struct {
		IncludeMetadata catalog.Optional[bool]        `json:"include_metadata,omitzero"`
		EntryTypes      catalog.Optional[[]EntryType] `json:"entry_types,omitzero"`
		MaxDepth        catalog.Optional[int64]       `json:"max_depth,omitzero"`
		MaxEntries      catalog.Optional[int64]       `json:"max_entries,omitzero"`
	}
)

// UnmarshalJSON decodes with exact-case keys. Missing keys stay absent.
func (o *CreateOptions) UnmarshalJSON(data []byte) error {
	type fields CreateOptions
	return catalog.DecodeObject("fulpack.CreateOptions", data, (*fields)(o))
}

// UnmarshalJSON decodes with exact-case keys. Missing keys stay absent.
func (o *ExtractOptions) UnmarshalJSON(data []byte) error {
	type fields ExtractOptions
	return catalog.DecodeObject("fulpack.ExtractOptions", data, (*fields)(o))
}

// UnmarshalJSON decodes with exact-case keys. Missing keys stay absent.
func (o *ScanOptions) UnmarshalJSON(data []byte) error {
	type fields ScanOptions
	return catalog.DecodeObject("fulpack.ScanOptions", data, (*fields)(o))
}

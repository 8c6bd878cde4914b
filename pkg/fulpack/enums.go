// SPDX-License-Identifier: MPL-2.0

package fulpack

import (
	"github.com/fulmenhq/crucible/pkg/catalog"
)

const (
	// FulpackVersion is the catalog version of every fulpack type.
	FulpackVersion = "v1.0.0"

	// FieldCasing is the wire casing of every payload field name.
	FieldCasing = "snake_case"
)

const (
	FormatTar   ArchiveFormat = "tar"
	FormatTarGz ArchiveFormat = "tar.gz"
	FormatZip   ArchiveFormat = "zip"
	FormatGzip  ArchiveFormat = "gzip"
)

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
	EntrySymlink   EntryType = "symlink"
)

const (
	OperationCreate  Operation = "create"
	OperationExtract Operation = "extract"
	OperationScan    Operation = "scan"
	OperationVerify  Operation = "verify"
	OperationInfo    Operation = "info"
)

const (
	CompressionGzip    Compression = "gzip"
	CompressionDeflate Compression = "deflate"
	CompressionNone    Compression = "none"
)

const (
	OverwriteError     OverwritePolicy = "error"
	OverwriteSkip      OverwritePolicy = "skip"
	OverwriteOverwrite OverwritePolicy = "overwrite"
)

const (
	CheckStructureValid      IntegrityCheck = "structure_valid"
	CheckChecksumsVerified   IntegrityCheck = "checksums_verified"
	CheckNoPathTraversal     IntegrityCheck = "no_path_traversal"
	CheckNoDecompressionBomb IntegrityCheck = "no_decompression_bomb"
	CheckSymlinksSafe        IntegrityCheck = "symlinks_safe"
)

type (
	// ArchiveFormat names a container or compression format.
	ArchiveFormat string

	// EntryType classifies an archive member.
	EntryType string

	// Operation names a fulpack operation.
	Operation string

	// Compression names the compression applied to archive data.
	Compression string

	// OverwritePolicy selects how extraction treats existing files.
	OverwritePolicy string

	// IntegrityCheck names a check run by the verify operation.
	IntegrityCheck string
)

var (
	formats = catalog.NewEnum("fulpack.ArchiveFormat", FulpackVersion,
		catalog.Variant[ArchiveFormat]{Tag: FormatTar, Description: "POSIX tar archive (uncompressed)"},
		catalog.Variant[ArchiveFormat]{Tag: FormatTarGz, Description: "POSIX tar archive with gzip compression"},
		catalog.Variant[ArchiveFormat]{Tag: FormatZip, Description: "ZIP archive with deflate compression"},
		catalog.Variant[ArchiveFormat]{Tag: FormatGzip, Description: "GZIP compressed single file"},
	)

	entryTypes = catalog.NewEnum("fulpack.EntryType", FulpackVersion,
		catalog.Variant[EntryType]{Tag: EntryFile, Description: "Normal file with data"},
		catalog.Variant[EntryType]{Tag: EntryDirectory, Description: "Directory/folder entry"},
		catalog.Variant[EntryType]{Tag: EntrySymlink, Description: "Symbolic link to another entry"},
	)

	operations = catalog.NewEnum("fulpack.Operation", FulpackVersion,
		catalog.Variant[Operation]{Tag: OperationCreate, Description: "Create new archive from source files/directories"},
		catalog.Variant[Operation]{Tag: OperationExtract, Description: "Extract archive contents to destination"},
		catalog.Variant[Operation]{Tag: OperationScan, Description: "List archive entries (for Pathfinder integration)"},
		catalog.Variant[Operation]{Tag: OperationVerify, Description: "Validate archive integrity and checksums"},
		catalog.Variant[Operation]{Tag: OperationInfo, Description: "Get archive metadata without extraction"},
	)

	compressions = catalog.NewEnum("fulpack.Compression", FulpackVersion,
		catalog.Variant[Compression]{Tag: CompressionGzip, Description: "DEFLATE stream in a gzip wrapper"},
		catalog.Variant[Compression]{Tag: CompressionDeflate, Description: "Raw DEFLATE, per member in ZIP archives"},
		catalog.Variant[Compression]{Tag: CompressionNone, Description: "Stored without compression"},
	)

	overwritePolicies = catalog.NewEnum("fulpack.OverwritePolicy", FulpackVersion,
		catalog.Variant[OverwritePolicy]{Tag: OverwriteError, Description: "Fail when a target file exists"},
		catalog.Variant[OverwritePolicy]{Tag: OverwriteSkip, Description: "Keep the existing file and count the entry as skipped"},
		catalog.Variant[OverwritePolicy]{Tag: OverwriteOverwrite, Description: "Replace the existing file"},
	)

	integrityChecks = catalog.NewEnum("fulpack.IntegrityCheck", FulpackVersion,
		catalog.Variant[IntegrityCheck]{Tag: CheckStructureValid, Description: "Archive headers and directory parse cleanly"},
		catalog.Variant[IntegrityCheck]{Tag: CheckChecksumsVerified, Description: "Entry checksums match their content"},
		catalog.Variant[IntegrityCheck]{Tag: CheckNoPathTraversal, Description: "No entry escapes the extraction root"},
		catalog.Variant[IntegrityCheck]{Tag: CheckNoDecompressionBomb, Description: "Entry count and expanded size stay within limits"},
		catalog.Variant[IntegrityCheck]{Tag: CheckSymlinksSafe, Description: "Symlink targets stay inside the archive"},
	)
)

func init() {
	catalog.Register(formats.Descriptor())
	catalog.Register(entryTypes.Descriptor())
	catalog.Register(operations.Descriptor())
	catalog.Register(compressions.Descriptor())
	catalog.Register(overwritePolicies.Descriptor())
	catalog.Register(integrityChecks.Descriptor())
}

// AllArchiveFormats returns every archive format in catalog order.
func AllArchiveFormats() []ArchiveFormat { return formats.Values() }

// ParseArchiveFormat parses an archive format tag.
func ParseArchiveFormat(s string) (ArchiveFormat, error) { return formats.Parse(s) }

// String returns the wire tag.
func (f ArchiveFormat) String() string { return string(f) }

// Description returns a one-line summary of the format.
func (f ArchiveFormat) Description() string { return formats.Description(f) }

// Extension returns the conventional file suffix, including the dot.
func (f ArchiveFormat) Extension() string {
	switch f {
	case FormatTar:
		return ".tar"
	case FormatTarGz:
		return ".tar.gz"
	case FormatZip:
		return ".zip"
	case FormatGzip:
		return ".gz"
	default:
		return ""
	}
}

// DefaultCompression returns the compression a format applies.
func (f ArchiveFormat) DefaultCompression() Compression {
	switch f {
	case FormatTarGz, FormatGzip:
		return CompressionGzip
	case FormatZip:
		return CompressionDeflate
	default:
		return CompressionNone
	}
}

// Multiple reports whether the format can hold more than one entry.
func (f ArchiveFormat) Multiple() bool { return f != FormatGzip && formats.Contains(f) }

// Validate returns an error when f is not a declared format.
func (f ArchiveFormat) Validate() error { return formats.Validate(f) }

// MarshalText implements encoding.TextMarshaler.
func (f ArchiveFormat) MarshalText() ([]byte, error) { return formats.EncodeText(f) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ArchiveFormat) UnmarshalText(text []byte) error { return formats.DecodeText(text, f) }

// UnmarshalJSON rejects non-string JSON values.
func (f *ArchiveFormat) UnmarshalJSON(data []byte) error { return formats.DecodeJSON(data, f) }

// AllEntryTypes returns every entry type.
func AllEntryTypes() []EntryType { return entryTypes.Values() }

// ParseEntryType parses an entry type tag.
func ParseEntryType(s string) (EntryType, error) { return entryTypes.Parse(s) }

func (t EntryType) String() string      { return string(t) }
func (t EntryType) Description() string { return entryTypes.Description(t) }
func (t EntryType) Validate() error     { return entryTypes.Validate(t) }

// MarshalText implements encoding.TextMarshaler.
func (t EntryType) MarshalText() ([]byte, error) { return entryTypes.EncodeText(t) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EntryType) UnmarshalText(text []byte) error { return entryTypes.DecodeText(text, t) }

// UnmarshalJSON rejects non-string JSON values.
func (t *EntryType) UnmarshalJSON(data []byte) error { return entryTypes.DecodeJSON(data, t) }

// AllOperations returns every operation.
func AllOperations() []Operation { return operations.Values() }

// ParseOperation parses an operation tag.
func ParseOperation(s string) (Operation, error) { return operations.Parse(s) }

func (o Operation) String() string      { return string(o) }
func (o Operation) Description() string { return operations.Description(o) }
func (o Operation) Validate() error     { return operations.Validate(o) }

// ReadOnly reports whether the operation leaves the filesystem untouched.
func (o Operation) ReadOnly() bool {
	return o == OperationScan || o == OperationVerify || o == OperationInfo
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) { return operations.EncodeText(o) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operation) UnmarshalText(text []byte) error { return operations.DecodeText(text, o) }

// UnmarshalJSON rejects non-string JSON values.
func (o *Operation) UnmarshalJSON(data []byte) error { return operations.DecodeJSON(data, o) }

// AllCompressions returns every compression.
func AllCompressions() []Compression { return compressions.Values() }

// ParseCompression parses a compression tag.
func ParseCompression(s string) (Compression, error) { return compressions.Parse(s) }

func (c Compression) String() string      { return string(c) }
func (c Compression) Description() string { return compressions.Description(c) }
func (c Compression) Validate() error     { return compressions.Validate(c) }

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) { return compressions.EncodeText(c) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(text []byte) error {
	return compressions.DecodeText(text, c)
}

// UnmarshalJSON rejects non-string JSON values.
func (c *Compression) UnmarshalJSON(data []byte) error {
	return compressions.DecodeJSON(data, c)
}

// AllOverwritePolicies returns every overwrite policy.
func AllOverwritePolicies() []OverwritePolicy { return overwritePolicies.Values() }

// ParseOverwritePolicy parses an overwrite policy tag.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) { return overwritePolicies.Parse(s) }

func (p OverwritePolicy) String() string      { return string(p) }
func (p OverwritePolicy) Description() string { return overwritePolicies.Description(p) }
func (p OverwritePolicy) Validate() error     { return overwritePolicies.Validate(p) }

// MarshalText implements encoding.TextMarshaler.
func (p OverwritePolicy) MarshalText() ([]byte, error) { return overwritePolicies.EncodeText(p) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *OverwritePolicy) UnmarshalText(text []byte) error {
	return overwritePolicies.DecodeText(text, p)
}

// UnmarshalJSON rejects non-string JSON values.
func (p *OverwritePolicy) UnmarshalJSON(data []byte) error {
	return overwritePolicies.DecodeJSON(data, p)
}

// AllIntegrityChecks returns every integrity check.
func AllIntegrityChecks() []IntegrityCheck { return integrityChecks.Values() }

// ParseIntegrityCheck parses an integrity check tag.
func ParseIntegrityCheck(s string) (IntegrityCheck, error) { return integrityChecks.Parse(s) }

func (c IntegrityCheck) String() string      { return string(c) }
func (c IntegrityCheck) Description() string { return integrityChecks.Description(c) }
func (c IntegrityCheck) Validate() error     { return integrityChecks.Validate(c) }

// MarshalText implements encoding.TextMarshaler.
func (c IntegrityCheck) MarshalText() ([]byte, error) { return integrityChecks.EncodeText(c) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *IntegrityCheck) UnmarshalText(text []byte) error {
	return integrityChecks.DecodeText(text, c)
}

// UnmarshalJSON rejects non-string JSON values.
func (c *IntegrityCheck) UnmarshalJSON(data []byte) error {
	return integrityChecks.DecodeJSON(data, c)
}

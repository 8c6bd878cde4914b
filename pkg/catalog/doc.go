// SPDX-License-Identifier: MPL-2.0

// Package catalog provides the machinery shared by every typed catalog:
// closed string enumerations with strict decoding, the decode error
// taxonomy, an explicit presence wrapper for optional payload fields, an
// exact-case JSON object decoder, and catalog version helpers.
//
// A closed catalog is declared once, with every variant and its metadata
// in a single table:
//
//	var formats = catalog.NewEnum("fulpack.ArchiveFormat", Version,
//		catalog.Variant[ArchiveFormat]{Tag: Tar, Description: "POSIX tar"},
//		catalog.Variant[ArchiveFormat]{Tag: Zip, Description: "ZIP archive"},
//	)
//
// Decoding is case-sensitive and never normalizes input. Unknown tags fail
// with *UnrecognizedVariantError; JSON values of the wrong kind fail with
// *ShapeMismatchError. Both carry the field path of the failing value.
//
// The package never logs.
package catalog

// SPDX-License-Identifier: MPL-2.0

// Package fulpack declares the archive catalogs and the payloads exchanged by
// archiving tools: archive metadata, scan entries, manifests, verification
// and extraction results, and the option bundles of each operation.
//
// Payload field names are snake_case on the wire. Optional fields are
// catalog.Optional values and are omitted from the output when absent.
//
// Decoding checks shape only. Cross-field contracts such as
// entry_count == len(entries) are reported by the CheckInvariants methods
// and never by decode, so a consumer can still inspect data from a producer
// that breaks them.
package fulpack

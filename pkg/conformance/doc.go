// SPDX-License-Identifier: MPL-2.0

// Package conformance checks that payload documents produced by a tool
// conform to the catalogs. A check runs three stages on one document: the
// embedded CUE schema of the kind, the strict decoder, and the cross-field
// contracts of the decoded value. Every finding is collected into a Report
// instead of stopping at the first one.
//
// Decoding never calls this package; it is for producers and CI checks.
package conformance

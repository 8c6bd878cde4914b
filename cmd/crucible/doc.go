// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the crucible command-line interface: inspection of the
// typed catalogs, exit-code explanations, and decoding, validation and
// enveloping of catalog payloads.
package cmd

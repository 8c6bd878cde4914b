// SPDX-License-Identifier: MPL-2.0

// Package payload names every structured payload of the catalogs as a kind
// ("archive-manifest", "digest", ...) and wraps payloads in versioned
// envelopes.
//
// A kind binds a wire name to its Go type, the catalog that defines it and
// the catalog version the binary was compiled against. An Envelope stamps a
// payload with that catalog and version so that a consumer compiled against
// a different catalog version can refuse it instead of misreading it.
package payload

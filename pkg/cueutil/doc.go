// SPDX-License-Identifier: MPL-2.0

// Package cueutil wraps the CUE parsing pattern shared by configuration
// loading and payload conformance checks:
//
//  1. Compile the embedded schema
//  2. Compile user data (CUE or JSON) and unify it with a definition
//  3. Validate, then optionally decode into a Go value
//
// Validation failures are reported as a *ValidationError listing every
// issue with its JSON-path location, e.g. "entries[1].type".
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	)
//	if err != nil {
//	    return nil, err
//	}
//	return result.Value, nil
package cueutil

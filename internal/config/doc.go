// SPDX-License-Identifier: MPL-2.0

// Package config handles crucible configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/crucible/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/crucible/config.cue on macOS, %APPDATA%\crucible\config.cue
// on Windows), validated against the embedded CUE schema (config_schema.cue), merged over the
// defaults and finally overridden by CRUCIBLE_* environment variables.
//
// Besides output and logging preferences, a configuration may pin catalogs to semantic
// version constraints. CheckPins compares those pins with the catalog versions compiled into
// the binary so that a tool refuses to run against a catalog its operator did not expect.
package config

// SPDX-License-Identifier: MPL-2.0

// Package logging installs the process-wide structured logger.
//
// crucible code logs through log/slog. Setup builds a charmbracelet/log
// logger, which also implements slog.Handler, and makes it the slog default
// so that every slog call is rendered in the configured format.
package logging

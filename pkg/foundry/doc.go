// SPDX-License-Identifier: MPL-2.0

// Package foundry defines the cross-tool exit-code catalog.
//
// Every code is declared once in a single metadata table together with its
// category, display message, usage context, retry hint, BSD sysexits
// equivalent and, for signal codes, the POSIX signal number. Accessors on
// ExitCode are total: a value outside the table degrades to the
// "unspecified" classification instead of failing.
//
// The catalog is open. New codes may appear in later catalog versions, so
// decoding never rejects an unknown code: integers are kept as-is and
// unknown names map to ExitUnspecified.
//
// The primary external form of an exit code is the process exit status.
// When an exit code is itself serialized for tooling, JSON carries the
// variant name ("PortInUse"); codes without a name encode as integers.
package foundry

// SPDX-License-Identifier: MPL-2.0

package foundry

import (
	"errors"
	"fmt"
	"strconv"
)

// ExitCodesVersion is the version of the exit-code catalog compiled into
// this package.
const ExitCodesVersion = "v1.0.0"

// Standard exit codes.
const (
	ExitSuccess ExitCode = 0
	ExitFailure ExitCode = 1
)

// Networking exit codes (10-19).
const (
	ExitPortInUse              ExitCode = 10
	ExitPortRangeExhausted     ExitCode = 11
	ExitInstanceAlreadyRunning ExitCode = 12
	ExitNetworkUnreachable     ExitCode = 13
	ExitConnectionRefused      ExitCode = 14
	ExitConnectionTimeout      ExitCode = 15
)

// Configuration exit codes (20-29).
const (
	ExitConfigInvalid       ExitCode = 20
	ExitMissingDependency   ExitCode = 21
	ExitSsotVersionMismatch ExitCode = 22
	ExitConfigFileNotFound  ExitCode = 23
	ExitEnvironmentInvalid  ExitCode = 24
)

// Runtime exit codes (30-39).
const (
	ExitHealthCheckFailed          ExitCode = 30
	ExitDatabaseUnavailable        ExitCode = 31
	ExitExternalServiceUnavailable ExitCode = 32
	ExitResourceExhausted          ExitCode = 33
	ExitOperationTimeout           ExitCode = 34
)

// Usage exit codes (40-49, plus BSD EX_USAGE).
const (
	ExitInvalidArgument         ExitCode = 40
	ExitMissingRequiredArgument ExitCode = 41
	ExitUsage                   ExitCode = 64
)

// Permission and filesystem exit codes (50-59).
const (
	ExitPermissionDenied  ExitCode = 50
	ExitFileNotFound      ExitCode = 51
	ExitDirectoryNotFound ExitCode = 52
	ExitFileReadError     ExitCode = 53
	ExitFileWriteError    ExitCode = 54
)

// Data exit codes (60-69).
const (
	ExitDataInvalid          ExitCode = 60
	ExitParseError           ExitCode = 61
	ExitTransformationFailed ExitCode = 62
	ExitDataCorrupt          ExitCode = 63
)

// Security exit codes (70-79).
const (
	ExitAuthenticationFailed ExitCode = 70
	ExitAuthorizationFailed  ExitCode = 71
	ExitSecurityViolation    ExitCode = 72
	ExitCertificateInvalid   ExitCode = 73
)

// Observability exit codes (80-89).
const (
	ExitMetricsUnavailable      ExitCode = 80
	ExitTracingFailed           ExitCode = 81
	ExitLoggingFailed           ExitCode = 82
	ExitAlertSystemFailed       ExitCode = 83
	ExitStructuredLoggingFailed ExitCode = 84
)

// Testing exit codes (91-99).
const (
	ExitTestFailure             ExitCode = 91
	ExitTestError               ExitCode = 92
	ExitTestInterrupted         ExitCode = 93
	ExitTestUsageError          ExitCode = 94
	ExitTestNoTestsCollected    ExitCode = 95
	ExitCoverageThresholdNotMet ExitCode = 96
)

// Signal exit codes (128 + signal number).
const (
	ExitSignalHup  ExitCode = 129
	ExitSignalInt  ExitCode = 130
	ExitSignalQuit ExitCode = 131
	ExitSignalKill ExitCode = 137
	ExitSignalPipe ExitCode = 141
	ExitSignalAlrm ExitCode = 142
	ExitSignalTerm ExitCode = 143
	ExitSignalUsr1 ExitCode = 138
	ExitSignalUsr2 ExitCode = 140
)

// ExitUnspecified is produced when a serialized exit code names a variant
// this catalog version does not know. It is never a process status; Status
// maps it to ExitFailure.
const ExitUnspecified ExitCode = -1

// signalBase is added to a POSIX signal number to form the exit status.
const signalBase = 128

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status from the cross-tool catalog. Any
	// integer is representable; values outside the catalog classify as
	// CategoryUnspecified.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// POSIX process status range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Lookup returns the catalog exit code with the given numeric value.
func Lookup(code int) (ExitCode, bool) {
	if _, ok := byCode[ExitCode(code)]; !ok {
		return ExitCode(code), false
	}
	return ExitCode(code), true
}

// Classify returns the metadata for any integer. Codes outside the catalog
// get the unspecified classification; Classify never fails.
func Classify(code int) Info {
	return ExitCode(code).Info()
}

// ParseName resolves a variant name ("PortInUse") or catalog constant name
// ("EXIT_PORT_IN_USE"). Matching is case-sensitive.
func ParseName(name string) (ExitCode, bool) {
	if c, ok := byVariant[name]; ok {
		return c, true
	}
	if c, ok := byName[name]; ok {
		return c, true
	}
	return ExitUnspecified, false
}

// Parse resolves a variant name, a constant name, or a decimal integer. It
// is permissive: unknown names yield ExitUnspecified and false, integers are
// returned as-is with ok reporting catalog membership.
func Parse(s string) (ExitCode, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return Lookup(n)
	}
	return ParseName(s)
}

// All returns every catalog exit code in ascending numeric order.
func All() []ExitCode {
	out := make([]ExitCode, len(ordered))
	copy(out, ordered)
	return out
}

// ByCategory returns the catalog exit codes of one category in ascending order.
func ByCategory(c Category) []ExitCode {
	var out []ExitCode
	for _, code := range ordered {
		if byCode[code].Category == c {
			out = append(out, code)
		}
	}
	return out
}

// Code returns the numeric value of the exit code.
func (c ExitCode) Code() int { return int(c) }

// Known reports whether c is defined in this catalog version.
func (c ExitCode) Known() bool {
	_, ok := byCode[c]
	return ok
}

// Info returns the full metadata of c. Unknown codes get a synthesized
// entry in CategoryUnspecified.
func (c ExitCode) Info() Info {
	if info, ok := byCode[c]; ok {
		return *info
	}
	return Info{
		Code:     int(c),
		Message:  fmt.Sprintf("Unrecognized exit code %d", int(c)),
		Context:  "Not defined in exit-code catalog " + ExitCodesVersion,
		Category: CategoryUnspecified,
	}
}

// Category returns the category of c, CategoryUnspecified for unknown codes.
func (c ExitCode) Category() Category { return c.Info().Category }

// Message returns the human-readable display message. It is never empty.
func (c ExitCode) Message() string { return c.Info().Message }

// Context describes when the code should be used.
func (c ExitCode) Context() string { return c.Info().Context }

// Name returns the catalog constant name, e.g. "EXIT_PORT_IN_USE", or "" for
// unknown codes.
func (c ExitCode) Name() string { return c.Info().Name }

// Variant returns the variant name, e.g. "PortInUse", or "" for unknown codes.
func (c ExitCode) Variant() string { return c.Info().Variant }

// RetryHint returns the retry hint when the catalog declares one.
func (c ExitCode) RetryHint() (RetryHint, bool) { return c.Info().RetryHint.Get() }

// BSDEquivalent returns the BSD sysexits.h equivalent, if any.
func (c ExitCode) BSDEquivalent() string { return c.Info().BSDEquivalent }

// PythonNote returns the Python-specific note, if any.
func (c ExitCode) PythonNote() string { return c.Info().PythonNote }

// Signal returns the POSIX signal number for signal-derived codes.
func (c ExitCode) Signal() (int, bool) {
	info := c.Info()
	if info.Signal == 0 {
		return 0, false
	}
	return info.Signal, true
}

// Validate returns an error if c is outside the process status range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Status returns the integer to hand to os.Exit. Values outside 0-255,
// ExitUnspecified included, map to ExitFailure.
func (c ExitCode) Status() int {
	if c.Validate() != nil {
		return int(ExitFailure)
	}
	return int(c)
}

// String returns the variant name, or "ExitCode(n)" for unknown codes.
func (c ExitCode) String() string {
	if v := c.Variant(); v != "" {
		return v
	}
	return fmt.Sprintf("ExitCode(%d)", int(c))
}

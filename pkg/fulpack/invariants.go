// SPDX-License-Identifier: MPL-2.0

package fulpack

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// RatioTolerance is the relative tolerance allowed between a reported
// compression ratio and total_size / compressed_size.
const RatioTolerance = 0.01

// ErrInvariantViolation is the sentinel error wrapped by InvariantViolationError.
var ErrInvariantViolation = errors.New("invariant violation")

var (
	checksumPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)
	modePattern     = regexp.MustCompile(`^0?[0-7]{3,4}$`)
)

// InvariantViolationError reports a broken cross-field contract of a
// decoded payload. Rule names the field the contract is about.
type InvariantViolationError struct {
	Payload string
	Rule    string
	Detail  string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Payload, e.Rule, e.Detail)
}

// Unwrap returns ErrInvariantViolation for errors.Is() compatibility.
func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// CheckInvariants reports every broken contract of the archive metadata,
// joined into one error. It returns nil for a consistent value.
func (a ArchiveInfo) CheckInvariants() error {
	const payload = "ArchiveInfo"
	var errs []error

	if ratio, ok := a.CompressionRatio.Get(); ok && a.CompressedSize > 0 {
		want := float64(a.TotalSize) / float64(a.CompressedSize)
		if math.Abs(ratio-want) > RatioTolerance*want {
			errs = append(errs, &InvariantViolationError{
				Payload: payload,
				Rule:    "compression_ratio",
				Detail:  fmt.Sprintf("%g is not total_size / compressed_size (%g)", ratio, want),
			})
		}
	}
	if _, ok := a.ChecksumAlgorithm.Get(); ok && !a.HasChecksums.ValueOr(true) {
		errs = append(errs, &InvariantViolationError{
			Payload: payload,
			Rule:    "checksum_algorithm",
			Detail:  "set while has_checksums is false",
		})
	}
	if a.EntryCount > 1 && !a.Format.Multiple() && a.Format.Validate() == nil {
		errs = append(errs, &InvariantViolationError{
			Payload: payload,
			Rule:    "entry_count",
			Detail:  fmt.Sprintf("%s holds a single entry, got %d", a.Format, a.EntryCount),
		})
	}
	return errors.Join(errs...)
}

// CheckInvariants reports every broken contract of the entry.
func (e ArchiveEntry) CheckInvariants() error {
	return errors.Join(e.violations("ArchiveEntry")...)
}

func (e ArchiveEntry) violations(payload string) []error {
	var errs []error
	if _, ok := e.SymlinkTarget.Get(); ok && e.Type != EntrySymlink {
		errs = append(errs, &InvariantViolationError{
			Payload: payload,
			Rule:    "symlink_target",
			Detail:  fmt.Sprintf("set on a %s entry", e.Type),
		})
	}
	if sum, ok := e.Checksum.Get(); ok && !checksumPattern.MatchString(sum) {
		errs = append(errs, &InvariantViolationError{
			Payload: payload,
			Rule:    "checksum",
			Detail:  fmt.Sprintf("%q is not 64 lowercase hex digits", sum),
		})
	}
	if mode, ok := e.Mode.Get(); ok && !modePattern.MatchString(mode) {
		errs = append(errs, &InvariantViolationError{
			Payload: payload,
			Rule:    "mode",
			Detail:  fmt.Sprintf("%q is not an octal permission string", mode),
		})
	}
	return errs
}

// CheckInvariants reports every broken contract of the manifest and of its
// entries. Entry violations name the entry index in Payload.
func (m ArchiveManifest) CheckInvariants() error {
	var errs []error
	if m.EntryCount != int64(len(m.Entries)) {
		errs = append(errs, &InvariantViolationError{
			Payload: "ArchiveManifest",
			Rule:    "entry_count",
			Detail:  fmt.Sprintf("entry_count is %d but entries has %d items", m.EntryCount, len(m.Entries)),
		})
	}
	for i, e := range m.Entries {
		errs = append(errs, e.violations(fmt.Sprintf("ArchiveManifest.entries[%d]", i))...)
	}
	return errors.Join(errs...)
}

// CheckInvariants reports a valid flag that disagrees with the error list.
func (r ValidationResult) CheckInvariants() error {
	if r.Valid != (len(r.Errors) == 0) {
		return &InvariantViolationError{
			Payload: "ValidationResult",
			Rule:    "valid",
			Detail:  fmt.Sprintf("valid is %t with %d errors", r.Valid, len(r.Errors)),
		}
	}
	return nil
}

// CheckInvariants reports an error_count that disagrees with the error
// list. Without an error list the count is not checked.
func (r ExtractResult) CheckInvariants() error {
	if list, ok := r.Errors.Get(); ok && r.ErrorCount != int64(len(list)) {
		return &InvariantViolationError{
			Payload: "ExtractResult",
			Rule:    "error_count",
			Detail:  fmt.Sprintf("error_count is %d but errors has %d items", r.ErrorCount, len(list)),
		}
	}
	return nil
}

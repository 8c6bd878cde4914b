// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid catalog version")

// InvalidVersionError is returned when a catalog version is not a canonical
// "vMAJOR.MINOR.PATCH" string.
type InvalidVersionError struct {
	Value string
}

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid catalog version %q (want canonical vMAJOR.MINOR.PATCH)", e.Value)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error {
	return ErrInvalidVersion
}

// ValidateVersion checks that v is a canonical semantic version with a
// leading "v" and all three components, e.g. "v1.0.0".
func ValidateVersion(v string) error {
	if !semver.IsValid(v) || semver.Canonical(v) != v {
		return &InvalidVersionError{Value: v}
	}
	return nil
}

// Compatible reports whether a payload stamped with version got can be read
// by code compiled against version want: the major versions must match and
// got must not be newer than want.
func Compatible(want, got string) (bool, error) {
	if err := ValidateVersion(want); err != nil {
		return false, err
	}
	if err := ValidateVersion(got); err != nil {
		return false, err
	}
	if semver.Major(want) != semver.Major(got) {
		return false, nil
	}
	return semver.Compare(got, want) <= 0, nil
}

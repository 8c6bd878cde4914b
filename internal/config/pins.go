// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fulmenhq/crucible/pkg/catalog"

	"github.com/Masterminds/semver/v3"
)

// ErrPinMismatch is the sentinel error wrapped by PinMismatchError.
var ErrPinMismatch = errors.New("catalog pin not satisfied")

// PinMismatchError is returned when the compiled version of a pinned catalog
// does not satisfy the configured constraint. Version is empty when the
// catalog is not compiled into the binary at all.
type PinMismatchError struct {
	Catalog    string
	Constraint CatalogPin
	Version    string
	Reasons    []string
}

// Error implements the error interface.
func (e *PinMismatchError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("catalog %s pinned to %q is not compiled into this build", e.Catalog, e.Constraint)
	}
	msg := fmt.Sprintf("catalog %s version %s does not satisfy pin %q", e.Catalog, e.Version, e.Constraint)
	if len(e.Reasons) > 0 {
		msg += " (" + strings.Join(e.Reasons, "; ") + ")"
	}
	return msg
}

// Unwrap returns ErrPinMismatch for errors.Is() compatibility.
func (e *PinMismatchError) Unwrap() error { return ErrPinMismatch }

// CatalogVersions groups catalog descriptors by catalog id, the part of the
// descriptor name before the first dot ("fulpack.ArchiveFormat" belongs to
// "fulpack"), and returns the version of each catalog.
func CatalogVersions(descriptors []catalog.Descriptor) map[string]string {
	versions := make(map[string]string, len(descriptors))
	for _, d := range descriptors {
		id, _, _ := strings.Cut(d.Name, ".")
		versions[id] = d.Version
	}
	return versions
}

// CheckPins checks every pin in pins against the compiled catalog versions.
// All failures are returned joined.
func CheckPins(pins map[string]CatalogPin, versions map[string]string) error {
	var errs []error
	for _, id := range sortedKeys(pins) {
		pin := pins[id]
		constraint, err := pin.Constraint()
		if err != nil {
			errs = append(errs, &InvalidCatalogPinError{Catalog: id, Value: pin, Err: err})
			continue
		}

		compiled, ok := versions[id]
		if !ok {
			errs = append(errs, &PinMismatchError{Catalog: id, Constraint: pin})
			continue
		}
		version, err := semver.NewVersion(compiled)
		if err != nil {
			return fmt.Errorf("internal error: catalog %s has unparsable version %q: %w", id, compiled, err)
		}
		if ok, reasons := constraint.Validate(version); !ok {
			mismatch := &PinMismatchError{Catalog: id, Constraint: pin, Version: compiled}
			for _, r := range reasons {
				mismatch.Reasons = append(mismatch.Reasons, r.Error())
			}
			errs = append(errs, mismatch)
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"testing"
)

func TestValidateVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		wantErr bool
	}{
		{version: "v1.0.0"},
		{version: "v2.13.4"},
		{version: "v1.0.0-rc.1"},
		{version: "1.0.0", wantErr: true},
		{version: "v1.0", wantErr: true},
		{version: "v1", wantErr: true},
		{version: "v1.0.0+build.5", wantErr: true},
		{version: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()

			err := ValidateVersion(tt.version)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("ValidateVersion(%q) error = %v, want ErrInvalidVersion", tt.version, err)
				}
				var ive *InvalidVersionError
				if !errors.As(err, &ive) || ive.Value != tt.version {
					t.Errorf("error should carry the offending value, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateVersion(%q) unexpected error: %v", tt.version, err)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
		got  string
		ok   bool
	}{
		{name: "identical", want: "v1.0.0", got: "v1.0.0", ok: true},
		{name: "older minor", want: "v1.3.0", got: "v1.1.9", ok: true},
		{name: "newer patch", want: "v1.0.0", got: "v1.0.1", ok: false},
		{name: "newer minor", want: "v1.0.0", got: "v1.1.0", ok: false},
		{name: "older major", want: "v2.0.0", got: "v1.9.0", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := Compatible(tt.want, tt.got)
			if err != nil {
				t.Fatalf("Compatible(%q, %q) error: %v", tt.want, tt.got, err)
			}
			if ok != tt.ok {
				t.Errorf("Compatible(%q, %q) = %v, want %v", tt.want, tt.got, ok, tt.ok)
			}
		})
	}

	if _, err := Compatible("v1.0.0", "latest"); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Compatible with a malformed version error = %v", err)
	}
}

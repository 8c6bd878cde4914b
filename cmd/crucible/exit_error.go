// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/fulmenhq/crucible/internal/config"
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
	"github.com/fulmenhq/crucible/pkg/conformance"
	"github.com/fulmenhq/crucible/pkg/foundry"
	"github.com/fulmenhq/crucible/pkg/fulhash"
	"github.com/fulmenhq/crucible/pkg/fulpack"
	"github.com/fulmenhq/crucible/pkg/payload"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code foundry.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d (%s)", e.Code, e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps an error onto the exit-code catalog. An *ExitError
// anywhere in the chain wins.
func exitCodeFor(err error) foundry.ExitCode {
	if err == nil {
		return foundry.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, config.ErrPinMismatch), errors.Is(err, payload.ErrVersionMismatch):
		return foundry.ExitSsotVersionMismatch
	case errors.Is(err, config.ErrConfigFileNotFound):
		return foundry.ExitConfigFileNotFound
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrInvalidCatalogPin):
		return foundry.ExitConfigInvalid
	case errors.Is(err, fs.ErrNotExist):
		return foundry.ExitFileNotFound
	case errors.Is(err, fs.ErrPermission):
		return foundry.ExitPermissionDenied
	case errors.Is(err, payload.ErrUnknownKind):
		return foundry.ExitInvalidArgument
	case errors.Is(err, codec.ErrEmptyDocument), errors.As(err, &syntaxErr):
		return foundry.ExitParseError
	case errors.Is(err, catalog.ErrUnrecognizedVariant),
		errors.Is(err, catalog.ErrShapeMismatch),
		errors.Is(err, catalog.ErrInvalidVersion),
		errors.Is(err, payload.ErrKindMismatch),
		errors.Is(err, fulhash.ErrInvalidDigest),
		errors.Is(err, fulpack.ErrInvariantViolation),
		errors.Is(err, conformance.ErrNonconforming):
		return foundry.ExitDataInvalid
	default:
		return foundry.ExitFailure
	}
}

// usageError marks err as a command-line usage error.
func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: foundry.ExitInvalidArgument, Err: err}
}

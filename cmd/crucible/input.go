// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fulmenhq/crucible/internal/issue"
	"github.com/fulmenhq/crucible/pkg/foundry"
)

// stdinArg selects standard input in place of a file argument.
const stdinArg = "-"

// readInput reads the document named by args[idx], or standard input when
// the argument is absent or "-". It also returns a display name.
func (a *App) readInput(args []string, idx int) ([]byte, string, error) {
	if idx >= len(args) || args[idx] == stdinArg {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, "<stdin>", fmt.Errorf("read standard input: %w", err)
		}
		return data, "<stdin>", nil
	}

	path := args[idx]
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, path, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, path, &ExitError{
			Code: foundry.ExitFileNotFound,
			Err: issue.NewErrorContext().
				WithOperation("read input").
				WithResource(path).
				WithIssue(issue.FileNotFoundId).
				WithSuggestion("Check the path for typos").
				WithSuggestion("Pass '-' or omit the argument to read standard input").
				Wrap(err).
				BuildError(),
		}
	case errors.Is(err, fs.ErrPermission):
		return nil, path, &ExitError{
			Code: foundry.ExitPermissionDenied,
			Err: issue.NewErrorContext().
				WithOperation("read input").
				WithResource(path).
				WithIssue(issue.PermissionDeniedId).
				Wrap(err).
				BuildError(),
		}
	default:
		return nil, path, &ExitError{Code: foundry.ExitFileReadError, Err: issue.WrapWithContext(err, "read input", path)}
	}
}

// decodeHex decodes hex text, ignoring surrounding and embedded whitespace.
func decodeHex(data []byte) ([]byte, error) {
	clean := strings.Join(strings.Fields(string(data)), "")
	out, err := hex.DecodeString(clean)
	if err != nil {
		return nil, &ExitError{Code: foundry.ExitParseError, Err: fmt.Errorf("decode hex input: %w", err)}
	}
	return out, nil
}

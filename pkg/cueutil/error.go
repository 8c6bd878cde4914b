// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	stderrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// Issue is one schema violation.
	Issue struct {
		// Path is the JSON path of the offending value (e.g. "entries[0].type").
		Path    string `json:"path,omitempty"`
		Message string `json:"message"`
	}

	// ValidationError lists every schema violation found in one input.
	ValidationError struct {
		FilePath string
		Issues   []Issue
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Issues[0])
	}
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// String renders the issue as "<path>: <message>".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// FormatError converts a CUE error into a *ValidationError with JSON-path
// locations. Errors that carry no CUE detail are wrapped with the file path.
//
// Example messages:
//   - config.cue: log_level: 4 errors in empty disjunction
//   - manifest.json: entries[1].size: conflicting values "12" and int
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// errors.Errors promotes a plain error to a CUE error with an empty
	// message, so anything without CUE detail is wrapped as is.
	var cueErr errors.Error
	cueErrors := errors.Errors(err)
	if !stderrors.As(err, &cueErr) || len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	ve := &ValidationError{FilePath: filePath}
	for _, e := range cueErrors {
		path := formatPath(errors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if msg == "" {
			msg = e.Error()
		}

		// CUE sometimes repeats the path in the message.
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		ve.Issues = append(ve.Issues, Issue{Path: path, Message: msg})
	}
	return ve
}

// formatPath converts a CUE error path to JSON-path notation. CUE reports
// paths as flat string slices (["entries", "0", "type"]) where numeric
// elements are list indices; the result is "entries[0].type". Leading
// definition names ("#ArchiveEntry") are dropped since they are not part of
// the document.
func formatPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error when data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}

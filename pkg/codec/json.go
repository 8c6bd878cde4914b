// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
)

// ErrEmptyDocument is returned when a document contains no JSON value.
var ErrEmptyDocument = errors.New("empty document")

// MarshalJSON encodes v as JSON without HTML escaping. When indent is true
// the output is indented with two spaces. The trailing newline written by
// json.Encoder is removed.
func MarshalJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a JSON or JSONC document into v.
func UnmarshalJSON(data []byte, v any) error {
	standard, err := Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(standard, v)
}

// Standardize converts JSONC (comments, trailing commas) into plain JSON.
// Plain JSON passes through unchanged apart from comment removal.
func Standardize(data []byte) ([]byte, error) {
	stripped := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return nil, ErrEmptyDocument
	}
	if !json.Valid(stripped) {
		return nil, fmt.Errorf("invalid JSON document: %w", syntaxError(stripped))
	}
	return stripped, nil
}

func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("malformed JSON")
}

// Kind returns the JSON kind of a raw value: object, array, string, number,
// bool, or null. Empty input reports "empty".
func Kind(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// IsNull reports whether data is the JSON null literal.
func IsNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

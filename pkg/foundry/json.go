// SPDX-License-Identifier: MPL-2.0

package foundry

import (
	"encoding/json"
	"strconv"

	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
)

// MarshalJSON encodes a catalog code as its variant name and any other code
// as a bare integer.
func (c ExitCode) MarshalJSON() ([]byte, error) {
	if v := c.Variant(); v != "" {
		return json.Marshal(v)
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts a variant name, a constant name or an integer. The
// decode is permissive: an unknown name becomes ExitUnspecified and an
// unknown integer is kept verbatim. Other JSON kinds are a
// *catalog.ShapeMismatchError.
func (c *ExitCode) UnmarshalJSON(data []byte) error {
	switch kind := codec.Kind(data); kind {
	case "string":
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		code, _ := ParseName(name)
		*c = code
		return nil
	case "number":
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return &catalog.ShapeMismatchError{Catalog: "foundry.ExitCode", Want: "integer", Got: string(data)}
		}
		*c = ExitCode(n)
		return nil
	default:
		return &catalog.ShapeMismatchError{Catalog: "foundry.ExitCode", Want: "string or integer", Got: kind}
	}
}

// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Decode policies. Strict catalogs reject unknown tags; permissive catalogs
// map them to an "unspecified" sentinel.
const (
	Strict Policy = iota
	Permissive
)

type (
	// Policy selects how a catalog treats values outside its declared set.
	Policy int

	// Descriptor is the type-erased view of a catalog used for listing and
	// ad-hoc parsing.
	Descriptor struct {
		Name    string   `json:"name"`
		Version string   `json:"version"`
		Policy  Policy   `json:"policy"`
		Tags    []string `json:"tags"`
		// Describe parses tag under the catalog's policy and returns the
		// variant description.
		Describe func(tag string) (string, error) `json:"-"`
	}
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Descriptor{}
)

// String returns "strict" or "permissive".
func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Register adds a catalog descriptor. Catalog packages call it from init.
// It panics when the name is already registered.
func Register(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[d.Name]; dup {
		panic("catalog: duplicate registration of " + d.Name)
	}
	registry[d.Name] = d
}

// Lookup returns the descriptor registered under name.
func Lookup(name string) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[name]
	return d, ok
}

// Descriptors returns every registered descriptor sorted by name.
func Descriptors() []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Descriptor) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

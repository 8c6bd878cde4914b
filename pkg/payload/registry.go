// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// DefaultRegistry holds the payload kinds of every catalog. Built-in kinds
// are registered during package initialization.
var DefaultRegistry = NewRegistry()

var (
	// ErrUnknownKind is the sentinel error wrapped by UnknownKindError.
	ErrUnknownKind = errors.New("unknown payload kind")
	// ErrKindMismatch is returned when a value or envelope does not belong
	// to the kind it claims.
	ErrKindMismatch = errors.New("payload kind mismatch")
)

type (
	// Kind describes one payload type.
	Kind struct {
		Name        string `json:"name"`
		Catalog     string `json:"catalog"`
		Version     string `json:"version"`
		Description string `json:"description"`

		typ   reflect.Type
		check func(any) error
	}

	// Registry maps kind names to kinds. It is safe for concurrent use.
	Registry struct {
		mu    sync.RWMutex
		kinds map[string]Kind
	}

	// UnknownKindError is returned when a kind name is not registered.
	UnknownKindError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown payload kind %q", e.Name)
}

// Unwrap returns ErrUnknownKind for errors.Is() compatibility.
func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

// Define builds a kind for the Go type T. check, when non-nil, evaluates
// the cross-field contracts of a decoded value.
func Define[T any](name, catalogID, version, description string, check func(T) error) Kind {
	k := Kind{
		Name:        name,
		Catalog:     catalogID,
		Version:     version,
		Description: description,
		typ:         reflect.TypeFor[T](),
	}
	k.check = func(v any) error {
		var value T
		switch x := v.(type) {
		case T:
			value = x
		case *T:
			if x == nil {
				return fmt.Errorf("%w: nil %s", ErrKindMismatch, name)
			}
			value = *x
		default:
			return fmt.Errorf("%w: kind %s holds %s, got %T", ErrKindMismatch, name, k.typ, v)
		}
		if check == nil {
			return nil
		}
		return check(value)
	}
	return k
}

// New returns a pointer to a zero value of the kind's Go type.
func (k Kind) New() any {
	return reflect.New(k.typ).Interface()
}

// Type returns the Go type of the kind.
func (k Kind) Type() reflect.Type { return k.typ }

// Check evaluates the contracts of v, a value of the kind or a pointer to
// one. It returns ErrKindMismatch for any other type.
func (k Kind) Check(v any) error {
	if k.check == nil {
		return fmt.Errorf("%w: kind %q was not built with Define", ErrKindMismatch, k.Name)
	}
	return k.check(v)
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Register adds a kind. It panics on an empty or duplicate name.
func (r *Registry) Register(k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if k.Name == "" {
		panic("payload: cannot register a kind with an empty name")
	}
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("payload: kind %q already registered", k.Name))
	}
	r.kinds[k.Name] = k
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.kinds[name]
	if !ok {
		return Kind{}, &UnknownKindError{Name: name}
	}
	return k, nil
}

// ForValue returns the kind whose Go type is the type of v or of *v.
func (r *Registry) ForValue(v any) (Kind, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.kinds {
		if k.typ == t {
			return k, nil
		}
	}
	return Kind{}, fmt.Errorf("%w: no kind holds %T", ErrKindMismatch, v)
}

// Kinds returns every kind sorted by name.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b Kind) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Names returns every kind name in sorted order.
func (r *Registry) Names() []string {
	kinds := r.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.Name
	}
	return names
}

// Lookup returns a kind from DefaultRegistry.
func Lookup(name string) (Kind, error) { return DefaultRegistry.Lookup(name) }

// Kinds returns the kinds of DefaultRegistry.
func Kinds() []Kind { return DefaultRegistry.Kinds() }

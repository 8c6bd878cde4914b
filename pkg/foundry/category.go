// SPDX-License-Identifier: MPL-2.0

package foundry

import (
	"encoding/json"

	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
)

const (
	CategoryStandard      Category = "standard"
	CategoryNetworking    Category = "networking"
	CategoryConfiguration Category = "configuration"
	CategoryRuntime       Category = "runtime"
	CategoryUsage         Category = "usage"
	CategoryPermissions   Category = "permissions"
	CategoryData          Category = "data"
	CategorySecurity      Category = "security"
	CategoryObservability Category = "observability"
	CategoryTesting       Category = "testing"
	CategorySignals       Category = "signals"

	// CategoryUnspecified classifies codes outside the catalog. It is not a
	// member of the closed category set.
	CategoryUnspecified Category = "unspecified"
)

const (
	// RetryHintRetry marks transient failures that may succeed on retry.
	RetryHintRetry RetryHint = "retry"
	// RetryHintNoRetry marks failures that will recur until input changes.
	RetryHintNoRetry RetryHint = "no_retry"
	// RetryHintInvestigate marks failures that need a human to look first.
	RetryHintInvestigate RetryHint = "investigate"
)

type (
	// Category groups exit codes by failure domain.
	Category string

	// RetryHint tells automation whether re-running a failed command can help.
	RetryHint string

	// CategoryInfo describes a category and the numeric range it reserves.
	CategoryInfo struct {
		Category    Category `json:"category"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Min         int      `json:"min"`
		Max         int      `json:"max"`
	}
)

var categoryTable = []CategoryInfo{
	{CategoryStandard, "Standard", "POSIX success and generic failure", 0, 1},
	{CategoryNetworking, "Networking", "Port binding and connectivity failures", 10, 19},
	{CategoryConfiguration, "Configuration", "Invalid or missing configuration and dependencies", 20, 29},
	{CategoryRuntime, "Runtime", "Failures of running services and their dependencies", 30, 39},
	// 64 (EX_USAGE) is kept for BSD sysexits compatibility outside the range.
	{CategoryUsage, "Usage", "Command-line usage errors", 40, 49},
	{CategoryPermissions, "Permissions", "Permission and filesystem access failures", 50, 59},
	{CategoryData, "Data", "Invalid, malformed or corrupt input data", 60, 69},
	{CategorySecurity, "Security", "Authentication, authorization and policy failures", 70, 79},
	{CategoryObservability, "Observability", "Metrics, tracing, logging and alerting failures", 80, 89},
	{CategoryTesting, "Testing", "Test runner outcomes", 91, 99},
	{CategorySignals, "Signals", "Termination by POSIX signal (128 + signal number)", 128, 165},
}

var (
	categories = func() *catalog.Enum[Category] {
		variants := make([]catalog.Variant[Category], len(categoryTable))
		for i, c := range categoryTable {
			variants[i] = catalog.Variant[Category]{Tag: c.Category, Description: c.Description}
		}
		return catalog.NewEnum("foundry.Category", ExitCodesVersion, variants...)
	}()

	retryHints = catalog.NewEnum("foundry.RetryHint", ExitCodesVersion,
		catalog.Variant[RetryHint]{Tag: RetryHintRetry, Description: "Transient failure; retrying may succeed"},
		catalog.Variant[RetryHint]{Tag: RetryHintNoRetry, Description: "Permanent failure; fix the input before retrying"},
		catalog.Variant[RetryHint]{Tag: RetryHintInvestigate, Description: "Cause unclear; investigate before retrying"},
	)
)

// AllCategories returns the closed category set in catalog order.
func AllCategories() []Category { return categories.Values() }

// Categories returns category metadata in catalog order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// ParseCategory parses a category tag. "unspecified" is accepted because it
// appears in serialized classifications of unknown codes.
func ParseCategory(s string) (Category, error) {
	if Category(s) == CategoryUnspecified {
		return CategoryUnspecified, nil
	}
	return categories.Parse(s)
}

// String returns the category tag.
func (c Category) String() string { return string(c) }

// Info returns the metadata of c. The unspecified category reports an
// empty range.
func (c Category) Info() CategoryInfo {
	for _, info := range categoryTable {
		if info.Category == c {
			return info
		}
	}
	return CategoryInfo{
		Category:    CategoryUnspecified,
		Title:       "Unspecified",
		Description: "Exit code not present in this catalog version",
		Min:         -1,
		Max:         -1,
	}
}

// Validate returns an error when c is neither a catalog category nor
// CategoryUnspecified.
func (c Category) Validate() error {
	if c == CategoryUnspecified {
		return nil
	}
	return categories.Validate(c)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalJSON decodes a category tag, rejecting non-string JSON values.
func (c *Category) UnmarshalJSON(data []byte) error {
	if kind := codec.Kind(data); kind != "string" {
		return &catalog.ShapeMismatchError{Catalog: categories.Name(), Want: "string", Got: kind}
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}

// AllRetryHints returns every retry hint.
func AllRetryHints() []RetryHint { return retryHints.Values() }

// ParseRetryHint parses a retry hint tag.
func ParseRetryHint(s string) (RetryHint, error) { return retryHints.Parse(s) }

// String returns the retry hint tag.
func (h RetryHint) String() string { return string(h) }

// Description returns a short explanation of the hint.
func (h RetryHint) Description() string { return retryHints.Description(h) }

// Validate returns an error when h is not a declared retry hint.
func (h RetryHint) Validate() error { return retryHints.Validate(h) }

// MarshalText implements encoding.TextMarshaler.
func (h RetryHint) MarshalText() ([]byte, error) { return retryHints.EncodeText(h) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *RetryHint) UnmarshalText(text []byte) error { return retryHints.DecodeText(text, h) }

// UnmarshalJSON rejects non-string JSON values.
func (h *RetryHint) UnmarshalJSON(data []byte) error { return retryHints.DecodeJSON(data, h) }

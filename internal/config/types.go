// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// LogLevelDebug logs everything, including decode traces.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// LogFormatText is the human-readable charmbracelet/log format.
	LogFormatText LogFormat = "text"
	// LogFormatJSON emits one JSON object per record.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt emits logfmt key=value records.
	LogFormatLogfmt LogFormat = "logfmt"

	// OutputText renders tables and styled text.
	OutputText OutputFormat = "text"
	// OutputJSON renders canonical JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML renders YAML.
	OutputYAML OutputFormat = "yaml"
	// OutputTOML renders TOML.
	OutputTOML OutputFormat = "toml"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCatalogPin is returned when a pin is not a semantic version constraint.
	ErrInvalidCatalogPin = errors.New("invalid catalog pin")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of emitted log records.
	LogLevel string

	// LogFormat selects the log record encoding.
	LogFormat string

	// OutputFormat selects how commands render their results.
	OutputFormat string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// CatalogPin is a Masterminds semantic version constraint such as "^1.0.0"
	// or ">= 1.0.0, < 2.0.0".
	CatalogPin string

	// InvalidValueError is returned when an enumerated config value is not
	// recognized. It wraps the field's sentinel for errors.Is() compatibility.
	InvalidValueError struct {
		Field string
		Value string
		Valid []string
		err   error
	}

	// InvalidCatalogPinError is returned when a catalog pin does not parse.
	InvalidCatalogPinError struct {
		Catalog string
		Value   CatalogPin
		Err     error
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// LogLevel is the minimum log level
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// LogFormat selects text, json or logfmt log records
		LogFormat LogFormat `json:"log_format" mapstructure:"log_format"`
		// Output is the default output format of commands
		Output OutputFormat `json:"output" mapstructure:"output"`
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose error output and debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Catalogs pins catalog ids to version constraints
		Catalogs map[string]CatalogPin `json:"catalogs" mapstructure:"catalogs"`
	}
)

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q (valid: %s)", e.Field, e.Value, strings.Join(e.Valid, ", "))
}

// Unwrap returns the field sentinel for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.err }

// Error implements the error interface for InvalidCatalogPinError.
func (e *InvalidCatalogPinError) Error() string {
	return fmt.Sprintf("invalid catalog pin %s: %q: %v", e.Catalog, e.Value, e.Err)
}

// Unwrap returns ErrInvalidCatalogPin for errors.Is() compatibility.
func (e *InvalidCatalogPinError) Unwrap() error { return ErrInvalidCatalogPin }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the config sentinel and each field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func checkOneOf[T ~string](field string, v T, sentinel error, valid ...T) []error {
	for _, candidate := range valid {
		if v == candidate {
			return nil
		}
	}
	names := make([]string, len(valid))
	for i, candidate := range valid {
		names[i] = string(candidate)
	}
	return []error{&InvalidValueError{Field: field, Value: string(v), Valid: names, err: sentinel}}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is recognized.
func (l LogLevel) IsValid() (bool, []error) {
	errs := checkOneOf("log level", l, ErrInvalidLogLevel, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)
	return errs == nil, errs
}

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// IsValid returns whether the LogFormat is recognized.
func (f LogFormat) IsValid() (bool, []error) {
	errs := checkOneOf("log format", f, ErrInvalidLogFormat, LogFormatText, LogFormatJSON, LogFormatLogfmt)
	return errs == nil, errs
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is recognized.
func (f OutputFormat) IsValid() (bool, []error) {
	errs := checkOneOf("output format", f, ErrInvalidOutputFormat, OutputText, OutputJSON, OutputYAML, OutputTOML)
	return errs == nil, errs
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	errs := checkOneOf("color scheme", cs, ErrInvalidColorScheme, ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight)
	return errs == nil, errs
}

// Constraint parses the pin.
func (p CatalogPin) Constraint() (*semver.Constraints, error) {
	return semver.NewConstraint(string(p))
}

// IsValid returns whether every field of the Config holds a recognized value
// and every catalog pin parses.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.LogFormat.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, id := range sortedKeys(c.Catalogs) {
		pin := c.Catalogs[id]
		if _, err := pin.Constraint(); err != nil {
			errs = append(errs, &InvalidCatalogPinError{Catalog: id, Value: pin, Err: err})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    LogLevelInfo,
		LogFormat:   LogFormatText,
		Output:      OutputText,
		ColorScheme: ColorSchemeAuto,
		Verbose:     false,
		Catalogs:    map[string]CatalogPin{},
	}
}

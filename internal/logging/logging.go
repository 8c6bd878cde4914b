// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fulmenhq/crucible/internal/config"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every text record.
const Prefix = "crucible"

// Options configures Setup.
type Options struct {
	Level  config.LogLevel
	Format config.LogFormat
	// Verbose forces the debug level regardless of Level.
	Verbose bool
	// Timestamps adds a time field to each record.
	Timestamps bool
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(string(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = log.DebugLevel
	}

	formatter := log.TextFormatter
	switch opts.Format {
	case config.LogFormatJSON:
		formatter = log.JSONFormatter
	case config.LogFormatLogfmt:
		formatter = log.LogfmtFormatter
	case config.LogFormatText, "":
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.Timestamps,
	}), nil
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(w io.Writer, opts Options) (*log.Logger, error) {
	logger, err := New(w, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(logger))
	return logger, nil
}

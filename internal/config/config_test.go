// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/crucible/internal/issue"
	"github.com/fulmenhq/crucible/internal/testutil"
)

// Tests in this file mutate process environment or the config dir override
// and therefore never run in parallel.

func load(t *testing.T, opts LoadOptions) (*Config, string, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestConfigDir(t *testing.T) {
	t.Cleanup(Reset)
	cleanup, want := testutil.SetConfigHome(t, t.TempDir(), AppName)
	t.Cleanup(cleanup)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	SetConfigDirOverride("/override/crucible")
	if got, _ := ConfigDir(); got != "/override/crucible" {
		t.Errorf("ConfigDir() with override = %q", got)
	}
	Reset()
	if got, _ := ConfigDir(); got != want {
		t.Errorf("ConfigDir() after Reset = %q, want %q", got, want)
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)

	cfg, path, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("Load() path = %q, want empty", path)
	}

	want := DefaultConfig()
	if cfg.LogLevel != want.LogLevel || cfg.LogFormat != want.LogFormat ||
		cfg.Output != want.Output || cfg.ColorScheme != want.ColorScheme || cfg.Verbose != want.Verbose {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Catalogs == nil || len(cfg.Catalogs) != 0 {
		t.Errorf("Catalogs = %v, want empty non-nil map", cfg.Catalogs)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)

	dir := t.TempDir()
	want := testutil.MustWriteFile(t, dir, "config.cue", `
output: "yaml"
log_format: "json"
verbose: true
catalogs: {
	fulpack: "^1.0.0"
	foundry: ">= 1.0.0, < 2.0.0"
}
`)

	cfg, path, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != want {
		t.Errorf("Load() path = %q, want %q", path, want)
	}
	if cfg.Output != OutputYAML || cfg.LogFormat != LogFormatJSON || !cfg.Verbose {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, LogLevelInfo)
	}
	if cfg.Catalogs["fulpack"] != "^1.0.0" || cfg.Catalogs["foundry"] != ">= 1.0.0, < 2.0.0" {
		t.Errorf("Catalogs = %v", cfg.Catalogs)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)
	t.Cleanup(testutil.MustSetenv(t, "CRUCIBLE_OUTPUT", "toml"))
	t.Cleanup(testutil.MustSetenv(t, "CRUCIBLE_LOG_LEVEL", "debug"))

	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "config.cue", `output: "json"`+"\n")

	cfg, _, err := load(t, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output != OutputTOML {
		t.Errorf("Output = %q, want env override %q", cfg.Output, OutputTOML)
	}
	if cfg.LogLevel != LogLevelDebug {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, LogLevelDebug)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)
	t.Cleanup(testutil.MustSetenv(t, "CRUCIBLE_OUTPUT", "xml"))

	_, _, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() with CRUCIBLE_OUTPUT=xml should fail")
	}
	if !errors.Is(err, ErrInvalidOutputFormat) {
		t.Errorf("error should wrap ErrInvalidOutputFormat, got: %v", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", err)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown output", `output: "xml"`, "output"},
		{"unknown field", `colour: "dark"`, "colour"},
		{"bad catalog id", `catalogs: {"Ful-Pack": "^1"}`, "Ful-Pack"},
		{"syntax error", `output: `, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := testutil.MustWriteFile(t, dir, "config.cue", tt.content+"\n")

			_, _, err := load(t, LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("Load() should fail")
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.Resource != path {
				t.Errorf("Resource = %q, want %q", ae.Resource, path)
			}
			if !ae.HasSuggestions() {
				t.Error("load errors should carry suggestions")
			}
			if ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("Issue = %v, want ConfigLoadFailedId", ae.Issue)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_CustomPathNotFound(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, _, err := load(t, LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("Load() with a missing --config file should fail")
	}

	if !errors.Is(err, ErrConfigFileNotFound) {
		t.Errorf("error should wrap ErrConfigFileNotFound, got: %v", err)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T", err)
	}
	formatted := ae.Format(false)
	for _, want := range []string{"failed to load configuration", missing, "crucible config show"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() = %q, want it to contain %q", formatted, want)
		}
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with canceled context = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)
	t.Cleanup(Reset)

	dir := filepath.Join(t.TempDir(), "crucible")
	SetConfigDirOverride(dir)

	path, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	// The generated file must load back to the defaults.
	cfg, loaded, err := load(t, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() of generated config error: %v", err)
	}
	if loaded != path || cfg.Output != OutputText || cfg.LogLevel != LogLevelInfo {
		t.Errorf("Load() = %+v from %q", cfg, loaded)
	}

	// An existing file is kept unless forced.
	testutil.MustWriteFile(t, dir, "config.cue", `output: "json"`+"\n")
	if _, err := CreateDefaultConfig(false); err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if got := testutil.MustReadFile(t, path); got != `output: "json"`+"\n" {
		t.Errorf("existing config was overwritten: %q", got)
	}
	if _, err := CreateDefaultConfig(true); err != nil {
		t.Fatalf("CreateDefaultConfig(force) error: %v", err)
	}
	if got := testutil.MustReadFile(t, path); !strings.Contains(got, `output: "text"`) {
		t.Errorf("forced config = %q", got)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	testutil.ScrubEnv(t, EnvPrefix)

	in := DefaultConfig()
	in.Output = OutputJSON
	in.Verbose = true
	in.Catalogs = map[string]CatalogPin{"fulhash": "~1.0", "fulpack": "^1.0.0"}

	generated := GenerateCUE(in)
	if strings.Index(generated, "fulhash") > strings.Index(generated, "fulpack") {
		t.Errorf("catalog pins should be sorted:\n%s", generated)
	}

	path := testutil.MustWriteFile(t, t.TempDir(), "config.cue", generated)
	out, _, err := load(t, LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v\n%s", err, generated)
	}
	if out.Output != OutputJSON || !out.Verbose || len(out.Catalogs) != 2 || out.Catalogs["fulhash"] != "~1.0" {
		t.Errorf("round trip = %+v", out)
	}
}

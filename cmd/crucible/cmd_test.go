// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/crucible/internal/config"
	"github.com/fulmenhq/crucible/internal/testutil"
	"github.com/fulmenhq/crucible/pkg/catalog"
	"github.com/fulmenhq/crucible/pkg/codec"
	"github.com/fulmenhq/crucible/pkg/conformance"
	"github.com/fulmenhq/crucible/pkg/foundry"
	"github.com/fulmenhq/crucible/pkg/payload"
)

const digestJSON = `{"algorithm":"crc32","hex":"0a1b2c3d","formatted":"crc32:0a1b2c3d"}`

type (
	// fakeProvider returns a fixed configuration.
	fakeProvider struct {
		cfg  *config.Config
		path string
		err  error
	}

	// harness runs the command tree against in-memory streams.
	harness struct {
		stdin  *strings.Reader
		stdout bytes.Buffer
		stderr bytes.Buffer
		app    *App
	}
)

func (p *fakeProvider) Load(_ context.Context, _ config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	cfg := p.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return cfg, p.path, nil
}

func newHarness(provider config.Provider, stdin string) *harness {
	h := &harness{stdin: strings.NewReader(stdin)}
	h.app = NewApp(Dependencies{
		Config: provider,
		Stdin:  h.stdin,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	return h
}

func (h *harness) run(args ...string) foundry.ExitCode {
	return Run(context.Background(), h.app, args)
}

func TestRun_ExitCodesShow(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "show", "10", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}

	var info map[string]any
	if err := json.Unmarshal(h.stdout.Bytes(), &info); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, h.stdout.String())
	}
	if info["variant"] != "PortInUse" || info["category"] != "networking" {
		t.Errorf("info = %v", info)
	}
	if info["message"] != "Specified port is already in use" {
		t.Errorf("message = %v", info["message"])
	}
}

func TestRun_ExitCodesShowUnknown(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "show", "250", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), `"category": "unspecified"`) {
		t.Errorf("stdout = %s", h.stdout.String())
	}

	h = newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "show", "NoSuchCode"); code != foundry.ExitInvalidArgument {
		t.Errorf("unknown name exit code = %d, want %d", code, foundry.ExitInvalidArgument)
	}
	if !strings.Contains(h.stderr.String(), `"NoSuchCode"`) {
		t.Errorf("stderr = %s", h.stderr.String())
	}
}

func TestRun_ExitCodesList(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "list", "--category", "signals", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	var infos []foundry.Info
	if err := json.Unmarshal(h.stdout.Bytes(), &infos); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(infos) != len(foundry.ByCategory(foundry.CategorySignals)) {
		t.Errorf("listed %d codes, want %d", len(infos), len(foundry.ByCategory(foundry.CategorySignals)))
	}
	for _, info := range infos {
		if info.Signal == 0 || info.Code != 128+info.Signal {
			t.Errorf("code %d signal %d", info.Code, info.Signal)
		}
	}

	h = newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "list", "--category", "bogus"); code != foundry.ExitInvalidArgument {
		t.Errorf("bad category exit code = %d", code)
	}
}

func TestRun_ExitCodesSignal(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "signal", "15", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), `"code": 143`) {
		t.Errorf("stdout = %s", h.stdout.String())
	}

	h = newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "signal", "10", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if out := h.stdout.String(); !strings.Contains(out, `"code": 138`) || !strings.Contains(out, `"variant": "SignalUsr1"`) {
		t.Errorf("stdout = %s", out)
	}

	h = newHarness(&fakeProvider{}, "")
	if code := h.run("exit-codes", "signal", "-3");code != foundry.ExitInvalidArgument {
		t.Errorf("negative signal exit code = %d", code)
	}
}

func TestExplainMarkdown(t *testing.T) {
	t.Parallel()

	md := explainMarkdown(foundry.ExitPortInUse)
	for _, want := range []string{"# 10 PortInUse", "EXIT_PORT_IN_USE", "**Category:**"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Unknown exit code!") {
		t.Error("known code should not carry the unknown-code issue")
	}

	md = explainMarkdown(foundry.ExitCode(250))
	if !strings.HasPrefix(md, "# Exit code 250") || !strings.Contains(md, "Unknown exit code!") {
		t.Errorf("unknown code markdown:\n%s", md)
	}
}

func TestRun_CatalogsParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want foundry.ExitCode
		out  string
	}{
		{"strict known", []string{"fulpack.ArchiveFormat", "tar.gz"}, foundry.ExitSuccess, `"known": true`},
		{"strict unknown", []string{"fulpack.ArchiveFormat", "rar"}, foundry.ExitDataInvalid, ""},
		{"strict wrong case", []string{"fulhash.Algorithm", "SHA256"}, foundry.ExitDataInvalid, ""},
		{"permissive unknown", []string{"foundry.ExitCode", "Whatever"}, foundry.ExitSuccess, `"known": false`},
		{"no such enumeration", []string{"fulpack.Nope", "tar"}, foundry.ExitInvalidArgument, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(&fakeProvider{}, "")
			args := append([]string{"catalogs", "parse"}, tt.args...)
			if code := h.run(append(args, "-o", "json")...); code != tt.want {
				t.Fatalf("exit code = %d, want %d (stderr %s)", code, tt.want, h.stderr.String())
			}
			if tt.out != "" && !strings.Contains(h.stdout.String(), tt.out) {
				t.Errorf("stdout = %s, want %s", h.stdout.String(), tt.out)
			}
		})
	}
}

func TestRun_CatalogsList(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, "")
	if code := h.run("catalogs", "list", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	var descs []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Policy  string `json:"policy"`
	}
	if err := json.Unmarshal(h.stdout.Bytes(), &descs); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	names := map[string]bool{}
	for _, d := range descs {
		names[d.Name] = true
	}
	for _, want := range []string{"foundry.ExitCode", "fulencode.EncodingFormat", "fulhash.Algorithm", "fulpack.IntegrityCheck"} {
		if !names[want] {
			t.Errorf("catalogs list missing %s", want)
		}
	}
}

func TestRun_PayloadDecode(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, digestJSON)
	if code := h.run("payload", "decode", "digest"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), `"formatted": "crc32:0a1b2c3d"`) {
		t.Errorf("stdout = %s", h.stdout.String())
	}

	h = newHarness(&fakeProvider{}, digestJSON)
	if code := h.run("payload", "decode", "digest", "-", "--cbor"); code != foundry.ExitSuccess {
		t.Fatalf("cbor exit code = %d, stderr = %s", code, h.stderr.String())
	}
	cborHex := h.stdout.String()

	h = newHarness(&fakeProvider{}, cborHex)
	if code := h.run("payload", "decode", "digest", "--from", "cbor", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("from cbor exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), `"hex": "0a1b2c3d"`) {
		t.Errorf("stdout = %s", h.stdout.String())
	}
}

func TestRun_PayloadDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  foundry.ExitCode
	}{
		{"unknown kind", []string{"no-such-kind"}, digestJSON, foundry.ExitInvalidArgument},
		{"unknown tag", []string{"digest"}, `{"algorithm":"md5","hex":"00","formatted":"md5:00"}`, foundry.ExitDataInvalid},
		{"wrong shape", []string{"digest"}, `["crc32"]`, foundry.ExitDataInvalid},
		{"malformed json", []string{"digest"}, `{"algorithm":`, foundry.ExitParseError},
		{"empty input", []string{"digest"}, "", foundry.ExitParseError},
		{"bad hex", []string{"digest", "--from", "cbor"}, "zz", foundry.ExitParseError},
		{"missing file", []string{"digest", "does-not-exist.json"}, "", foundry.ExitFileNotFound},
		{"bad input format", []string{"digest", "--from", "xml"}, digestJSON, foundry.ExitInvalidArgument},
		{"too many args", []string{"digest", "a", "b"}, "", foundry.ExitInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(&fakeProvider{}, tt.stdin)
			args := append([]string{"payload", "decode"}, tt.args...)
			if code := h.run(args...); code != tt.want {
				t.Errorf("exit code = %d, want %d (stderr %s)", code, tt.want, h.stderr.String())
			}
			if !strings.HasPrefix(h.stderr.String(), "error:") {
				t.Errorf("stderr = %q, want error line", h.stderr.String())
			}
		})
	}
}

func TestRun_PayloadValidate(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, digestJSON)
	if code := h.run("payload", "validate", "digest"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "conforms") {
		t.Errorf("stdout = %s", h.stdout.String())
	}

	bad := `{"algorithm":"crc32","hex":"0a1b2c3d","formatted":"crc32:ffffffff"}`
	h = newHarness(&fakeProvider{}, bad)
	if code := h.run("payload", "validate", "digest", "-o", "json"); code != foundry.ExitDataInvalid {
		t.Fatalf("exit code = %d, want %d", code, foundry.ExitDataInvalid)
	}
	var report conformance.Report
	if err := json.Unmarshal(h.stdout.Bytes(), &report); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, h.stdout.String())
	}
	if report.Conforms || len(report.Violations) != 1 || report.Violations[0].Rule != "formatted" {
		t.Errorf("report = %+v", report)
	}
}

func TestRun_PayloadValidateYAML(t *testing.T) {
	t.Parallel()

	manifest := `format: tar
version: "1.0.0"
generated: "2025-11-12T10:00:00Z"
entry_count: 1
entries:
  - path: README.md
    type: file
    size: 12
`
	h := newHarness(&fakeProvider{}, manifest)
	if code := h.run("payload", "validate", "archive-manifest", "--from", "yaml"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stdout = %s, stderr = %s", code, h.stdout.String(), h.stderr.String())
	}
}

func TestRun_PayloadSealOpen(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, digestJSON)
	if code := h.run("payload", "seal", "digest"); code != foundry.ExitSuccess {
		t.Fatalf("seal exit code = %d, stderr = %s", code, h.stderr.String())
	}
	env := h.stdout.String()
	if !strings.Contains(env, `"catalog": "fulhash"`) || !strings.Contains(env, `"kind": "digest"`) {
		t.Errorf("envelope = %s", env)
	}

	h = newHarness(&fakeProvider{}, env)
	if code := h.run("payload", "open", "--check"); code != foundry.ExitSuccess {
		t.Fatalf("open exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), `"algorithm": "crc32"`) {
		t.Errorf("payload = %s", h.stdout.String())
	}
}

func TestRun_PayloadOpenVersionMismatch(t *testing.T) {
	t.Parallel()

	env := fmt.Sprintf(`{"catalog":"fulhash","version":"v1.9.0","kind":"digest","payload":%s}`, digestJSON)
	h := newHarness(&fakeProvider{}, env)
	if code := h.run("payload", "open"); code != foundry.ExitSsotVersionMismatch {
		t.Fatalf("exit code = %d, want %d (stderr %s)", code, foundry.ExitSsotVersionMismatch, h.stderr.String())
	}
	if !strings.Contains(h.stderr.String(), "Upgrade crucible") {
		t.Errorf("stderr = %s", h.stderr.String())
	}
}

func TestRun_PayloadOpenCBOR(t *testing.T) {
	t.Parallel()

	k, err := payload.Lookup(payload.KindDigest)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	v, err := k.Decode([]byte(digestJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	env, err := payload.SealKind(k, v)
	if err != nil {
		t.Fatalf("SealKind: %v", err)
	}
	data, err := codec.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	h := newHarness(&fakeProvider{}, fmt.Sprintf("%x\n", data))
	if code := h.run("payload", "open", "--from", "cbor", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), `"formatted": "crc32:0a1b2c3d"`) {
		t.Errorf("stdout = %s", h.stdout.String())
	}
}

func TestRun_PayloadSchema(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, "")
	if code := h.run("payload", "schema", "digest", "-o", "json"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	var doc schemaDoc
	if err := json.Unmarshal(h.stdout.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Definition != "#Digest" || !strings.Contains(doc.Source, "algorithm") {
		t.Errorf("schema = %+v", doc)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want foundry.ExitCode
	}{
		{"invalid", &config.InvalidConfigError{FieldErrors: []error{config.ErrInvalidOutputFormat}}, foundry.ExitConfigInvalid},
		{"not found", fmt.Errorf("%w: /nope.cue", config.ErrConfigFileNotFound), foundry.ExitConfigFileNotFound},
		{"unclassified", errors.New("boom"), foundry.ExitConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(&fakeProvider{err: tt.err}, "")
			if code := h.run("catalogs", "list"); code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}

			// config path ignores a broken config.
			h = newHarness(&fakeProvider{err: tt.err}, "")
			if code := h.run("config", "path", "--config", "/tmp/custom.cue"); code != foundry.ExitSuccess {
				t.Errorf("config path exit code = %d, stderr = %s", code, h.stderr.String())
			}
		})
	}
}

func TestRun_CatalogPins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pins map[string]config.CatalogPin
		want foundry.ExitCode
	}{
		{"satisfied", map[string]config.CatalogPin{"fulpack": "^1.0.0", "foundry": ">= 1.0.0"}, foundry.ExitSuccess},
		{"newer major", map[string]config.CatalogPin{"fulpack": "^2.0.0"}, foundry.ExitSsotVersionMismatch},
		{"unknown catalog", map[string]config.CatalogPin{"fulzip": "^1.0.0"}, foundry.ExitSsotVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Catalogs = tt.pins
			h := newHarness(&fakeProvider{cfg: cfg, path: "/etc/crucible/config.cue"}, "")
			if code := h.run("version"); code != tt.want {
				t.Errorf("exit code = %d, want %d (stderr %s)", code, tt.want, h.stderr.String())
			}
		})
	}
}

func TestRun_OutputFormats(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Output = config.OutputYAML
	h := newHarness(&fakeProvider{cfg: cfg}, "")
	if code := h.run("exit-codes", "show", "PortInUse"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "variant: PortInUse\n") {
		t.Errorf("yaml output = %s", h.stdout.String())
	}

	// The flag beats the config file.
	h = newHarness(&fakeProvider{cfg: cfg}, "")
	if code := h.run("exit-codes", "show", "PortInUse", "-o", "toml"); code != foundry.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "code = 10") {
		t.Errorf("toml output = %s", h.stdout.String())
	}

	h = newHarness(&fakeProvider{}, "")
	if code := h.run("version", "-o", "csv"); code != foundry.ExitInvalidArgument {
		t.Errorf("bad output flag exit code = %d", code)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	t.Parallel()

	h := newHarness(&fakeProvider{}, "")
	if code := h.run("version", "--no-such-flag"); code != foundry.ExitInvalidArgument {
		t.Errorf("exit code = %d, want %d", code, foundry.ExitInvalidArgument)
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want foundry.ExitCode
	}{
		{"nil", nil, foundry.ExitSuccess},
		{"exit error", &ExitError{Code: foundry.ExitPortInUse}, foundry.ExitPortInUse},
		{"wrapped exit error", fmt.Errorf("outer: %w", &ExitError{Code: foundry.ExitOperationTimeout}), foundry.ExitOperationTimeout},
		{"pin mismatch", &config.PinMismatchError{Catalog: "fulpack"}, foundry.ExitSsotVersionMismatch},
		{"version mismatch", &payload.VersionMismatchError{Catalog: "fulpack"}, foundry.ExitSsotVersionMismatch},
		{"config not found", config.ErrConfigFileNotFound, foundry.ExitConfigFileNotFound},
		{"invalid config", &config.InvalidConfigError{}, foundry.ExitConfigInvalid},
		{"file not found", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, foundry.ExitFileNotFound},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, foundry.ExitPermissionDenied},
		{"unknown kind", &payload.UnknownKindError{Name: "x"}, foundry.ExitInvalidArgument},
		{"empty document", codec.ErrEmptyDocument, foundry.ExitParseError},
		{"unrecognized variant", &catalog.UnrecognizedVariantError{Catalog: "fulpack.ArchiveFormat", Value: "rar"}, foundry.ExitDataInvalid},
		{"shape mismatch", &catalog.ShapeMismatchError{Want: "object", Got: "array"}, foundry.ExitDataInvalid},
		{"nonconforming", conformance.ErrNonconforming, foundry.ExitDataInvalid},
		{"other", errors.New("boom"), foundry.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestReadInput_File(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, t.TempDir(), "digest.json", digestJSON)
	h := newHarness(&fakeProvider{}, "")
	data, name, err := h.app.readInput([]string{"digest", path}, 1)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if name != path || string(data) != digestJSON {
		t.Errorf("readInput = %q, %q", name, data)
	}

	_, _, err = h.app.readInput([]string{"digest", filepath.Join(t.TempDir(), "missing.json")}, 1)
	if exitCodeFor(err) != foundry.ExitFileNotFound {
		t.Errorf("missing file error = %v", err)
	}
}

func TestDecodeHex(t *testing.T) {
	t.Parallel()

	got, err := decodeHex([]byte(" a1 b2\nc3 \n"))
	if err != nil || !bytes.Equal(got, []byte{0xa1, 0xb2, 0xc3}) {
		t.Errorf("decodeHex = %x, %v", got, err)
	}
	if _, err := decodeHex([]byte("abc")); exitCodeFor(err) != foundry.ExitParseError {
		t.Errorf("odd-length hex error = %v", err)
	}
}

// Verbose runs install a debug logger as the slog default, so this test
// does not run in parallel with the others.
func TestRun_VerboseErrorExplainsIssue(t *testing.T) {
	h := newHarness(&fakeProvider{}, digestJSON)
	if code := h.run("payload", "decode", "no-such-kind", "-v"); code != foundry.ExitInvalidArgument {
		t.Fatalf("exit code = %d, want %d", code, foundry.ExitInvalidArgument)
	}
	stderr := h.stderr.String()
	for _, want := range []string{"error:", "crucible payload kinds", "exit code 40", "Unknown payload kind!"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}

	h = newHarness(&fakeProvider{}, digestJSON)
	h.run("payload", "decode", "no-such-kind")
	if strings.Contains(h.stderr.String(), "Unknown payload kind!") {
		t.Errorf("non-verbose stderr should not render the issue:\n%s", h.stderr.String())
	}
}

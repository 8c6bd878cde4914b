// SPDX-License-Identifier: MPL-2.0

package foundry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fulmenhq/crucible/pkg/catalog"
)

func TestCatalog_Size(t *testing.T) {
	t.Parallel()

	if got := len(All()); got != 54 {
		t.Errorf("len(All()) = %d, want 54", got)
	}
}

func TestCatalog_Invariants(t *testing.T) {
	t.Parallel()

	seenCodes := make(map[int]string)
	seenVariants := make(map[string]bool)
	seenNames := make(map[string]bool)

	for _, code := range All() {
		info := code.Info()

		if info.Code < 0 || info.Code > 165 {
			t.Errorf("%s: code %d outside 0..165", code, info.Code)
		}
		if prev, dup := seenCodes[info.Code]; dup {
			t.Errorf("code %d used by both %s and %s", info.Code, prev, info.Variant)
		}
		seenCodes[info.Code] = info.Variant

		if info.Variant == "" || seenVariants[info.Variant] {
			t.Errorf("code %d: empty or duplicate variant %q", info.Code, info.Variant)
		}
		seenVariants[info.Variant] = true

		if !strings.HasPrefix(info.Name, "EXIT_") || seenNames[info.Name] {
			t.Errorf("code %d: bad or duplicate constant name %q", info.Code, info.Name)
		}
		seenNames[info.Name] = true

		if code.Message() == "" {
			t.Errorf("%s: empty display message", code)
		}
		if err := code.Category().Validate(); err != nil || code.Category() == CategoryUnspecified {
			t.Errorf("%s: category %q is not a catalog category", code, code.Category())
		}
		if err := code.Validate(); err != nil {
			t.Errorf("%s: %v", code, err)
		}
		if hint, ok := code.RetryHint(); ok {
			if err := hint.Validate(); err != nil {
				t.Errorf("%s: %v", code, err)
			}
		}
	}
}

func TestCatalog_CategoryRanges(t *testing.T) {
	t.Parallel()

	for _, code := range All() {
		r := code.Category().Info()
		if code.BSDEquivalent() == "EX_USAGE" {
			continue
		}
		if code.Code() < r.Min || code.Code() > r.Max {
			t.Errorf("%s (%d) outside %s range %d..%d", code, code.Code(), r.Category, r.Min, r.Max)
		}
	}
}

func TestSignalArithmetic(t *testing.T) {
	t.Parallel()

	signals := ByCategory(CategorySignals)
	if len(signals) != 9 {
		t.Fatalf("len(ByCategory(signals)) = %d, want 9", len(signals))
	}

	for _, code := range signals {
		n, ok := code.Signal()
		if !ok {
			t.Errorf("%s: no signal number", code)
			continue
		}
		if code.Code() != 128+n {
			t.Errorf("%s: code %d != 128 + %d", code, code.Code(), n)
		}
		if want := fmt.Sprintf("128 + %d", n); code.BSDEquivalent() != want {
			t.Errorf("%s: BSD equivalent %q, want %q", code, code.BSDEquivalent(), want)
		}
		if !strings.Contains(code.Message(), code.SignalName()) {
			t.Errorf("%s: message %q does not name %s", code, code.Message(), code.SignalName())
		}
		if !code.IsSignal() {
			t.Errorf("%s: IsSignal() = false", code)
		}

		back, ok := ForSignal(n)
		if !ok || back != code {
			t.Errorf("ForSignal(%d) = %v, %v; want %s", n, back, ok, code)
		}
	}

	for _, code := range All() {
		if code.Category() != CategorySignals {
			if _, ok := code.Signal(); ok {
				t.Errorf("%s: non-signal code reports a signal", code)
			}
		}
	}
}

func TestSignalNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code   ExitCode
		signal int
		name   string
		status int
	}{
		{ExitSignalHup, 1, "SIGHUP", 129},
		{ExitSignalInt, 2, "SIGINT", 130},
		{ExitSignalQuit, 3, "SIGQUIT", 131},
		{ExitSignalKill, 9, "SIGKILL", 137},
		{ExitSignalUsr1, 10, "SIGUSR1", 138},
		{ExitSignalUsr2, 12, "SIGUSR2", 140},
		{ExitSignalPipe, 13, "SIGPIPE", 141},
		{ExitSignalAlrm, 14, "SIGALRM", 142},
		{ExitSignalTerm, 15, "SIGTERM", 143},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.code.Code(); got != tt.status {
				t.Errorf("Code() = %d, want %d", got, tt.status)
			}
			n, ok := tt.code.Signal()
			if !ok || n != tt.signal {
				t.Errorf("Signal() = %d, %v; want %d, true", n, ok, tt.signal)
			}
			if got := tt.code.Info().SignalName; got != tt.name {
				t.Errorf("SignalName = %q, want %q", got, tt.name)
			}
			if got := tt.code.Info().BSDEquivalent; got != fmt.Sprintf("128 + %d", tt.signal) {
				t.Errorf("BSDEquivalent = %q", got)
			}
			if back, ok := ForSignal(tt.signal); !ok || back != tt.code {
				t.Errorf("ForSignal(%d) = %d, %v; want %d, true", tt.signal, back, ok, tt.code)
			}
		})
	}

	if len(ByCategory(CategorySignals)) != len(tests) {
		t.Errorf("signal category has %d codes, want %d", len(ByCategory(CategorySignals)), len(tests))
	}
	if code, ok := ForSignal(31); ok {
		t.Errorf("ForSignal(31) = %d, true; want no catalog entry", code)
	}
	if !strings.Contains(ExitSignalTerm.Message(), "graceful shutdown") {
		t.Errorf("SIGTERM message = %q", ExitSignalTerm.Message())
	}
}

func TestPortInUseMetadata(t *testing.T) {
	t.Parallel()

	c := ExitPortInUse
	if c.Code() != 10 {
		t.Errorf("Code() = %d, want 10", c.Code())
	}
	if c.Category() != CategoryNetworking || c.Category().String() != "networking" {
		t.Errorf("Category() = %q, want networking", c.Category())
	}
	if c.Message() != "Specified port is already in use" {
		t.Errorf("Message() = %q", c.Message())
	}
	if c.Name() != "EXIT_PORT_IN_USE" || c.Variant() != "PortInUse" || c.String() != "PortInUse" {
		t.Errorf("names = %q / %q / %q", c.Name(), c.Variant(), c.String())
	}
}

func TestMetadataExtras(t *testing.T) {
	t.Parallel()

	if hint, ok := ExitSsotVersionMismatch.RetryHint(); !ok || hint != RetryHintNoRetry {
		t.Errorf("SsotVersionMismatch retry hint = %q, %v", hint, ok)
	}
	if hint, ok := ExitOperationTimeout.RetryHint(); !ok || hint != RetryHintRetry {
		t.Errorf("OperationTimeout retry hint = %q, %v", hint, ok)
	}
	if _, ok := ExitPortInUse.RetryHint(); ok {
		t.Error("PortInUse should not carry a retry hint")
	}
	if ExitUsage.BSDEquivalent() != "EX_USAGE" || ExitCertificateInvalid.BSDEquivalent() != "EX_PROTOCOL" {
		t.Error("BSD equivalents missing")
	}
	if ExitSignalKill.PythonNote() == "" || ExitSuccess.PythonNote() != "" {
		t.Error("python notes misassigned")
	}
	if ExitFileNotFound.Context() == "" {
		t.Error("context should not be empty")
	}
}

func TestUnknownCodeDegrades(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 99, 200, 255, 1000, -5} {
		if _, ok := Lookup(n); ok {
			t.Fatalf("Lookup(%d) unexpectedly known", n)
		}
		info := Classify(n)
		if info.Category != CategoryUnspecified {
			t.Errorf("Classify(%d).Category = %q", n, info.Category)
		}
		if info.Message == "" {
			t.Errorf("Classify(%d) has empty message", n)
		}
		c := ExitCode(n)
		if c.Known() || c.Variant() != "" || c.Name() != "" {
			t.Errorf("ExitCode(%d) reports catalog membership", n)
		}
		if c.String() != fmt.Sprintf("ExitCode(%d)", n) {
			t.Errorf("String() = %q", c.String())
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   ExitCode
		wantOK bool
	}{
		{input: "PortInUse", want: ExitPortInUse, wantOK: true},
		{input: "EXIT_PORT_IN_USE", want: ExitPortInUse, wantOK: true},
		{input: "143", want: ExitSignalTerm, wantOK: true},
		{input: "77", want: 77, wantOK: false},
		{input: "portinuse", want: ExitUnspecified, wantOK: false},
		{input: "NotACode", want: ExitUnspecified, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := Parse(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Parse(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ExitCode
		want int
	}{
		{ExitSuccess, 0},
		{ExitSsotVersionMismatch, 22},
		{ExitSignalUsr2, 140},
		{ExitUnspecified, 1},
		{ExitCode(256), 1},
		{ExitCode(200), 200},
	}
	for _, tt := range tests {
		if got := tt.code.Status(); got != tt.want {
			t.Errorf("ExitCode(%d).Status() = %d, want %d", tt.code, got, tt.want)
		}
	}

	err := ExitCode(300).Validate()
	if !errors.Is(err, ErrInvalidExitCode) {
		t.Errorf("Validate(300) error = %v", err)
	}
	if !ExitSuccess.IsSuccess() || ExitFailure.IsSuccess() {
		t.Error("IsSuccess misreports")
	}
}

func TestExitCode_JSON(t *testing.T) {
	t.Parallel()

	t.Run("known encodes as variant name", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(ExitPortInUse)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `"PortInUse"` {
			t.Errorf("Marshal = %s", data)
		}
	})

	t.Run("unknown encodes as integer", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(ExitCode(77))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `77` {
			t.Errorf("Marshal = %s", data)
		}
	})

	t.Run("round trip every code", func(t *testing.T) {
		t.Parallel()

		for _, code := range All() {
			data, err := json.Marshal(code)
			if err != nil {
				t.Fatal(err)
			}
			var back ExitCode
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal(%s): %v", data, err)
			}
			if back != code {
				t.Errorf("round trip %s -> %s", code, back)
			}
		}
	})

	t.Run("permissive decode", func(t *testing.T) {
		t.Parallel()

		tests := map[string]ExitCode{
			`"SignalTerm"`:        ExitSignalTerm,
			`"EXIT_DATA_INVALID"`: ExitDataInvalid,
			`"FutureCode"`:        ExitUnspecified,
			`60`:                  ExitDataInvalid,
			`121`:                 ExitCode(121),
		}
		for input, want := range tests {
			var got ExitCode
			if err := json.Unmarshal([]byte(input), &got); err != nil {
				t.Errorf("Unmarshal(%s) error: %v", input, err)
				continue
			}
			if got != want {
				t.Errorf("Unmarshal(%s) = %d, want %d", input, got, want)
			}
		}
	})

	t.Run("shape mismatch", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{`true`, `null`, `[10]`, `{"code":10}`, `1.5`} {
			var got ExitCode
			err := json.Unmarshal([]byte(input), &got)
			if !errors.Is(err, catalog.ErrShapeMismatch) {
				t.Errorf("Unmarshal(%s) error = %v, want ErrShapeMismatch", input, err)
			}
		}
	})
}

func TestInfo_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ExitSsotVersionMismatch.Info())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"code":22,"variant":"SsotVersionMismatch","name":"EXIT_SSOT_VERSION_MISMATCH",` +
		`"message":"SSOT (Crucible) version incompatible","context":"Helper library detects unsupported Crucible version",` +
		`"category":"configuration","retry_hint":"no_retry"}`
	if string(data) != want {
		t.Errorf("Marshal(Info) =\n%s\nwant\n%s", data, want)
	}

	data, err = json.Marshal(Classify(250))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"category":"unspecified"`) {
		t.Errorf("unknown code info = %s", data)
	}
}

func TestDescriptorsRegistered(t *testing.T) {
	t.Parallel()

	d, ok := catalog.Lookup("foundry.ExitCode")
	if !ok {
		t.Fatal("foundry.ExitCode not registered")
	}
	if d.Policy != catalog.Permissive {
		t.Errorf("policy = %v, want permissive", d.Policy)
	}
	if len(d.Tags) != 54 || d.Tags[0] != "Success" {
		t.Errorf("tags = %v", d.Tags)
	}
	msg, err := d.Describe("NoSuchCode")
	if err != nil || !strings.Contains(msg, "Unrecognized") {
		t.Errorf("Describe(NoSuchCode) = %q, %v", msg, err)
	}

	for _, name := range []string{"foundry.Category", "foundry.RetryHint"} {
		if _, ok := catalog.Lookup(name); !ok {
			t.Errorf("%s not registered", name)
		}
	}
}

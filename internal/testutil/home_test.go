// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func configHomeVar() string {
	switch runtime.GOOS {
	case "windows":
		return "APPDATA"
	case "darwin":
		return "HOME"
	default:
		return "XDG_CONFIG_HOME"
	}
}

func TestSetConfigHome(t *testing.T) {
	key := configHomeVar()
	original, had := os.LookupEnv(key)

	tmpDir := t.TempDir()
	cleanup, appDir := SetConfigHome(t, tmpDir, "crucible")

	if got := os.Getenv(key); got != tmpDir {
		t.Errorf("%s = %q, want %q", key, got, tmpDir)
	}
	if filepath.Base(appDir) != "crucible" {
		t.Errorf("appDir = %q, want a path ending in crucible", appDir)
	}

	cleanup()

	got, has := os.LookupEnv(key)
	if has != had || got != original {
		t.Errorf("after cleanup %s = %q (set %v), want %q (set %v)", key, got, has, original, had)
	}
}

func TestScrubEnv(t *testing.T) {
	t.Cleanup(MustSetenv(t, "CRUCIBLE_TESTUTIL_PROBE", "1"))
	t.Cleanup(MustSetenv(t, "CRUCIBLEX_TESTUTIL_PROBE", "1"))

	t.Run("scrubbed", func(t *testing.T) {
		ScrubEnv(t, "CRUCIBLE")
		if _, ok := os.LookupEnv("CRUCIBLE_TESTUTIL_PROBE"); ok {
			t.Error("CRUCIBLE_TESTUTIL_PROBE should be unset")
		}
		if _, ok := os.LookupEnv("CRUCIBLEX_TESTUTIL_PROBE"); !ok {
			t.Error("CRUCIBLEX_TESTUTIL_PROBE does not carry the prefix and should survive")
		}
	})

	if got := os.Getenv("CRUCIBLE_TESTUTIL_PROBE"); got != "1" {
		t.Errorf("CRUCIBLE_TESTUTIL_PROBE = %q after subtest cleanup, want restored", got)
	}
}

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := MustWriteFile(t, dir, filepath.Join("nested", "config.cue"), "output: \"json\"\n")
	if got := MustReadFile(t, path); got != "output: \"json\"\n" {
		t.Errorf("MustReadFile() = %q", got)
	}
}

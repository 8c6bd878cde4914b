// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points the platform's user configuration root at dir and
// returns a cleanup function that restores the original environment, plus
// the directory an application named app will resolve as its config dir.
//
// Platform handling:
//   - Windows: sets APPDATA
//   - macOS: sets HOME (config lives under Library/Application Support)
//   - Linux/others: sets XDG_CONFIG_HOME
//
// Usage:
//
//	cleanup, cfgDir := testutil.SetConfigHome(t, t.TempDir(), "crucible")
//	t.Cleanup(cleanup)
func SetConfigHome(t testing.TB, dir, app string) (cleanup func(), appDir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "APPDATA", dir), filepath.Join(dir, app)
	case "darwin":
		return MustSetenv(t, "HOME", dir), filepath.Join(dir, "Library", "Application Support", app)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir), filepath.Join(dir, app)
	}
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home variable at dir and registers a
// cleanup that restores it. On Linux it also clears XDG_CONFIG_HOME so
// config lookups land under dir. Tests calling it must not run in parallel.
//
//	func TestSomething(t *testing.T) {
//	    testutil.SetHomeDir(t, t.TempDir())
//	    // code that reads ~/.config/recipekit ...
//	}
func SetHomeDir(t testing.TB, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Cleanup(MustSetenv(t, "USERPROFILE", dir))
		t.Cleanup(MustSetenv(t, "APPDATA", ""))
	default:
		t.Cleanup(MustSetenv(t, "HOME", dir))
		t.Cleanup(MustSetenv(t, "XDG_CONFIG_HOME", ""))
	}
}

// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"path/filepath"
	"testing"
)

func envOf(goos, home string, vars map[string]string) Env {
	return Env{GOOS: goos, Home: home, Getenv: func(k string) string { return vars[k] }}
}

func TestConfigBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  Env
		want string
	}{
		{"linux xdg", envOf(Linux, "/home/u", map[string]string{"XDG_CONFIG_HOME": "/xdg"}), "/xdg"},
		{"linux home", envOf(Linux, "/home/u", nil), filepath.Join("/home/u", ".config")},
		{"darwin", envOf(Darwin, "/Users/u", map[string]string{"XDG_CONFIG_HOME": "/ignored"}), filepath.Join("/Users/u", "Library", "Application Support")},
		{"windows appdata", envOf(Windows, "", map[string]string{"APPDATA": `C:\AppData`}), `C:\AppData`},
		{"windows profile", envOf(Windows, "", map[string]string{"USERPROFILE": "/profile"}), filepath.Join("/profile", "AppData", "Roaming")},
	}
	for _, tt := range tests {
		got, err := ConfigBase(tt.env)
		if err != nil || got != tt.want {
			t.Errorf("%s: ConfigBase() = %q, %v; want %q", tt.name, got, err, tt.want)
		}
	}

	if _, err := ConfigBase(envOf(Linux, "", nil)); !errors.Is(err, ErrNoHome) {
		t.Errorf("ConfigBase() without home error = %v, want ErrNoHome", err)
	}
}

func TestCacheBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  Env
		want string
	}{
		{"linux xdg", envOf(Linux, "/home/u", map[string]string{"XDG_CACHE_HOME": "/cache"}), "/cache"},
		{"linux home", envOf(Linux, "/home/u", nil), filepath.Join("/home/u", ".cache")},
		{"darwin", envOf(Darwin, "/Users/u", nil), filepath.Join("/Users/u", "Library", "Caches")},
		{"windows", envOf(Windows, "", map[string]string{"LOCALAPPDATA": "/local"}), "/local"},
	}
	for _, tt := range tests {
		got, err := CacheBase(tt.env)
		if err != nil || got != tt.want {
			t.Errorf("%s: CacheBase() = %q, %v; want %q", tt.name, got, err, tt.want)
		}
	}

	if _, err := CacheBase(envOf(Windows, "", nil)); !errors.Is(err, ErrNoHome) {
		t.Errorf("CacheBase() without profile error = %v, want ErrNoHome", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"path/filepath"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ErrNoHome is returned when neither the environment nor the home directory
// yields a base directory.
var ErrNoHome = errors.New("cannot determine home directory")

// Env is the slice of the process environment directory lookups depend on.
type Env struct {
	GOOS   string
	Getenv func(string) string
	Home   string
}

// ConfigBase returns the directory applications keep configuration under:
// %APPDATA% on Windows, ~/Library/Application Support on macOS and
// $XDG_CONFIG_HOME (default ~/.config) elsewhere.
func ConfigBase(env Env) (string, error) {
	switch env.GOOS {
	case Windows:
		if dir := env.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		if profile := env.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Roaming"), nil
		}
	case Darwin:
		if env.Home != "" {
			return filepath.Join(env.Home, "Library", "Application Support"), nil
		}
	default:
		if dir := env.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return dir, nil
		}
		if env.Home != "" {
			return filepath.Join(env.Home, ".config"), nil
		}
	}
	return "", ErrNoHome
}

// CacheBase returns the directory applications keep caches under:
// %LOCALAPPDATA% on Windows, ~/Library/Caches on macOS and $XDG_CACHE_HOME
// (default ~/.cache) elsewhere.
func CacheBase(env Env) (string, error) {
	switch env.GOOS {
	case Windows:
		if dir := env.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		if profile := env.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Local"), nil
		}
	case Darwin:
		if env.Home != "" {
			return filepath.Join(env.Home, "Library", "Caches"), nil
		}
	default:
		if dir := env.Getenv("XDG_CACHE_HOME"); dir != "" {
			return dir, nil
		}
		if env.Home != "" {
			return filepath.Join(env.Home, ".cache"), nil
		}
	}
	return "", ErrNoHome
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/recipekit/recipekit/internal/issue"
	"github.com/recipekit/recipekit/internal/testutil"
	"github.com/recipekit/recipekit/pkg/recipe"
)

func load(t *testing.T, dir string) (*Config, string, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir, SkipWorkingDir: true})
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	testutil.MustWriteFile(t, path, []byte(content))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := load(t, t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty when no file exists", path)
	}

	want := DefaultConfig()
	if cfg.Python != want.Python || cfg.CMake != want.CMake || cfg.Generator != want.Generator ||
		cfg.BuildDir != want.BuildDir || cfg.Jobs != 0 || cfg.RunTests ||
		cfg.UI.ColorScheme != ColorSchemeAuto || cfg.Log.Level != LogLevelInfo {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if len(cfg.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want none", cfg.Dependencies)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
python:    "/opt/python/bin/python3"
generator: "Unix Makefiles"
jobs:      8
run_tests: true
patch_dir: "/srv/patches"
dependencies: {
	kokkos:           {prefix: "/opt/kokkos", version: "3.7.00"}
	"kokkos-kernels": {prefix: "/opt/kokkos-kernels"}
}
ui: {verbose: true}
log: {level: "debug"}
`)

	cfg, got, err := load(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != path {
		t.Errorf("path = %s, want %s", got, path)
	}

	if cfg.Python != "/opt/python/bin/python3" || cfg.Generator != GeneratorMake || cfg.Jobs != 8 || !cfg.RunTests {
		t.Errorf("top-level values = %+v", cfg)
	}
	if cfg.CMake != "cmake" || cfg.BuildDir != "build" {
		t.Errorf("unset keys should keep defaults: cmake=%q build_dir=%q", cfg.CMake, cfg.BuildDir)
	}
	if !cfg.UI.Verbose || cfg.UI.ColorScheme != ColorSchemeAuto || cfg.Log.Level != LogLevelDebug {
		t.Errorf("nested values = %+v %+v", cfg.UI, cfg.Log)
	}
	wantDeps := map[string]recipe.Provided{
		"kokkos":         {Prefix: "/opt/kokkos", Version: "3.7.00"},
		"kokkos-kernels": {Prefix: "/opt/kokkos-kernels"},
	}
	for name, want := range wantDeps {
		if cfg.Dependencies[name] != want {
			t.Errorf("Dependencies[%s] = %+v, want %+v", name, cfg.Dependencies[name], want)
		}
	}
	if pd, _ := cfg.ResolvePatchDir(); pd != "/srv/patches" {
		t.Errorf("ResolvePatchDir() = %s", pd)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `cmake: "/usr/local/bin/cmake"`)
	cfg, got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != path || cfg.CMake != "/usr/local/bin/cmake" {
		t.Errorf("Load() = %q from %q", cfg.CMake, got)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Parallel()

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Load() error = %v, want ActionableError", err)
	}
	if !ae.HasSuggestions() || ae.IssueID != issue.ConfigLoadFailedId {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "python: [", ""},
		{"unknown generator", `generator: "Bazel"`, "generator"},
		{"negative jobs", `jobs: -1`, "jobs"},
		{"unknown key", `colour: "red"`, "colour"},
		{"dependency without prefix", `dependencies: {kokkos: {version: "3.7.00"}}`, "prefix"},
		{"bad log level", `log: {level: "loud"}`, "level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, _, err := load(t, dir)
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("Load() error = %v, want ActionableError", err)
			}
			if tt.want != "" && !strings.Contains(ae.Format(true), tt.want) {
				t.Errorf("error %q should mention %q", ae.Format(true), tt.want)
			}
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `jobs: 2`)
	t.Setenv("RECIPEKIT_JOBS", "16")
	t.Setenv("RECIPEKIT_UI_VERBOSE", "true")

	cfg, _, err := load(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Jobs != 16 || !cfg.UI.Verbose {
		t.Errorf("env overrides not applied: jobs=%d verbose=%v", cfg.Jobs, cfg.UI.Verbose)
	}
}

func TestLoad_EnvOverrideInvalid(t *testing.T) {
	t.Setenv("RECIPEKIT_GENERATOR", "Bazel")

	_, _, err := load(t, t.TempDir())
	if !errors.Is(err, ErrInvalidGenerator) {
		t.Errorf("Load() error = %v, want ErrInvalidGenerator", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	in := DefaultConfig()
	in.Jobs = 4
	in.StageRoot = "/var/stage"
	in.MetricsFile = "/var/metrics/recipekit.prom"
	in.Dependencies = map[string]recipe.Provided{
		"python": {Prefix: "/opt/python", Version: "3.11.4"},
		"blas":   {Prefix: "/opt/openblas"},
	}
	in.UI.ColorScheme = ColorSchemeDark

	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(in))
	out, _, err := load(t, dir)
	if err != nil {
		t.Fatalf("Load() of generated config error = %v\n%s", err, GenerateCUE(in))
	}
	if out.Jobs != 4 || out.StageRoot != in.StageRoot || out.MetricsFile != in.MetricsFile || out.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("round trip = %+v", out)
	}
	for name, want := range in.Dependencies {
		if out.Dependencies[name] != want {
			t.Errorf("Dependencies[%s] = %+v, want %+v", name, out.Dependencies[name], want)
		}
	}
	if strings.Index(GenerateCUE(in), `"blas"`) > strings.Index(GenerateCUE(in), `"python"`) {
		t.Error("dependencies should be written in name order")
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	path, created, err := CreateDefaultConfig(dir)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %s, %v, %v", path, created, err)
	}
	if string(testutil.MustReadFile(t, path)) != GenerateCUE(DefaultConfig()) {
		t.Error("default config content mismatch")
	}

	testutil.MustWriteFile(t, path, []byte(`jobs: 3`))
	if _, created, err := CreateDefaultConfig(dir); err != nil || created {
		t.Fatalf("second CreateDefaultConfig() created=%v err=%v", created, err)
	}
	if string(testutil.MustReadFile(t, path)) != `jobs: 3` {
		t.Error("existing config was overwritten")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup applies to Linux")
	}
	home := t.TempDir()
	testutil.SetHomeDir(t, home)

	dir, err := ConfigDir()
	if err != nil || dir != filepath.Join(home, ".config", AppName) {
		t.Errorf("ConfigDir() = %s, %v", dir, err)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	if dir, _ := ConfigDir(); dir != filepath.Join(home, "xdg", AppName) {
		t.Errorf("ConfigDir() with XDG_CONFIG_HOME = %s", dir)
	}

	cfg := DefaultConfig()
	if pd, _ := cfg.ResolvePatchDir(); pd != filepath.Join(home, "xdg", AppName, PatchDirName) {
		t.Errorf("ResolvePatchDir() = %s", pd)
	}

	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	if sr, _ := cfg.ResolveStageRoot(); sr != filepath.Join(home, "cache", AppName, "stage") {
		t.Errorf("ResolveStageRoot() = %s", sr)
	}
}

func TestLoad_WorkingDirFallback(t *testing.T) {
	// Not parallel: changes the working directory.
	wd := t.TempDir()
	writeConfig(t, wd, `generator: "Unix Makefiles"`)
	testutil.MustChdir(t, wd)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != ConfigFileName+"."+ConfigFileExt {
		t.Errorf("path = %q, want the working directory file", path)
	}
	if cfg.Generator != GeneratorMake {
		t.Errorf("Generator = %q, want %q", cfg.Generator, GeneratorMake)
	}

	_, path, err = NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), SkipWorkingDir: true})
	if err != nil || path != "" {
		t.Errorf("Load(SkipWorkingDir) = %q, %v, want defaults", path, err)
	}
}

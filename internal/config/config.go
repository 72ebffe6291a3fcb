// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/recipekit/recipekit/internal/issue"
	"github.com/recipekit/recipekit/pkg/cueutil"
	"github.com/recipekit/recipekit/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "recipekit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. RECIPEKIT_JOBS.
	EnvPrefix = "RECIPEKIT"
	// PatchDirName is the patches directory under the config directory.
	PatchDirName = "patches"
)

//go:embed config_schema.cue
var configSchema string

func platformEnv() platform.Env {
	home, _ := os.UserHomeDir()
	return platform.Env{GOOS: runtime.GOOS, Getenv: os.Getenv, Home: home}
}

// ConfigDir returns the recipekit configuration directory using
// platform-specific conventions.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	base, err := platform.ConfigBase(platformEnv())
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// CacheDir returns the recipekit cache directory.
func CacheDir() (string, error) {
	base, err := platform.CacheBase(platformEnv())
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ResolveStageRoot returns StageRoot, or <cache dir>/stage when it is empty.
func (c *Config) ResolveStageRoot() (string, error) {
	if c.StageRoot != "" {
		return c.StageRoot, nil
	}
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stage"), nil
}

// ResolvePatchDir returns PatchDir, or <config dir>/patches when it is empty.
func (c *Config) ResolvePatchDir() (string, error) {
	if c.PatchDir != "" {
		return c.PatchDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, PatchDirName), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// config and the path of the file it was read from, empty for defaults only.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := locateConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'recipekit config dump' to see a valid configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("python", defaults.Python)
	v.SetDefault("cmake", defaults.CMake)
	v.SetDefault("generator", defaults.Generator)
	v.SetDefault("build_dir", defaults.BuildDir)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("stage_root", defaults.StageRoot)
	v.SetDefault("patch_dir", defaults.PatchDir)
	v.SetDefault("run_tests", defaults.RunTests)
	v.SetDefault("metrics_file", defaults.MetricsFile)
	v.SetDefault("dependencies", map[string]any{})
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("log.level", defaults.Log.Level)
}

// locateConfigFile picks the file to load: the explicit path, else the
// config directory's file, else config.cue in the working directory. No file
// at all is not an error.
func locateConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'recipekit config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return p, nil
	}
	if opts.SkipWorkingDir {
		return "", nil
	}
	if p := ConfigFileName + "." + ConfigFileExt; fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config decodes to map[string]any rather than a struct so that Viper keeps
// layering defaults and environment overrides over it, and validates with
// Concrete(false) because every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file into dir (the config
// directory when empty) unless one exists. It returns the file path and
// whether it was created.
func CreateDefaultConfig(dir string) (string, bool, error) {
	if dir == "" {
		cfgDir, err := ConfigDir()
		if err != nil {
			return "", false, err
		}
		dir = cfgDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// recipekit configuration file\n\n")

	fmt.Fprintf(&sb, "python:    %q\n", cfg.Python)
	fmt.Fprintf(&sb, "cmake:     %q\n", cfg.CMake)
	fmt.Fprintf(&sb, "generator: %q\n", cfg.Generator)
	fmt.Fprintf(&sb, "build_dir: %q\n", cfg.BuildDir)
	fmt.Fprintf(&sb, "jobs:      %d\n", cfg.Jobs)
	fmt.Fprintf(&sb, "run_tests: %v\n", cfg.RunTests)
	if cfg.StageRoot != "" {
		fmt.Fprintf(&sb, "stage_root: %q\n", cfg.StageRoot)
	}
	if cfg.PatchDir != "" {
		fmt.Fprintf(&sb, "patch_dir: %q\n", cfg.PatchDir)
	}
	if cfg.MetricsFile != "" {
		fmt.Fprintf(&sb, "metrics_file: %q\n", cfg.MetricsFile)
	}

	if len(cfg.Dependencies) > 0 {
		sb.WriteString("\ndependencies: {\n")
		for _, name := range sortedKeys(cfg.Dependencies) {
			dep := cfg.Dependencies[name]
			if dep.Version != "" {
				fmt.Fprintf(&sb, "\t%q: {prefix: %q, version: %q}\n", name, dep.Prefix, dep.Version)
			} else {
				fmt.Fprintf(&sb, "\t%q: {prefix: %q}\n", name, dep.Prefix)
			}
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

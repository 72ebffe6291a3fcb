// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/recipekit/recipekit/pkg/recipe"
)

const (
	// GeneratorNinja is the default CMake generator.
	GeneratorNinja Generator = "Ninja"
	// GeneratorNinjaMulti is Ninja with one build file per configuration.
	GeneratorNinjaMulti Generator = "Ninja Multi-Config"
	// GeneratorMake generates Unix Makefiles.
	GeneratorMake Generator = "Unix Makefiles"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidGenerator is returned when a Generator value is not recognized.
	ErrInvalidGenerator = errors.New("invalid generator")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidJobs is returned for a negative job count.
	ErrInvalidJobs = errors.New("invalid job count")
	// ErrInvalidDependency is the sentinel error wrapped by InvalidDependencyError.
	ErrInvalidDependency = errors.New("invalid dependency")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Generator is the CMake generator passed to `cmake -G`.
	Generator string

	// InvalidGeneratorError is returned when a Generator value is not recognized.
	// It wraps ErrInvalidGenerator for errors.Is() compatibility.
	InvalidGeneratorError struct {
		Value Generator
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level the logger emits.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Jobs is the build parallelism. Zero leaves it to the build tool.
	Jobs int

	// InvalidJobsError is returned for a negative Jobs value.
	InvalidJobsError struct {
		Value Jobs
	}

	// InvalidDependencyError is returned when a configured dependency has no prefix.
	InvalidDependencyError struct {
		Name string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Python is the interpreter for setup.py and pip when no python
		// dependency prefix is provided.
		Python string `json:"python" mapstructure:"python"`
		// CMake is the cmake executable.
		CMake     string    `json:"cmake" mapstructure:"cmake"`
		Generator Generator `json:"generator" mapstructure:"generator"`
		// BuildDir is the CMake build directory relative to the source tree.
		BuildDir string `json:"build_dir" mapstructure:"build_dir"`
		Jobs     Jobs   `json:"jobs" mapstructure:"jobs"`
		// StageRoot holds fetched sources. Empty means the user cache directory.
		StageRoot string `json:"stage_root" mapstructure:"stage_root"`
		// PatchDir holds patch files for the built-in recipe. Empty means
		// the patches directory under the config directory.
		PatchDir string `json:"patch_dir" mapstructure:"patch_dir"`
		// RunTests runs the post-install test unless the command line says otherwise.
		RunTests bool `json:"run_tests" mapstructure:"run_tests"`
		// MetricsFile receives phase metrics in Prometheus text format when set.
		MetricsFile string `json:"metrics_file" mapstructure:"metrics_file"`
		// Dependencies maps package names to installed prefixes.
		Dependencies map[string]recipe.Provided `json:"dependencies" mapstructure:"dependencies"`
		UI           UIConfig                   `json:"ui" mapstructure:"ui"`
		Log          LogConfig                  `json:"log" mapstructure:"log"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// String returns the string representation of the Generator.
func (g Generator) String() string { return string(g) }

// IsValid returns whether the Generator is one of the supported generators,
// and a list of validation errors if it is not.
func (g Generator) IsValid() (bool, []error) {
	switch g {
	case GeneratorNinja, GeneratorNinjaMulti, GeneratorMake:
		return true, nil
	default:
		return false, []error{&InvalidGeneratorError{Value: g}}
	}
}

func (e *InvalidGeneratorError) Error() string {
	return fmt.Sprintf("invalid generator %q (valid: %s, %s, %s)", e.Value, GeneratorNinja, GeneratorNinjaMulti, GeneratorMake)
}

// Unwrap returns ErrInvalidGenerator for errors.Is() compatibility.
func (e *InvalidGeneratorError) Unwrap() error { return ErrInvalidGenerator }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is known.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid rejects negative job counts.
func (j Jobs) IsValid() (bool, []error) {
	if j < 0 {
		return false, []error{&InvalidJobsError{Value: j}}
	}
	return true, nil
}

func (e *InvalidJobsError) Error() string {
	return fmt.Sprintf("invalid job count %d: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidJobs.
func (e *InvalidJobsError) Unwrap() error { return ErrInvalidJobs }

func (e *InvalidDependencyError) Error() string {
	return fmt.Sprintf("dependency %q: prefix must be non-empty", e.Name)
}

// Unwrap returns ErrInvalidDependency.
func (e *InvalidDependencyError) Unwrap() error { return ErrInvalidDependency }

// IsValid returns whether the Config has valid fields. It delegates to the
// typed fields and checks every configured dependency prefix.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Generator.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Jobs.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, name := range sortedKeys(c.Dependencies) {
		if strings.TrimSpace(c.Dependencies[name].Prefix) == "" {
			errs = append(errs, &InvalidDependencyError{Name: name})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Python:       "python3",
		CMake:        "cmake",
		Generator:    GeneratorNinja,
		BuildDir:     "build",
		Jobs:         0,
		Dependencies: map[string]recipe.Provided{},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{Level: LogLevelInfo},
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmake

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/recipekit/recipekit/internal/runtime"
)

const (
	// DefaultGenerator is the CMake generator used when none is configured.
	DefaultGenerator = "Ninja"
	// DefaultBuildDir is the build directory, relative to the source tree.
	DefaultBuildDir = "build"
)

type (
	// Driver runs the cmake executable against one source tree.
	Driver struct {
		// Runner executes cmake.
		Runner runtime.Runner
		// CMake is the cmake executable. Empty means "cmake".
		CMake string
		// Generator is passed as -G. Empty means DefaultGenerator.
		Generator string
		// SourceDir is the project root containing CMakeLists.txt.
		SourceDir string
		// BuildDir is the out-of-source build directory. A relative path is
		// resolved against SourceDir. Empty means DefaultBuildDir.
		BuildDir string
		// Prefix is the install prefix passed as CMAKE_INSTALL_PREFIX.
		Prefix string
		// Jobs sets --parallel for the build step. Zero leaves it to the generator.
		Jobs int
		// CreateBuildDir creates BuildDir before configuring. Dry runs leave it false.
		CreateBuildDir bool

		Stdout io.Writer
		Stderr io.Writer
	}

	// StepError reports a failed cmake invocation.
	StepError struct {
		Step     string
		ExitCode runtime.ExitCode
		Err      error
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("cmake %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// BuildPath returns the absolute or source-relative build directory.
func (d *Driver) BuildPath() string {
	dir := d.BuildDir
	if dir == "" {
		dir = DefaultBuildDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.SourceDir, dir)
}

// StdArgs returns the arguments every configure gets ahead of the recipe's own.
func (d *Driver) StdArgs() []Argument {
	var args []Argument
	if d.Prefix != "" {
		args = append(args, String("CMAKE_INSTALL_PREFIX", d.Prefix))
	}
	return args
}

// ConfigureInvocation returns the configure command:
// cmake -G <generator> <std args> <args> <source> in the build directory.
func (d *Driver) ConfigureInvocation(args []Argument) runtime.Invocation {
	argv := []string{"-G", d.generator()}
	argv = append(argv, Strings(d.StdArgs())...)
	argv = append(argv, Strings(args)...)
	argv = append(argv, d.SourceDir)
	return d.invocation(d.BuildPath(), argv)
}

// Configure generates the build system.
func (d *Driver) Configure(ctx context.Context, args []Argument) error {
	if d.CreateBuildDir {
		if err := os.MkdirAll(d.BuildPath(), 0o755); err != nil {
			return &StepError{Step: "configure", ExitCode: 1, Err: fmt.Errorf("create build directory: %w", err)}
		}
	}
	return d.run(ctx, "configure", d.ConfigureInvocation(args))
}

// Build compiles the configured tree.
func (d *Driver) Build(ctx context.Context) error {
	argv := []string{"--build", d.BuildPath()}
	if d.Jobs > 0 {
		argv = append(argv, "--parallel", strconv.Itoa(d.Jobs))
	}
	return d.run(ctx, "build", d.invocation(d.SourceDir, argv))
}

// Install installs the built tree into the configured prefix.
func (d *Driver) Install(ctx context.Context) error {
	return d.run(ctx, "install", d.invocation(d.SourceDir, []string{"--install", d.BuildPath()}))
}

func (d *Driver) run(ctx context.Context, step string, inv runtime.Invocation) error {
	res := d.Runner.Run(ctx, inv)
	if err := res.Err(); err != nil {
		return &StepError{Step: step, ExitCode: res.ExitCode, Err: err}
	}
	return nil
}

func (d *Driver) invocation(dir string, argv []string) runtime.Invocation {
	return runtime.Invocation{
		Path:   d.executable(),
		Args:   argv,
		Dir:    dir,
		Stdout: d.Stdout,
		Stderr: d.Stderr,
	}
}

func (d *Driver) executable() string {
	if d.CMake == "" {
		return "cmake"
	}
	return d.CMake
}

func (d *Driver) generator() string {
	if d.Generator == "" {
		return DefaultGenerator
	}
	return d.Generator
}

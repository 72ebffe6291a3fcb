// SPDX-License-Identifier: MPL-2.0

// Package pyext runs the Python side of a mixed C++/Python package: the
// in-place extension build and the pip packaging step.
package pyext

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/recipekit/recipekit/internal/runtime"
)

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// stdPipArgs keep pip from resolving, downloading or caching anything: all
// dependencies are provided by the build.
var stdPipArgs = []string{
	"-vvv",
	"--no-input",
	"--no-cache-dir",
	"--disable-pip-version-check",
	"--no-build-isolation",
	"--no-deps",
	"--no-index",
}

type (
	// Extension drives setup.py and pip in one source tree.
	Extension struct {
		Runner    runtime.Runner
		Python    string
		SourceDir string
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// StepError reports a failed Python invocation.
	StepError struct {
		Step     string
		ExitCode runtime.ExitCode
		Err      error
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("python %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// StdPipArgs returns the fixed pip install flags.
func StdPipArgs() []string {
	return append([]string(nil), stdPipArgs...)
}

// InterpreterFor returns the interpreter inside a Python installation prefix.
func InterpreterFor(prefix string) string {
	return filepath.Join(prefix, "bin", DefaultPython)
}

// BuildExtInvocation returns "<python> setup.py build_ext -i --define=<defines>".
func (e *Extension) BuildExtInvocation(defines string) runtime.Invocation {
	return e.invocation("setup.py", "build_ext", "-i", "--define="+defines)
}

// PipInstallInvocation returns "<python> -m pip install <std args> --prefix=<prefix> .".
func (e *Extension) PipInstallInvocation(prefix string) runtime.Invocation {
	args := []string{"-m", "pip", "install"}
	args = append(args, stdPipArgs...)
	args = append(args, "--prefix="+prefix, ".")
	return e.invocation(args...)
}

// BuildExt compiles the extension in place with the given CMake defines.
func (e *Extension) BuildExt(ctx context.Context, defines string) error {
	return e.run(ctx, "build_ext", e.BuildExtInvocation(defines))
}

// PipInstall packages the source tree into prefix.
func (e *Extension) PipInstall(ctx context.Context, prefix string) error {
	return e.run(ctx, "pip install", e.PipInstallInvocation(prefix))
}

func (e *Extension) run(ctx context.Context, step string, inv runtime.Invocation) error {
	res := e.Runner.Run(ctx, inv)
	if err := res.Err(); err != nil {
		return &StepError{Step: step, ExitCode: res.ExitCode, Err: err}
	}
	return nil
}

func (e *Extension) invocation(args ...string) runtime.Invocation {
	python := e.Python
	if python == "" {
		python = DefaultPython
	}
	return runtime.Invocation{
		Path:   python,
		Args:   args,
		Dir:    e.SourceDir,
		Stdout: e.Stdout,
		Stderr: e.Stderr,
	}
}

// SPDX-License-Identifier: MPL-2.0

package pyext

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/recipekit/recipekit/internal/testutil"
)

func TestExtension_BuildExt(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner()
	ext := &Extension{Runner: runner, SourceDir: "/src"}
	if err := ext.BuildExt(context.Background(), "ENABLE_BLAS:BOOL=ON;ENABLE_KOKKOS=OFF"); err != nil {
		t.Fatalf("BuildExt() error = %v", err)
	}

	calls := runner.Calls()
	want := []string{"python3", "setup.py", "build_ext", "-i", "--define=ENABLE_BLAS:BOOL=ON;ENABLE_KOKKOS=OFF"}
	if len(calls) != 1 || !slices.Equal(calls[0].Argv(), want) {
		t.Fatalf("calls = %v, want %v", runner.Argvs(), want)
	}
	if calls[0].Dir != "/src" {
		t.Errorf("Dir = %q, want /src", calls[0].Dir)
	}
}

func TestExtension_PipInstall(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner()
	ext := &Extension{Runner: runner, Python: "/opt/python/bin/python3", SourceDir: "/src"}
	if err := ext.PipInstall(context.Background(), "/opt/lightning"); err != nil {
		t.Fatalf("PipInstall() error = %v", err)
	}

	want := []string{
		"/opt/python/bin/python3", "-m", "pip", "install",
		"-vvv", "--no-input", "--no-cache-dir", "--disable-pip-version-check",
		"--no-build-isolation", "--no-deps", "--no-index",
		"--prefix=/opt/lightning", ".",
	}
	if got := runner.Argvs()[0]; !slices.Equal(got, want) {
		t.Errorf("argv = %v, want %v", got, want)
	}
}

func TestExtension_Failure(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner().FailWhen("build_ext", 1)
	ext := &Extension{Runner: runner}
	err := ext.BuildExt(context.Background(), "")
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.ExitCode != 1 || stepErr.Step != "build_ext" {
		t.Errorf("BuildExt() error = %v, want *StepError{build_ext, 1}", err)
	}
}

func TestStdPipArgs_ReturnsCopy(t *testing.T) {
	t.Parallel()

	args := StdPipArgs()
	args[0] = "-q"
	if StdPipArgs()[0] != "-vvv" {
		t.Error("StdPipArgs() must return a copy")
	}
}

func TestInterpreterFor(t *testing.T) {
	t.Parallel()

	if got, want := InterpreterFor("/opt/python"), filepath.Join("/opt/python", "bin", "python3"); got != want {
		t.Errorf("InterpreterFor() = %q, want %q", got, want)
	}
}

// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"errors"
	"fmt"

	"github.com/recipekit/recipekit/internal/runtime"
)

const (
	PhaseConfigure      Phase = "configure"
	PhaseNativeBuild    Phase = "native-build"
	PhaseExtensionBuild Phase = "extension-build"
	PhasePackage        Phase = "package"
	PhaseNativeInstall  Phase = "native-install"
	PhaseTest           Phase = "test"
)

var (
	// ErrPhaseFailed is matched by every PhaseError.
	ErrPhaseFailed = errors.New("build phase failed")
	// ErrTestFailed is matched by every TestFailedError.
	ErrTestFailed = errors.New("post-install test failed")
)

type (
	// Phase names one external invocation of a build.
	Phase string

	// PhaseError reports a fatal failure of a build or install phase.
	PhaseError struct {
		Phase    Phase
		ExitCode runtime.ExitCode
		Err      error
	}

	// TestFailedError reports a failing post-install test. The installation
	// it ran against is kept.
	TestFailedError struct {
		Program  string
		ExitCode runtime.ExitCode
		Err      error
	}
)

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed (exit code %d): %v", e.Phase, e.ExitCode, e.Err)
}

// Unwrap returns the underlying error.
func (e *PhaseError) Unwrap() error { return e.Err }

// Is matches ErrPhaseFailed.
func (e *PhaseError) Is(target error) bool { return target == ErrPhaseFailed }

// Error implements the error interface.
func (e *TestFailedError) Error() string {
	return fmt.Sprintf("post-install test %s failed: %v", e.Program, e.Err)
}

// Unwrap returns the underlying error.
func (e *TestFailedError) Unwrap() error { return e.Err }

// Is matches ErrTestFailed.
func (e *TestFailedError) Is(target error) bool { return target == ErrTestFailed }

// Wrap attributes err to phase. It returns nil for a nil err.
func Wrap(phase Phase, err error) error {
	if err == nil {
		return nil
	}
	return &PhaseError{Phase: phase, ExitCode: ExitCodeOf(err), Err: err}
}

// ExitCodeOf returns the process exit code carried by err, or 1 when err did
// not come from a process that ran.
func ExitCodeOf(err error) runtime.ExitCode {
	var status *runtime.ExitStatusError
	if errors.As(err, &status) {
		return status.Code
	}
	return 1
}

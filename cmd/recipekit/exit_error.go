// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/recipekit/recipekit/internal/builder"
	"github.com/recipekit/recipekit/internal/runtime"
)

const (
	// ExitFailure is returned for every failure except a failing post-install test.
	ExitFailure runtime.ExitCode = 1
	// ExitTestFailed is returned when the install succeeded but its tests failed.
	ExitTestFailed runtime.ExitCode = 3
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a command failure to the process exit code.
func exitCodeFor(err error) runtime.ExitCode {
	var exitErr *ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, builder.ErrTestFailed):
		return ExitTestFailed
	default:
		return ExitFailure
	}
}

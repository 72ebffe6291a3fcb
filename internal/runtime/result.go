// SPDX-License-Identifier: MPL-2.0

package runtime

import "time"

// Result is the outcome of one Invocation.
//
// Error is set only for infrastructure failures (the process could not be
// started, the context was canceled). A process that ran and exited non-zero
// has a nil Error and a non-zero ExitCode.
type Result struct {
	ExitCode ExitCode
	Error    error
	Duration time.Duration
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Success reports whether the process ran and exited zero.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// Err folds the result into a single error: the infrastructure error if any,
// otherwise an *ExitStatusError for a non-zero exit, otherwise nil.
func (r *Result) Err() error {
	if r.Error != nil {
		return r.Error
	}
	if !r.ExitCode.IsSuccess() {
		return &ExitStatusError{Code: r.ExitCode}
	}
	return nil
}

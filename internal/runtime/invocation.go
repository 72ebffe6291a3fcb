// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrNonZeroExit is wrapped by ExitStatusError.
var ErrNonZeroExit = errors.New("process exited with non-zero status")

type (
	// Invocation describes one external process.
	Invocation struct {
		// Path is the program to run, resolved through PATH when it has no separator.
		Path string
		// Args are the arguments after the program name.
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env holds KEY=VALUE pairs layered over the host environment.
		Env []string
		// Stdout and Stderr receive the process output. Nil discards it.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner executes invocations synchronously.
	Runner interface {
		Run(ctx context.Context, inv Invocation) *Result
	}

	// RunnerFunc adapts a function to the Runner interface.
	RunnerFunc func(ctx context.Context, inv Invocation) *Result

	// ExitStatusError reports a process that ran and exited non-zero.
	ExitStatusError struct {
		Code ExitCode
	}
)

// Run calls f(ctx, inv).
func (f RunnerFunc) Run(ctx context.Context, inv Invocation) *Result { return f(ctx, inv) }

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns ErrNonZeroExit.
func (e *ExitStatusError) Unwrap() error { return ErrNonZeroExit }

// Argv returns the full argument vector, program first.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Path}, inv.Args...)
}

// String renders the invocation as a bash command line. Words that need it
// are quoted; a working directory becomes a leading "cd DIR &&".
func (inv Invocation) String() string {
	var sb strings.Builder
	if inv.Dir != "" {
		sb.WriteString("cd " + quote(inv.Dir) + " && ")
	}
	for _, kv := range inv.Env {
		name, value, _ := strings.Cut(kv, "=")
		sb.WriteString(name + "=" + quote(value) + " ")
	}
	words := inv.Argv()
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(quote(w))
	}
	return sb.String()
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only strings with NUL bytes cannot be quoted; show them as Go literals.
		return fmt.Sprintf("%q", s)
	}
	return q
}

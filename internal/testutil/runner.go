// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/recipekit/recipekit/internal/runtime"
)

// RecordingRunner is a runtime.Runner that records every invocation and
// returns scripted results instead of starting processes.
type RecordingRunner struct {
	mu    sync.Mutex
	calls []runtime.Invocation
	rules []rule
}

type rule struct {
	match  func(runtime.Invocation) bool
	result runtime.Result
}

// NewRecordingRunner returns a runner where every invocation succeeds until
// told otherwise.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{}
}

// FailWhen makes invocations whose command line contains substr exit with code.
// Earlier rules take precedence.
func (r *RecordingRunner) FailWhen(substr string, code runtime.ExitCode) *RecordingRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{
		match:  func(inv runtime.Invocation) bool { return strings.Contains(inv.String(), substr) },
		result: runtime.Result{ExitCode: code},
	})
	return r
}

// Run records inv and returns the first matching scripted result, or success.
func (r *RecordingRunner) Run(ctx context.Context, inv runtime.Invocation) *runtime.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)
	if err := ctx.Err(); err != nil {
		return runtime.NewErrorResult(1, err)
	}
	for _, rl := range r.rules {
		if rl.match(inv) {
			res := rl.result
			return &res
		}
	}
	return runtime.NewSuccessResult()
}

// Calls returns a copy of the recorded invocations.
func (r *RecordingRunner) Calls() []runtime.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runtime.Invocation(nil), r.calls...)
}

// Commands returns the recorded invocations rendered as command lines.
func (r *RecordingRunner) Commands() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Argvs returns the recorded argument vectors, program first.
func (r *RecordingRunner) Argvs() [][]string {
	calls := r.Calls()
	out := make([][]string, len(calls))
	for i, c := range calls {
		out[i] = c.Argv()
	}
	return out
}

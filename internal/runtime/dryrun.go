// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
)

// DryRunner prints each invocation instead of running it. Every invocation
// reports success so the whole pipeline is shown.
type DryRunner struct {
	out io.Writer
}

// NewDryRunner creates a dry-run runner writing to out.
func NewDryRunner(out io.Writer) *DryRunner {
	return &DryRunner{out: out}
}

// Run writes the shell-quoted command line.
func (r *DryRunner) Run(ctx context.Context, inv Invocation) *Result {
	if err := ctx.Err(); err != nil {
		return NewErrorResult(1, err)
	}
	if _, err := fmt.Fprintln(r.out, inv.String()); err != nil {
		return NewErrorResult(1, fmt.Errorf("write dry-run output: %w", err))
	}
	return NewSuccessResult()
}

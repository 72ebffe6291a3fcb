// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
)

// NativeRunner executes invocations on the host.
type NativeRunner struct {
	logger *log.Logger
}

// NewNativeRunner creates a native runner. A nil logger uses log.Default().
func NewNativeRunner(logger *log.Logger) *NativeRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &NativeRunner{logger: logger}
}

// Run starts the process and waits for it. The command line is logged before
// the process starts and the exit code after it terminates.
func (r *NativeRunner) Run(ctx context.Context, inv Invocation) *Result {
	r.logger.Info("run", "cmd", inv.String())

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = MergeEnv(os.Environ(), inv.Env)
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := classify(ctx, err)
	result.Duration = elapsed

	if result.Error != nil {
		r.logger.Error("run failed", "cmd", inv.Path, "error", result.Error)
	} else {
		r.logger.Debug("exited", "cmd", inv.Path, "code", result.ExitCode, "elapsed", elapsed.Round(time.Millisecond))
	}
	return result
}

func classify(ctx context.Context, err error) *Result {
	if err == nil {
		return NewSuccessResult()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return NewErrorResult(1, fmt.Errorf("process interrupted: %w", ctxErr))
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := ExitCode(exitErr.ExitCode())
		if code < 0 {
			// Killed by a signal.
			code = 1
		}
		return NewExitCodeResult(code)
	}
	return NewErrorResult(ExitCodeNotStarted, fmt.Errorf("failed to start process: %w", err))
}

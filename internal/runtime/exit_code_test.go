// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestResult_Err(t *testing.T) {
	t.Parallel()

	if err := NewSuccessResult().Err(); err != nil {
		t.Errorf("success Err() = %v, want nil", err)
	}

	err := NewExitCodeResult(2).Err()
	var status *ExitStatusError
	if !errors.As(err, &status) || status.Code != 2 {
		t.Errorf("exit 2 Err() = %v, want *ExitStatusError{2}", err)
	}
	if !errors.Is(err, ErrNonZeroExit) {
		t.Error("ExitStatusError should wrap ErrNonZeroExit")
	}

	infra := errors.New("no such file")
	if got := NewErrorResult(ExitCodeNotStarted, infra).Err(); !errors.Is(got, infra) {
		t.Errorf("error Err() = %v, want %v", got, infra)
	}
	if NewErrorResult(0, infra).Success() {
		t.Error("a result with an error is not a success")
	}
}

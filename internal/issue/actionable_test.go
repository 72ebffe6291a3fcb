// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 2")
	err := NewErrorContext().
		WithOperation("build package").
		WithResource("py-pennylane-lightning@0.28.2").
		WithSuggestion("Re-run with --verbose").
		WithIssue(NativeBuildFailedId).
		Wrap(cause).
		BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}
	if ae.IssueID != NativeBuildFailedId {
		t.Errorf("IssueID = %d, want %d", ae.IssueID, NativeBuildFailedId)
	}
	if !errors.Is(err, cause) {
		t.Error("error should unwrap to its cause")
	}

	want := "failed to build package: py-pennylane-lightning@0.28.2: exit status 2"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without an operation should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("no such file")
	ae := &ActionableError{
		Operation:   "load recipe",
		Resource:    "recipe.cue",
		Suggestions: []string{"Check the path"},
		Cause:       fmt.Errorf("read recipe: %w", inner),
	}

	plain := ae.Format(false)
	if !strings.Contains(plain, "  • Check the path") {
		t.Errorf("Format(false) missing suggestion:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := ae.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. no such file") {
		t.Errorf("Format(true) missing error chain:\n%s", verbose)
	}
}

func TestActionableError_FormatJoined(t *testing.T) {
	t.Parallel()

	ae := &ActionableError{
		Operation: "check dependencies",
		IssueID:   DependenciesNotSatisfiedId,
		Cause:     errors.Join(errors.New("kokkos: no prefix"), fmt.Errorf("kokkos-kernels: %w", errors.New("no prefix"))),
	}

	plain := ae.Format(false)
	if !strings.Contains(plain, "--verbose") {
		t.Errorf("Format(false) should point at --verbose for a linked issue:\n%s", plain)
	}

	verbose := ae.Format(true)
	for _, want := range []string{"    2. kokkos: no prefix", "    3. kokkos-kernels: no prefix", "    4. no prefix"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestActionableError_NoSuggestions(t *testing.T) {
	t.Parallel()

	ae := NewErrorContext().WithOperation("install package").Wrap(errors.New("boom")).Build()
	if ae.Error() != "failed to install package: boom" {
		t.Errorf("Error() = %q", ae.Error())
	}
	if ae.HasSuggestions() {
		t.Error("HasSuggestions() should be false")
	}
}

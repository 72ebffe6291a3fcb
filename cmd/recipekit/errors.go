// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/builder"
	"github.com/recipekit/recipekit/internal/config"
	"github.com/recipekit/recipekit/internal/issue"
	"github.com/recipekit/recipekit/internal/plan"
	"github.com/recipekit/recipekit/internal/stage"
	"github.com/recipekit/recipekit/pkg/recipe"
)

// classifyError maps a command failure to its issue page. An issue linked
// by an ActionableError wins.
func classifyError(err error) (issue.Id, bool) {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		return ae.IssueID, true
	}

	var phaseErr *builder.PhaseError
	switch {
	case errors.Is(err, builder.ErrTestFailed):
		return issue.PostInstallTestFailedId, true
	case errors.As(err, &phaseErr):
		switch phaseErr.Phase {
		case builder.PhaseConfigure, builder.PhaseNativeBuild:
			return issue.NativeBuildFailedId, true
		case builder.PhaseExtensionBuild:
			return issue.ExtensionBuildFailedId, true
		default:
			return issue.InstallFailedId, true
		}
	case errors.Is(err, stage.ErrStageLocked):
		return issue.StageLockedId, true
	case errors.Is(err, stage.ErrPatchFailed):
		return issue.PatchFailedId, true
	case errors.Is(err, stage.ErrFetchFailed),
		errors.Is(err, stage.ErrChecksumMismatch),
		errors.Is(err, stage.ErrUnsafeArchive):
		return issue.FetchFailedId, true
	case errors.Is(err, recipe.ErrUnsatisfied):
		return issue.DependenciesNotSatisfiedId, true
	case errors.Is(err, recipe.ErrUnknownVariant),
		errors.Is(err, recipe.ErrInvalidVariantValue),
		errors.Is(err, recipe.ErrUnknownVersion),
		errors.Is(err, recipe.ErrInvalidSpec):
		return issue.InvalidSelectionId, true
	case errors.Is(err, plan.ErrInvalidPlan):
		return issue.PlanParseErrorId, true
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId, true
	}
	return 0, false
}

// fail renders err on the command's stderr and returns the ExitError that
// carries its exit code. In verbose mode the matching issue page follows.
func fail(cmd *cobra.Command, app *App, err error) error {
	if err == nil {
		return nil
	}
	verbose := app.flags.verbose
	w := cmd.ErrOrStderr()

	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	if id, ok := classifyError(err); ok && verbose {
		if rendered, rerr := issue.Get(id).Render("dark"); rerr == nil {
			fmt.Fprint(w, rendered)
		}
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

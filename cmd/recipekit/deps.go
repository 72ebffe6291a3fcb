// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/issue"
	"github.com/recipekit/recipekit/internal/lightning"
)

func newDepsCommand(app *App) *cobra.Command {
	var depFlags []string

	cmd := &cobra.Command{
		Use:   "deps [spec...]",
		Short: "List and check the dependencies of a spec",
		Long: `List the dependency edges active for a spec with their constraints and
types, and check the provided installations against them.

Dependencies are provided in the configuration file or with --dep.
Dependencies without a provided prefix are expected on PATH, except the
ones whose prefix the build passes to CMake.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, app, runDeps(cmd, app, args, depFlags))
		},
	}

	addDependencyFlag(cmd, &depFlags)
	return cmd
}

func runDeps(cmd *cobra.Command, app *App, tokens, depFlags []string) error {
	overrides, err := parseDependencyFlags(depFlags)
	if err != nil {
		return err
	}
	s, err := app.session(cmd.Context())
	if err != nil {
		return err
	}
	sel, err := s.selections(tokens)
	if err != nil {
		return err
	}

	statuses := lightning.CheckDependencies(s.recipe, sel, s.dependencies(overrides))
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, TitleStyle.Render("Dependencies of "+sel.String()))
	fmt.Fprintln(w)

	var errs []error
	for _, st := range statuses {
		writeDependencyStatus(w, st)
		if st.Err != nil {
			errs = append(errs, st.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	return issue.NewErrorContext().
		WithOperation("check dependencies").
		WithResource(sel.String()).
		WithSuggestion("Provide the missing installations with --dep name=prefix[@version] or in the config file").
		WithIssue(issue.DependenciesNotSatisfiedId).
		Wrap(errors.Join(errs...)).
		BuildError()
}

func writeDependencyStatus(w io.Writer, st lightning.DependencyStatus) {
	d := st.Dependency
	label := CmdStyle.Render(d.Name)
	if d.Constraint != "" {
		label += VerboseStyle.Render("@" + d.Constraint)
	}
	types := SubtitleStyle.Render("(" + d.TypeString() + ")")

	switch {
	case st.Err != nil:
		fmt.Fprintf(w, "  %s %s %s %s\n", errorIcon, label, types, ErrorStyle.Render(st.Err.Error()))
	case st.Found:
		provided := st.Provided.Prefix
		if st.Provided.Version != "" {
			provided += " @" + st.Provided.Version
		}
		fmt.Fprintf(w, "  %s %s %s %s\n", successIcon, label, types, VerboseStyle.Render(provided))
	default:
		fmt.Fprintf(w, "  %s %s %s %s\n", skipIcon, label, types, VerboseStyle.Render("from PATH"))
	}
}

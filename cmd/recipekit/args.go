// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/lightning"
)

func newArgsCommand(app *App) *cobra.Command {
	var depFlags []string

	cmd := &cobra.Command{
		Use:   "args [spec...]",
		Short: "Print the CMake arguments for a spec",
		Long: `Print the CMake arguments derived from a spec, one per line, followed by
the define string handed to the Python extension build.`,
		Example: `  recipekit args
  recipekit args ~kokkos build_type=Debug
  recipekit args +cpptests --dep kokkos=/opt/kokkos --dep kokkos-kernels=/opt/kk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, app, runArgs(cmd, app, args, depFlags))
		},
	}

	addDependencyFlag(cmd, &depFlags)
	return cmd
}

func runArgs(cmd *cobra.Command, app *App, tokens, depFlags []string) error {
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
	opts, err := lightning.OptionsFrom(sel)
	if err != nil {
		return err
	}

	deps := s.dependencies(overrides)
	for _, st := range lightning.CheckDependencies(s.recipe, sel, deps) {
		if st.Err != nil {
			s.logger.Warn("dependency not satisfied", "dependency", st.Dependency.Name, "err", st.Err)
		}
	}

	w := cmd.OutOrStdout()
	for _, arg := range lightning.DeriveBuildArguments(opts, deps) {
		fmt.Fprintln(w, arg)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("extension defines:"), lightning.ExtensionDefines(opts, deps))
	return nil
}

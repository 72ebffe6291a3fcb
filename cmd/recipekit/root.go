// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for recipekit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recipekit",
		Short: "Build and install packages from declarative recipes",
		Long: TitleStyle.Render("recipekit") + SubtitleStyle.Render(" - Build and install packages from declarative recipes") + `

recipekit evaluates a package recipe (versions, variants, dependencies and
patches, declared in CUE) against a spec string, derives the build system
arguments and drives the configure, build, install and test phases.

The built-in recipe is py-pennylane-lightning, a CMake-built C++ simulator
with a Python extension.

` + SubtitleStyle.Render("Examples:") + `
  recipekit info                          Describe the recipe
  recipekit args ~kokkos build_type=Debug Show the derived CMake arguments
  recipekit deps +kokkos                  Check dependency prefixes
  recipekit build --prefix /opt/pl        Fetch, build and install
  recipekit plan builds.hcl               Run every build in a plan file`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/recipekit/config.cue)")
	flags.StringVar(&app.flags.recipePath, "recipe", "", "recipe file to use instead of the built-in one")

	rootCmd.AddCommand(
		newInfoCommand(app),
		newArgsCommand(app),
		newDepsCommand(app),
		newBuildCommand(app),
		newPlanCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

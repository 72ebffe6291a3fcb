// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/builder"
	"github.com/recipekit/recipekit/internal/issue"
	"github.com/recipekit/recipekit/internal/plan"
)

func newPlanCommand(app *App) *cobra.Command {
	var (
		runTests bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "plan <file.hcl>",
		Short: "Run every build of an HCL plan file",
		Long: `Run every build block of an HCL plan file, each one after the builds its
'after' attribute names.

A build whose post-install tests fail is reported and the plan goes on;
any other failure stops the plan. The environment is available in
expressions as env, e.g. "${env.HOME}/opt".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var override *bool
			if cmd.Flags().Changed("run-tests") {
				override = &runTests
			}
			return fail(cmd, app, runPlan(cmd, app, args[0], override, dryRun))
		},
	}

	cmd.Flags().BoolVar(&runTests, "run-tests", false, "run post-install tests for builds that do not set run_tests")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands without running them")
	return cmd
}

func runPlan(cmd *cobra.Command, app *App, path string, runTests *bool, dryRun bool) error {
	p, err := plan.Parse(path, environ())
	if err != nil {
		return planError(path, err)
	}
	builds, err := p.Order()
	if err != nil {
		return planError(path, err)
	}

	s, err := app.session(cmd.Context())
	if err != nil {
		return err
	}
	br := newBuildRunner(app, s, dryRun, cmd.OutOrStdout(), cmd.ErrOrStderr())
	defer br.flush()

	w := cmd.OutOrStdout()
	var testFailures []error
	for i, b := range builds {
		fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(fmt.Sprintf("[%d/%d]", i+1, len(builds))), CmdStyle.Render(b.Name))

		req := requestFromPlan(b)
		if req.RunTests == nil {
			req.RunTests = runTests
		}
		err := br.run(cmd.Context(), req)
		switch {
		case err == nil:
		case errors.Is(err, builder.ErrTestFailed):
			testFailures = append(testFailures, fmt.Errorf("build %q: %w", b.Name, err))
		default:
			return fmt.Errorf("build %q: %w", b.Name, err)
		}
	}
	return errors.Join(testFailures...)
}

func requestFromPlan(b plan.Build) buildRequest {
	req := buildRequest{
		Name:     b.Name,
		Spec:     b.Spec,
		Prefix:   b.Prefix,
		Source:   b.Source,
		RunTests: b.RunTests,
		Deps:     b.Dependencies,
	}
	if b.Fetch != nil {
		req.Fetch = *b.Fetch
	}
	return req
}

func planError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load plan").
		WithResource(path).
		WithIssue(issue.PlanParseErrorId).
		Wrap(err).
		BuildError()
}

// environ returns the process environment as a map.
func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

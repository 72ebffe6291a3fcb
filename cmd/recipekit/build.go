// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/builder"
	"github.com/recipekit/recipekit/internal/issue"
	"github.com/recipekit/recipekit/internal/lightning"
	"github.com/recipekit/recipekit/internal/metrics"
	"github.com/recipekit/recipekit/internal/runtime"
	"github.com/recipekit/recipekit/internal/stage"
	"github.com/recipekit/recipekit/pkg/recipe"
)

type (
	// buildRequest is one configuration to build and install.
	buildRequest struct {
		// Name labels plan builds in logs. Empty for `recipekit build`.
		Name   string
		Spec   []string
		Prefix string
		// Source is an existing source tree. Empty means fetch into the stage.
		Source string
		Fetch  bool
		// RunTests overrides the run_tests config key when set.
		RunTests *bool
		Deps     lightning.Prefixes
	}

	// buildRunner runs build requests against one session.
	buildRunner struct {
		s        *session
		runner   runtime.Runner
		dryRun   bool
		recorder *metrics.Recorder
		stdout   io.Writer
		stderr   io.Writer
	}
)

func newBuildCommand(app *App) *cobra.Command {
	var (
		req      buildRequest
		depFlags []string
		runTests bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "build [spec...]",
		Short: "Build and install a spec",
		Long: `Build and install a spec into a prefix.

The source is fetched into the stage directory unless --source names an
existing tree. The native library is configured and compiled with CMake, the
Python extension is built in place, pip installs the package, CMake installs
the native library, and with --run-tests the installed C++ test runner runs.

A failing post-install test keeps the installation and exits with status 3.`,
		Example: `  recipekit build --prefix /opt/pl
  recipekit build ~kokkos build_type=Debug --prefix ./install --source ./pennylane-lightning
  recipekit build +kokkos --dep kokkos=/opt/kokkos@3.7.00 --dep kokkos-kernels=/opt/kk@3.7.00 --prefix /opt/pl
  recipekit build --dry-run --prefix /opt/pl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Spec = args
			if cmd.Flags().Changed("run-tests") {
				req.RunTests = &runTests
			}
			return fail(cmd, app, runBuild(cmd, app, req, depFlags, dryRun))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Prefix, "prefix", "", "install prefix (required)")
	flags.StringVar(&req.Source, "source", "", "existing source tree to build instead of fetching")
	flags.BoolVar(&req.Fetch, "fetch", false, "fetch the source into the stage directory (default when --source is not given)")
	flags.BoolVar(&runTests, "run-tests", false, "run the installed C++ test runner (default from config)")
	flags.BoolVar(&dryRun, "dry-run", false, "print the commands without running them")
	addDependencyFlag(cmd, &depFlags)
	_ = cmd.MarkFlagRequired("prefix")
	cmd.MarkFlagsMutuallyExclusive("source", "fetch")

	return cmd
}

func runBuild(cmd *cobra.Command, app *App, req buildRequest, depFlags []string, dryRun bool) error {
	deps, err := parseDependencyFlags(depFlags)
	if err != nil {
		return err
	}
	req.Deps = deps

	s, err := app.session(cmd.Context())
	if err != nil {
		return err
	}
	br := newBuildRunner(app, s, dryRun, cmd.OutOrStdout(), cmd.ErrOrStderr())
	err = br.run(cmd.Context(), req)
	br.flush()
	return err
}

func newBuildRunner(app *App, s *session, dryRun bool, stdout, stderr io.Writer) *buildRunner {
	br := &buildRunner{s: s, dryRun: dryRun, stdout: stdout, stderr: stderr}
	switch {
	case dryRun:
		br.runner = runtime.NewDryRunner(stdout)
	case app.runner != nil:
		br.runner = app.runner
	default:
		br.runner = runtime.NewNativeRunner(s.logger)
	}
	if s.cfg.MetricsFile != "" && !dryRun {
		br.recorder = metrics.NewRecorder(s.recipe.Name)
	}
	return br
}

// run stages the source when needed and runs the build pipeline.
func (br *buildRunner) run(ctx context.Context, req buildRequest) error {
	sel, err := br.s.selections(req.Spec)
	if err != nil {
		return err
	}
	logger := br.s.logger.With("package", sel.Package, "version", sel.Version)
	if req.Name != "" {
		logger = logger.With("build", req.Name)
	}

	if req.Prefix == "" {
		return fmt.Errorf("%w: install prefix is required", lightning.ErrInvalidConfig)
	}
	prefix, err := filepath.Abs(req.Prefix)
	if err != nil {
		return err
	}

	source := req.Source
	switch {
	case source != "" && req.Fetch:
		return fmt.Errorf("%w: a source tree and fetching are mutually exclusive", lightning.ErrInvalidConfig)
	case source == "":
		dir, release, err := br.prepare(ctx, sel, logger)
		if err != nil {
			return err
		}
		defer release()
		source = dir
	}
	if source, err = filepath.Abs(source); err != nil {
		return err
	}

	cfg := br.s.cfg
	deps := br.s.dependencies(req.Deps)
	runTests := cfg.RunTests
	if req.RunTests != nil {
		runTests = *req.RunTests
	}
	python := cfg.Python
	if deps.Prefix(br.s.recipe.Extends) != "" {
		// The provided interpreter takes precedence.
		python = ""
	}

	var obs builder.Observer = builder.LogObserver{Logger: logger}
	if br.recorder != nil {
		obs = builder.Observers{obs, br.recorder}
	}

	b, err := lightning.New(lightning.Config{
		Recipe:       br.s.recipe,
		Selections:   sel,
		Dependencies: deps,
		SourceDir:    source,
		Prefix:       prefix,
		BuildDir:     cfg.BuildDir,
		CMake:        cfg.CMake,
		Generator:    string(cfg.Generator),
		Python:       python,
		Jobs:         int(cfg.Jobs),
		RunTests:     runTests,
		DryRun:       br.dryRun,
		Runner:       br.runner,
		Observer:     obs,
		Logger:       logger,
		Stdout:       br.stdout,
		Stderr:       br.stderr,
	})
	if err != nil {
		return err
	}

	err = b.Run(ctx)
	switch {
	case err == nil:
		if !br.dryRun {
			fmt.Fprintf(br.stdout, "%s Installed %s into %s\n", successIcon, CmdStyle.Render(sel.String()), prefix)
		}
	case errors.Is(err, builder.ErrTestFailed):
		fmt.Fprintf(br.stdout, "%s Installed %s into %s, but its post-install tests failed\n", warningIcon, CmdStyle.Render(sel.String()), prefix)
	}
	return err
}

// prepare locks, fetches and patches the stage of sel. In dry-run mode it
// only resolves the stage directory.
func (br *buildRunner) prepare(ctx context.Context, sel *recipe.Selections, logger *log.Logger) (string, func(), error) {
	root, err := br.s.cfg.ResolveStageRoot()
	if err != nil {
		return "", nil, err
	}
	var patchDir string
	if br.s.recipe.FilePath == "" {
		if patchDir, err = br.s.cfg.ResolvePatchDir(); err != nil {
			return "", nil, err
		}
	}

	st, err := stage.New(stage.Config{
		Root:       root,
		Recipe:     br.s.recipe,
		Selections: sel,
		PatchDir:   patchDir,
		Runner:     br.runner,
		Logger:     logger,
		Stdout:     br.stdout,
		Stderr:     br.stderr,
	})
	if err != nil {
		return "", nil, err
	}
	if br.dryRun {
		logger.Info("dry run: source not staged", "dir", st.SourceDir())
		return st.SourceDir(), func() {}, nil
	}

	lock, err := st.Lock()
	if err != nil {
		return "", nil, issue.NewErrorContext().
			WithOperation("lock stage").
			WithResource(st.Dir()).
			WithSuggestion("Wait for the other build of this version to finish").
			WithIssue(issue.StageLockedId).
			Wrap(err).
			BuildError()
	}
	release := func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release stage lock", "error", err)
		}
	}

	if err := st.Prepare(ctx); err != nil {
		release()
		return "", nil, err
	}
	return st.SourceDir(), release, nil
}

// flush writes the recorded metrics when a metrics file is configured.
func (br *buildRunner) flush() {
	if br.recorder == nil {
		return
	}
	path := br.s.cfg.MetricsFile
	if err := br.recorder.WriteTextfile(path); err != nil {
		br.s.logger.Warn("failed to write metrics", "path", path, "error", err)
		return
	}
	br.s.logger.Debug("wrote metrics", "path", path)
}

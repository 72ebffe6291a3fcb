// SPDX-License-Identifier: MPL-2.0

package lightning

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/recipekit/recipekit/internal/builder"
	"github.com/recipekit/recipekit/internal/cmake"
	"github.com/recipekit/recipekit/internal/pyext"
	"github.com/recipekit/recipekit/internal/runtime"
	"github.com/recipekit/recipekit/pkg/recipe"
)

// Pipeline steps.
const (
	StepBuild   builder.Step = "build"
	StepInstall builder.Step = "install"
	StepReceipt builder.Step = "receipt"
	StepTest    builder.Step = "test"
)

// ErrInvalidConfig is returned by New for an incomplete Config.
var ErrInvalidConfig = errors.New("invalid build configuration")

type (
	// Config is everything one build needs. It is read once by New.
	Config struct {
		Recipe       *recipe.Recipe
		Selections   *recipe.Selections
		Dependencies Prefixes

		// SourceDir is the staged source tree.
		SourceDir string
		// Prefix is the install destination.
		Prefix string
		// BuildDir is the CMake build directory, relative to SourceDir or absolute.
		BuildDir string

		CMake     string
		Generator string
		// Python is the interpreter for setup.py and pip. When empty, the
		// provided python dependency's interpreter is used, then python3.
		Python string
		Jobs   int

		// RunTests enables the post-install test runner.
		RunTests bool
		// DryRun skips filesystem side effects. Pair it with a dry-run Runner.
		DryRun bool

		Runner   runtime.Runner
		Observer builder.Observer
		Logger   *log.Logger
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// Builder builds, installs and optionally tests one configuration.
	// A Builder is single-use and not safe for concurrent use.
	Builder struct {
		cfg     Config
		opts    Options
		native  *cmake.Driver
		ext     *pyext.Extension
		machine *builder.Machine
		logger  *log.Logger
	}
)

// New validates cfg and returns a Builder in the Configured state.
func New(cfg Config) (*Builder, error) {
	switch {
	case cfg.Recipe == nil || cfg.Selections == nil:
		return nil, fmt.Errorf("%w: recipe and selections are required", ErrInvalidConfig)
	case cfg.SourceDir == "":
		return nil, fmt.Errorf("%w: source directory is required", ErrInvalidConfig)
	case cfg.Prefix == "":
		return nil, fmt.Errorf("%w: install prefix is required", ErrInvalidConfig)
	case cfg.Runner == nil:
		return nil, fmt.Errorf("%w: runner is required", ErrInvalidConfig)
	}

	opts, err := OptionsFrom(cfg.Selections)
	if err != nil {
		return nil, err
	}
	if err := VerifyDependencies(cfg.Recipe, cfg.Selections, cfg.Dependencies); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = builder.LogObserver{Logger: logger}
	}

	python := cfg.Python
	if python == "" {
		if p := cfg.Dependencies.Prefix(cfg.Recipe.Extends); p != "" {
			python = pyext.InterpreterFor(p)
		}
	}

	return &Builder{
		cfg:  cfg,
		opts: opts,
		native: &cmake.Driver{
			Runner:         cfg.Runner,
			CMake:          cfg.CMake,
			Generator:      cfg.Generator,
			SourceDir:      cfg.SourceDir,
			BuildDir:       cfg.BuildDir,
			Prefix:         cfg.Prefix,
			Jobs:           cfg.Jobs,
			CreateBuildDir: !cfg.DryRun,
			Stdout:         cfg.Stdout,
			Stderr:         cfg.Stderr,
		},
		ext: &pyext.Extension{
			Runner:    cfg.Runner,
			Python:    python,
			SourceDir: cfg.SourceDir,
			Stdout:    cfg.Stdout,
			Stderr:    cfg.Stderr,
		},
		machine: builder.NewMachine(),
		logger:  logger,
	}, nil
}

// Options returns the typed options the build was configured with.
func (b *Builder) Options() Options { return b.opts }

// State returns the current build state.
func (b *Builder) State() builder.State { return b.machine.State() }

// Arguments returns the CMake arguments for this configuration.
func (b *Builder) Arguments() []cmake.Argument {
	return DeriveBuildArguments(b.opts, b.cfg.Dependencies)
}

// ExtensionDefines returns the filtered define string passed to build_ext.
func (b *Builder) ExtensionDefines() string {
	return ExtensionDefines(b.opts, b.cfg.Dependencies)
}

// TestRunnerPath returns <prefix>/bin/pennylane_lightning_test_runner.
func (b *Builder) TestRunnerPath() string {
	return filepath.Join(b.cfg.Prefix, "bin", TestRunnerName)
}

// Build configures and compiles the native library, then builds the Python
// extension in place with the filtered arguments.
func (b *Builder) Build(ctx context.Context) error {
	if err := b.machine.Begin("build", builder.StateConfigured); err != nil {
		return err
	}
	return b.machine.Finish(builder.StateBuilt, b.build(ctx))
}

func (b *Builder) build(ctx context.Context) error {
	obs := b.cfg.Observer
	if err := builder.Track(obs, builder.PhaseConfigure, func() error {
		return b.native.Configure(ctx, b.Arguments())
	}); err != nil {
		return err
	}
	if err := builder.Track(obs, builder.PhaseNativeBuild, func() error {
		return b.native.Build(ctx)
	}); err != nil {
		return err
	}
	return builder.Track(obs, builder.PhaseExtensionBuild, func() error {
		return b.ext.BuildExt(ctx, b.ExtensionDefines())
	})
}

// Install runs the pip packaging step, then the native install.
func (b *Builder) Install(ctx context.Context) error {
	if err := b.machine.Begin("install", builder.StateBuilt); err != nil {
		return err
	}
	return b.machine.Finish(builder.StateInstalled, b.install(ctx))
}

func (b *Builder) install(ctx context.Context) error {
	obs := b.cfg.Observer
	if err := builder.Track(obs, builder.PhasePackage, func() error {
		return b.ext.PipInstall(ctx, b.cfg.Prefix)
	}); err != nil {
		return err
	}
	return builder.Track(obs, builder.PhaseNativeInstall, func() error {
		return b.native.Install(ctx)
	})
}

// TestLightningBuild runs the installed C++ test runner, without arguments,
// in the source directory. It requires a successful install and does nothing
// unless RunTests is set. A failing runner yields a *builder.TestFailedError;
// the installation is kept either way.
func (b *Builder) TestLightningBuild(ctx context.Context) error {
	if err := b.machine.Begin("test", builder.StateInstalled); err != nil {
		return err
	}
	if !b.cfg.RunTests {
		b.logger.Debug("post-install tests disabled")
		return nil
	}

	err := b.runTests(ctx)
	// The install stands regardless of the test outcome.
	b.machine.Advance(builder.StateTested)
	return err
}

func (b *Builder) runTests(ctx context.Context) error {
	obs := b.cfg.Observer
	obs.PhaseStarted(builder.PhaseTest)
	start := time.Now()
	err := b.execTests(ctx, b.TestRunnerPath())
	obs.PhaseFinished(builder.PhaseTest, time.Since(start), err)
	return err
}

func (b *Builder) execTests(ctx context.Context, program string) error {
	if !b.cfg.DryRun {
		if _, err := os.Stat(program); err != nil {
			return &builder.TestFailedError{Program: program, ExitCode: runtime.ExitCodeNotStarted, Err: err}
		}
	}
	res := b.cfg.Runner.Run(ctx, runtime.Invocation{
		Path:   program,
		Dir:    b.cfg.SourceDir,
		Stdout: b.cfg.Stdout,
		Stderr: b.cfg.Stderr,
	})
	if err := res.Err(); err != nil {
		return &builder.TestFailedError{Program: program, ExitCode: builder.ExitCodeOf(err), Err: err}
	}
	return nil
}

// Pipeline returns build → install → hooks → test as a pipeline. Hooks run
// after install in name order; the test step exists only when RunTests is set.
func (b *Builder) Pipeline(hooks map[builder.Step]builder.StepFunc) *builder.Pipeline {
	p := builder.NewPipeline()
	p.Add(StepBuild, b.Build)
	p.Add(StepInstall, b.Install, StepBuild)
	var afterInstall []builder.Step
	for _, name := range sortedSteps(hooks) {
		p.Add(name, hooks[name], StepInstall)
		afterInstall = append(afterInstall, name)
	}
	if b.cfg.RunTests {
		p.Add(StepTest, b.TestLightningBuild, append([]builder.Step{StepInstall}, afterInstall...)...)
	}
	return p
}

// Run executes the whole pipeline with the install receipt as a hook. A
// receipt that cannot be written is logged; the install and its tests go on.
func (b *Builder) Run(ctx context.Context) error {
	hooks := map[builder.Step]builder.StepFunc{}
	if !b.cfg.DryRun {
		hooks[StepReceipt] = func(context.Context) error {
			path, err := WriteReceipt(b.Receipt())
			if err != nil {
				b.logger.Warn("install receipt not written", "err", err)
				return nil
			}
			b.logger.Info("wrote install receipt", "path", path)
			return nil
		}
	}
	return b.Pipeline(hooks).Run(ctx)
}

func sortedSteps(hooks map[builder.Step]builder.StepFunc) []builder.Step {
	return slices.Sorted(maps.Keys(hooks))
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"

	"github.com/charmbracelet/log"

	"github.com/recipekit/recipekit/internal/config"
	"github.com/recipekit/recipekit/internal/issue"
	"github.com/recipekit/recipekit/internal/lightning"
	"github.com/recipekit/recipekit/internal/runtime"
	"github.com/recipekit/recipekit/pkg/recipe"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every command constructor receives the App.
	App struct {
		Config ConfigProvider
		runner runtime.Runner
		stdout io.Writer
		stderr io.Writer
		flags  rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Runner executes build processes. Nil runs them on the host.
		Runner runtime.Runner
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	rootFlags struct {
		verbose    bool
		configPath string
		recipePath string
	}

	// session is the per-invocation state shared by the recipe commands.
	session struct {
		cfg     *config.Config
		cfgPath string
		recipe  *recipe.Recipe
		logger  *log.Logger
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		runner: deps.Runner,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

// loadConfig loads configuration honoring --config.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
}

// session loads configuration and the recipe and sets up logging.
func (a *App) session(ctx context.Context) (*session, error) {
	cfg, cfgPath, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		cfgPath: cfgPath,
		verbose: a.flags.verbose || cfg.UI.Verbose,
	}
	s.logger = newLogger(a.stderr, cfg.Log.Level, s.verbose)

	if s.recipe, err = a.loadRecipe(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadRecipe returns the --recipe file, or the built-in recipe.
func (a *App) loadRecipe() (*recipe.Recipe, error) {
	path := a.flags.recipePath
	if path == "" {
		r, err := lightning.Recipe()
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load built-in recipe").
				WithIssue(issue.RecipeParseErrorId).
				Wrap(err).
				BuildError()
		}
		return r, nil
	}

	r, err := recipe.Parse(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, issue.NewErrorContext().
				WithOperation("load recipe").
				WithResource(path).
				WithSuggestion("Check the --recipe path, or omit it to use the built-in recipe").
				WithIssue(issue.RecipeNotFoundId).
				Wrap(err).
				BuildError()
		}
		return nil, issue.NewErrorContext().
			WithOperation("parse recipe").
			WithResource(path).
			WithIssue(issue.RecipeParseErrorId).
			Wrap(err).
			BuildError()
	}
	return r, nil
}

// selections resolves spec-string tokens against the session recipe.
func (s *session) selections(tokens []string) (*recipe.Selections, error) {
	req, err := recipe.ParseSpec(tokens...)
	if err == nil {
		var sel *recipe.Selections
		if sel, err = recipe.Resolve(s.recipe, req); err == nil {
			return sel, nil
		}
	}
	return nil, issue.NewErrorContext().
		WithOperation("resolve spec").
		WithResource(s.recipe.Name).
		WithSuggestion("Run 'recipekit info' to list the versions and variants").
		WithIssue(issue.InvalidSelectionId).
		Wrap(err).
		BuildError()
}

// dependencies returns the configured dependency prefixes overlaid with
// overrides.
func (s *session) dependencies(overrides lightning.Prefixes) lightning.Prefixes {
	deps := make(lightning.Prefixes, len(s.cfg.Dependencies)+len(overrides))
	maps.Copy(deps, s.cfg.Dependencies)
	maps.Copy(deps, overrides)
	return deps
}

// newLogger returns the stderr logger for the configured level. Verbose
// forces debug.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	lvl := log.InfoLevel
	if parsed, err := log.ParseLevel(string(level)); err == nil {
		lvl = parsed
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  lvl,
	})
}

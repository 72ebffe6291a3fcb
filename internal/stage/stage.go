// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/recipekit/recipekit/internal/runtime"
	"github.com/recipekit/recipekit/pkg/recipe"
)

const (
	// SourceDirName is the extracted or cloned tree inside a stage directory.
	SourceDirName = "src"
	// LockFileName is the lock file inside a stage directory.
	LockFileName = ".lock"
)

// ErrInvalidConfig is returned by New for an incomplete Config.
var ErrInvalidConfig = errors.New("invalid stage configuration")

type (
	// Config describes where and what to stage.
	Config struct {
		// Root holds one stage directory per package version.
		Root       string
		Recipe     *recipe.Recipe
		Selections *recipe.Selections
		// PatchDir holds the recipe's patch files. Empty means the directory
		// of the recipe file.
		PatchDir string

		// Runner applies patches.
		Runner     runtime.Runner
		HTTPClient *http.Client
		Logger     *log.Logger
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// Stage is the working area of one package version.
	Stage struct {
		cfg     Config
		version recipe.Version
		logger  *log.Logger
	}
)

// New returns the stage of the selected version. It does not touch the
// filesystem.
func New(cfg Config) (*Stage, error) {
	switch {
	case cfg.Root == "":
		return nil, fmt.Errorf("%w: stage root is required", ErrInvalidConfig)
	case cfg.Recipe == nil || cfg.Selections == nil:
		return nil, fmt.Errorf("%w: recipe and selections are required", ErrInvalidConfig)
	case cfg.Runner == nil:
		return nil, fmt.Errorf("%w: runner is required", ErrInvalidConfig)
	}

	v, ok := cfg.Recipe.Version(cfg.Selections.Version)
	if !ok {
		return nil, &recipe.UnknownVersionError{Package: cfg.Recipe.Name, Version: cfg.Selections.Version}
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.PatchDir == "" && cfg.Recipe.FilePath != "" {
		cfg.PatchDir = filepath.Dir(cfg.Recipe.FilePath)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Stage{cfg: cfg, version: v, logger: logger.With("package", cfg.Recipe.Name, "version", v.ID)}, nil
}

// Dir is <root>/<package>-<version>.
func (s *Stage) Dir() string {
	return filepath.Join(s.cfg.Root, s.cfg.Recipe.Name+"-"+s.version.ID)
}

// SourceDir is the staged source tree.
func (s *Stage) SourceDir() string {
	return filepath.Join(s.Dir(), SourceDirName)
}

// Version is the staged version entry.
func (s *Stage) Version() recipe.Version { return s.version }

// Lock creates the stage directory and takes its lock. The caller holds the
// lock for the whole build and releases it afterwards.
func (s *Stage) Lock() (*Lock, error) {
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("create stage directory: %w", err)
	}
	return AcquireLock(filepath.Join(s.Dir(), LockFileName))
}

// Prepare fetches the source and applies every applicable patch.
func (s *Stage) Prepare(ctx context.Context) error {
	if err := s.Fetch(ctx); err != nil {
		return err
	}
	return s.Patch(ctx)
}

// Fetch populates SourceDir: a git checkout for branch versions, otherwise
// the verified tarball extracted afresh.
func (s *Stage) Fetch(ctx context.Context) error {
	if s.version.Deprecated {
		s.logger.Warn("staging a deprecated version")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		return fmt.Errorf("create stage directory: %w", err)
	}
	if s.version.IsBranch() {
		return s.checkout()
	}
	return s.fetchTarball(ctx)
}

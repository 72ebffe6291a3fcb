// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/recipekit/recipekit/internal/runtime"
	"github.com/recipekit/recipekit/pkg/recipe"
)

// PatchProgram applies patch files.
const PatchProgram = "patch"

// Patches returns the patch entries that apply to the staged selections.
func (s *Stage) Patches() []recipe.Patch {
	return s.cfg.Recipe.ApplicablePatches(s.cfg.Selections)
}

// PatchPath resolves a patch file against the patch directory.
func (s *Stage) PatchPath(p recipe.Patch) string {
	if filepath.IsAbs(p.File) || s.cfg.PatchDir == "" {
		return p.File
	}
	return filepath.Join(s.cfg.PatchDir, p.File)
}

// Patch verifies and applies every applicable patch, in declaration order,
// with `patch -p1 -i FILE` in the source directory.
func (s *Stage) Patch(ctx context.Context) error {
	for _, p := range s.Patches() {
		file := s.PatchPath(p)
		if s.cfg.PatchDir == "" && !filepath.IsAbs(file) {
			return &PatchError{File: p.File, Err: errors.New("no patch directory configured")}
		}

		sum, err := fileSHA256(file)
		if err != nil {
			return &PatchError{File: file, Err: err}
		}
		if !strings.EqualFold(sum, p.SHA256) {
			return &PatchError{File: file, Err: &ChecksumError{File: file, Want: p.SHA256, Got: sum}}
		}

		s.logger.Info("applying patch", "file", file)
		res := s.cfg.Runner.Run(ctx, runtime.Invocation{
			Path:   PatchProgram,
			Args:   []string{"-p1", "-i", file},
			Dir:    s.SourceDir(),
			Stdout: s.cfg.Stdout,
			Stderr: s.cfg.Stderr,
		})
		if err := res.Err(); err != nil {
			return &PatchError{File: file, Err: err}
		}
	}
	return nil
}

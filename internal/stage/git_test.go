// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recipekit/recipekit/internal/testutil"
)

// initRepo creates a git repository with one commit on branch main.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "CMakeLists.txt"), []byte("project(demo)\n"))
	for _, args := range [][]string{
		{"init", "-q"},
		{"add", "."},
		{"-c", "user.name=recipekit", "-c", "user.email=recipekit@example.invalid", "commit", "-q", "-m", "initial"},
		{"branch", "-M", "main"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
	}
	return dir
}

func TestStage_FetchBranch(t *testing.T) {
	t.Parallel()

	remote := initRepo(t)
	r := demoRecipe(t, "https://example.invalid/demo-1.0.0.tar.gz", sha([]byte("a")), sha([]byte("b")))
	r.Git = remote
	s := newStage(t, r, testutil.NewRecordingRunner(), "", "@main")

	if !s.Version().IsBranch() {
		t.Fatal("main should be a branch version")
	}
	for range 2 {
		if err := s.Fetch(context.Background()); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if got := string(testutil.MustReadFile(t, filepath.Join(s.SourceDir(), "CMakeLists.txt"))); got != "project(demo)\n" {
			t.Errorf("CMakeLists.txt = %q", got)
		}
	}
}

func TestStage_FetchBranchWithoutGit(t *testing.T) {
	t.Parallel()

	r := demoRecipe(t, "https://example.invalid/demo-1.0.0.tar.gz", sha([]byte("a")), sha([]byte("b")))
	r.Git = ""
	s := newStage(t, r, testutil.NewRecordingRunner(), "", "@main")

	if err := s.Fetch(context.Background()); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Fetch() error = %v, want ErrFetchFailed", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/recipekit/recipekit/internal/testutil"
)

func TestDriver_Pipeline(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	runner := testutil.NewRecordingRunner()
	d := &Driver{Runner: runner, SourceDir: src, Prefix: "/opt/demo", Jobs: 4, CreateBuildDir: true}
	ctx := context.Background()

	if err := d.Configure(ctx, []Argument{Bool("ENABLE_BLAS", true)}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if err := d.Build(ctx); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := d.Install(ctx); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	build := filepath.Join(src, "build")
	if info, err := os.Stat(build); err != nil || !info.IsDir() {
		t.Errorf("build directory not created: %v", err)
	}

	calls := runner.Calls()
	want := [][]string{
		{"cmake", "-G", "Ninja", "-DCMAKE_INSTALL_PREFIX:STRING=/opt/demo", "-DENABLE_BLAS:BOOL=ON", src},
		{"cmake", "--build", build, "--parallel", "4"},
		{"cmake", "--install", build},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d invocations, want %d", len(calls), len(want))
	}
	for i := range want {
		if !slices.Equal(calls[i].Argv(), want[i]) {
			t.Errorf("call %d = %v, want %v", i, calls[i].Argv(), want[i])
		}
	}
	if calls[0].Dir != build {
		t.Errorf("configure ran in %q, want %q", calls[0].Dir, build)
	}
}

func TestDriver_CustomToolAndBuildDir(t *testing.T) {
	t.Parallel()

	d := &Driver{CMake: "/usr/local/bin/cmake", Generator: "Unix Makefiles", SourceDir: "/src", BuildDir: "/tmp/out"}
	inv := d.ConfigureInvocation(nil)
	want := []string{"/usr/local/bin/cmake", "-G", "Unix Makefiles", "/src"}
	if !slices.Equal(inv.Argv(), want) {
		t.Errorf("Argv() = %v, want %v", inv.Argv(), want)
	}
	if inv.Dir != "/tmp/out" {
		t.Errorf("Dir = %q, want /tmp/out", inv.Dir)
	}
}

func TestDriver_StepError(t *testing.T) {
	t.Parallel()

	runner := testutil.NewRecordingRunner().FailWhen("--build", 2)
	d := &Driver{Runner: runner, SourceDir: "/src"}

	err := d.Build(context.Background())
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Build() error = %v, want *StepError", err)
	}
	if stepErr.Step != "build" || stepErr.ExitCode != 2 {
		t.Errorf("StepError = %+v", stepErr)
	}
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/recipekit/recipekit/internal/runtime"
)

func TestRecordingRunner(t *testing.T) {
	t.Parallel()

	r := NewRecordingRunner().FailWhen("setup.py", 2)
	ctx := context.Background()

	if res := r.Run(ctx, runtime.Invocation{Path: "cmake", Args: []string{"--build", "build"}}); !res.Success() {
		t.Errorf("cmake should succeed, got %+v", res)
	}
	if res := r.Run(ctx, runtime.Invocation{Path: "python3", Args: []string{"setup.py", "build_ext"}}); res.ExitCode != 2 {
		t.Errorf("setup.py exit = %d, want 2", res.ExitCode)
	}

	cmds := r.Commands()
	if len(cmds) != 2 || cmds[0] != "cmake --build build" || cmds[1] != "python3 setup.py build_ext" {
		t.Errorf("Commands() = %q", cmds)
	}
	if argv := r.Argvs()[1]; argv[0] != "python3" {
		t.Errorf("Argvs()[1] = %v", argv)
	}
}

func TestMustSetenv(t *testing.T) {
	const key = "RECIPEKIT_TESTUTIL_VAR"
	restore := MustSetenv(t, key, "one")
	if got := lookup(key); got != "one" {
		t.Errorf("%s = %q, want one", key, got)
	}
	restore()
	if got := lookup(key); got != "" {
		t.Errorf("after restore %s = %q, want unset", key, got)
	}
}

func lookup(key string) string {
	v, _ := os.LookupEnv(key)
	return v
}

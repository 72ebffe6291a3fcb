// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"reflect"
	"testing"
)

func TestInvocation_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		inv  Invocation
		want string
	}{
		{
			name: "plain words",
			inv:  Invocation{Path: "cmake", Args: []string{"--build", "build"}},
			want: "cmake --build build",
		},
		{
			name: "working directory",
			inv:  Invocation{Path: "ninja", Dir: "/src/build"},
			want: "cd /src/build && ninja",
		},
		{
			name: "quoted argument",
			inv:  Invocation{Path: "echo", Args: []string{"hello world"}},
			want: "echo 'hello world'",
		},
		{
			name: "empty argument",
			inv:  Invocation{Path: "printf", Args: []string{""}},
			want: "printf ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.inv.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvocation_Argv(t *testing.T) {
	t.Parallel()

	inv := Invocation{Path: "python3", Args: []string{"setup.py", "build_ext"}}
	if got, want := inv.Argv(), []string{"python3", "setup.py", "build_ext"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Argv() = %v, want %v", got, want)
	}
}

func TestDryRunner(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewDryRunner(&out)
	res := r.Run(context.Background(), Invocation{Path: "cmake", Args: []string{"--install", "build"}})
	if !res.Success() {
		t.Fatalf("Run() = %+v, want success", res)
	}
	if got := out.String(); got != "cmake --install build\n" {
		t.Errorf("output = %q", got)
	}
}

func TestDryRunner_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if res := NewDryRunner(&out).Run(ctx, Invocation{Path: "true"}); res.Success() {
		t.Error("Run() on a canceled context should fail")
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed, got %q", out.String())
	}
}

func TestRunnerFunc(t *testing.T) {
	t.Parallel()

	var seen Invocation
	var r Runner = RunnerFunc(func(_ context.Context, inv Invocation) *Result {
		seen = inv
		return NewExitCodeResult(4)
	})
	res := r.Run(context.Background(), Invocation{Path: "x"})
	if res.ExitCode != 4 || seen.Path != "x" {
		t.Errorf("RunnerFunc did not forward the call: %+v %+v", res, seen)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	base := []string{"PATH=/bin", "HOME=/root"}
	got := MergeEnv(base, []string{"HOME=/tmp", "CC=clang"})
	want := []string{"PATH=/bin", "HOME=/tmp", "CC=clang"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeEnv() = %v, want %v", got, want)
	}
	if base[1] != "HOME=/root" {
		t.Error("MergeEnv must not modify base")
	}
}

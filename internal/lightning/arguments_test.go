// SPDX-License-Identifier: MPL-2.0

package lightning

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/recipekit/recipekit/internal/cmake"
	"github.com/recipekit/recipekit/pkg/recipe"
)

var kokkosPrefixes = Prefixes{
	"kokkos":         {Prefix: "/opt/kokkos", Version: "3.7.00"},
	"kokkos-kernels": {Prefix: "/opt/kokkos-kernels", Version: "3.7.00"},
}

func mustSelect(t *testing.T, tokens ...string) *recipe.Selections {
	t.Helper()
	r, err := Recipe()
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	req, err := recipe.ParseSpec(tokens...)
	if err != nil {
		t.Fatalf("ParseSpec(%q) error = %v", tokens, err)
	}
	sel, err := recipe.Resolve(r, req)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", tokens, err)
	}
	return sel
}

func mustOptions(t *testing.T, tokens ...string) Options {
	t.Helper()
	opts, err := OptionsFrom(mustSelect(t, tokens...))
	if err != nil {
		t.Fatalf("OptionsFrom() error = %v", err)
	}
	return opts
}

func TestDeriveBuildArguments_Defaults(t *testing.T) {
	t.Parallel()

	got := cmake.Strings(DeriveBuildArguments(mustOptions(t), kokkosPrefixes))
	want := []string{
		"-DCMAKE_BUILD_TYPE:STRING=Release",
		"-DENABLE_OPENMP:BOOL=ON",
		"-DENABLE_NATIVE:BOOL=OFF",
		"-DENABLE_BLAS:BOOL=ON",
		"-DCMAKE_VERBOSE_MAKEFILE:BOOL=OFF",
		"-DBUILD_TESTS:BOOL=OFF",
		"-DBUILD_BENCHMARKS:BOOL=OFF",
		"-DENABLE_GATE_DISPATCHER:BOOL=ON",
		"-DENABLE_KOKKOS=ON",
		"-DKokkos_Core_DIR=/opt/kokkos",
		"-DKokkos_Kernels_DIR=/opt/kokkos-kernels",
	}
	if !slices.Equal(got, want) {
		t.Errorf("DeriveBuildArguments() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestDeriveBuildArguments_Deterministic(t *testing.T) {
	t.Parallel()

	specs := [][]string{
		nil,
		{"~kokkos", "+openmp", "build_type=Debug"},
		{"+cpptests", "+cppbenchmarks", "+native", "+verbose"},
		{"~blas", "~dispatcher", "build_type=MinSizeRel"},
	}
	for _, spec := range specs {
		opts := mustOptions(t, spec...)
		first := cmake.Strings(DeriveBuildArguments(opts, kokkosPrefixes))
		for range 5 {
			again := cmake.Strings(DeriveBuildArguments(mustOptions(t, spec...), kokkosPrefixes))
			if !slices.Equal(first, again) {
				t.Fatalf("spec %q: arguments differ between calls:\n%v\n%v", spec, first, again)
			}
		}
	}
}

func kokkosFlags(args []cmake.Argument) []string {
	var out []string
	for _, a := range args {
		if strings.HasPrefix(a.Name, "Kokkos_") || a.Name == "ENABLE_KOKKOS" {
			out = append(out, a.String())
		}
	}
	return out
}

func TestDeriveBuildArguments_KokkosFlagCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec []string
		want []string
	}{
		{
			spec: []string{"+kokkos"},
			want: []string{"-DENABLE_KOKKOS=ON", "-DKokkos_Core_DIR=/opt/kokkos", "-DKokkos_Kernels_DIR=/opt/kokkos-kernels"},
		},
		{
			spec: []string{"~kokkos"},
			want: []string{"-DENABLE_KOKKOS=OFF"},
		},
		{
			spec: []string{"~kokkos", "~blas", "+cpptests"},
			want: []string{"-DENABLE_KOKKOS=OFF"},
		},
	}
	for _, tt := range tests {
		got := kokkosFlags(DeriveBuildArguments(mustOptions(t, tt.spec...), kokkosPrefixes))
		if !slices.Equal(got, tt.want) {
			t.Errorf("spec %q: kokkos flags = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestDeriveBuildArguments_DebugWithoutKokkos(t *testing.T) {
	t.Parallel()

	got := cmake.Strings(DeriveBuildArguments(mustOptions(t, "~kokkos", "+openmp", "build_type=Debug"), nil))
	for _, want := range []string{"-DCMAKE_BUILD_TYPE:STRING=Debug", "-DENABLE_OPENMP:BOOL=ON", "-DENABLE_KOKKOS=OFF"} {
		if !slices.Contains(got, want) {
			t.Errorf("arguments %v missing %s", got, want)
		}
	}
	for _, a := range got {
		if strings.Contains(a, "Kokkos_") {
			t.Errorf("arguments must not carry Kokkos paths, got %s", a)
		}
	}
}

func TestDeriveBuildArguments_UnsetContributesNothing(t *testing.T) {
	t.Parallel()

	got := cmake.Strings(DeriveBuildArguments(Options{BLAS: On}, nil))
	want := []string{"-DENABLE_BLAS:BOOL=ON", "-DENABLE_KOKKOS=OFF"}
	if !slices.Equal(got, want) {
		t.Errorf("DeriveBuildArguments() = %v, want %v", got, want)
	}
}

func TestExtensionDefines_NeverEnablesTests(t *testing.T) {
	t.Parallel()

	for _, tests := range []string{"+cpptests", "~cpptests"} {
		for _, benches := range []string{"+cppbenchmarks", "~cppbenchmarks"} {
			for _, kokkos := range []string{"+kokkos", "~kokkos"} {
				defines := ExtensionDefines(mustOptions(t, tests, benches, kokkos), kokkosPrefixes)
				if strings.Contains(defines, "BUILD_TESTS:BOOL=ON") || strings.Contains(defines, "BUILD_BENCHMARKS:BOOL=ON") {
					t.Errorf("%s %s %s: defines %q enable tests or benchmarks", tests, benches, kokkos, defines)
				}
				if strings.Contains(defines, "-D") {
					t.Errorf("defines must not carry the -D prefix: %q", defines)
				}
			}
		}
	}
}

func TestExtensionDefines_CPPTests(t *testing.T) {
	t.Parallel()

	opts := mustOptions(t, "+cpptests")
	args := cmake.Strings(DeriveBuildArguments(opts, kokkosPrefixes))
	if !slices.Contains(args, "-DBUILD_TESTS:BOOL=ON") {
		t.Errorf("phase 1 arguments %v should enable BUILD_TESTS", args)
	}

	want := "CMAKE_BUILD_TYPE:STRING=Release;ENABLE_OPENMP:BOOL=ON;ENABLE_NATIVE:BOOL=OFF;ENABLE_BLAS:BOOL=ON;" +
		"CMAKE_VERBOSE_MAKEFILE:BOOL=OFF;BUILD_BENCHMARKS:BOOL=OFF;ENABLE_GATE_DISPATCHER:BOOL=ON;" +
		"ENABLE_KOKKOS=ON;Kokkos_Core_DIR=/opt/kokkos;Kokkos_Kernels_DIR=/opt/kokkos-kernels"
	if got := ExtensionDefines(opts, kokkosPrefixes); got != want {
		t.Errorf("ExtensionDefines() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildType_IsValid(t *testing.T) {
	t.Parallel()

	for _, bt := range []BuildType{"", BuildDebug, BuildRelease, BuildRelWithDebInfo, BuildMinSizeRel} {
		if ok, errs := bt.IsValid(); !ok || len(errs) != 0 {
			t.Errorf("BuildType(%q).IsValid() = %v, %v", bt, ok, errs)
		}
	}
	ok, errs := BuildType("Fast").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidBuildType) {
		t.Errorf("BuildType(Fast).IsValid() = %v, %v", ok, errs)
	}
}

func TestOptionsFrom(t *testing.T) {
	t.Parallel()

	opts := mustOptions(t, "~blas", "+native", "build_type=RelWithDebInfo")
	want := Options{
		BLAS: Off, Dispatcher: On, Kokkos: On, OpenMP: On,
		Native: On, Verbose: Off, CPPTests: Off, CPPBenchmarks: Off,
		BuildType: BuildRelWithDebInfo,
	}
	if opts != want {
		t.Errorf("OptionsFrom() = %+v, want %+v", opts, want)
	}
}

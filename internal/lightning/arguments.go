// SPDX-License-Identifier: MPL-2.0

package lightning

import (
	"github.com/recipekit/recipekit/internal/cmake"
	"github.com/recipekit/recipekit/pkg/recipe"
)

const (
	kokkosDep        = "kokkos"
	kokkosKernelsDep = "kokkos-kernels"
)

// Excluded from the extension build so it never rebuilds C++ tests.
var extensionExcludes = []string{"BUILD_TESTS:BOOL=ON", "BUILD_BENCHMARKS:BOOL=ON"}

// Prefixes maps dependency names to their installations.
type Prefixes map[string]recipe.Provided

// Prefix returns the installation prefix of name, or "".
func (p Prefixes) Prefix(name string) string {
	return p[name].Prefix
}

// DeriveBuildArguments returns the CMake arguments in their fixed order. The
// result depends only on opts and the Kokkos prefixes in deps.
func DeriveBuildArguments(opts Options, deps Prefixes) []cmake.Argument {
	args := make([]cmake.Argument, 0, 11)
	if opts.BuildType != "" {
		args = append(args, cmake.String("CMAKE_BUILD_TYPE", string(opts.BuildType)))
	}

	for _, f := range []struct {
		name string
		t    Toggle
	}{
		{"ENABLE_OPENMP", opts.OpenMP},
		{"ENABLE_NATIVE", opts.Native},
		{"ENABLE_BLAS", opts.BLAS},
		{"CMAKE_VERBOSE_MAKEFILE", opts.Verbose},
		{"BUILD_TESTS", opts.CPPTests},
		{"BUILD_BENCHMARKS", opts.CPPBenchmarks},
		{"ENABLE_GATE_DISPATCHER", opts.Dispatcher},
	} {
		if f.t != Unset {
			args = append(args, cmake.Bool(f.name, f.t.Enabled()))
		}
	}

	if opts.Kokkos.Enabled() {
		return append(args,
			cmake.Untyped("ENABLE_KOKKOS", "ON"),
			cmake.Untyped("Kokkos_Core_DIR", deps.Prefix(kokkosDep)),
			cmake.Untyped("Kokkos_Kernels_DIR", deps.Prefix(kokkosKernelsDep)),
		)
	}
	return append(args, cmake.Untyped("ENABLE_KOKKOS", "OFF"))
}

// ExtensionDefines recomputes the arguments, drops the test and benchmark
// switches when they are on, and joins the rest with ";" for build_ext.
func ExtensionDefines(opts Options, deps Prefixes) string {
	return cmake.JoinDefines(DeriveBuildArguments(opts, deps), extensionExcludes...)
}

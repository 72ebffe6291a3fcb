// SPDX-License-Identifier: MPL-2.0

// Package lightning builds PennyLane-Lightning, a C++ state-vector simulator
// with Python bindings.
//
// The package descriptor is embedded. A Builder composes the generic CMake
// driver with the Python extension steps and overrides them where the
// project needs it: the argument list gains Kokkos paths, the build step is
// followed by an in-place build_ext with a filtered define string, and the
// install step runs pip ahead of the native install. After install, the C++
// test runner can be executed as a smoke test.
package lightning

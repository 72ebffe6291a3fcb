// SPDX-License-Identifier: MPL-2.0

// Package recipe models package-build recipes: the static descriptor of a
// third-party project (versions, sources, patches, variants and dependency
// edges) and the resolution of a user request into an immutable Selections
// value.
//
// A recipe is read from a CUE document validated against the embedded
// #Recipe schema. Resolution takes a spec request such as
//
//	py-pennylane-lightning@0.28.2 ~kokkos +cpptests build_type=Debug %gcc
//
// fills in every variant default, rejects unknown variants and illegal values,
// and picks exactly one version. Conditions ("+kokkos", "@0.28.2",
// "+openmp %apple-clang") are evaluated against the resulting Selections to
// decide which dependency edges and patches apply.
package recipe

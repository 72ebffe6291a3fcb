// SPDX-License-Identifier: MPL-2.0

// Package cmake drives a CMake project through configure, build and install
// and models the -D cache arguments passed to it.
package cmake

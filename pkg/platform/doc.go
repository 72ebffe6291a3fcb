// SPDX-License-Identifier: MPL-2.0

// Package platform resolves the per-user directories recipekit keeps its
// configuration and caches in, following each operating system's convention.
package platform

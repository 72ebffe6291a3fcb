// SPDX-License-Identifier: MPL-2.0

// Package builder holds the recipe-independent parts of a package build: the
// Configured → Built → Installed → Tested state machine, the typed errors for
// failed phases, phase observers, and a pipeline that orders build steps and
// their hooks as a DAG.
package builder

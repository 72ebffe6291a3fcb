// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers: Must* wrappers that fail the test
// on error, environment isolation, and a recording process runner that lets
// build logic be tested without invoking real compilers.
package testutil

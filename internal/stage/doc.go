// SPDX-License-Identifier: MPL-2.0

// Package stage prepares the source tree of a build: it fetches the selected
// version (a checksummed tarball or a git branch), applies the recipe's
// patches and holds an exclusive lock on the stage directory while a build
// uses it.
package stage

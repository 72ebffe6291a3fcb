// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and a
// list of remediation hints. Well-known failure classes additionally have a
// Markdown issue page, rendered with glamour when the CLI runs verbosely.
package issue

// SPDX-License-Identifier: MPL-2.0

// Package runtime runs the external processes a build is made of.
//
// Every build step is an Invocation: a program, its argv, a working directory
// and extra environment. A Runner executes invocations one at a time and
// reports a Result. Two runners are provided:
//   - native: executes the program on the host through os/exec
//   - dry-run: prints the shell-quoted command line without executing it
//
// Runners never retry and never run invocations concurrently.
package runtime

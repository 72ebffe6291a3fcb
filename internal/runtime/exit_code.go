// SPDX-License-Identifier: MPL-2.0

package runtime

import "strconv"

// ExitCode is a process exit status. Zero means success.
type ExitCode int

// ExitCodeNotStarted is reported when the process could not be started at all
// (missing executable, bad working directory).
const ExitCodeNotStarted ExitCode = 127

// IsSuccess reports whether c is zero.
func (c ExitCode) IsSuccess() bool { return c == 0 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

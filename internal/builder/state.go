// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"errors"
	"fmt"
)

const (
	// StateConfigured is the initial state: selections are resolved and the
	// argument list can be derived.
	StateConfigured State = iota
	// StateBuilt follows a successful native and extension build.
	StateBuilt
	// StateInstalled follows a successful packaging and native install.
	StateInstalled
	// StateTested follows a post-install test run, whatever its outcome.
	StateTested
)

// ErrInvalidTransition is wrapped by TransitionError.
var ErrInvalidTransition = errors.New("invalid build state transition")

type (
	// State is a position in the build state machine.
	State int

	// TransitionError reports an operation called out of order, or called
	// again after an earlier step failed.
	TransitionError struct {
		Operation string
		State     State
		Want      State
		Failed    bool
	}

	// Machine tracks build progress. There are no retries: after a failure
	// every further transition is rejected. A Machine is not safe for
	// concurrent use.
	Machine struct {
		state  State
		failed bool
	}
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateBuilt:
		return "built"
	case StateInstalled:
		return "installed"
	case StateTested:
		return "tested"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.Failed {
		return fmt.Sprintf("cannot %s: an earlier step failed in state %s", e.Operation, e.State)
	}
	return fmt.Sprintf("cannot %s in state %s (requires %s)", e.Operation, e.State, e.Want)
}

// Unwrap returns ErrInvalidTransition.
func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewMachine returns a machine in StateConfigured.
func NewMachine() *Machine {
	return &Machine{state: StateConfigured}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Failed reports whether a step has failed.
func (m *Machine) Failed() bool { return m.failed }

// Begin checks that op may run: the machine must be in want and no step may
// have failed.
func (m *Machine) Begin(op string, want State) error {
	if m.failed || m.state != want {
		return &TransitionError{Operation: op, State: m.state, Want: want, Failed: m.failed}
	}
	return nil
}

// Finish records the outcome of a step begun in the previous state. A nil
// err advances to next; a non-nil err marks the machine failed.
func (m *Machine) Finish(next State, err error) error {
	if err != nil {
		m.failed = true
		return err
	}
	m.Advance(next)
	return nil
}

// Advance moves to next unconditionally. Steps whose failure does not mark
// the machine failed, such as the post-install test, use it.
func (m *Machine) Advance(next State) { m.state = next }

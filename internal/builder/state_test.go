// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"errors"
	"testing"
)

func TestMachine_HappyPath(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	steps := []struct {
		op   string
		from State
		to   State
	}{
		{"build", StateConfigured, StateBuilt},
		{"install", StateBuilt, StateInstalled},
		{"test", StateInstalled, StateTested},
	}
	for _, s := range steps {
		if err := m.Begin(s.op, s.from); err != nil {
			t.Fatalf("Begin(%s) error = %v", s.op, err)
		}
		if err := m.Finish(s.to, nil); err != nil {
			t.Fatalf("Finish(%s) error = %v", s.op, err)
		}
	}
	if m.State() != StateTested {
		t.Errorf("State() = %s, want tested", m.State())
	}
}

func TestMachine_OutOfOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   string
		want State
	}{
		{"install before build", "install", StateBuilt},
		{"test before install", "test", StateInstalled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewMachine().Begin(tt.op, tt.want)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Begin() error = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestMachine_NoRetryAfterFailure(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	boom := errors.New("boom")
	if err := m.Finish(StateBuilt, boom); !errors.Is(err, boom) {
		t.Fatalf("Finish() = %v, want %v", err, boom)
	}
	if m.State() != StateConfigured || !m.Failed() {
		t.Fatalf("after failure: state %s, failed %v", m.State(), m.Failed())
	}

	err := m.Begin("build", StateConfigured)
	var te *TransitionError
	if !errors.As(err, &te) || !te.Failed {
		t.Errorf("Begin() after failure = %v, want a failed TransitionError", err)
	}
}

func TestMachine_Advance(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	m.Advance(StateInstalled)
	if err := m.Begin("test", StateInstalled); err != nil {
		t.Fatalf("Begin(test) error = %v", err)
	}
	m.Advance(StateTested)
	if m.State() != StateTested || m.Failed() {
		t.Errorf("state %s, failed %v; want tested and not failed", m.State(), m.Failed())
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	want := map[State]string{
		StateConfigured: "configured",
		StateBuilt:      "built",
		StateInstalled:  "installed",
		StateTested:     "tested",
		State(9):        "state(9)",
	}
	for s, w := range want {
		if s.String() != w {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), w)
		}
	}
}

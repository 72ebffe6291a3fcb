// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"time"

	"github.com/charmbracelet/log"
)

type (
	// Observer is notified around every phase.
	Observer interface {
		PhaseStarted(phase Phase)
		PhaseFinished(phase Phase, elapsed time.Duration, err error)
	}

	// Observers fans notifications out in order.
	Observers []Observer

	// LogObserver logs phase boundaries.
	LogObserver struct {
		Logger *log.Logger
	}
)

// PhaseStarted implements Observer.
func (o Observers) PhaseStarted(phase Phase) {
	for _, obs := range o {
		obs.PhaseStarted(phase)
	}
}

// PhaseFinished implements Observer.
func (o Observers) PhaseFinished(phase Phase, elapsed time.Duration, err error) {
	for _, obs := range o {
		obs.PhaseFinished(phase, elapsed, err)
	}
}

// PhaseStarted implements Observer.
func (o LogObserver) PhaseStarted(phase Phase) {
	o.logger().Info("phase started", "phase", phase)
}

// PhaseFinished implements Observer.
func (o LogObserver) PhaseFinished(phase Phase, elapsed time.Duration, err error) {
	if err != nil {
		o.logger().Error("phase failed", "phase", phase, "elapsed", elapsed.Round(time.Millisecond), "error", err)
		return
	}
	o.logger().Info("phase finished", "phase", phase, "elapsed", elapsed.Round(time.Millisecond))
}

func (o LogObserver) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Track runs fn as phase, notifying obs, and wraps a failure in a PhaseError.
// A nil obs is allowed.
func Track(obs Observer, phase Phase, fn func() error) error {
	if obs != nil {
		obs.PhaseStarted(phase)
	}
	start := time.Now()
	err := Wrap(phase, fn())
	if obs != nil {
		obs.PhaseFinished(phase, time.Since(start), err)
	}
	return err
}

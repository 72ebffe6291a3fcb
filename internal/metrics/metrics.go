// SPDX-License-Identifier: MPL-2.0

// Package metrics records build phase durations and outcomes in a private
// Prometheus registry and exports them in the text exposition format, for
// node_exporter's textfile collector or any scraper that reads files.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/recipekit/recipekit/internal/builder"
)

// Phase outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder is a builder.Observer that turns phase notifications into metrics.
type Recorder struct {
	pkg      string
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	phases   *prometheus.CounterVec
	last     *prometheus.GaugeVec
	now      func() time.Time
}

var _ builder.Observer = (*Recorder)(nil)

// NewRecorder returns a Recorder labelling every series with pkg.
func NewRecorder(pkg string) *Recorder {
	r := &Recorder{
		pkg:      pkg,
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipekit_phase_duration_seconds",
				Help:    "Time taken by a build phase.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"package", "phase"},
		),
		phases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipekit_phase_total",
				Help: "Number of build phases run, by outcome.",
			},
			[]string{"package", "phase", "outcome"},
		),
		last: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "recipekit_phase_last_finished_timestamp_seconds",
				Help: "Unix time at which a build phase last finished.",
			},
			[]string{"package", "phase"},
		),
		now: time.Now,
	}
	r.registry.MustRegister(r.duration, r.phases, r.last)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// PhaseStarted implements builder.Observer.
func (r *Recorder) PhaseStarted(builder.Phase) {}

// PhaseFinished implements builder.Observer.
func (r *Recorder) PhaseFinished(phase builder.Phase, elapsed time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	r.duration.WithLabelValues(r.pkg, string(phase)).Observe(elapsed.Seconds())
	r.phases.WithLabelValues(r.pkg, string(phase), outcome).Inc()
	r.last.WithLabelValues(r.pkg, string(phase)).Set(float64(r.now().Unix()))
}

// WriteTextfile writes every recorded series to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

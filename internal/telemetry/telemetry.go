// Package telemetry exposes Prometheus metrics for the verification
// pipeline. All methods are nil-safe so callers can run without metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry holds the service's Prometheus collectors.
type Telemetry struct {
	verifications *prometheus.CounterVec
	collaborators *prometheus.HistogramVec
}

// New registers collectors on the given registerer (pass
// prometheus.DefaultRegisterer for the promhttp default handler).
func New(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "factsift_verifications_total",
			Help: "Verification operations by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		collaborators: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "factsift_collaborator_request_seconds",
			Help:    "Outbound collaborator call durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"collaborator"}),
	}
}

// RecordVerification counts one verification operation.
func (t *Telemetry) RecordVerification(strategy, outcome string) {
	if t == nil {
		return
	}
	t.verifications.WithLabelValues(strategy, outcome).Inc()
}

// ObserveCollaborator records the duration of one outbound call.
func (t *Telemetry) ObserveCollaborator(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.collaborators.WithLabelValues(name).Observe(d.Seconds())
}

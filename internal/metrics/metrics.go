// Package metrics provides Prometheus instrumentation for the store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for store operations. A nil *Metrics is safe
// to record against, so instrumentation can be disabled by configuration.
type Metrics struct {
	// Loads counts document loads, partitioned by outcome
	// (ok, seeded, migrated).
	Loads *prometheus.CounterVec

	// Saves counts document save attempts.
	Saves prometheus.Counter

	// SaveFailures counts failed document saves.
	SaveFailures prometheus.Counter

	// AuthAttempts counts credential verifications, partitioned by outcome
	// (ok, invalid_credentials, unknown_user).
	AuthAttempts *prometheus.CounterVec

	// OpDuration observes store operation latency in seconds.
	OpDuration *prometheus.HistogramVec

	// DocumentBytes tracks the serialized document size at last save.
	DocumentBytes prometheus.Gauge
}

// New creates the store metrics and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labstore",
			Name:      "document_loads_total",
			Help:      "Document loads by outcome.",
		}, []string{"outcome"}),
		Saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "labstore",
			Name:      "document_saves_total",
			Help:      "Document save attempts.",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "labstore",
			Name:      "document_save_failures_total",
			Help:      "Failed document saves.",
		}),
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labstore",
			Name:      "auth_attempts_total",
			Help:      "Credential verifications by outcome.",
		}, []string{"outcome"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "labstore",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DocumentBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "labstore",
			Name:      "document_bytes",
			Help:      "Serialized document size at last save.",
		}),
	}

	reg.MustRegister(m.Loads, m.Saves, m.SaveFailures, m.AuthAttempts, m.OpDuration, m.DocumentBytes)
	return m
}

// RecordLoad records a document load outcome.
func (m *Metrics) RecordLoad(outcome string) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(outcome).Inc()
}

// RecordSave records a save attempt and its serialized size; failed is true
// when the backend rejected the write.
func (m *Metrics) RecordSave(bytes int, failed bool) {
	if m == nil {
		return
	}
	m.Saves.Inc()
	if failed {
		m.SaveFailures.Inc()
		return
	}
	m.DocumentBytes.Set(float64(bytes))
}

// RecordAuth records a credential verification outcome.
func (m *Metrics) RecordAuth(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(outcome).Inc()
}

// ObserveOp records the latency of one store operation.
func (m *Metrics) ObserveOp(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.OpDuration.WithLabelValues(operation).Observe(seconds)
}

// Package metrics provides Prometheus metrics for the attribution pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commerce"

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Context store
	ContextsActive   prometheus.Gauge
	ContextEvictions *prometheus.CounterVec
	TurnsRecorded    *prometheus.CounterVec
	SweepDuration    prometheus.Histogram

	// Webhooks
	WebhookRequests *prometheus.CounterVec

	// Event log
	EventsAppended *prometheus.CounterVec

	// Analytics
	QueryDuration *prometheus.HistogramVec
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{gatherer: reg}

	m.ContextsActive = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "contexts_active",
		Help:      "Number of conversation contexts currently held in memory",
	})

	m.ContextEvictions = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "context_evictions_total",
		Help:      "Conversation contexts removed, by reason",
	}, []string{"reason"})

	m.TurnsRecorded = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "turns_recorded_total",
		Help:      "Conversation turns recorded, by role",
	}, []string{"role"})

	m.SweepDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of eviction sweep cycles",
		Buckets:   prometheus.DefBuckets,
	})

	m.WebhookRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_requests_total",
		Help:      "Webhook notifications received, by topic and outcome",
	}, []string{"topic", "outcome"})

	m.EventsAppended = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_appended_total",
		Help:      "Events appended to the event log, by kind and result",
	}, []string{"kind", "result"})

	m.QueryDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analytics_query_duration_seconds",
		Help:      "Duration of analytics queries",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// SetContextsActive records the current number of live contexts.
func (m *Metrics) SetContextsActive(n int) {
	if m == nil {
		return
	}
	m.ContextsActive.Set(float64(n))
}

// RecordEviction records n contexts removed for reason (ttl, manual, replaced).
func (m *Metrics) RecordEviction(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ContextEvictions.WithLabelValues(reason).Add(float64(n))
}

// RecordTurn records one turn for role.
func (m *Metrics) RecordTurn(role string) {
	if m == nil {
		return
	}
	m.TurnsRecorded.WithLabelValues(role).Inc()
}

// RecordSweep records the duration of one sweep cycle.
func (m *Metrics) RecordSweep(d time.Duration) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(d.Seconds())
}

// RecordWebhook records a webhook outcome.
func (m *Metrics) RecordWebhook(topic, outcome string) {
	if m == nil {
		return
	}
	m.WebhookRequests.WithLabelValues(topic, outcome).Inc()
}

// RecordAppend records an event log append result (appended, duplicate, error).
func (m *Metrics) RecordAppend(kind, result string) {
	if m == nil {
		return
	}
	m.EventsAppended.WithLabelValues(kind, result).Inc()
}

// ObserveQuery records how long an analytics query took since start.
func (m *Metrics) ObserveQuery(query string, start time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

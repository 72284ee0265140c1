// Package metrics exposes Prometheus counters for the group draw flow.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "secretsanta"

// Metrics holds the application collectors
type Metrics struct {
	registry *prometheus.Registry

	groupsCreated prometheus.Counter
	groupFailures *prometheus.CounterVec
	emailsSent    *prometheus.CounterVec
	drawAttempts  prometheus.Histogram
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		groupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_created_total",
			Help:      "Groups created, drawn and notified successfully.",
		}),
		groupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_creation_failures_total",
			Help:      "Group creation requests that failed, by error code.",
		}, []string{"code"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "E-mails handed to the provider, by result.",
		}, []string{"result"}),
		drawAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "draw_attempts",
			Help:      "Shuffles needed before a derangement was found.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.groupsCreated,
		m.groupFailures,
		m.emailsSent,
		m.drawAttempts,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// GroupCreated counts a fully successful group creation
func (m *Metrics) GroupCreated() {
	if m == nil {
		return
	}
	m.groupsCreated.Inc()
}

// GroupFailed counts a failed group creation
func (m *Metrics) GroupFailed(code string) {
	if m == nil {
		return
	}
	m.groupFailures.WithLabelValues(code).Inc()
}

// EmailSent counts one send attempt
func (m *Metrics) EmailSent(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.emailsSent.WithLabelValues(result).Inc()
}

// ObserveDrawAttempts records how many shuffles a draw needed
func (m *Metrics) ObserveDrawAttempts(attempts int) {
	if m == nil {
		return
	}
	m.drawAttempts.Observe(float64(attempts))
}

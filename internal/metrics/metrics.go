// Package metrics exposes the Prometheus counters of the form service on a
// dedicated registry.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-jsonform/pkg/rules"
)

// Result label values.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultSuccess  = "success"
	ResultFailure  = "failure"
)

// Metrics groups the service counters.
type Metrics struct {
	registry         *prometheus.Registry
	submissions      *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	loads            *prometheus.CounterVec
}

// New registers the counters on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jsonform_submissions_total",
			Help: "Form submissions by outcome.",
		}, []string{"result"}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jsonform_validation_errors_total",
			Help: "Field validation failures by field name.",
		}, []string{"field"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jsonform_schema_loads_total",
			Help: "Schema and dashboard loads by kind and outcome.",
		}, []string{"kind", "result"}),
	}
	registry.MustRegister(
		m.submissions,
		m.validationErrors,
		m.loads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSubmission records one submission outcome and its field errors.
func (m *Metrics) ObserveSubmission(result string, fieldErrors rules.FieldErrors) {
	m.submissions.WithLabelValues(result).Inc()
	for _, field := range fieldErrors.Names() {
		m.validationErrors.WithLabelValues(field).Inc()
	}
}

// LoadHook returns a callback counting loads of kind ("form", "dashboard").
func (m *Metrics) LoadHook(kind string) func(context.Context, error) {
	return func(_ context.Context, err error) {
		result := ResultSuccess
		if err != nil {
			result = ResultFailure
		}
		m.loads.WithLabelValues(kind, result).Inc()
	}
}

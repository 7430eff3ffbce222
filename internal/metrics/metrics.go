// Package metrics exposes Prometheus metrics for template composition and
// the HTTP API. Metrics live in a private registry served at /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for minutebook.
type Metrics struct {
	// Template lifecycle
	TemplatesCreatedTotal   *prometheus.CounterVec
	TemplatesUpdatedTotal   prometheus.Counter
	StatusChangesTotal      *prometheus.CounterVec
	CapacityRejectionsTotal prometheus.Counter
	ValidationFailuresTotal *prometheus.CounterVec

	// Catalog
	CatalogBootstrapsTotal prometheus.Counter
	CatalogLookupsTotal    *prometheus.CounterVec

	// HTTP API
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		TemplatesCreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minutebook_templates_created_total",
				Help: "Total number of templates created",
			},
			[]string{"used"},
		),
		TemplatesUpdatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "minutebook_templates_updated_total",
				Help: "Total number of template content updates",
			},
		),
		StatusChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minutebook_template_status_changes_total",
				Help: "Total number of template status changes by resulting state",
			},
			[]string{"state"},
		),
		CapacityRejectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "minutebook_capacity_rejections_total",
				Help: "Total number of writes refused by the used-template limit",
			},
		),
		ValidationFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minutebook_validation_failures_total",
				Help: "Total number of rejected module arrays",
			},
			[]string{"operation"},
		),
		CatalogBootstrapsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "minutebook_catalog_bootstraps_total",
				Help: "Total number of workspaces given the default catalog",
			},
		),
		CatalogLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minutebook_catalog_lookups_total",
				Help: "Catalog lookups by the layer that answered",
			},
			[]string{"source"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minutebook_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minutebook_http_request_duration_seconds",
				Help:    "HTTP API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.TemplatesCreatedTotal,
		m.TemplatesUpdatedTotal,
		m.StatusChangesTotal,
		m.CapacityRejectionsTotal,
		m.ValidationFailuresTotal,
		m.CatalogBootstrapsTotal,
		m.CatalogLookupsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetGlobal sets the global metrics instance.
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance, or nil if none is set.
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// IncTemplatesCreated counts a created template.
func IncTemplatesCreated(used string) {
	if m := Global(); m != nil {
		m.TemplatesCreatedTotal.WithLabelValues(used).Inc()
	}
}

// IncTemplatesUpdated counts a content update.
func IncTemplatesUpdated() {
	if m := Global(); m != nil {
		m.TemplatesUpdatedTotal.Inc()
	}
}

// IncStatusChanges counts a status mutation by the state it produced.
func IncStatusChanges(state string) {
	if m := Global(); m != nil {
		m.StatusChangesTotal.WithLabelValues(state).Inc()
	}
}

// IncCapacityRejections counts a write refused by the used-template limit.
func IncCapacityRejections() {
	if m := Global(); m != nil {
		m.CapacityRejectionsTotal.Inc()
	}
}

// IncValidationFailures counts a rejected module array.
func IncValidationFailures(operation string) {
	if m := Global(); m != nil {
		m.ValidationFailuresTotal.WithLabelValues(operation).Inc()
	}
}

// IncCatalogBootstraps counts a default catalog written for a workspace.
func IncCatalogBootstraps() {
	if m := Global(); m != nil {
		m.CatalogBootstrapsTotal.Inc()
	}
}

// IncCatalogLookups counts a catalog lookup answered by source.
func IncCatalogLookups(source string) {
	if m := Global(); m != nil {
		m.CatalogLookupsTotal.WithLabelValues(source).Inc()
	}
}

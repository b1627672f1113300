// Package observability holds the Prometheus collectors exposed on /metrics.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"playpartner-backend-go/internal/vetting"
)

// Metrics groups the HTTP traffic collectors and the derived dashboard
// gauge. It implements prometheus.Collector.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	partnersDerived     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.partnersDerived = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "partners_derived",
			Help: "Partner counts from the most recent dashboard computation",
		},
		[]string{"view"},
	)

	if err := m.registry.Register(m); err != nil {
		return nil, err
	}
	if err := m.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := m.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.httpRequestsTotal, m.httpRequestDuration, m.partnersDerived}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors() {
		collector.Collect(ch)
	}
}

// RecordHTTPRequest records one served request. route is the chi route
// pattern so ids do not explode label cardinality.
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveDashboard publishes the bucket sizes of a dashboard computation.
func (m *Metrics) ObserveDashboard(d vetting.Dashboard) {
	if m == nil {
		return
	}
	m.partnersDerived.WithLabelValues("total").Set(float64(d.TotalPartners))
	m.partnersDerived.WithLabelValues("active").Set(float64(d.ActivePartners))
	m.partnersDerived.WithLabelValues("vetting").Set(float64(len(d.VettingQueue)))
	m.partnersDerived.WithLabelValues("risk").Set(float64(len(d.RiskList)))
	m.partnersDerived.WithLabelValues("conflicts").Set(float64(len(d.ConflictsList)))
}

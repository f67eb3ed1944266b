// Package metrics exposes Prometheus collectors for solves, HTTP requests
// and the distance-matrix cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the collector set of one process.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	SolveOperationsTotal *prometheus.CounterVec
	SolveDuration        *prometheus.HistogramVec
	RouteWeight          *prometheus.HistogramVec
	GraphNodes           *prometheus.HistogramVec
	GraphEdges           *prometheus.HistogramVec
	DuplicatedEdges      prometheus.Histogram
	DisconnectedTotal    *prometheus.CounterVec

	CacheRequestsTotal *prometheus.CounterVec
	HistoryWritesTotal *prometheus.CounterVec

	ServiceInfo *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry, so
// repeated calls never collide.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),
		SolveOperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_operations_total",
			Help:      "Total number of solve operations",
		}, []string{"mode", "status"}),
		SolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Duration of solve operations",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"mode"}),
		RouteWeight: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_weight",
			Help:      "Total weight of produced routes",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"mode"}),
		GraphNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in solved graphs",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}, []string{"mode"}),
		GraphEdges: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of edges in solved graphs",
			Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000, 100000},
		}, []string{"mode"}),
		DuplicatedEdges: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "eulerize_duplicated_edges",
			Help:      "Edges added to make a graph Eulerian",
			Buckets:   []float64{0, 1, 2, 5, 10, 50, 100, 500, 1000},
		}),
		DisconnectedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnected_inputs_total",
			Help:      "Solves whose input graph had more than one component",
		}, []string{"mode"}),
		CacheRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matrix_cache_requests_total",
			Help:      "Distance-matrix cache lookups",
		}, []string{"result"}),
		HistoryWritesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_writes_total",
			Help:      "Solve runs written to the history store",
		}, []string{"status"}),
		ServiceInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_info",
			Help:      "Service information",
		}, []string{"version", "environment"}),
		gatherer: reg,
	}
}

// SolveRecord is what one solve contributes.
type SolveRecord struct {
	Mode            string
	Success         bool
	Duration        time.Duration
	Weight          float64
	Nodes           int
	Edges           int
	DuplicatedEdges int
	Disconnected    bool
}

// RecordSolve records one solve.
func (m *Metrics) RecordSolve(r SolveRecord) {
	status := "success"
	if !r.Success {
		status = "error"
	}
	m.SolveOperationsTotal.WithLabelValues(r.Mode, status).Inc()
	m.SolveDuration.WithLabelValues(r.Mode).Observe(r.Duration.Seconds())
	m.GraphNodes.WithLabelValues(r.Mode).Observe(float64(r.Nodes))
	m.GraphEdges.WithLabelValues(r.Mode).Observe(float64(r.Edges))
	if !r.Success {
		return
	}
	m.RouteWeight.WithLabelValues(r.Mode).Observe(r.Weight)
	if r.Mode == "edge_coverage" {
		m.DuplicatedEdges.Observe(float64(r.DuplicatedEdges))
	}
	if r.Disconnected {
		m.DisconnectedTotal.WithLabelValues(r.Mode).Inc()
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(route, status string, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// CacheHit counts a cache hit.
func (m *Metrics) CacheHit() { m.CacheRequestsTotal.WithLabelValues("hit").Inc() }

// CacheMiss counts a cache miss.
func (m *Metrics) CacheMiss() { m.CacheRequestsTotal.WithLabelValues("miss").Inc() }

// HistoryWrite counts a history write attempt.
func (m *Metrics) HistoryWrite(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.HistoryWritesTotal.WithLabelValues(status).Inc()
}

// SetServiceInfo publishes the build version and environment.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Timer measures one operation.
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer starts a timer observing into histogram.
func NewTimer(histogram *prometheus.HistogramVec, labels ...string) *Timer {
	return &Timer{start: time.Now(), observer: histogram.WithLabelValues(labels...)}
}

// ObserveDuration records and returns the elapsed time.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	t.observer.Observe(d.Seconds())

	return d
}

// Package metrics exposes Prometheus collectors for graph computation and
// dataset reloads.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	graphComputations *prometheus.CounterVec
	graphDuration     *prometheus.HistogramVec
	graphNodes        prometheus.Histogram
	datasetReloads    *prometheus.CounterVec
	datasetRecords    prometheus.Gauge
	rateLimited       prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		graphComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flavorgraph_graph_computations_total",
			Help: "Graph computations by mode",
		}, []string{"mode"}),
		graphDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flavorgraph_graph_duration_seconds",
			Help:    "Time spent computing a graph",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"mode"}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flavorgraph_graph_nodes",
			Help:    "Nodes per computed graph",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		datasetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flavorgraph_dataset_reloads_total",
			Help: "Dataset reload attempts by result",
		}, []string{"result"}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flavorgraph_dataset_records",
			Help: "Pairing records in the active dataset",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flavorgraph_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}

	m.registry.MustRegister(
		m.graphComputations,
		m.graphDuration,
		m.graphNodes,
		m.datasetReloads,
		m.datasetRecords,
		m.rateLimited,
		collectors.NewGoCollector(),
	)

	return m
}

func mode(mutualOnly bool) string {
	if mutualOnly {
		return "mutual"
	}
	return "all"
}

// ObserveGraph records one graph computation.
func (m *Metrics) ObserveGraph(mutualOnly bool, nodes int, elapsed time.Duration) {
	m.graphComputations.WithLabelValues(mode(mutualOnly)).Inc()
	m.graphDuration.WithLabelValues(mode(mutualOnly)).Observe(elapsed.Seconds())
	m.graphNodes.Observe(float64(nodes))
}

// ObserveReload records a reload attempt and, on success, the new dataset size.
func (m *Metrics) ObserveReload(records int, err error) {
	if err != nil {
		m.datasetReloads.WithLabelValues("error").Inc()
		return
	}
	m.datasetReloads.WithLabelValues("ok").Inc()
	m.datasetRecords.Set(float64(records))
}

func (m *Metrics) ObserveRateLimited() {
	m.rateLimited.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

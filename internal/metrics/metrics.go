// Package metrics provides Prometheus metrics for tracer runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonesrussell/doctracer/internal/domain"
)

const (
	// Namespace is the namespace for all tracer metrics.
	Namespace = "doctracer"

	// Subsystem is the subsystem for pipeline metrics.
	Subsystem = "tracer"
)

// Metrics holds the Prometheus metrics for a tracer process.
type Metrics struct {
	registry *prometheus.Registry

	// Document metrics
	DocumentsTotal *prometheus.CounterVec
	HitsTotal      *prometheus.CounterVec
	FlaggedTotal   prometheus.Counter

	// Fetch metrics
	FetchDurationSeconds *prometheus.HistogramVec

	// Worker pool metrics
	WorkerPoolSize prometheus.Gauge
	WorkersBusy    prometheus.Gauge

	// Batch metrics
	BatchesTotal        prometheus.Counter
	LastBatchDocuments  prometheus.Gauge
	LastBatchSuccessful prometheus.Gauge
}

// New creates all tracer metrics on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.initDocumentMetrics(factory)
	m.initFetchMetrics(factory)
	m.initWorkerMetrics(factory)
	m.initBatchMetrics(factory)

	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) initDocumentMetrics(factory promauto.Factory) {
	m.DocumentsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "documents_total",
			Help:      "Total number of documents traced, by final status",
		},
		[]string{"status"},
	)

	m.HitsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "hits_total",
			Help:      "Total number of defect hits, by category",
		},
		[]string{"category"},
	)

	m.FlaggedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "documents_flagged_total",
			Help:      "Total number of documents with at least one defect category",
		},
	)
}

func (m *Metrics) initFetchMetrics(factory promauto.Factory) {
	m.FetchDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of document fetches in seconds, by fetch status",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"status"},
	)
}

func (m *Metrics) initWorkerMetrics(factory promauto.Factory) {
	m.WorkerPoolSize = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "worker_pool_size",
			Help:      "Size of the worker pool",
		},
	)

	m.WorkersBusy = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "workers_busy",
			Help:      "Number of workers currently processing a document",
		},
	)
}

func (m *Metrics) initBatchMetrics(factory promauto.Factory) {
	m.BatchesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "batches_total",
			Help:      "Total number of batches run",
		},
	)

	m.LastBatchDocuments = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "last_batch_documents",
			Help:      "Number of documents in the most recent batch",
		},
	)

	m.LastBatchSuccessful = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "last_batch_successful",
			Help:      "1 if every document in the most recent batch was ok, else 0",
		},
	)
}

// SetPoolSize records the worker pool size.
func (m *Metrics) SetPoolSize(n int) {
	m.WorkerPoolSize.Set(float64(n))
}

// WorkerStarted marks a worker busy.
func (m *Metrics) WorkerStarted() {
	m.WorkersBusy.Inc()
}

// WorkerDone marks a worker idle.
func (m *Metrics) WorkerDone() {
	m.WorkersBusy.Dec()
}

// ObserveFetch records one fetch and its duration.
func (m *Metrics) ObserveFetch(status domain.Status, d time.Duration) {
	m.FetchDurationSeconds.WithLabelValues(string(status)).Observe(d.Seconds())
}

// ObserveReport records the outcome and hits of one finalized report.
func (m *Metrics) ObserveReport(r *domain.DocumentReport) {
	m.DocumentsTotal.WithLabelValues(string(r.Status)).Inc()
	for _, h := range r.Hits {
		m.HitsTotal.WithLabelValues(string(h.Category)).Inc()
	}
	if r.Flagged() {
		m.FlaggedTotal.Inc()
	}
}

// ObserveBatch records a completed batch.
func (m *Metrics) ObserveBatch(documents int, ok bool) {
	m.BatchesTotal.Inc()
	m.LastBatchDocuments.Set(float64(documents))
	if ok {
		m.LastBatchSuccessful.Set(1)
	} else {
		m.LastBatchSuccessful.Set(0)
	}
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format, for collection by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Package metrics provides Prometheus metrics for the scoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core business metrics.
	verdictsComputed prometheus.Counter
	batchRuns        prometheus.Counter
	batchDuration    prometheus.Histogram
	batchPlayerError prometheus.Counter
	evalLatency      prometheus.Histogram
	clusterRuns      prometheus.Counter

	// Cache metrics.
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Operational health metrics.
	populationSize prometheus.Gauge
	clusterCount   prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueSize      prometheus.Gauge
	workerActive   prometheus.Gauge
	workerErrors   prometheus.Counter

	// Store metrics.
	storeQueryLatency *prometheus.HistogramVec

	// Error tracking.
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Registry returns the registry backing the global manager, for exposure
// via promhttp.
func Registry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "felthound",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.verdictsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verdicts_computed_total",
		Help:      "Total number of composite verdicts computed",
	})

	m.batchRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_runs_total",
		Help:      "Total number of batch evaluation runs",
	})

	m.batchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_duration_milliseconds",
		Help:      "Histogram of end-to-end batch run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchPlayerError = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_player_errors_total",
		Help:      "Total number of per-player failures surfaced by batch runs",
	})

	m.evalLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "eval_latency_milliseconds",
		Help:      "Histogram of single-player evaluation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.clusterRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cluster_runs_total",
		Help:      "Total number of cohort clustering runs",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verdict_cache_hits_total",
		Help:      "Total number of verdict cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verdict_cache_misses_total",
		Help:      "Total number of verdict cache misses",
	})

	m.populationSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "population_size",
		Help:      "Number of players in the most recent batch population",
	})

	m.clusterCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cluster_count",
		Help:      "Number of cohorts found by the most recent clustering run",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the evaluation queue",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the evaluation queue (backlog indicator)",
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Current number of active evaluation workers",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker-level evaluation errors",
	})

	m.storeQueryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_query_latency_milliseconds",
			Help:      "Histogram of analytics-store query latency by query",
			Buckets:   m.histogramBuckets,
		},
		[]string{"query"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total errors by component and kind",
		},
		[]string{"component", "kind"},
	)
}

// Package-level helpers delegating to the global manager.

// RecordVerdictComputed increments the computed-verdict counter.
func RecordVerdictComputed() {
	if globalManager.enabled {
		globalManager.verdictsComputed.Inc()
	}
}

// RecordBatchRun increments the batch-run counter.
func RecordBatchRun() {
	if globalManager.enabled {
		globalManager.batchRuns.Inc()
	}
}

// ObserveBatchDuration records an end-to-end batch duration in milliseconds.
func ObserveBatchDuration(ms float64) {
	if globalManager.enabled {
		globalManager.batchDuration.Observe(ms)
	}
}

// RecordBatchPlayerError increments the per-player batch failure counter.
func RecordBatchPlayerError() {
	if globalManager.enabled {
		globalManager.batchPlayerError.Inc()
	}
}

// ObserveEvalLatency records a single-player evaluation latency in
// milliseconds.
func ObserveEvalLatency(ms float64) {
	if globalManager.enabled {
		globalManager.evalLatency.Observe(ms)
	}
}

// RecordClusterRun increments the clustering-run counter.
func RecordClusterRun() {
	if globalManager.enabled {
		globalManager.clusterRuns.Inc()
	}
}

// RecordCacheHit increments the verdict cache hit counter.
func RecordCacheHit() {
	if globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss increments the verdict cache miss counter.
func RecordCacheMiss() {
	if globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

// UpdatePopulationSize sets the current batch population gauge.
func UpdatePopulationSize(n int) {
	if globalManager.enabled {
		globalManager.populationSize.Set(float64(n))
	}
}

// UpdateClusterCount sets the cohort-count gauge.
func UpdateClusterCount(n int) {
	if globalManager.enabled {
		globalManager.clusterCount.Set(float64(n))
	}
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(n int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(n))
	}
}

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(n int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(n))
	}
}

// UpdateWorkerActiveCount sets the active worker gauge.
func UpdateWorkerActiveCount(n int) {
	if globalManager.enabled {
		globalManager.workerActive.Set(float64(n))
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

// ObserveStoreQueryLatency records one store query latency in milliseconds.
func ObserveStoreQueryLatency(query string, ms float64) {
	if globalManager.enabled {
		globalManager.storeQueryLatency.WithLabelValues(query).Observe(ms)
	}
}

// RecordErrorByComponent increments the component/kind error counter.
func RecordErrorByComponent(component, kind string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}

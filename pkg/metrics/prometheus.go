// Package metrics provides Prometheus metrics for the arena scoring
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service emits.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Submission pipeline
	submissionsProcessed prometheus.Counter
	submissionsDuplicate prometheus.Counter
	submissionsRejected  prometheus.Counter
	submissionsPending   prometheus.Counter

	// Scoring
	scoringLatency prometheus.Histogram
	pointsAwarded  prometheus.Histogram
	rankPromotions *prometheus.CounterVec
	scoringErrors  prometheus.Counter

	// Integrity
	integrityFlags *prometheus.CounterVec
	riskScore      prometheus.Histogram
	autoRejects    prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Standings / history
	totalUsers     prometheus.Gauge
	historyEntries prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager backed by a private registry so the default Go
// collectors stay out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// GetRegistry returns the registry metrics are gathered from.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.submissionsProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_processed_total",
		Help: "Submissions fully processed through the pipeline.",
	})
	m.submissionsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_duplicate_total",
		Help: "Submissions dropped as idempotency-cache duplicates.",
	})
	m.submissionsRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_rejected_total",
		Help: "Submissions auto-rejected by the integrity checker.",
	})
	m.submissionsPending = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_pending_total",
		Help: "Submissions parked for manual review.",
	})

	m.scoringLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "scoring_latency_ms",
		Help:    "Points engine evaluation latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.pointsAwarded = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "points_awarded",
		Help:    "Distribution of points awarded per submission.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 1500, 2500},
	})
	m.rankPromotions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rank_promotions_total",
		Help: "Rank tier promotions by destination tier.",
	}, []string{"tier"})
	m.scoringErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scoring_errors_total",
		Help: "Scoring evaluations that returned an error.",
	})

	m.integrityFlags = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "integrity_flags_total",
		Help: "Integrity flags raised, by flag name.",
	}, []string{"flag"})
	m.riskScore = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "integrity_risk_score",
		Help:    "Distribution of aggregate risk scores.",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.7, 0.9, 1.0},
	})
	m.autoRejects = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "integrity_auto_rejects_total",
		Help: "Submissions exceeding the auto-reject risk threshold.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of queued submissions.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio in [0,1].",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total",
		Help: "Successful enqueue operations.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total",
		Help: "Successful dequeue operations.",
	})
	m.queueEnqueueErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Failed enqueue operations by reason.",
	}, []string{"reason"})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Number of running workers.",
	})
	m.workerProcessingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_ms",
		Help:    "End-to-end worker processing latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Worker processing errors.",
	})

	m.totalUsers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "total_users",
		Help: "Users tracked in the standings store.",
	})
	m.historyEntries = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_entries",
		Help: "Submission history entries across all users.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Allocated heap bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current goroutine count.",
	})
	m.systemGCPauseTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "system_gc_pause_ms",
		Help:    "Average GC pause time in milliseconds.",
		Buckets: m.histogramBuckets,
	})
}

// Package-level recording helpers delegating to the global manager.

func RecordSubmissionProcessed() { globalManager.submissionsProcessed.Inc() }
func RecordSubmissionDuplicate() { globalManager.submissionsDuplicate.Inc() }
func RecordSubmissionRejected()  { globalManager.submissionsRejected.Inc() }
func RecordSubmissionPending()   { globalManager.submissionsPending.Inc() }

func RecordScoringLatency(ms float64)    { globalManager.scoringLatency.Observe(ms) }
func RecordPointsAwarded(points float64) { globalManager.pointsAwarded.Observe(points) }
func RecordRankPromotion(tier string)    { globalManager.rankPromotions.WithLabelValues(tier).Inc() }
func RecordScoringError()                { globalManager.scoringErrors.Inc() }

func RecordIntegrityFlag(flag string) { globalManager.integrityFlags.WithLabelValues(flag).Inc() }
func RecordRiskScore(score float64)   { globalManager.riskScore.Observe(score) }
func RecordAutoReject()               { globalManager.autoRejects.Inc() }

func UpdateQueueSize(n int)                { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)            { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(ratio float64) { globalManager.queueUtilization.Set(ratio) }
func RecordQueueEnqueue()                  { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()                  { globalManager.queueDequeues.Inc() }
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

func UpdateWorkerCount(n int)                  { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerProcessingLatency(ms float64) { globalManager.workerProcessingLatency.Observe(ms) }
func RecordWorkerError()                       { globalManager.workerErrors.Inc() }

func UpdateTotalUsers(n int)     { globalManager.totalUsers.Set(float64(n)) }
func UpdateHistoryEntries(n int) { globalManager.historyEntries.Set(float64(n)) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutineCount.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)   { globalManager.systemGCPauseTime.Observe(ms) }

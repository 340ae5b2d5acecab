package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// ViewsGenerated tracks the number of views processed per generation run
	ViewsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookml_generator_views_total",
			Help: "Total number of views processed",
		},
		[]string{"namespace", "view_type", "status"}, // status: generated, empty, failed
	)

	// GenerationDuration measures how long one namespace takes to generate
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookml_generator_namespace_duration_seconds",
			Help:    "Namespace generation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"namespace"},
	)

	// GenerationRuns counts whole generation sweeps
	GenerationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookml_generator_runs_total",
			Help: "Total number of generation runs",
		},
		[]string{"trigger", "status"}, // trigger: cli, schedule, api; status: success, failed
	)

	// SchemaQueries counts warehouse schema lookups
	SchemaQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookml_generator_schema_queries_total",
			Help: "Total number of warehouse schema queries executed",
		},
		[]string{"status"}, // status: success, error
	)

	// SchemaQueryDuration measures warehouse schema query execution time
	SchemaQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lookml_generator_schema_query_duration_seconds",
			Help:    "Warehouse schema query execution time",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
	)

	// SchemaCacheHits tracks cache hits for table schema lookups
	SchemaCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lookml_generator_schema_cache_hits_total",
			Help: "Total number of cache hits for table schema lookups",
		},
	)

	// SchemaCacheMisses tracks cache misses for table schema lookups
	SchemaCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lookml_generator_schema_cache_misses_total",
			Help: "Total number of cache misses for table schema lookups",
		},
	)

	// TasksTotal tracks the total number of generation tasks processed
	TasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookml_generator_tasks_total",
			Help: "Total number of generation tasks processed",
		},
		[]string{"namespace", "status"}, // status: success, failed
	)

	// TaskDuration measures task execution duration in seconds
	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookml_generator_task_duration_seconds",
			Help:    "Task execution duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
		},
		[]string{"namespace", "status"},
	)

	// TasksEnqueued counts total number of tasks enqueued
	TasksEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookml_generator_tasks_enqueued_total",
			Help: "Total number of generation tasks enqueued",
		},
		[]string{"namespace", "trigger"}, // trigger: schedule, api, cli
	)

	// QueueDepth measures number of tasks in queue
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lookml_generator_queue_depth",
			Help: "Number of tasks in queue",
		},
		[]string{"queue", "state"}, // state: pending, active, scheduled, retry
	)

	// SchedulerLeader indicates whether this instance holds the scheduler lease
	SchedulerLeader = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookml_generator_scheduler_leader",
			Help: "Whether this instance is the scheduler leader (1=leader, 0=follower)",
		},
	)

	// ValidationIssues tracks validation issues by severity
	ValidationIssues = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lookml_generator_validation_issues",
			Help: "Number of validation issues found in the last validation pass",
		},
		[]string{"namespace", "severity"},
	)

	// RegistryNamespaces tracks the number of loaded registry namespaces
	RegistryNamespaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookml_generator_registry_namespaces",
			Help: "Number of namespaces loaded from the metrics configuration registry",
		},
	)

	// ErrorsTotal counts total number of errors
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookml_generator_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordViewGenerated records the outcome of generating one view
func RecordViewGenerated(namespace, viewType, status string) {
	ViewsGenerated.WithLabelValues(namespace, viewType, status).Inc()
}

// RecordNamespaceDuration records how long a namespace took to generate
func RecordNamespaceDuration(namespace string, duration float64) {
	GenerationDuration.WithLabelValues(namespace).Observe(duration)
}

// RecordGenerationRun records a whole generation sweep
func RecordGenerationRun(trigger, status string) {
	GenerationRuns.WithLabelValues(trigger, status).Inc()
}

// RecordSchemaQuery records warehouse schema query metrics
func RecordSchemaQuery(status string, duration float64) {
	SchemaQueries.WithLabelValues(status).Inc()
	SchemaQueryDuration.Observe(duration)
}

// RecordSchemaCacheHit records a cache hit for a table schema lookup
func RecordSchemaCacheHit() {
	SchemaCacheHits.Inc()
}

// RecordSchemaCacheMiss records a cache miss for a table schema lookup
func RecordSchemaCacheMiss() {
	SchemaCacheMisses.Inc()
}

// RecordTaskComplete records task completion
func RecordTaskComplete(namespace, status string, duration float64) {
	TasksTotal.WithLabelValues(namespace, status).Inc()
	TaskDuration.WithLabelValues(namespace, status).Observe(duration)
}

// RecordTaskEnqueued records task enqueue
func RecordTaskEnqueued(namespace, trigger string) {
	TasksEnqueued.WithLabelValues(namespace, trigger).Inc()
}

// RecordQueueDepth records the depth of a queue state
func RecordQueueDepth(queue, state string, depth float64) {
	QueueDepth.WithLabelValues(queue, state).Set(depth)
}

// RecordSchedulerLeader records whether this instance holds the lease
func RecordSchedulerLeader(leader bool) {
	if leader {
		SchedulerLeader.Set(1)
	} else {
		SchedulerLeader.Set(0)
	}
}

// RecordValidationIssues records the issue count of a validation pass
func RecordValidationIssues(namespace, severity string, count float64) {
	ValidationIssues.WithLabelValues(namespace, severity).Set(count)
}

// RecordRegistryNamespaces records the number of loaded registry namespaces
func RecordRegistryNamespaces(count float64) {
	RegistryNamespaces.Set(count)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

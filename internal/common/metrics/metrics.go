// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_query_total",
			Help: "Queries answered, by intent type and outcome",
		},
		[]string{"intent_type", "outcome"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customer_query_duration_seconds",
			Help:    "End-to-end query resolution time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"intent_type"},
	)

	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_query_classifications_total",
			Help: "Intent classifications by the tier that produced them",
		},
		[]string{"source"},
	)

	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_query_collaborator_failures_total",
			Help: "Best-effort collaborator calls that failed and were recovered",
		},
		[]string{"collaborator"},
	)

	RecordCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_record_cache_lookups_total",
			Help: "Record cache lookups by layer and result",
		},
		[]string{"layer", "result"},
	)

	RecordLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "customer_record_load_duration_seconds",
			Help:    "Time to load a customer record from the document store",
			Buckets: prometheus.DefBuckets,
		},
	)

	ExchangesPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_query_exchanges_persisted_total",
			Help: "Exchange audit writes by result",
		},
		[]string{"result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

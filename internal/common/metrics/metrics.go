// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_completed_total",
			Help: "Total number of completed job runs",
		},
		[]string{"job"},
	)

	JobRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_failed_total",
			Help: "Total number of failed job runs",
		},
		[]string{"job", "error_code"},
	)

	JobRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "scheduler_job_run_duration_seconds",
			Help: "Duration of job runs in seconds",
		},
		[]string{"job"},
	)

	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_records_processed_total",
			Help: "Records handled per job, by outcome",
		},
		[]string{"job", "outcome"},
	)

	ScheduleParseFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_schedule_parse_fallbacks_total",
			Help: "Schedule entries that fell back to a default because they could not be parsed",
		},
		[]string{"reason"},
	)

	QueueDepthObserved = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scheduler_queue_messages_in_flight",
			Help: "Messages currently being processed by the consumer",
		},
		[]string{"queue"},
	)
)

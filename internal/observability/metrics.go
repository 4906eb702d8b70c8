// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Batch metrics
	BatchRunsTotal     *prometheus.CounterVec
	BatchDuration      *prometheus.HistogramVec
	CompaniesProcessed prometheus.Counter
	TickersSkipped     *prometheus.CounterVec

	// Engine metrics
	RowsByStatus      *prometheus.CounterVec
	MetricsUpserted   prometheus.Counter
	DiffLogsUpserted  prometheus.Counter
	HistoryAppended   prometheus.Counter
	SignalTagsEmitted *prometheus.CounterVec
	AlertsRaised      *prometheus.CounterVec

	// Fact resolution metrics
	FactsLoaded       prometheus.Counter
	IncompletePairs   prometheus.Counter
	BaselineCacheMiss *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "equity_consensus_lab"
	}

	return &Metrics{
		// Batch metrics
		BatchRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Total number of batch runs by phase and status",
		}, []string{"phase", "status"}),
		BatchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Batch phase execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"phase"}),
		CompaniesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "companies_processed_total",
			Help:      "Total number of companies processed by batch runs",
		}),
		TickersSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "tickers_skipped_total",
			Help:      "Total number of tickers skipped by reason",
		}, []string{"reason"}),

		// Engine metrics
		RowsByStatus: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "rows_by_status_total",
			Help:      "Total number of daily rows produced by calc status",
		}, []string{"status"}),
		MetricsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "metrics_upserted_total",
			Help:      "Total number of daily metric rows upserted",
		}),
		DiffLogsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "diff_logs_upserted_total",
			Help:      "Total number of diff log records upserted",
		}),
		HistoryAppended: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "history_rows_appended_total",
			Help:      "Total number of rows appended to the history timeseries",
		}),
		SignalTagsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "signal_tags_emitted_total",
			Help:      "Total number of signal tags emitted by tag",
		}, []string{"tag"}),
		AlertsRaised: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "alerts_raised_total",
			Help:      "Total number of alert flags raised by alert",
		}, []string{"alert"}),

		// Fact resolution metrics
		FactsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "facts",
			Name:      "loaded_total",
			Help:      "Total number of financial facts loaded",
		}),
		IncompletePairs: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "facts",
			Name:      "incomplete_pairs_total",
			Help:      "Total number of year pairs with missing inputs",
		}),
		BaselineCacheMiss: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "facts",
			Name:      "baseline_misses_total",
			Help:      "Total number of baseline lookups with no history by horizon",
		}, []string{"horizon"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful batch run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBatchPhase records one batch phase run.
func RecordBatchPhase(phase, status string, durationSeconds float64) {
	DefaultMetrics.BatchRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.BatchDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordRowStatus increments the per-status row counter.
func RecordRowStatus(status string) {
	DefaultMetrics.RowsByStatus.WithLabelValues(status).Inc()
}

// RecordTickerSkipped increments the skip counter for a reason.
func RecordTickerSkipped(reason string) {
	DefaultMetrics.TickersSkipped.WithLabelValues(reason).Inc()
}

// RecordSignalTag increments the emitted counter for one tag.
func RecordSignalTag(tag string) {
	DefaultMetrics.SignalTagsEmitted.WithLabelValues(tag).Inc()
}

// RecordAlert increments the raised counter for one alert flag.
func RecordAlert(alert string) {
	DefaultMetrics.AlertsRaised.WithLabelValues(alert).Inc()
}

// RecordBaselineMiss increments the miss counter for one horizon.
func RecordBaselineMiss(horizon string) {
	DefaultMetrics.BaselineCacheMiss.WithLabelValues(horizon).Inc()
}

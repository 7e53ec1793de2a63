// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Upstream metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamRetries  *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	UpstreamInFlight prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Analysis metrics
	HolderTablesBuilt *prometheus.CounterVec
	WalletScans       *prometheus.CounterVec
	WalletTxsScanned  prometheus.Counter

	// Notification and chat metrics
	NotificationsSent *prometheus.CounterVec
	ChatCommands      *prometheus.CounterVec
	ChatReconnects    prometheus.Counter

	// Job metrics
	JobRunsTotal *prometheus.CounterVec
	JobDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSupplySnapshot prometheus.Gauge
	LastBurnCheck      prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "injective_token_lab"
	}

	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		UpstreamRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of upstream retry attempts",
		}, []string{"endpoint"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "call_latency_seconds",
			Help:      "Upstream call latency in seconds, retries included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		UpstreamInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "in_flight",
			Help:      "Number of upstream requests currently in flight",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests by route and status",
		}, []string{"route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"route"}),

		HolderTablesBuilt: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "tables_built_total",
			Help:      "Total number of holder tables built by kind",
		}, []string{"kind"}),
		WalletScans: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walletscan",
			Name:      "scans_total",
			Help:      "Total number of wallet scans by status",
		}, []string{"status"}),
		WalletTxsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walletscan",
			Name:      "transactions_scanned_total",
			Help:      "Total number of transactions processed by wallet scans",
		}),

		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "sent_total",
			Help:      "Total number of webhook notifications by kind and status",
		}, []string{"kind", "status"}),
		ChatCommands: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "commands_total",
			Help:      "Total number of chat commands handled by command and status",
		}, []string{"command", "status"}),
		ChatReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "reconnects_total",
			Help:      "Total number of chat gateway reconnects",
		}),

		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Total number of scheduled job runs by status",
		}, []string{"job", "status"}),
		JobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Scheduled job duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}, []string{"job"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSupplySnapshot: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_supply_snapshot_timestamp",
			Help:      "Unix timestamp of last successful supply snapshot",
		}),
		LastBurnCheck: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_burn_check_timestamp",
			Help:      "Unix timestamp of last successful burn watcher run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordUpstreamCall records the outcome and latency of one upstream call.
func RecordUpstreamCall(endpoint, outcome string, seconds float64) {
	DefaultMetrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	DefaultMetrics.UpstreamLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordUpstreamRetry increments the retry counter for an endpoint.
func RecordUpstreamRetry(endpoint string) {
	DefaultMetrics.UpstreamRetries.WithLabelValues(endpoint).Inc()
}

// UpstreamInFlightAdd adjusts the in-flight gauge.
func UpstreamInFlightAdd(delta float64) {
	DefaultMetrics.UpstreamInFlight.Add(delta)
}

// RecordHTTPRequest records API request metrics.
func RecordHTTPRequest(route, status string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, status).Inc()
	DefaultMetrics.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// RecordHolderTable increments the holder table counter.
func RecordHolderTable(kind string) {
	DefaultMetrics.HolderTablesBuilt.WithLabelValues(kind).Inc()
}

// RecordWalletScan records a finished wallet scan.
func RecordWalletScan(status string, txs int) {
	DefaultMetrics.WalletScans.WithLabelValues(status).Inc()
	DefaultMetrics.WalletTxsScanned.Add(float64(txs))
}

// RecordNotification records a webhook delivery attempt.
func RecordNotification(kind, status string) {
	DefaultMetrics.NotificationsSent.WithLabelValues(kind, status).Inc()
}

// RecordChatCommand records a handled chat command.
func RecordChatCommand(command, status string) {
	DefaultMetrics.ChatCommands.WithLabelValues(command, status).Inc()
}

// RecordChatReconnect increments the chat reconnect counter.
func RecordChatReconnect() {
	DefaultMetrics.ChatReconnects.Inc()
}

// RecordJobRun records a scheduled job run.
func RecordJobRun(job, status string, durationSeconds float64) {
	DefaultMetrics.JobRunsTotal.WithLabelValues(job, status).Inc()
	DefaultMetrics.JobDuration.WithLabelValues(job).Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// SetLastSupplySnapshot stamps the last successful supply snapshot.
func SetLastSupplySnapshot(t time.Time) {
	DefaultMetrics.LastSupplySnapshot.Set(float64(t.Unix()))
}

// SetLastBurnCheck stamps the last successful burn watcher run.
func SetLastBurnCheck(t time.Time) {
	DefaultMetrics.LastBurnCheck.Set(float64(t.Unix()))
}

package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	metrics "github.com/tigerroll/solarsink/pkg/solar/core/metrics"
	logger "github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

const metricPrefix = "solarsink_"

// PrometheusRecorder is a Prometheus implementation of the metrics.MetricRecorder interface.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	rowsPersisted     *prometheus.CounterVec
	sitesCreated      *prometheus.CounterVec
	exportRows        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
}

// NewPrometheusRecorder creates a new instance of PrometheusRecorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	// Register Go standard metrics and process/OS metrics.
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		rowsPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "rows_persisted_total",
			Help: "Rows handed to a store, by kind and site.",
		}, []string{"kind", "site"}),
		sitesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "sites_created_total",
			Help: "Sites created on first use.",
		}, []string{"country", "site"}),
		exportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "export_rows_total",
			Help: "Rows written to export files, by format.",
		}, []string{"format"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricPrefix + "operation_duration_seconds",
			Help:    "Duration of persister operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "operation_errors_total",
			Help: "Failed persister operations.",
		}, []string{"operation"}),
	}

	registry.MustRegister(r.rowsPersisted)
	registry.MustRegister(r.sitesCreated)
	registry.MustRegister(r.exportRows)
	registry.MustRegister(r.operationDuration)
	registry.MustRegister(r.operationErrors)

	return r
}

// GetRegistry returns the Prometheus registry.
func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

// RegisterDBStats exports connection pool statistics of db under the given connection name.
func (r *PrometheusRecorder) RegisterDBStats(db *sql.DB, name string) error {
	return r.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// RecordRowsPersisted counts rows handed to a store.
func (r *PrometheusRecorder) RecordRowsPersisted(ctx context.Context, kind, site string, count int) {
	r.rowsPersisted.WithLabelValues(kind, site).Add(float64(count))
	logger.Debugf("Metrics: %d %s rows persisted for site '%s'.", count, kind, site)
}

// RecordSiteCreated counts a newly created site.
func (r *PrometheusRecorder) RecordSiteCreated(ctx context.Context, country, site string) {
	r.sitesCreated.WithLabelValues(country, site).Inc()
}

// RecordExport counts exported rows.
func (r *PrometheusRecorder) RecordExport(ctx context.Context, format string, rows int) {
	r.exportRows.WithLabelValues(format).Add(float64(rows))
}

// RecordDuration observes an operation's duration; failed operations are also counted.
func (r *PrometheusRecorder) RecordDuration(ctx context.Context, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
		r.operationErrors.WithLabelValues(operation).Inc()
	}
	r.operationDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

var _ metrics.MetricRecorder = (*PrometheusRecorder)(nil)

// Package metrics declares the instrumentation hooks used by the persister.
// Implementations live in pkg/solar/infrastructure/metrics.
package metrics

import (
	"context"
	"time"
)

// Record kinds passed to MetricRecorder.RecordRowsPersisted.
const (
	KindGeneration     = "generation"
	KindForecast       = "forecast"
	KindForecastObject = "forecast_object"
)

// MetricRecorder records persistence activity.
type MetricRecorder interface {
	// RecordRowsPersisted counts rows handed to a store for one site (or "" when not site scoped).
	RecordRowsPersisted(ctx context.Context, kind, site string, count int)
	// RecordSiteCreated counts lazily created sites.
	RecordSiteCreated(ctx context.Context, country, site string)
	// RecordExport counts rows written by a file exporter ("csv", "parquet").
	RecordExport(ctx context.Context, format string, rows int)
	// RecordDuration observes how long an operation took and whether it failed.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, err error)
}

// Tracer is an abstract interface for distributed tracing.
type Tracer interface {
	// StartSpan starts a span named operation and returns the derived context and a function ending the span.
	StartSpan(ctx context.Context, operation string, attributes map[string]interface{}) (context.Context, func())
	// RecordError records an error on the span in ctx.
	RecordError(ctx context.Context, module string, err error)
	// RecordEvent adds an event to the span in ctx.
	RecordEvent(ctx context.Context, name string, attributes map[string]interface{})
}

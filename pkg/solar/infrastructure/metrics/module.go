// Package metrics provides Prometheus and OpenTelemetry implementations of the
// core instrumentation hooks, selected by the solar.metrics and solar.tracing settings.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	config "github.com/tigerroll/solarsink/pkg/solar/core/config"
	metrics "github.com/tigerroll/solarsink/pkg/solar/core/metrics"
	logger "github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// NewMetricRecorder returns a PrometheusRecorder when metrics are enabled and a no-op recorder otherwise.
func NewMetricRecorder(cfg *config.Config) metrics.MetricRecorder {
	if !cfg.Solar.Metrics.Enabled {
		return metrics.NewNoOpMetricRecorder()
	}
	return NewPrometheusRecorder()
}

// NewTracer installs an OTLP/HTTP backed TracerProvider when tracing is enabled and returns a tracer on it.
// The provider is flushed and shut down when the application stops.
func NewTracer(lc fx.Lifecycle, cfg *config.Config) (metrics.Tracer, error) {
	tc := cfg.Solar.Tracing
	if !tc.Enabled {
		return metrics.NewNoOpTracer(), nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(tc.Endpoint)}
	if tc.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", tc.ServiceName))),
	)
	otel.SetTracerProvider(tp)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	logger.Infof("Tracing enabled, exporting spans to %s.", tc.Endpoint)
	return NewOpenTelemetryTracerWithProvider(tp), nil
}

// registerMetricsServer serves the Prometheus registry on /metrics while the application runs.
func registerMetricsServer(lc fx.Lifecycle, cfg *config.Config, recorder metrics.MetricRecorder) {
	prom, ok := recorder.(*PrometheusRecorder)
	if !ok {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prom.GetRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              cfg.Solar.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorf("Metrics server stopped: %v", err)
				}
			}()
			logger.Infof("Serving metrics on %s/metrics.", srv.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// Module provides the MetricRecorder and Tracer and starts the metrics endpoint when enabled.
var Module = fx.Options(
	fx.Provide(NewMetricRecorder),
	fx.Provide(NewTracer),
	fx.Invoke(registerMetricsServer),
)

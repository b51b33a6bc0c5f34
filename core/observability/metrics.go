package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

type metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	invocationsTotal    metric.Int64Counter
	invocationDuration  metric.Float64Histogram
	stageDuration       metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	m           metrics
)

func buildMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled || !cfg.MetricsEnabled {
		return sdkmetric.NewMeterProvider(), nil
	}

	exporter, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter),
		),
	), nil
}

func initInstruments() {
	metricsOnce.Do(func() {
		meter := otel.Meter("sqlgeneric/pipeline")
		m.httpRequestsTotal, _ = meter.Int64Counter("sqlgeneric.http.server.requests_total")
		m.httpRequestDuration, _ = meter.Float64Histogram("sqlgeneric.http.server.request_duration_ms")
		m.invocationsTotal, _ = meter.Int64Counter("sqlgeneric.invocations_total")
		m.invocationDuration, _ = meter.Float64Histogram("sqlgeneric.invocation_duration_ms")
		m.stageDuration, _ = meter.Float64Histogram("sqlgeneric.stage_duration_ms")
	})
}

func RecordHTTPRequest(ctx context.Context, method, route string, status int, durationMS float64) {
	initInstruments()
	attrs := metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.Int(AttrHTTPStatusCode, status),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, durationMS, attrs)
}

// RecordInvocation counts one pipeline run. result is "success", "captured"
// or "raised".
func RecordInvocation(ctx context.Context, dialect, action, result string, durationMS float64) {
	initInstruments()
	attrs := metric.WithAttributes(
		attribute.String(AttrDialect, dialect),
		attribute.String(AttrAction, action),
		attribute.String(AttrResult, result),
	)
	m.invocationsTotal.Add(ctx, 1, attrs)
	m.invocationDuration.Record(ctx, durationMS, attrs)
}

func RecordStage(ctx context.Context, stage string, success bool, durationMS float64) {
	initInstruments()
	m.stageDuration.Record(ctx, durationMS, metric.WithAttributes(
		attribute.String(AttrStage, stage),
		attribute.Bool("success", success),
	))
}

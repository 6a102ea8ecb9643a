package trace

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultServiceName is reported when OTEL_SERVICE_NAME is unset.
const DefaultServiceName = "loadingview"

// tracerName is the instrumentation scope for overlay spans.
const tracerName = "loadingview/ui"

// OTLPExporter exports loading spans to an OTLP endpoint.
// A nil *OTLPExporter is valid and records nothing.
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// NewOTLPExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Returns nil if endpoint not configured (disabled)
func NewOTLPExporter(ctx context.Context) (*OTLPExporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	return newExporter(sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)), nil
}

func newExporter(provider *sdktrace.TracerProvider) *OTLPExporter {
	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer(tracerName),
	}
}

// Tracer returns the tracer spans are started on; a no-op tracer when disabled.
func (e *OTLPExporter) Tracer() oteltrace.Tracer {
	if e == nil {
		return noop.NewTracerProvider().Tracer(tracerName)
	}
	return e.tracer
}

// Enabled reports whether spans leave the process.
func (e *OTLPExporter) Enabled() bool {
	return e != nil
}

// Shutdown flushes and closes the exporter
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}

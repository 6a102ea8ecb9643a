package trace

import (
	"context"
	"testing"
	"time"
)

func TestNewOTLPExporter_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	e, err := NewOTLPExporter(context.Background())
	if err != nil {
		t.Fatalf("NewOTLPExporter: unexpected error: %v", err)
	}
	if e != nil {
		t.Fatal("NewOTLPExporter: expected nil exporter when endpoint unset")
	}
	if e.Enabled() {
		t.Error("nil exporter reports enabled")
	}
	if e.Tracer() == nil {
		t.Error("nil exporter must still hand out a tracer")
	}
	if err := e.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on nil exporter: %v", err)
	}
}

func TestNewOTLPExporter_EnabledWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("OTEL_SERVICE_NAME", "loadingview-test")

	e, err := NewOTLPExporter(context.Background())
	if err != nil {
		t.Fatalf("NewOTLPExporter: unexpected error: %v", err)
	}
	if e == nil || !e.Enabled() {
		t.Fatal("NewOTLPExporter: expected an enabled exporter")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// Nothing was recorded, so shutdown has nothing to send.
	if err := e.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/upkeep/internal/core/ports"
	"go.trai.ch/zerr"
)

// InstrumentationName is the tracer name used for all spans.
const InstrumentationName = "go.trai.ch/upkeep"

// ShutdownFunc flushes and stops trace export.
type ShutdownFunc func(ctx context.Context) error

// Setup returns a tracer exporting to the OTLP/HTTP endpoint, or a no-op tracer when
// endpoint is empty.
func Setup(ctx context.Context, endpoint string) (ports.Tracer, ShutdownFunc, error) {
	if endpoint == "" {
		return NewNoOpTracer(), func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to create trace exporter"), "endpoint", endpoint)
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	shutdown := func(ctx context.Context) error {
		if err := provider.Shutdown(ctx); err != nil {
			return zerr.Wrap(err, "failed to flush traces")
		}
		return nil
	}
	return NewOTelTracerFrom(provider, InstrumentationName), shutdown, nil
}

package epicycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitOTel picks a tracing backend by name and returns its shutdown.
// An empty name leaves the global no-op tracer in place.
func InitOTel(kind string) (func(), error) {
	switch kind {
	case "", "ENOENT", "none":
		return func() {}, nil
	case "honeycomb":
		return InitOTelHNY()
	case "grafana":
		tp, err := InitOTelGRF()
		if err != nil {
			return nil, err
		}
		return func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				slog.Error("Could not shut down tracer provider", slog.Any("Error", err))
			}
		}, nil
	default:
		return nil, fmt.Errorf("unknown tracing backend: %s", kind)
	}
}

// InitOTelHNY uses the Honeycomb library to interface with OTel
func InitOTelHNY() (func(), error) {
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName("epicycle"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure OpenTelemetry: %w", err)
	}
	return func() { otelShutdown() }, nil
}

// InitOTelGRF uses the Grafana recommended configuration including Baggage for propagation.
// The endpoint comes from the standard OTEL_EXPORTER_OTLP_* variables.
func InitOTelGRF() (*sdktrace.TracerProvider, error) {
	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}

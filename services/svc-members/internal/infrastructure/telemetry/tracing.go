package telemetry

import (
	"context"
	"strings"

	"github.com/architeacher/members/services/svc-members/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var spanExporters = map[string]func(ctx context.Context, cfg config.Telemetry) (sdktrace.SpanExporter, error){
	"grpc": func(ctx context.Context, cfg config.Telemetry) (sdktrace.SpanExporter, error) {
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint), otlptracegrpc.WithInsecure())
	},
	"stdout": func(context.Context, config.Telemetry) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	},
}

// NewTracerProvider installs a batching tracer provider as the global one
// and propagates W3C trace context and baggage.
func NewTracerProvider(ctx context.Context, app config.App, cfg config.Telemetry) (trace.TracerProvider, ShutdownFunc, error) {
	newExporter, ok := spanExporters[strings.ToLower(cfg.ExporterType)]
	if !ok {
		return nil, nil, unsupported("trace", cfg.ExporterType)
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	res, err := serviceResource(ctx, app)
	if err != nil {
		return nil, nil, err
	}

	ratio := sdktrace.TraceIDRatioBased(cfg.Traces.SamplerRatio)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(ratio, sdktrace.WithRemoteParentSampled(ratio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, tp.Shutdown, nil
}

func NewNoopTracerProvider() trace.TracerProvider {
	return tracenoop.NewTracerProvider()
}

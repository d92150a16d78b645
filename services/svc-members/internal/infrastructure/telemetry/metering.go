package telemetry

import (
	"context"
	"strings"

	"github.com/architeacher/members/pkg/metrics"
	"github.com/architeacher/members/pkg/metrics/noop"
	"github.com/architeacher/members/pkg/metrics/otelmetrics"
	"github.com/architeacher/members/services/svc-members/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/architeacher/members/services/svc-members"

var metricExporters = map[string]func(ctx context.Context, cfg config.Metrics) (sdkmetric.Exporter, error){
	"otlp": func(ctx context.Context, cfg config.Metrics) (sdkmetric.Exporter, error) {
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint), otlpmetrichttp.WithInsecure())
	},
	"stdout": func(context.Context, config.Metrics) (sdkmetric.Exporter, error) {
		return stdoutmetric.New()
	},
}

// NewMetricsClient exports on a fixed interval. Disabled metrics get a
// client that drops everything.
func NewMetricsClient(ctx context.Context, app config.App, cfg config.Telemetry, onError func(name string, err error)) (metrics.Client, error) {
	if !cfg.Metrics.Enabled {
		return noop.NewMetricsClient(), nil
	}

	newExporter, ok := metricExporters[strings.ToLower(cfg.Metrics.ExporterType)]
	if !ok {
		return nil, unsupported("metric", cfg.Metrics.ExporterType)
	}

	exporter, err := newExporter(ctx, cfg.Metrics)
	if err != nil {
		return nil, err
	}

	res, err := serviceResource(ctx, app)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Metrics.Interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	opts := []otelmetrics.Option{otelmetrics.WithShutdown(mp.Shutdown)}
	if onError != nil {
		opts = append(opts, otelmetrics.WithErrorHandler(onError))
	}

	return otelmetrics.New(mp.Meter(meterName), opts...), nil
}

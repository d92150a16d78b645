package otelmetrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/architeacher/members/pkg/metrics/otelmetrics"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	result := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			result[m.Name] = m
		}
	}

	return result
}

func TestClient_Inc(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	client := otelmetrics.New(provider.Meter("test"), otelmetrics.WithShutdown(provider.Shutdown))

	ctx := context.Background()

	client.Inc(ctx, "queries.searchmembersquery.success", int64(1))
	client.Inc(ctx, "queries.searchmembersquery.success", 2)
	client.Inc(ctx, "queries.searchmembersquery.duration", 0.25, attribute.String("outcome", "success"))
	client.Inc(ctx, "ignored", "not a number")

	collected := collect(t, reader)

	counter, ok := collected["queries.searchmembersquery.success"]
	require.True(t, ok)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	require.Equal(t, int64(3), sum.DataPoints[0].Value)
	require.Equal(t, "{call}", counter.Unit)

	histogram, ok := collected["queries.searchmembersquery.duration"]
	require.True(t, ok)

	hist, ok := histogram.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	require.Equal(t, uint64(1), hist.DataPoints[0].Count)

	require.NotContains(t, collected, "ignored")
	require.NoError(t, client.Shutdown(ctx))
}

func TestClient_ShutdownWithoutProvider(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	require.NoError(t, otelmetrics.New(provider.Meter("test")).Shutdown(context.Background()))

	failing := otelmetrics.New(provider.Meter("test"), otelmetrics.WithShutdown(func(context.Context) error {
		return errors.New("flush failed")
	}))
	require.EqualError(t, failing.Shutdown(context.Background()), "flush failed")
}

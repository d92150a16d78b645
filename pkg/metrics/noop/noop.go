// Package noop is the metrics client used when METRICS_ENABLED is off and in
// handler tests that do not assert on measurements.
package noop

import (
	"context"

	"github.com/architeacher/members/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

// MetricsClient drops every measurement.
type MetricsClient struct{}

var _ metrics.Client = MetricsClient{}

func NewMetricsClient() MetricsClient {
	return MetricsClient{}
}

func (MetricsClient) Inc(context.Context, string, any, ...attribute.KeyValue) {}

// Shutdown has nothing to flush.
func (MetricsClient) Shutdown(context.Context) error {
	return nil
}

// Package metrics names the measurements the service records and how they
// are described to the exporter.
package metrics

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	HTTPRequestsTotal   = "http_requests_total"
	HTTPRequestDuration = "http_request_duration_seconds"
	HTTPResponseSize    = "http_response_size_bytes"

	SuffixDuration = ".duration"
	SuffixSuccess  = ".success"
	SuffixFailure  = ".failure"
)

type (
	// Client records a named measurement. Integers add to a counter, floats
	// are histogram samples.
	Client interface {
		Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue)
		Shutdown(ctx context.Context) error
	}

	Descriptor struct {
		Description string
		Unit        string
	}
)

var catalog = map[string]Descriptor{
	HTTPRequestsTotal:   {Description: "HTTP requests served", Unit: "{request}"},
	HTTPRequestDuration: {Description: "HTTP request latency", Unit: "s"},
	HTTPResponseSize:    {Description: "HTTP response body size", Unit: "By"},
}

// Describe returns the descriptor for name. Handler measurements are keyed
// "<kind>.<action>.<outcome>" and described by their suffix.
func Describe(name string) Descriptor {
	if d, ok := catalog[name]; ok {
		return d
	}

	switch {
	case strings.HasSuffix(name, SuffixDuration):
		return Descriptor{Description: "handler latency", Unit: "s"}
	case strings.HasSuffix(name, SuffixSuccess):
		return Descriptor{Description: "handler calls that succeeded", Unit: "{call}"}
	case strings.HasSuffix(name, SuffixFailure):
		return Descriptor{Description: "handler calls that failed", Unit: "{call}"}
	}

	return Descriptor{Unit: "1"}
}

func RegisterInt64Counter(m metric.Meter, name string) (metric.Int64Counter, error) {
	d := Describe(name)

	counter, err := m.Int64Counter(name, metric.WithDescription(d.Description), metric.WithUnit(d.Unit))
	if err != nil {
		return nil, fmt.Errorf("register counter %s: %w", name, err)
	}

	return counter, nil
}

func RegisterFloat64Histogram(m metric.Meter, name string) (metric.Float64Histogram, error) {
	d := Describe(name)

	histogram, err := m.Float64Histogram(name, metric.WithDescription(d.Description), metric.WithUnit(d.Unit))
	if err != nil {
		return nil, fmt.Errorf("register histogram %s: %w", name, err)
	}

	return histogram, nil
}

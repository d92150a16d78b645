// Package otelmetrics implements metrics.Client on top of an OpenTelemetry
// meter. Instruments are created on first use and cached by name.
package otelmetrics

import (
	"context"
	"sync"

	"github.com/architeacher/members/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type (
	ShutdownFunc func(ctx context.Context) error

	Client struct {
		meter    metric.Meter
		shutdown ShutdownFunc

		mu         sync.Mutex
		counters   map[string]metric.Int64Counter
		histograms map[string]metric.Float64Histogram
		onError    func(name string, err error)
	}

	Option func(*Client)
)

var _ metrics.Client = (*Client)(nil)

// WithErrorHandler is called when an instrument cannot be registered.
func WithErrorHandler(fn func(name string, err error)) Option {
	return func(c *Client) {
		c.onError = fn
	}
}

// WithShutdown sets the function that flushes and stops the meter provider.
func WithShutdown(fn ShutdownFunc) Option {
	return func(c *Client) {
		c.shutdown = fn
	}
}

func New(meter metric.Meter, opts ...Option) *Client {
	c := &Client{
		meter:      meter,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
		onError:    func(string, error) {},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue) {
	opt := metric.WithAttributes(attributes...)

	switch v := value.(type) {
	case int:
		c.add(ctx, key, int64(v), opt)
	case int64:
		c.add(ctx, key, v, opt)
	case uint64:
		c.add(ctx, key, int64(v), opt)
	case float64:
		c.observe(ctx, key, v, opt)
	case float32:
		c.observe(ctx, key, float64(v), opt)
	}
}

func (c *Client) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}

	return c.shutdown(ctx)
}

func (c *Client) add(ctx context.Context, key string, value int64, opt metric.AddOption) {
	c.mu.Lock()
	counter, ok := c.counters[key]
	if !ok {
		var err error

		counter, err = metrics.RegisterInt64Counter(c.meter, key)
		if err != nil {
			c.mu.Unlock()
			c.onError(key, err)

			return
		}

		c.counters[key] = counter
	}
	c.mu.Unlock()

	counter.Add(ctx, value, opt)
}

func (c *Client) observe(ctx context.Context, key string, value float64, opt metric.RecordOption) {
	c.mu.Lock()
	histogram, ok := c.histograms[key]
	if !ok {
		var err error

		histogram, err = metrics.RegisterFloat64Histogram(c.meter, key)
		if err != nil {
			c.mu.Unlock()
			c.onError(key, err)

			return
		}

		c.histograms[key] = histogram
	}
	c.mu.Unlock()

	histogram.Record(ctx, value, opt)
}

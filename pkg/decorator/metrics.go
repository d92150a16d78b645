package decorator

import (
	"context"
	"strings"
	"time"

	"github.com/architeacher/members/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

type (
	commandMetricsDecorator[C Command, R any] struct {
		base   CommandHandler[C, R]
		client metrics.Client
	}

	queryMetricsDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		client metrics.Client
	}
)

func (d commandMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	start := time.Now()

	defer func() {
		record(ctx, d.client, "commands", generateActionName(cmd), time.Since(start), err)
	}()

	return d.base.Handle(ctx, cmd)
}

func (d queryMetricsDecorator[Q, R]) Execute(ctx context.Context, query Q) (result R, err error) {
	start := time.Now()

	defer func() {
		record(ctx, d.client, "queries", generateActionName(query), time.Since(start), err)
	}()

	return d.base.Execute(ctx, query)
}

func record(ctx context.Context, client metrics.Client, kind, action string, elapsed time.Duration, err error) {
	if client == nil {
		return
	}

	prefix := kind + "." + strings.ToLower(action)
	outcome := metrics.SuffixSuccess

	if err != nil {
		outcome = metrics.SuffixFailure
	}

	attrs := attribute.String("outcome", strings.TrimPrefix(outcome, "."))

	client.Inc(ctx, prefix+metrics.SuffixDuration, elapsed.Seconds(), attrs)
	client.Inc(ctx, prefix+outcome, int64(1))
}

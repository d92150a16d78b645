package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Command any

	// CommandHandler applies a write: a registration, a bulk update or delete,
	// or the seed. R is what the write reports back, e.g. rows affected.
	CommandHandler[C Command, R any] interface {
		Handle(context.Context, C) (R, error)
	}

	// CommandHandlerFunc adapts a plain function to a CommandHandler.
	CommandHandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)
)

func (f CommandHandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

func ApplyCommandDecorators[C Command, R any](
	handler CommandHandler[C, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CommandHandler[C, R] {
	traced := commandTracingDecorator[C, R]{base: handler, tracerProvider: tracerProvider}
	measured := commandMetricsDecorator[C, R]{base: traced, client: metricsClient}

	return commandLoggingDecorator[C, R]{base: measured, logger: log}
}

// generateActionName turns "queries.SearchMembersQuery" into "SearchMembersQuery".
func generateActionName(handler any) string {
	name := fmt.Sprintf("%T", handler)

	if index := strings.LastIndex(name, "."); index >= 0 {
		return name[index+1:]
	}

	return strings.TrimPrefix(name, "*")
}

package commands

import (
	"context"

	"github.com/architeacher/members/pkg/decorator"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/ports"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	RenameMembersCommand struct {
		Condition model.MemberSearchCondition
		Username  string
	}

	AddAgeCommand struct {
		Condition model.MemberSearchCondition
		Delta     int
	}

	MultiplyAgeCommand struct {
		Condition model.MemberSearchCondition
		Factor    int
	}

	DeleteMembersCommand struct {
		Condition model.MemberSearchCondition
	}

	RenameMembersCommandHandler = decorator.CommandHandler[RenameMembersCommand, int64]
	AddAgeCommandHandler        = decorator.CommandHandler[AddAgeCommand, int64]
	MultiplyAgeCommandHandler   = decorator.CommandHandler[MultiplyAgeCommand, int64]
	DeleteMembersCommandHandler = decorator.CommandHandler[DeleteMembersCommand, int64]
)

// Bulk statements change rows behind any cached query result, so every
// handler purges the cache once rows were affected.

func NewRenameMembersCommandHandler(
	svc ports.MembersService,
	invalidator decorator.Invalidator,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) RenameMembersCommandHandler {
	return decorator.ApplyCommandDecorators[RenameMembersCommand, int64](
		bulkHandler(invalidator, func(ctx context.Context, cmd RenameMembersCommand) (int64, error) {
			return svc.RenameMembers(ctx, cmd.Condition, cmd.Username)
		}),
		log,
		metricsClient,
		tracerProvider,
	)
}

func NewAddAgeCommandHandler(
	svc ports.MembersService,
	invalidator decorator.Invalidator,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) AddAgeCommandHandler {
	return decorator.ApplyCommandDecorators[AddAgeCommand, int64](
		bulkHandler(invalidator, func(ctx context.Context, cmd AddAgeCommand) (int64, error) {
			return svc.AddAge(ctx, cmd.Condition, cmd.Delta)
		}),
		log,
		metricsClient,
		tracerProvider,
	)
}

func NewMultiplyAgeCommandHandler(
	svc ports.MembersService,
	invalidator decorator.Invalidator,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) MultiplyAgeCommandHandler {
	return decorator.ApplyCommandDecorators[MultiplyAgeCommand, int64](
		bulkHandler(invalidator, func(ctx context.Context, cmd MultiplyAgeCommand) (int64, error) {
			return svc.MultiplyAge(ctx, cmd.Condition, cmd.Factor)
		}),
		log,
		metricsClient,
		tracerProvider,
	)
}

func NewDeleteMembersCommandHandler(
	svc ports.MembersService,
	invalidator decorator.Invalidator,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) DeleteMembersCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteMembersCommand, int64](
		bulkHandler(invalidator, func(ctx context.Context, cmd DeleteMembersCommand) (int64, error) {
			return svc.DeleteMembers(ctx, cmd.Condition)
		}),
		log,
		metricsClient,
		tracerProvider,
	)
}

func bulkHandler[C any](invalidator decorator.Invalidator, run func(ctx context.Context, cmd C) (int64, error)) decorator.CommandHandlerFunc[C, int64] {
	return func(ctx context.Context, cmd C) (int64, error) {
		affected, err := run(ctx, cmd)
		if err != nil {
			return 0, err
		}

		if affected > 0 {
			purge(invalidator)
		}

		return affected, nil
	}
}

func purge(invalidator decorator.Invalidator) {
	if invalidator != nil {
		invalidator.Purge()
	}
}

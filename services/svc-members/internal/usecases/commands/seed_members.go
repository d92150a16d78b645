package commands

import (
	"context"

	"github.com/architeacher/members/pkg/decorator"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics"
	"github.com/architeacher/members/services/svc-members/internal/ports"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	SeedMembersCommand struct {
		Members int
	}

	SeedMembersCommandHandler = decorator.CommandHandler[SeedMembersCommand, int]

	seedMembersCommandHandler struct {
		membersService ports.MembersService
		invalidator    decorator.Invalidator
	}
)

func NewSeedMembersCommandHandler(
	svc ports.MembersService,
	invalidator decorator.Invalidator,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) SeedMembersCommandHandler {
	return decorator.ApplyCommandDecorators[SeedMembersCommand, int](
		seedMembersCommandHandler{membersService: svc, invalidator: invalidator},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h seedMembersCommandHandler) Handle(ctx context.Context, cmd SeedMembersCommand) (int, error) {
	inserted, err := h.membersService.Seed(ctx, cmd.Members)
	if err != nil {
		return 0, err
	}

	if inserted > 0 {
		purge(h.invalidator)
	}

	return inserted, nil
}

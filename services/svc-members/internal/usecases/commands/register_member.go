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
	RegisterMemberCommand struct {
		Username *string
		Age      int
		TeamName string
	}

	RegisterMemberCommandHandler = decorator.CommandHandler[RegisterMemberCommand, *model.Member]

	registerMemberCommandHandler struct {
		membersService ports.MembersService
		invalidator    decorator.Invalidator
	}
)

func NewRegisterMemberCommandHandler(
	svc ports.MembersService,
	invalidator decorator.Invalidator,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) RegisterMemberCommandHandler {
	return decorator.ApplyCommandDecorators[RegisterMemberCommand, *model.Member](
		registerMemberCommandHandler{membersService: svc, invalidator: invalidator},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h registerMemberCommandHandler) Handle(ctx context.Context, cmd RegisterMemberCommand) (*model.Member, error) {
	member, err := h.membersService.RegisterMember(ctx, cmd.Username, cmd.Age, cmd.TeamName)
	if err != nil {
		return nil, err
	}

	purge(h.invalidator)

	return member, nil
}

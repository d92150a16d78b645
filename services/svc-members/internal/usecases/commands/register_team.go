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
	RegisterTeamCommand struct {
		Name string
	}

	RegisterTeamCommandHandler = decorator.CommandHandler[RegisterTeamCommand, *model.Team]

	registerTeamCommandHandler struct {
		membersService ports.MembersService
	}
)

func NewRegisterTeamCommandHandler(
	svc ports.MembersService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) RegisterTeamCommandHandler {
	return decorator.ApplyCommandDecorators[RegisterTeamCommand, *model.Team](
		registerTeamCommandHandler{membersService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h registerTeamCommandHandler) Handle(ctx context.Context, cmd RegisterTeamCommand) (*model.Team, error) {
	return h.membersService.RegisterTeam(ctx, cmd.Name)
}

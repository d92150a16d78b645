package queries

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
	GetMemberQuery struct {
		ID model.MemberID
	}

	GetMemberQueryHandler = decorator.QueryHandler[GetMemberQuery, *model.MemberTeamView]

	getMemberQueryHandler struct {
		membersService ports.MembersService
	}
)

func NewGetMemberQueryHandler(
	svc ports.MembersService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetMemberQueryHandler {
	return decorator.ApplyQueryDecorators[GetMemberQuery, *model.MemberTeamView](
		getMemberQueryHandler{membersService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getMemberQueryHandler) Execute(ctx context.Context, query GetMemberQuery) (*model.MemberTeamView, error) {
	return h.membersService.GetMember(ctx, query.ID)
}

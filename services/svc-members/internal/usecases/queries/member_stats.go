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
	AgeSummaryQuery struct {
		Condition model.MemberSearchCondition `json:"condition"`
	}

	TeamAgeStatsQuery struct {
		Condition model.MemberSearchCondition `json:"condition"`
		MinAvgAge *float64                    `json:"minAvgAge,omitempty"`
	}

	AgeSummaryQueryHandler   = decorator.QueryHandler[AgeSummaryQuery, model.AgeSummary]
	TeamAgeStatsQueryHandler = decorator.QueryHandler[TeamAgeStatsQuery, []model.TeamAgeStats]

	ageSummaryQueryHandler struct {
		membersService ports.MembersService
	}

	teamAgeStatsQueryHandler struct {
		membersService ports.MembersService
	}
)

func NewAgeSummaryQueryHandler(
	svc ports.MembersService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) AgeSummaryQueryHandler {
	return decorator.ApplyQueryDecorators[AgeSummaryQuery, model.AgeSummary](
		ageSummaryQueryHandler{membersService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h ageSummaryQueryHandler) Execute(ctx context.Context, query AgeSummaryQuery) (model.AgeSummary, error) {
	return h.membersService.AgeSummary(ctx, query.Condition)
}

func NewTeamAgeStatsQueryHandler(
	svc ports.MembersService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) TeamAgeStatsQueryHandler {
	return decorator.ApplyQueryDecorators[TeamAgeStatsQuery, []model.TeamAgeStats](
		teamAgeStatsQueryHandler{membersService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h teamAgeStatsQueryHandler) Execute(ctx context.Context, query TeamAgeStatsQuery) ([]model.TeamAgeStats, error) {
	return h.membersService.TeamAgeStats(ctx, query.Condition, query.MinAvgAge)
}

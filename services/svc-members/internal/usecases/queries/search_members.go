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
	SearchMembersQuery struct {
		Condition model.MemberSearchCondition `json:"condition"`
		Sorting   []model.SortField           `json:"sorting,omitempty"`
	}

	SearchMembersQueryHandler = decorator.QueryHandler[SearchMembersQuery, []model.MemberTeamView]

	searchMembersQueryHandler struct {
		membersService ports.MembersService
	}
)

func NewSearchMembersQueryHandler(
	svc ports.MembersService,
	cache decorator.Cache[SearchMembersQuery, []model.MemberTeamView],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) SearchMembersQueryHandler {
	return decorator.ApplyQueryDecorators[SearchMembersQuery, []model.MemberTeamView](
		decorator.NewQueryCachingDecorator[SearchMembersQuery, []model.MemberTeamView](
			searchMembersQueryHandler{membersService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h searchMembersQueryHandler) Execute(ctx context.Context, query SearchMembersQuery) ([]model.MemberTeamView, error) {
	return h.membersService.SearchMembers(ctx, query.Condition, query.Sorting)
}

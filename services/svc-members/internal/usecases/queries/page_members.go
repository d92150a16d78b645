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
	PageMembersQuery struct {
		Condition model.MemberSearchCondition `json:"condition"`
		Page      model.PageRequest           `json:"page"`
	}

	MembersPage = model.Page[model.MemberTeamView]

	PageMembersQueryHandler = decorator.QueryHandler[PageMembersQuery, MembersPage]

	pageMembersQueryHandler struct {
		membersService ports.MembersService
	}
)

func NewPageMembersQueryHandler(
	svc ports.MembersService,
	cache decorator.Cache[PageMembersQuery, MembersPage],
	cacheConfig decorator.CacheConfig,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) PageMembersQueryHandler {
	return decorator.ApplyQueryDecorators[PageMembersQuery, MembersPage](
		decorator.NewQueryCachingDecorator[PageMembersQuery, MembersPage](
			pageMembersQueryHandler{membersService: svc},
			cache,
			cacheConfig,
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h pageMembersQueryHandler) Execute(ctx context.Context, query PageMembersQuery) (MembersPage, error) {
	return h.membersService.PageMembers(ctx, query.Condition, query.Page)
}

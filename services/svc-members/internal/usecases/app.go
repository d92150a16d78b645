package usecases

import (
	"github.com/architeacher/members/pkg/circuitbreaker"
	"github.com/architeacher/members/pkg/decorator"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/ports"
	"github.com/architeacher/members/services/svc-members/internal/usecases/commands"
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		RegisterTeam   commands.RegisterTeamCommandHandler
		RegisterMember commands.RegisterMemberCommandHandler
		RenameMembers  commands.RenameMembersCommandHandler
		AddAge         commands.AddAgeCommandHandler
		MultiplyAge    commands.MultiplyAgeCommandHandler
		DeleteMembers  commands.DeleteMembersCommandHandler
		SeedMembers    commands.SeedMembersCommandHandler
	}

	Queries struct {
		SearchMembers     queries.SearchMembersQueryHandler
		PageMembers       queries.PageMembersQueryHandler
		GetMember         queries.GetMemberQueryHandler
		AgeSummary        queries.AgeSummaryQueryHandler
		TeamAgeStats      queries.TeamAgeStatsQueryHandler
		FetchLiveness     queries.FetchLivenessQueryHandler
		FetchReadiness    queries.FetchReadinessQueryHandler
		FetchHealthReport queries.FetchHealthReportQueryHandler
	}

	// QueryCaches holds the result caches of the search queries. Any field
	// may be nil, which disables that cache.
	QueryCaches struct {
		Search      decorator.Cache[queries.SearchMembersQuery, []model.MemberTeamView]
		Page        decorator.Cache[queries.PageMembersQuery, queries.MembersPage]
		Invalidator decorator.Invalidator
		Config      decorator.CacheConfig
	}

	// Health bundles what the health queries report on.
	Health struct {
		Pinger        ports.StoragePinger
		Breaker       *circuitbreaker.CircuitBreaker[struct{}]
		StorageDriver string
		Version       string
	}

	Application struct {
		Commands Commands
		Queries  Queries
	}
)

func NewApplication(
	membersSvc ports.MembersService,
	caches QueryCaches,
	health Health,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) *Application {
	return &Application{
		Commands: Commands{
			RegisterTeam:   commands.NewRegisterTeamCommandHandler(membersSvc, log, metricsClient, tracerProvider),
			RegisterMember: commands.NewRegisterMemberCommandHandler(membersSvc, caches.Invalidator, log, metricsClient, tracerProvider),
			RenameMembers:  commands.NewRenameMembersCommandHandler(membersSvc, caches.Invalidator, log, metricsClient, tracerProvider),
			AddAge:         commands.NewAddAgeCommandHandler(membersSvc, caches.Invalidator, log, metricsClient, tracerProvider),
			MultiplyAge:    commands.NewMultiplyAgeCommandHandler(membersSvc, caches.Invalidator, log, metricsClient, tracerProvider),
			DeleteMembers:  commands.NewDeleteMembersCommandHandler(membersSvc, caches.Invalidator, log, metricsClient, tracerProvider),
			SeedMembers:    commands.NewSeedMembersCommandHandler(membersSvc, caches.Invalidator, log, metricsClient, tracerProvider),
		},
		Queries: Queries{
			SearchMembers: queries.NewSearchMembersQueryHandler(membersSvc, caches.Search, caches.Config, log, metricsClient, tracerProvider),
			PageMembers:   queries.NewPageMembersQueryHandler(membersSvc, caches.Page, caches.Config, log, metricsClient, tracerProvider),
			GetMember:     queries.NewGetMemberQueryHandler(membersSvc, log, metricsClient, tracerProvider),
			AgeSummary:    queries.NewAgeSummaryQueryHandler(membersSvc, log, metricsClient, tracerProvider),
			TeamAgeStats:  queries.NewTeamAgeStatsQueryHandler(membersSvc, log, metricsClient, tracerProvider),
			FetchLiveness: queries.NewFetchLivenessQueryHandler(log, metricsClient, tracerProvider),
			FetchReadiness: queries.NewFetchReadinessQueryHandler(
				health.Pinger, health.Breaker, log, metricsClient, tracerProvider,
			),
			FetchHealthReport: queries.NewFetchHealthReportQueryHandler(
				health.Pinger, health.Breaker, health.StorageDriver, health.Version, log, metricsClient, tracerProvider,
			),
		},
	}
}

package ports

import (
	"context"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
)

type (
	TeamSaver interface {
		// CreateTeam stores a new team. A taken name yields model.ErrDuplicateTeam.
		CreateTeam(ctx context.Context, team *model.Team) error
	}

	TeamFetcher interface {
		// FetchTeamByName retrieves a team by its unique name.
		FetchTeamByName(ctx context.Context, name string) (*model.Team, error)
	}

	Saver interface {
		// Create stores a new member.
		Create(ctx context.Context, member *model.Member) error
	}

	Fetcher interface {
		// FetchByID retrieves a member joined with its team.
		FetchByID(ctx context.Context, id model.MemberID) (*model.MemberTeamView, error)

		// FindByUsername lists every member with the given username.
		FindByUsername(ctx context.Context, username string) ([]model.MemberTeamView, error)
	}

	Searcher interface {
		// Search returns every match in criteria order, ignoring any window.
		Search(ctx context.Context, criteria model.Criteria) ([]model.MemberTeamView, error)

		// Page returns one window of the matches together with their total count.
		Page(ctx context.Context, criteria model.Criteria) (model.Page[model.MemberTeamView], error)
	}

	BulkUpdater interface {
		BulkRename(ctx context.Context, spec model.Specification, username string) (int64, error)
		BulkAddAge(ctx context.Context, spec model.Specification, delta int) (int64, error)
		BulkMultiplyAge(ctx context.Context, spec model.Specification, factor int) (int64, error)
		BulkDelete(ctx context.Context, spec model.Specification) (int64, error)
	}

	Statistician interface {
		AgeSummary(ctx context.Context, spec model.Specification) (model.AgeSummary, error)

		// TeamAgeStats groups matches by team name. When minAvgAge is set only
		// teams whose average age reaches it are returned.
		TeamAgeStats(ctx context.Context, spec model.Specification, minAvgAge *float64) ([]model.TeamAgeStats, error)
	}

	// MembersRepository is bound to one data-source session: either the pool
	// or a single transaction handed out by a UnitOfWork.
	MembersRepository interface {
		TeamSaver
		TeamFetcher
		Saver
		Fetcher
		Searcher
		BulkUpdater
		Statistician
	}

	// UnitOfWork scopes a set of repository calls to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise; the
	// repository passed to fn must not be used after fn returns.
	UnitOfWork interface {
		WithinTx(ctx context.Context, fn func(ctx context.Context, repo MembersRepository) error) error

		// WithinReadTx is WithinTx for read-only work that must see one
		// consistent snapshot across several statements.
		WithinReadTx(ctx context.Context, fn func(ctx context.Context, repo MembersRepository) error) error
	}
)

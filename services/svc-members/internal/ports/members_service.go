package ports

import (
	"context"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
)

// MembersService defines the member search and maintenance operations.
type MembersService interface {
	SearchMembers(ctx context.Context, cond model.MemberSearchCondition, sorting []model.SortField) ([]model.MemberTeamView, error)
	PageMembers(ctx context.Context, cond model.MemberSearchCondition, page model.PageRequest) (model.Page[model.MemberTeamView], error)
	GetMember(ctx context.Context, id model.MemberID) (*model.MemberTeamView, error)
	FindByUsername(ctx context.Context, username string) ([]model.MemberTeamView, error)

	RegisterTeam(ctx context.Context, name string) (*model.Team, error)
	RegisterMember(ctx context.Context, username *string, age int, teamName string) (*model.Member, error)

	RenameMembers(ctx context.Context, cond model.MemberSearchCondition, username string) (int64, error)
	AddAge(ctx context.Context, cond model.MemberSearchCondition, delta int) (int64, error)
	MultiplyAge(ctx context.Context, cond model.MemberSearchCondition, factor int) (int64, error)
	DeleteMembers(ctx context.Context, cond model.MemberSearchCondition) (int64, error)

	AgeSummary(ctx context.Context, cond model.MemberSearchCondition) (model.AgeSummary, error)
	TeamAgeStats(ctx context.Context, cond model.MemberSearchCondition, minAvgAge *float64) ([]model.TeamAgeStats, error)

	// Seed creates the demo teams and members unless they already exist and
	// reports how many members were inserted.
	Seed(ctx context.Context, members int) (int, error)
}

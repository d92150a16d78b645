package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/ports"
)

const (
	seedTeamA = "TeamA"
	seedTeamB = "TeamB"
)

// MembersService is the transaction boundary: every call opens its own unit
// of work and hands the bound repository to the data layer.
type MembersService struct {
	uow ports.UnitOfWork
}

func NewMembersService(uow ports.UnitOfWork) *MembersService {
	return &MembersService{uow: uow}
}

func (s *MembersService) SearchMembers(ctx context.Context, cond model.MemberSearchCondition, sorting []model.SortField) ([]model.MemberTeamView, error) {
	criteria := model.MemberCriteria(cond, model.PageRequest{OrderBy: sorting})

	var views []model.MemberTeamView

	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var err error
		views, err = repo.Search(ctx, criteria)

		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

// PageMembers reads the window and the total inside one snapshot.
func (s *MembersService) PageMembers(ctx context.Context, cond model.MemberSearchCondition, page model.PageRequest) (model.Page[model.MemberTeamView], error) {
	page, err := model.NewPageRequest(page.Offset, page.Limit, page.OrderBy...)
	if err != nil {
		return model.Page[model.MemberTeamView]{}, err
	}

	var result model.Page[model.MemberTeamView]

	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var err error
		result, err = repo.Page(ctx, model.MemberCriteria(cond, page))

		return err
	})
	if err != nil {
		return model.Page[model.MemberTeamView]{}, err
	}

	return result, nil
}

func (s *MembersService) GetMember(ctx context.Context, id model.MemberID) (*model.MemberTeamView, error) {
	var view *model.MemberTeamView

	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var err error
		view, err = repo.FetchByID(ctx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (s *MembersService) FindByUsername(ctx context.Context, username string) ([]model.MemberTeamView, error) {
	var views []model.MemberTeamView

	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var err error
		views, err = repo.FindByUsername(ctx, username)

		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (s *MembersService) RegisterTeam(ctx context.Context, name string) (*model.Team, error) {
	team, err := model.NewTeam(name)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		return repo.CreateTeam(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

// RegisterMember stores a member, joining the team called teamName when it
// is not blank.
func (s *MembersService) RegisterMember(ctx context.Context, username *string, age int, teamName string) (*model.Member, error) {
	if age < 0 {
		return nil, &model.InvalidConditionError{Field: model.FieldAge, Value: strconv.Itoa(age), Err: model.ErrOutOfRange}
	}

	if username != nil && strings.TrimSpace(*username) == "" {
		username = nil
	}

	var member *model.Member

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var team *model.Team

		if teamName = strings.TrimSpace(teamName); teamName != "" {
			var err error
			if team, err = repo.FetchTeamByName(ctx, teamName); err != nil {
				return err
			}
		}

		member = model.NewMember(username, age, team)

		return repo.Create(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (s *MembersService) RenameMembers(ctx context.Context, cond model.MemberSearchCondition, username string) (int64, error) {
	if strings.TrimSpace(username) == "" {
		return 0, &model.InvalidConditionError{Field: model.FieldUsername, Err: model.ErrBlankValue}
	}

	return s.bulk(ctx, func(ctx context.Context, repo ports.MembersRepository, spec model.Specification) (int64, error) {
		return repo.BulkRename(ctx, spec, username)
	}, cond)
}

func (s *MembersService) AddAge(ctx context.Context, cond model.MemberSearchCondition, delta int) (int64, error) {
	return s.bulk(ctx, func(ctx context.Context, repo ports.MembersRepository, spec model.Specification) (int64, error) {
		return repo.BulkAddAge(ctx, spec, delta)
	}, cond)
}

func (s *MembersService) MultiplyAge(ctx context.Context, cond model.MemberSearchCondition, factor int) (int64, error) {
	if factor < 0 {
		return 0, &model.InvalidConditionError{Field: "factor", Value: strconv.Itoa(factor), Err: model.ErrOutOfRange}
	}

	return s.bulk(ctx, func(ctx context.Context, repo ports.MembersRepository, spec model.Specification) (int64, error) {
		return repo.BulkMultiplyAge(ctx, spec, factor)
	}, cond)
}

func (s *MembersService) DeleteMembers(ctx context.Context, cond model.MemberSearchCondition) (int64, error) {
	return s.bulk(ctx, func(ctx context.Context, repo ports.MembersRepository, spec model.Specification) (int64, error) {
		return repo.BulkDelete(ctx, spec)
	}, cond)
}

func (s *MembersService) AgeSummary(ctx context.Context, cond model.MemberSearchCondition) (model.AgeSummary, error) {
	var summary model.AgeSummary

	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var err error
		summary, err = repo.AgeSummary(ctx, model.CompileMemberCondition(cond))

		return err
	})
	if err != nil {
		return model.AgeSummary{}, err
	}

	return summary, nil
}

func (s *MembersService) TeamAgeStats(ctx context.Context, cond model.MemberSearchCondition, minAvgAge *float64) ([]model.TeamAgeStats, error) {
	var stats []model.TeamAgeStats

	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var err error
		stats, err = repo.TeamAgeStats(ctx, model.CompileMemberCondition(cond), minAvgAge)

		return err
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Seed creates TeamA and TeamB and members member0..member{n-1} aged by their
// index, even indexes in TeamA. Nothing is written when TeamA already exists.
func (s *MembersService) Seed(ctx context.Context, members int) (int, error) {
	if members < 0 {
		return 0, &model.InvalidConditionError{Field: "members", Value: strconv.Itoa(members), Err: model.ErrOutOfRange}
	}

	inserted := 0

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		_, err := repo.FetchTeamByName(ctx, seedTeamA)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, model.ErrTeamNotFound):
			return err
		}

		teams := make([]*model.Team, 0, 2)

		for _, name := range []string{seedTeamA, seedTeamB} {
			team, err := model.NewTeam(name)
			if err != nil {
				return err
			}

			if err := repo.CreateTeam(ctx, team); err != nil {
				return fmt.Errorf("seed team %s: %w", name, err)
			}

			teams = append(teams, team)
		}

		for i := range members {
			member := model.NewMember(model.StringPtr(fmt.Sprintf("member%d", i)), i, teams[i%2])
			if err := repo.Create(ctx, member); err != nil {
				return fmt.Errorf("seed member %d: %w", i, err)
			}
		}

		inserted = members

		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (s *MembersService) bulk(
	ctx context.Context,
	op func(ctx context.Context, repo ports.MembersRepository, spec model.Specification) (int64, error),
	cond model.MemberSearchCondition,
) (int64, error) {
	spec := model.CompileMemberCondition(cond)

	var affected int64

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repo ports.MembersRepository) error {
		var err error
		affected, err = op(ctx, repo, spec)

		return err
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

package services_test

import (
	"testing"

	"github.com/architeacher/members/services/svc-members/internal/adapters/memstore"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/services"
	"github.com/stretchr/testify/require"
)

func newSeededService(t *testing.T, members int) *services.MembersService {
	t.Helper()

	svc := services.NewMembersService(memstore.New())

	inserted, err := svc.Seed(t.Context(), members)
	require.NoError(t, err)
	require.Equal(t, members, inserted)

	return svc
}

func TestMembersService_Seed(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t, 100)

	again, err := svc.Seed(t.Context(), 100)
	require.NoError(t, err)
	require.Zero(t, again)

	views, err := svc.FindByUsername(t.Context(), "member7")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, 7, views[0].Age)
	require.Equal(t, "TeamB", *views[0].TeamName)

	page, err := svc.PageMembers(t.Context(), model.MemberSearchCondition{TeamName: "TeamA"}, model.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 50, page.TotalCount)
	require.Len(t, page.Items, 10)
}

func TestMembersService_PageMembers(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t, 100)

	cases := []struct {
		name          string
		cond          model.MemberSearchCondition
		page          model.PageRequest
		expectedNames []string
		expectedTotal int64
		expectedErr   error
	}{
		{
			name:          "age range in team",
			cond:          model.MemberSearchCondition{TeamName: "TeamB", AgeGoe: model.IntPtr(35), AgeLoe: model.IntPtr(40)},
			page:          model.PageRequest{Limit: 10},
			expectedNames: []string{"member35", "member37", "member39"},
			expectedTotal: 3,
		},
		{
			name: "sorted by age descending",
			cond: model.MemberSearchCondition{AgeLoe: model.IntPtr(9)},
			page: model.PageRequest{
				Offset:  1,
				Limit:   3,
				OrderBy: []model.SortField{model.Desc(model.FieldAge)},
			},
			expectedNames: []string{"member8", "member7", "member6"},
			expectedTotal: 10,
		},
		{
			name:          "offset past the end",
			page:          model.PageRequest{Offset: 200, Limit: 10},
			expectedNames: []string{},
			expectedTotal: 100,
		},
		{
			name:        "zero limit",
			page:        model.PageRequest{Limit: 0},
			expectedErr: model.ErrInvalidCondition,
		},
		{
			name:        "negative offset",
			page:        model.PageRequest{Offset: -1, Limit: 5},
			expectedErr: model.ErrInvalidCondition,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page, err := svc.PageMembers(t.Context(), tc.cond, tc.page)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expectedTotal, page.TotalCount)

			names := make([]string, 0, len(page.Items))
			for _, item := range page.Items {
				names = append(names, *item.Username)
			}

			require.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestMembersService_RegisterMember(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t, 0)

	member, err := svc.RegisterMember(t.Context(), model.StringPtr("alice"), 31, "TeamB")
	require.NoError(t, err)
	require.NotNil(t, member.TeamID)

	view, err := svc.GetMember(t.Context(), member.ID)
	require.NoError(t, err)
	require.Equal(t, "TeamB", *view.TeamName)

	loner, err := svc.RegisterMember(t.Context(), model.StringPtr("  "), 5, " ")
	require.NoError(t, err)
	require.Nil(t, loner.Username)
	require.Nil(t, loner.TeamID)

	_, err = svc.RegisterMember(t.Context(), nil, 1, "TeamZ")
	require.ErrorIs(t, err, model.ErrTeamNotFound)

	_, err = svc.RegisterMember(t.Context(), nil, -1, "")
	require.ErrorIs(t, err, model.ErrInvalidCondition)
}

func TestMembersService_RegisterTeam(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t, 0)

	team, err := svc.RegisterTeam(t.Context(), " TeamC ")
	require.NoError(t, err)
	require.Equal(t, "TeamC", team.Name)

	_, err = svc.RegisterTeam(t.Context(), "TeamC")
	require.ErrorIs(t, err, model.ErrDuplicateTeam)

	_, err = svc.RegisterTeam(t.Context(), "")
	require.ErrorIs(t, err, model.ErrInvalidCondition)
}

func TestMembersService_Bulk(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t, 40)

	renamed, err := svc.RenameMembers(t.Context(), model.MemberSearchCondition{AgeLoe: model.IntPtr(27)}, "non-member")
	require.NoError(t, err)
	require.EqualValues(t, 28, renamed)

	views, err := svc.FindByUsername(t.Context(), "non-member")
	require.NoError(t, err)
	require.Len(t, views, 28)

	added, err := svc.AddAge(t.Context(), model.MemberSearchCondition{TeamName: "TeamA"}, 1)
	require.NoError(t, err)
	require.EqualValues(t, 20, added)

	multiplied, err := svc.MultiplyAge(t.Context(), model.MemberSearchCondition{Username: "member39"}, 2)
	require.NoError(t, err)
	require.EqualValues(t, 1, multiplied)

	views, err = svc.FindByUsername(t.Context(), "member39")
	require.NoError(t, err)
	require.Equal(t, 78, views[0].Age)

	deleted, err := svc.DeleteMembers(t.Context(), model.MemberSearchCondition{AgeGoe: model.IntPtr(19)})
	require.NoError(t, err)

	summary, err := svc.AgeSummary(t.Context(), model.MemberSearchCondition{})
	require.NoError(t, err)
	require.EqualValues(t, 40-deleted, summary.Count)
	require.LessOrEqual(t, *summary.Max, 18)

	_, err = svc.RenameMembers(t.Context(), model.MemberSearchCondition{}, " ")
	require.ErrorIs(t, err, model.ErrInvalidCondition)
}

func TestMembersService_TeamAgeStats(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t, 10)

	stats, err := svc.TeamAgeStats(t.Context(), model.MemberSearchCondition{}, nil)
	require.NoError(t, err)
	require.Equal(t, []model.TeamAgeStats{
		{TeamName: "TeamA", Members: 5, AvgAge: 4},
		{TeamName: "TeamB", Members: 5, AvgAge: 5},
	}, stats)

	minAvg := 4.5
	stats, err = svc.TeamAgeStats(t.Context(), model.MemberSearchCondition{}, &minAvg)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, "TeamB", stats[0].TeamName)
}

func TestMembersService_SearchMembers(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t, 6)

	views, err := svc.SearchMembers(t.Context(), model.MemberSearchCondition{TeamName: "TeamA"}, []model.SortField{model.Desc(model.FieldAge)})
	require.NoError(t, err)

	ages := make([]int, 0, len(views))
	for _, v := range views {
		ages = append(ages, v.Age)
	}

	require.Equal(t, []int{4, 2, 0}, ages)

	_, err = svc.GetMember(t.Context(), model.NewMemberID())
	require.ErrorIs(t, err, model.ErrMemberNotFound)
}

package model_test

import (
	"testing"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestParseMemberID(t *testing.T) {
	t.Parallel()

	id := model.NewMemberID()

	parsed, err := model.ParseMemberID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, parsed.IsZero())

	_, err = model.ParseMemberID("not-a-uuid")
	require.ErrorIs(t, err, model.ErrInvalidMemberID)
}

func TestNewTeam(t *testing.T) {
	t.Parallel()

	team, err := model.NewTeam("  TeamA ")
	require.NoError(t, err)
	require.Equal(t, "TeamA", team.Name)
	require.False(t, team.ID.IsZero())

	_, err = model.NewTeam("   ")
	require.ErrorIs(t, err, model.ErrInvalidCondition)
}

func TestNewMember(t *testing.T) {
	t.Parallel()

	team, err := model.NewTeam("TeamB")
	require.NoError(t, err)

	withTeam := model.NewMember(model.StringPtr("member3"), 30, team)
	require.Equal(t, "member3", *withTeam.Username)
	require.Equal(t, 30, withTeam.Age)
	require.NotNil(t, withTeam.TeamID)
	require.Equal(t, team.ID, *withTeam.TeamID)

	anonymous := model.NewMember(nil, 100, nil)
	require.Nil(t, anonymous.Username)
	require.Nil(t, anonymous.TeamID)
}

func TestDataAccessError(t *testing.T) {
	t.Parallel()

	cause := model.ErrMemberNotFound
	err := model.NewDataAccessError("search members", cause)

	require.ErrorIs(t, err, model.ErrDataAccess)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "search members")
}

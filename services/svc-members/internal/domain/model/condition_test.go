package model_test

import (
	"testing"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestNewMemberSearchCondition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		username      string
		teamName      string
		ageGoe        string
		ageLoe        string
		expected      model.MemberSearchCondition
		expectedField string
		expectedErr   error
	}{
		{
			name:     "all fields present",
			username: "member1",
			teamName: "TeamA",
			ageGoe:   "10",
			ageLoe:   " 40 ",
			expected: model.MemberSearchCondition{
				Username: "member1",
				TeamName: "TeamA",
				AgeGoe:   model.IntPtr(10),
				AgeLoe:   model.IntPtr(40),
			},
		},
		{
			name:     "blank age bounds are absent",
			ageGoe:   "",
			ageLoe:   "   ",
			expected: model.MemberSearchCondition{},
		},
		{
			name:          "non numeric lower bound",
			ageGoe:        "ten",
			expectedField: "ageGoe",
			expectedErr:   model.ErrNotANumber,
		},
		{
			name:          "non numeric upper bound",
			ageLoe:        "4O",
			expectedField: "ageLoe",
			expectedErr:   model.ErrNotANumber,
		},
		{
			name:          "negative lower bound",
			ageGoe:        "-1",
			expectedField: "ageGoe",
			expectedErr:   model.ErrOutOfRange,
		},
		{
			name:     "zero is a valid bound",
			ageLoe:   "0",
			expected: model.MemberSearchCondition{AgeLoe: model.IntPtr(0)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cond, err := model.NewMemberSearchCondition(tc.username, tc.teamName, tc.ageGoe, tc.ageLoe)

			if tc.expectedField != "" {
				var invalid *model.InvalidConditionError
				require.ErrorAs(t, err, &invalid)
				require.Equal(t, tc.expectedField, invalid.Field)
				require.ErrorIs(t, err, model.ErrInvalidCondition)
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, cond)
		})
	}
}

func TestCompileMemberCondition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		cond     model.MemberSearchCondition
		expected model.Specification
	}{
		{
			name:     "empty condition matches all",
			cond:     model.MemberSearchCondition{},
			expected: nil,
		},
		{
			name:     "blank strings are absent",
			cond:     model.MemberSearchCondition{Username: "", TeamName: "  \t"},
			expected: nil,
		},
		{
			name:     "username only",
			cond:     model.MemberSearchCondition{Username: "member1"},
			expected: model.Eq(model.FieldUsername, "member1"),
		},
		{
			name:     "lower bound only",
			cond:     model.MemberSearchCondition{AgeGoe: model.IntPtr(35)},
			expected: model.Gte(model.FieldAge, 35),
		},
		{
			name: "range and team",
			cond: model.MemberSearchCondition{
				TeamName: "TeamB",
				AgeGoe:   model.IntPtr(35),
				AgeLoe:   model.IntPtr(40),
			},
			expected: model.Must(
				model.Eq(model.FieldTeamName, "TeamB"),
				model.Gte(model.FieldAge, 35),
				model.Lte(model.FieldAge, 40),
			),
		},
		{
			name: "inverted range is kept as given",
			cond: model.MemberSearchCondition{
				AgeGoe: model.IntPtr(40),
				AgeLoe: model.IntPtr(35),
			},
			expected: model.Must(
				model.Gte(model.FieldAge, 40),
				model.Lte(model.FieldAge, 35),
			),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			first := model.CompileMemberCondition(tc.cond)
			second := model.CompileMemberCondition(tc.cond)

			require.Equal(t, tc.expected, first)
			require.Equal(t, first, second)
		})
	}
}

func TestMemberSearchCondition_IsEmpty(t *testing.T) {
	t.Parallel()

	require.True(t, model.MemberSearchCondition{}.IsEmpty())
	require.True(t, model.MemberSearchCondition{Username: " "}.IsEmpty())
	require.False(t, model.MemberSearchCondition{AgeLoe: model.IntPtr(0)}.IsEmpty())
}

package main

import (
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/spf13/cobra"
)

// conditionFlags carries the raw member filter flags shared by the search,
// stats and bulk commands. Blank values leave their criterion out.
type conditionFlags struct {
	username string
	teamName string
	ageGoe   string
	ageLoe   string
}

func (f *conditionFlags) bind(cmd *cobra.Command, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}

	flags.StringVar(&f.username, "username", "", "match members with this exact username")
	flags.StringVar(&f.teamName, "team", "", "match members of the team with this exact name")
	flags.StringVar(&f.ageGoe, "age-goe", "", "match members at least this old")
	flags.StringVar(&f.ageLoe, "age-loe", "", "match members at most this old")
}

func (f *conditionFlags) condition() (model.MemberSearchCondition, error) {
	return model.NewMemberSearchCondition(f.username, f.teamName, f.ageGoe, f.ageLoe)
}

package main

import (
	"fmt"

	"github.com/architeacher/members/services/svc-members/internal/usecases/commands"
	"github.com/spf13/cobra"
)

func (c *cli) newTeamCmd() *cobra.Command {
	teamCmd := &cobra.Command{
		Use:     "team",
		Short:   "Manage teams",
		GroupID: "members",
	}

	teamCmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := c.session.App().Commands.RegisterTeam.Handle(cmd.Context(), commands.RegisterTeamCommand{Name: args[0]})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.wantsJSON(out) {
				return printJSON(out, team)
			}

			_, err = fmt.Fprintf(out, "Created team %s (%s)\n", team.Name, team.ID)

			return err
		},
	})

	return teamCmd
}

func (c *cli) newMemberCmd() *cobra.Command {
	var (
		username string
		age      int
		teamName string
	)

	memberCmd := &cobra.Command{
		Use:     "member",
		Short:   "Manage members",
		GroupID: "members",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a member, optionally in an existing team",
		RunE: func(cmd *cobra.Command, args []string) error {
			command := commands.RegisterMemberCommand{Age: age, TeamName: teamName}
			if cmd.Flags().Changed("username") {
				command.Username = &username
			}

			member, err := c.session.App().Commands.RegisterMember.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.wantsJSON(out) {
				return printJSON(out, member)
			}

			_, err = fmt.Fprintf(out, "Created member %s\n", member.ID)

			return err
		},
	}

	createCmd.Flags().StringVar(&username, "username", "", "username; omit for a member without one")
	createCmd.Flags().IntVar(&age, "age", 0, "age in years")
	createCmd.Flags().StringVar(&teamName, "team", "", "name of the team to join")

	memberCmd.AddCommand(createCmd)

	return memberCmd
}

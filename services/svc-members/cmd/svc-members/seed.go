package main

import (
	"fmt"

	"github.com/architeacher/members/services/svc-members/internal/usecases/commands"
	"github.com/spf13/cobra"
)

type seedResult struct {
	Inserted int `json:"inserted"`
}

func (c *cli) newSeedCmd() *cobra.Command {
	var members int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo teams and members",
		Long: `Load the demo teams and members.

Creates TeamA and TeamB and members member0 to member<n-1> aged by their index.
Nothing is written when the demo teams already exist.`,
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("members") {
				members = c.session.Config().Seed.Members
			}

			inserted, err := c.session.App().Commands.SeedMembers.Handle(cmd.Context(), commands.SeedMembersCommand{Members: members})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.wantsJSON(out) {
				return printJSON(out, seedResult{Inserted: inserted})
			}

			if inserted == 0 {
				_, err = fmt.Fprintln(out, "demo data already present")

				return err
			}

			_, err = fmt.Fprintf(out, "seeded %d members\n", inserted)

			return err
		},
	}

	cmd.Flags().IntVar(&members, "members", 0, "number of members to create; defaults to the configured count")

	return cmd
}

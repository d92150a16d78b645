package main

import (
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	"github.com/spf13/cobra"
)

func (c *cli) newStatsCmd() *cobra.Command {
	var (
		cond      conditionFlags
		byTeam    bool
		minAvgAge float64
	)

	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Summarise the ages of matching members",
		GroupID: "members",
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, err := cond.condition()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			app := c.session.App()

			if !byTeam {
				summary, err := app.Queries.AgeSummary.Execute(cmd.Context(), queries.AgeSummaryQuery{Condition: condition})
				if err != nil {
					return err
				}

				if c.wantsJSON(out) {
					return printJSON(out, summary)
				}

				return printSummaryTable(out, summary)
			}

			query := queries.TeamAgeStatsQuery{Condition: condition}
			if cmd.Flags().Changed("min-avg-age") {
				query.MinAvgAge = &minAvgAge
			}

			stats, err := app.Queries.TeamAgeStats.Execute(cmd.Context(), query)
			if err != nil {
				return err
			}

			if c.wantsJSON(out) {
				return printJSON(out, stats)
			}

			return printTeamStatsTable(out, stats)
		},
	}

	cond.bind(cmd, false)
	cmd.Flags().BoolVar(&byTeam, "by-team", false, "group by team; members without a team are left out")
	cmd.Flags().Float64Var(&minAvgAge, "min-avg-age", 0, "with --by-team, keep teams whose average age is at least this")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	"github.com/spf13/cobra"
)

var errUnhealthy = errors.New("service is unhealthy")

func (c *cli) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "health",
		Short:   "Check the configured storage",
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.session.App().Queries.FetchHealthReport.Execute(cmd.Context(), queries.FetchHealthReportQuery{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.wantsJSON(out) {
				err = printJSON(out, report)
			} else {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "STATUS\t%s\n", report.Status)
				fmt.Fprintf(tw, "VERSION\t%s\n", report.Version)

				for name, dep := range report.Dependencies {
					state := "up"
					if !dep.Healthy {
						state = "down: " + dep.Message
					}

					fmt.Fprintf(tw, "%s\t%s\t%s\n", name, state, dep.Latency)
				}

				err = tw.Flush()
			}

			if err != nil {
				return err
			}

			if report.Status != queries.StatusHealthy {
				return errUnhealthy
			}

			return nil
		},
	}
}

package main

import (
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	"github.com/spf13/cobra"
)

func (c *cli) newSearchCmd() *cobra.Command {
	var (
		cond     conditionFlags
		sortKeys string
		offset   int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search members by username, team and age range",
		Long: `Search members by username, team and age range.

Without --limit every matching member is listed. With --limit the result is
one page of the matching set together with its total count.`,
		GroupID: "members",
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, err := cond.condition()
			if err != nil {
				return err
			}

			sorting, err := model.ParseSortFields(sortKeys)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			app := c.session.App()

			if !cmd.Flags().Changed("limit") && !cmd.Flags().Changed("offset") {
				views, err := app.Queries.SearchMembers.Execute(cmd.Context(), queries.SearchMembersQuery{
					Condition: condition,
					Sorting:   sorting,
				})
				if err != nil {
					return err
				}

				if c.wantsJSON(out) {
					return printJSON(out, views)
				}

				return printMembersTable(out, views)
			}

			if !cmd.Flags().Changed("limit") {
				limit = c.session.Config().Search.DefaultLimit
			}

			limit = min(limit, c.session.Config().Search.MaxLimit)

			page, err := model.NewPageRequest(offset, limit, sorting...)
			if err != nil {
				return err
			}

			result, err := app.Queries.PageMembers.Execute(cmd.Context(), queries.PageMembersQuery{
				Condition: condition,
				Page:      page,
			})
			if err != nil {
				return err
			}

			if c.wantsJSON(out) {
				return printJSON(out, result)
			}

			return printPageTable(out, result)
		},
	}

	cond.bind(cmd, false)
	cmd.Flags().StringVar(&sortKeys, "sort", "", "sort keys, e.g. -age,username:nulls_last")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of matching members to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size; capped at the configured maximum")

	return cmd
}

func (c *cli) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <member-id>",
		Short:   "Show one member with its team",
		GroupID: "members",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseMemberID(args[0])
			if err != nil {
				return err
			}

			view, err := c.session.App().Queries.GetMember.Execute(cmd.Context(), queries.GetMemberQuery{ID: id})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.wantsJSON(out) {
				return printJSON(out, view)
			}

			return printMembersTable(out, []model.MemberTeamView{*view})
		},
	}
}

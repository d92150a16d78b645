package main

import (
	"context"
	"fmt"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/usecases/commands"
	"github.com/spf13/cobra"
)

type bulkResult struct {
	Operation string `json:"operation"`
	Affected  int64  `json:"affected"`
}

func (c *cli) newBulkCmd() *cobra.Command {
	var cond conditionFlags

	bulkCmd := &cobra.Command{
		Use:   "bulk",
		Short: "Update or delete every member matching a condition",
		Long: `Update or delete every member matching a condition.

Each operation runs in one transaction. Without condition flags it applies to
all members.`,
		GroupID: "members",
	}

	cond.bind(bulkCmd, true)

	var username string

	renameCmd := &cobra.Command{
		Use:   "rename",
		Short: "Set the username of matching members",
		RunE: c.runBulk("rename", &cond, func(ctx context.Context, condition model.MemberSearchCondition) (int64, error) {
			return c.session.App().Commands.RenameMembers.Handle(ctx, commands.RenameMembersCommand{
				Condition: condition,
				Username:  username,
			})
		}),
	}
	renameCmd.Flags().StringVar(&username, "to", "", "new username")
	_ = renameCmd.MarkFlagRequired("to")

	var delta int

	addAgeCmd := &cobra.Command{
		Use:   "add-age",
		Short: "Add to the age of matching members",
		RunE: c.runBulk("add-age", &cond, func(ctx context.Context, condition model.MemberSearchCondition) (int64, error) {
			return c.session.App().Commands.AddAge.Handle(ctx, commands.AddAgeCommand{Condition: condition, Delta: delta})
		}),
	}
	addAgeCmd.Flags().IntVar(&delta, "delta", 1, "years to add; may be negative")

	var factor int

	multiplyAgeCmd := &cobra.Command{
		Use:   "multiply-age",
		Short: "Multiply the age of matching members",
		RunE: c.runBulk("multiply-age", &cond, func(ctx context.Context, condition model.MemberSearchCondition) (int64, error) {
			return c.session.App().Commands.MultiplyAge.Handle(ctx, commands.MultiplyAgeCommand{Condition: condition, Factor: factor})
		}),
	}
	multiplyAgeCmd.Flags().IntVar(&factor, "factor", 2, "non-negative multiplier")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete matching members",
		RunE: c.runBulk("delete", &cond, func(ctx context.Context, condition model.MemberSearchCondition) (int64, error) {
			return c.session.App().Commands.DeleteMembers.Handle(ctx, commands.DeleteMembersCommand{Condition: condition})
		}),
	}

	bulkCmd.AddCommand(renameCmd, addAgeCmd, multiplyAgeCmd, deleteCmd)

	return bulkCmd
}

func (c *cli) runBulk(
	operation string,
	cond *conditionFlags,
	apply func(ctx context.Context, condition model.MemberSearchCondition) (int64, error),
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		condition, err := cond.condition()
		if err != nil {
			return err
		}

		affected, err := apply(cmd.Context(), condition)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if c.wantsJSON(out) {
			return printJSON(out, bulkResult{Operation: operation, Affected: affected})
		}

		_, err = fmt.Fprintf(out, "%s: %d members affected\n", operation, affected)

		return err
	}
}

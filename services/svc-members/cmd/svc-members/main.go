package main

import (
	"context"
	"os"

	"github.com/architeacher/members/services/svc-members/internal/runtime"
	"github.com/spf13/cobra"
)

// sessionOpener builds the dependency graph a one-shot command runs against
// and returns the function that releases it.
type sessionOpener func(ctx context.Context) (*runtime.Session, func(), error)

// skipSession marks commands that build their own dependencies.
const skipSession = "skip-session"

type cli struct {
	open       sessionOpener
	session    *runtime.Session
	release    func()
	jsonOutput bool
}

func init() {
	cobra.EnableCommandSorting = false
}

func openSession(ctx context.Context) (*runtime.Session, func(), error) {
	session, err := runtime.NewSession(ctx)
	if err != nil {
		return nil, nil, err
	}

	return session, func() { session.Close(context.Background()) }, nil
}

func newRootCmd(open sessionOpener) *cobra.Command {
	c := &cli{open: open}

	rootCmd := &cobra.Command{
		Use:          "svc-members <command>",
		Short:        "Members search service and its maintenance commands",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsSession(cmd) {
				return nil
			}

			session, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}

			c.session, c.release = session, release

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.release != nil {
				c.release()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "members", Title: "Members:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	// Members
	rootCmd.AddCommand(c.newSearchCmd())
	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newTeamCmd())
	rootCmd.AddCommand(c.newMemberCmd())
	rootCmd.AddCommand(c.newBulkCmd())

	// System
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(c.newMigrateCmd())
	rootCmd.AddCommand(c.newSeedCmd())
	rootCmd.AddCommand(c.newHealthCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func needsSession(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if _, ok := p.Annotations[skipSession]; ok {
			return false
		}

		switch p.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}

	return true
}

func main() {
	if err := newRootCmd(openSession).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

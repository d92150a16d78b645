package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type schemaVersion struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (c *cli) newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Manage the Postgres schema",
		GroupID: "system",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := c.session.Migrate()
			if err != nil {
				return err
			}

			return c.printSchemaVersion(cmd, schemaVersion{Version: version})
		},
	})

	var steps int

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.Rollback(steps); err != nil {
				return err
			}

			version, dirty, err := c.session.SchemaVersion()
			if err != nil {
				return err
			}

			return c.printSchemaVersion(cmd, schemaVersion{Version: version, Dirty: dirty})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(downCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, err := c.session.SchemaVersion()
			if err != nil {
				return err
			}

			return c.printSchemaVersion(cmd, schemaVersion{Version: version, Dirty: dirty})
		},
	})

	return migrateCmd
}

func (c *cli) printSchemaVersion(cmd *cobra.Command, v schemaVersion) error {
	out := cmd.OutOrStdout()
	if c.wantsJSON(out) {
		return printJSON(out, v)
	}

	state := "clean"
	if v.Dirty {
		state = "dirty"
	}

	_, err := fmt.Fprintf(out, "schema version %d (%s)\n", v.Version, state)

	return err
}

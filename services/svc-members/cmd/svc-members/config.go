package main

import (
	"github.com/architeacher/members/services/svc-members/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "config",
		Short:       "Print the effective configuration without credentials",
		GroupID:     "system",
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Init()
			if err != nil {
				return err
			}

			return config.DumpConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

package main

import (
	"os/signal"
	"syscall"

	"github.com/architeacher/members/services/svc-members/internal/runtime"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "serve",
		Short:       "Start the HTTP search API",
		GroupID:     "system",
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runtime.New().Run(ctx)
		},
	}
}

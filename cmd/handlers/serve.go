package handlers

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mindscribe/internal/config"
	"mindscribe/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get().Server
			if port != 0 {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(cfg).Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

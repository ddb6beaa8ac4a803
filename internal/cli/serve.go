package cli

import (
	"os"
	"os/signal"
	"syscall"

	"Hydrocalc/internal/logger"
	"Hydrocalc/internal/server"

	"github.com/spf13/cobra"
)

func serveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator page and API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g)
		},
	}
}

func runServe(cmd *cobra.Command, g *globalFlags) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	cleanup, err := g.setupLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.Run(ctx, cfg, logger.L())
}

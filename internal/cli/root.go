package cli

import (
	"os"

	"Hydrocalc/internal/config"
	"Hydrocalc/internal/logger"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	envFile    string
	debug      bool
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "hydrocalc",
		Short:        "Hydraulic cylinder calculator (web, CLI and terminal form)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g)
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(serveCmd(g), calcCmd(g), tokenCmd(g), hashPasswordCmd(), tuiCmd(g))
	return cmd
}

func (g *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load(g.configPath, g.envFile)
	if err != nil {
		return config.Config{}, err
	}
	if g.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func (g *globalFlags) setupLogger(cfg config.Config) (func() error, error) {
	return logger.Setup(logger.Config{Path: cfg.LogFile, Debug: cfg.Debug})
}

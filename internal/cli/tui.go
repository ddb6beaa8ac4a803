package cli

import (
	"Hydrocalc/internal/calc/cylinder"
	"Hydrocalc/internal/tui"

	"github.com/spf13/cobra"
)

func tuiCmd(g *globalFlags) *cobra.Command {
	var system string

	c := &cobra.Command{
		Use:   "tui",
		Short: "Interactive form that recomputes as you type",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			us, err := cylinder.ParseUnitSystem(system)
			if err != nil {
				return err
			}
			return tui.Run(cylinder.NewFormatterFor(cfg.Locale), us)
		},
	}
	c.Flags().StringVarP(&system, "system", "s", "metric", "initial unit system")
	return c
}

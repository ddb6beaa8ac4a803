package cli

import (
	"fmt"

	"Hydrocalc/internal/calc/cylinder"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headStyle    = lipgloss.NewStyle().Bold(true)
	captionStyle = lipgloss.NewStyle().Width(16)
)

func calcCmd(g *globalFlags) *cobra.Command {
	var system, locale string
	var bore, rod, stroke, pressure, flow, efficiency string

	c := &cobra.Command{
		Use:   "calc",
		Short: "Derive cylinder performance from the given parameters",
		Example: "  hydrocalc calc --bore 50 --rod 25 --stroke 300 --pressure 150 --flow 20 --efficiency 0.9\n" +
			"  hydrocalc calc --system imperial --bore 2 --rod 1 --stroke 12 --pressure 2000 --flow 5 --efficiency 0.9",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if locale == "" {
				cfg, err := g.load()
				if err != nil {
					return err
				}
				locale = cfg.Locale
			}
			raw := cylinder.RawInputs{
				Bore:       cylinder.Field(bore),
				Rod:        cylinder.Field(rod),
				Stroke:     cylinder.Field(stroke),
				Pressure:   cylinder.Field(pressure),
				Flow:       cylinder.Field(flow),
				Efficiency: cylinder.Field(efficiency),
			}
			res, err := cylinder.Calculate(cylinder.Request{UnitSystem: system, Inputs: raw}, cylinder.NewFormatterFor(locale))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headStyle.Render(fmt.Sprintf("Cylinder (%s)", res.UnitSystem)))
			for _, row := range res.Display.Rows() {
				fmt.Fprintln(out, captionStyle.Render(row[0])+row[1])
			}
			return nil
		},
	}

	c.Flags().StringVarP(&system, "system", "s", "metric", "unit system: metric or imperial")
	c.Flags().StringVar(&locale, "locale", "", "number locale (defaults to config)")
	c.Flags().StringVar(&bore, "bore", "", "bore diameter (mm or in)")
	c.Flags().StringVar(&rod, "rod", "", "rod diameter (mm or in)")
	c.Flags().StringVar(&stroke, "stroke", "", "stroke length (mm or in)")
	c.Flags().StringVar(&pressure, "pressure", "", "pressure (bar or psi)")
	c.Flags().StringVar(&flow, "flow", "", "pump flow (L/min or gpm)")
	c.Flags().StringVar(&efficiency, "efficiency", "", "efficiency multiplier, e.g. 0.9")
	return c
}

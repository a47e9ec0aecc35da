package main

import (
	"io"

	"github.com/aouyang1/go-holtwinters/internal/seriesio"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/spf13/cobra"
)

type simulateOpts struct {
	n         int
	period    int
	level     float64
	trend     float64
	amplitude float64
	noise     float64
	seed      uint64
}

func (o simulateOpts) generate() timedataset.Series {
	y := make(timedataset.Series, o.n)
	y.Add(timedataset.GenerateConstY(o.n, o.level)).
		Add(timedataset.GenerateLinearY(o.n, o.trend)).
		Add(timedataset.GenerateSeasonalY(o.n, o.amplitude, o.period))
	if o.noise > 0 {
		y.Add(timedataset.GenerateNoise(o.n, o.noise, o.seed))
	}
	return y
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		o          simulateOpts
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic seasonal series as time,value csv",
		Long: `Simulate generates level + trend*i + amplitude*sin(2*pi*i/period) + noise, four years of monthly
data by default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := a.cfg.Input.StartTime()
			if err != nil {
				return err
			}
			td, err := timedataset.NewIndexedDataset(o.generate(), start, a.cfg.Input.Interval)
			if err != nil {
				return err
			}
			return a.withOutput(outputPath, func(w io.Writer) error {
				return seriesio.WriteSeriesCSV(w, td.T, td.Y)
			})
		},
	}

	cmd.Flags().IntVarP(&o.n, "points", "n", 48, "Number of points")
	cmd.Flags().IntVar(&o.period, "season", 12, "Seasonal period of the sine component")
	cmd.Flags().Float64Var(&o.level, "level", 100, "Constant level")
	cmd.Flags().Float64Var(&o.trend, "trend", 0.5, "Trend per point")
	cmd.Flags().Float64Var(&o.amplitude, "amplitude", 15, "Amplitude of the seasonal sine")
	cmd.Flags().Float64Var(&o.noise, "noise", 3, "Standard deviation of gaussian noise, 0 disables")
	cmd.Flags().Uint64Var(&o.seed, "seed", 42, "Noise seed")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file, - for stdout")
	return cmd
}

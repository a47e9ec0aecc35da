package main

import (
	"fmt"
	"io"

	"github.com/aouyang1/go-holtwinters/batch"
	"github.com/aouyang1/go-holtwinters/internal/seriesio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		inputPath   string
		outputPath  string
		metricsPath string
		concurrency int
		failOnError bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Fit and forecast a json array of named series in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("concurrency") {
				a.cfg.Batch.Concurrency = concurrency
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			r, err := a.openInput(inputPath)
			if err != nil {
				return err
			}
			defer r.Close()
			series, err := seriesio.ReadBatchJSON(r)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			opt := a.cfg.BatchOptions()
			opt.Logger = a.logger
			opt.Metrics = batch.NewMetrics(reg)

			runner, err := batch.NewRunner(opt)
			if err != nil {
				return err
			}
			results, err := runner.Run(cmd.Context(), series)
			if err != nil {
				return err
			}

			if metricsPath != "" {
				if err := prometheus.WriteToTextfile(metricsPath, reg); err != nil {
					return fmt.Errorf("unable to write metrics, %w", err)
				}
			}
			if err := a.withOutput(outputPath, func(w io.Writer) error {
				return seriesio.WriteJSON(w, results)
			}); err != nil {
				return err
			}

			if failOnError {
				for _, res := range results {
					if res.Err != nil {
						return fmt.Errorf("series %q failed, %w", res.ID, res.Err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "JSON array of {id, time, values}, - for stdin")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&metricsPath, "metrics-file", "", "Write prometheus metrics in text format to this file")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Maximum series fit in parallel, 0 uses GOMAXPROCS")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "Exit with an error when any series fails")
	return cmd
}

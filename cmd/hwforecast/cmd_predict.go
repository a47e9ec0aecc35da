package main

import (
	"fmt"
	"io"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/internal/seriesio"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		modelPath    string
		outputPath   string
		outputFormat string
		summary      bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast from a model written by fit --model",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openInput(modelPath)
			if err != nil {
				return err
			}
			defer r.Close()

			var model holtwinters.Model
			if err := json.NewDecoder(r).Decode(&model); err != nil {
				return fmt.Errorf("unable to decode model, %w", err)
			}
			if model.Options != nil {
				model.Options.Logger = a.logger
			}
			f, err := holtwinters.NewFromModel(model)
			if err != nil {
				return err
			}
			if summary {
				if err := model.TablePrint(cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			res, err := f.Predict(a.cfg.Forecast.Horizon)
			if err != nil {
				return err
			}
			return a.withOutput(outputPath, func(w io.Writer) error {
				if outputFormat == "csv" {
					return seriesio.WriteResultsCSV(w, res)
				}
				return seriesio.WriteJSON(w, res)
			})
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "-", "Model json file, - for stdin")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&outputFormat, "output-format", "json", "Output format json or csv")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a model summary to stderr")
	return cmd
}

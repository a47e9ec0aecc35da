package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/internal/seriesio"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type fitOutput struct {
	Model    holtwinters.Model       `json:"model"`
	Forecast *holtwinters.Results    `json:"forecast"`
	Fit      *holtwinters.FitResults `json:"fit,omitempty"`
}

func newFitCmd(a *app) *cobra.Command {
	var (
		inputPath    string
		inputFormat  string
		outputPath   string
		outputFormat string
		plotPath     string
		modelPath    string
		includeFit   bool
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a single series and forecast past its end",
		Long: `Fit reads a series as CSV (value or time,value rows) or JSON ({"time": [...], "values": [...]}),
fits an additive Holt-Winters model and writes the forecast. Period, alpha, beta and gamma are required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			t, y, err := a.readSeries(inputPath, inputFormat)
			if err != nil {
				return err
			}

			opt := a.cfg.Options()
			opt.Logger = a.logger
			f, err := holtwinters.New(opt)
			if err != nil {
				return err
			}
			if err := f.Fit(t, y); err != nil {
				return err
			}
			res, err := f.Predict(a.cfg.Forecast.Horizon)
			if err != nil {
				return err
			}
			model, err := f.Model()
			if err != nil {
				return err
			}

			if modelPath != "" {
				if err := a.withOutput(modelPath, func(w io.Writer) error {
					return seriesio.WriteJSON(w, model)
				}); err != nil {
					return fmt.Errorf("unable to write model, %w", err)
				}
			}
			if plotPath != "" {
				if err := a.withOutput(plotPath, func(w io.Writer) error {
					return f.PlotFit(w, &holtwinters.PlotOpts{HorizonCnt: a.cfg.Forecast.Horizon})
				}); err != nil {
					return fmt.Errorf("unable to write plot, %w", err)
				}
			}

			scores, err := f.Scores()
			if err != nil {
				return fmt.Errorf("unable to score fit, %w", err)
			}
			a.logger.Info("fit series",
				zap.Int("observations", len(y)),
				zap.Int("horizon", a.cfg.Forecast.Horizon),
				zap.Float64("mape", scores.MAPE),
				zap.Int("outliers", len(f.Outliers())),
			)

			return a.withOutput(outputPath, func(w io.Writer) error {
				if outputFormat == "csv" {
					return seriesio.WriteResultsCSV(w, res)
				}
				out := fitOutput{Model: model, Forecast: res}
				if includeFit {
					out.Fit = f.FitResults()
				}
				return seriesio.WriteJSON(w, out)
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "Series file, - for stdin")
	cmd.Flags().StringVar(&inputFormat, "format", "", "Input format csv or json, inferred from the file extension when empty")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&outputFormat, "output-format", "json", "Output format json or csv")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write an html plot of the fit and forecast")
	cmd.Flags().StringVar(&modelPath, "model", "", "Write the fit model as json for later predictions")
	cmd.Flags().BoolVar(&includeFit, "include-fit", false, "Include in-sample fit, residuals and components in json output")
	return cmd
}

// readSeries decodes a series and places values without timestamps on the configured grid
func (a *app) readSeries(path, format string) ([]time.Time, []float64, error) {
	r, err := a.openInput(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	if format == "" {
		format = "csv"
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = "json"
		}
	}

	var t []time.Time
	var y []float64
	switch format {
	case "csv":
		t, y, err = seriesio.ReadCSV(r)
	case "json":
		t, y, err = seriesio.ReadJSON(r)
	default:
		return nil, nil, fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(t) > 0 {
		return t, y, nil
	}

	start, err := a.cfg.Input.StartTime()
	if err != nil {
		return nil, nil, err
	}
	td, err := timedataset.NewIndexedDataset(y, start, a.cfg.Input.Interval)
	if err != nil {
		return nil, nil, err
	}
	return td.T, td.Y, nil
}

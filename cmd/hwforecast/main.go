// Command hwforecast fits additive Holt-Winters models to series read from CSV or JSON and
// writes forecasts, fitted models and plots.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aouyang1/go-holtwinters/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// flagKeys maps persistent flags onto configuration keys. Only flags set on the command line
// override the config file and environment.
var flagKeys = map[string]string{
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"period":     "model.period",
	"alpha":      "model.alpha",
	"beta":       "model.beta",
	"gamma":      "model.gamma",
	"horizon":    "forecast.horizon",
	"outliers":   "outliers.enabled",
	"start":      "input.start",
	"interval":   "input.interval",
}

type app struct {
	v          *viper.Viper
	cfg        *config.Config
	logger     *zap.Logger
	configPath string

	in  io.Reader
	out io.Writer
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{
		v:      config.New(),
		logger: zap.NewNop(),
		in:     in,
		out:    out,
	}

	rootCmd := &cobra.Command{
		Use:          "hwforecast",
		Short:        "Additive Holt-Winters forecasting",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a yaml or json config file")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "json", "Log format: json or console")
	flags.Int("period", 0, "Seasonal period in observations")
	flags.Float64("alpha", 0, "Level smoothing coefficient in [0, 1]")
	flags.Float64("beta", 0, "Trend smoothing coefficient in [0, 1]")
	flags.Float64("gamma", 0, "Seasonal smoothing coefficient in [0, 1]")
	flags.Int("horizon", 12, "Number of points to forecast")
	flags.Bool("outliers", false, "Flag residual outliers of the fit")
	flags.String("start", "1970-01-01T00:00:00Z", "RFC3339 time of the first point for series without timestamps")
	flags.Duration("interval", 0, "Spacing of series without timestamps")

	rootCmd.AddCommand(
		newFitCmd(a),
		newPredictCmd(a),
		newBatchCmd(a),
		newSimulateCmd(a),
	)
	return rootCmd
}

// load merges changed flags over the environment and config file and builds the logger
func (a *app) load(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag != nil && flag.Changed {
			a.v.Set(key, flag.Value.String())
		}
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("unable to create logger, %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// openInput returns stdin for "-" and the named file otherwise
func (a *app) openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(a.in), nil
	}
	return os.Open(path)
}

// withOutput calls fn with stdout for "-" and a created file otherwise
func (a *app) withOutput(path string, fn func(w io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(a.out)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

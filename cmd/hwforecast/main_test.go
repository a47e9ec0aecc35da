package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/batch"
	"github.com/aouyang1/go-holtwinters/smoothing"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = "value\n100\n105\n95\n110\n102\n108\n98\n112\n"

var scenarioForecast = []float64{
	105.54553191187264, 109.22667398183384, 99.46021221707818, 114.56641319201407,
}

var modelFlags = []string{"--period", "4", "--alpha", "0.3", "--beta", "0.1", "--gamma", "0.3", "--log-level", "error"}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFitCmd(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	plotPath := filepath.Join(dir, "plot.html")

	args := append([]string{"fit", "--horizon", "4", "--interval", "1h", "--model", modelPath, "--plot", plotPath, "--include-fit"}, modelFlags...)
	out, err := run(t, scenarioCSV, args...)
	require.NoError(t, err)

	var res fitOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDeltaSlice(t, scenarioForecast, res.Forecast.Forecast, 1e-9)
	assert.Equal(t, smoothing.NewParams(4, 0.3, 0.1, 0.3), res.Model.Snapshot.Params)
	require.NotNil(t, res.Fit)
	assert.Len(t, res.Fit.Fitted, 8)

	modelBytes, err := os.ReadFile(modelPath)
	require.NoError(t, err)
	var model holtwinters.Model
	require.NoError(t, json.Unmarshal(modelBytes, &model))
	assert.Equal(t, res.Model.Snapshot.Season, model.Snapshot.Season)

	plot, err := os.ReadFile(plotPath)
	require.NoError(t, err)
	assert.Contains(t, string(plot), "Forecast Fit")

	// the saved model forecasts the same values without the history
	out, err = run(t, "", "predict", "--model", modelPath, "--horizon", "4", "--log-level", "error")
	require.NoError(t, err)
	var predicted holtwinters.Results
	require.NoError(t, json.Unmarshal([]byte(out), &predicted))
	assert.InDeltaSlice(t, scenarioForecast, predicted.Forecast, 1e-9)
}

func TestFitCmdCSVOutput(t *testing.T) {
	args := append([]string{"fit", "--horizon", "4", "--output-format", "csv"}, modelFlags...)
	out, err := run(t, "time,value\n2024-01-01T00:00:00Z,100\n2024-01-02T00:00:00Z,105\n2024-01-03T00:00:00Z,95\n2024-01-04T00:00:00Z,110\n"+
		"2024-01-05T00:00:00Z,102\n2024-01-06T00:00:00Z,108\n2024-01-07T00:00:00Z,98\n2024-01-08T00:00:00Z,112\n", args...)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"time", "forecast", "level", "trend", "seasonality"}, records[0])
	assert.Equal(t, "2024-01-09T00:00:00Z", records[1][0])
}

func TestFitCmdErrors(t *testing.T) {
	testData := map[string]struct {
		stdin string
		args  []string
		err   error
	}{
		"missing parameters": {
			stdin: scenarioCSV,
			args:  []string{"fit", "--period", "4", "--log-level", "error"},
		},
		"invalid alpha": {
			stdin: scenarioCSV,
			args:  []string{"fit", "--period", "4", "--alpha", "1.5", "--beta", "0.1", "--gamma", "0.3"},
		},
		"insufficient data": {
			stdin: "1\n2\n3\n",
			args:  append([]string{"fit"}, modelFlags...),
			err:   smoothing.ErrInsufficientData,
		},
		"single timed point": {
			stdin: "time,value\n2024-01-01T00:00:00Z,100\n",
			args:  append([]string{"fit"}, modelFlags...),
			err:   smoothing.ErrInsufficientData,
		},
		"unknown format": {
			stdin: scenarioCSV,
			args:  append([]string{"fit", "--format", "xml"}, modelFlags...),
		},
		"bad log level": {
			stdin: scenarioCSV,
			args:  []string{"fit", "--log-level", "banana"},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, td.stdin, td.args...)
			require.Error(t, err)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
		})
	}
}

func TestFitCmdConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  period: 4
  alpha: 0.3
  beta: 0.1
  gamma: 0.3
forecast:
  horizon: 4
logging:
  level: error
`), 0o644))

	out, err := run(t, scenarioCSV, "fit", "--config", path)
	require.NoError(t, err)

	var res fitOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDeltaSlice(t, scenarioForecast, res.Forecast.Forecast, 1e-9)

	// flags override the file
	out, err = run(t, scenarioCSV, "fit", "--config", path, "--horizon", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Forecast.Forecast, 2)
}

func TestBatchCmd(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")
	input := `[
  {"id": "a", "values": [100, 105, 95, 110, 102, 108, 98, 112]},
  {"id": "b", "values": [1, 2, 3]}
]`
	args := append([]string{"batch", "--horizon", "4", "-c", "2", "--metrics-file", metricsPath}, modelFlags...)
	out, err := run(t, input, args...)
	require.NoError(t, err)

	var results []batch.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.InDeltaSlice(t, scenarioForecast, results[0].Forecast.Forecast, 1e-9)
	assert.Equal(t, "b", results[1].ID)
	assert.Contains(t, results[1].Error, "need at least 8 observations")

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `holtwinters_fit_total{result="success"} 1`)
	assert.Contains(t, string(metrics), `holtwinters_fit_total{result="failure"} 1`)

	args = append([]string{"batch", "--fail-on-error"}, modelFlags...)
	_, err = run(t, input, args...)
	assert.Error(t, err)
}

func TestSimulateCmd(t *testing.T) {
	out, err := run(t, "", "simulate", "--noise", "0", "--interval", "720h", "--log-level", "error")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 49)
	assert.Equal(t, []string{"time", "value"}, records[0])
	assert.Equal(t, []string{"1970-01-01T00:00:00Z", "100"}, records[1])

	// the simulated series feeds straight back into fit
	args := append([]string{"fit"}, "--period", "12", "--alpha", "0.3", "--beta", "0.1", "--gamma", "0.3", "--log-level", "error")
	out, err = run(t, out, args...)
	require.NoError(t, err)

	var res fitOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Forecast.Forecast, 12)
	assert.InDelta(t, 123.7588185317189, res.Forecast.Forecast[0], 1e-6)

	seeded, err := run(t, "", "simulate", "--seed", "7", "--log-level", "error")
	require.NoError(t, err)
	again, err := run(t, "", "simulate", "--seed", "7", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, seeded, again)
}

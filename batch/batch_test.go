package batch

import (
	"context"
	"fmt"
	"testing"
	"time"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/smoothing"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var scenarioY = []float64{100, 105, 95, 110, 102, 108, 98, 112}

var scenarioForecast = []float64{
	105.54553191187264, 109.22667398183384, 99.46021221707818, 114.56641319201407,
}

func hourly(n int) []time.Time {
	start := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(time.Duration(i)*time.Hour))
	}
	return t
}

func testOptions() Options {
	return Options{
		Forecast:        holtwinters.NewOptions(4, 0.3, 0.1, 0.3),
		Horizon:         4,
		Concurrency:     2,
		DefaultInterval: time.Hour,
	}
}

func TestNewRunner(t *testing.T) {
	testData := map[string]struct {
		opt Options
		err error
	}{
		"no forecast options": {
			opt: Options{Horizon: 1},
			err: holtwinters.ErrNoOptions,
		},
		"invalid params": {
			opt: Options{Forecast: holtwinters.NewOptions(4, 2, 0.1, 0.3), Horizon: 1},
			err: smoothing.ErrInvalidParameter,
		},
		"invalid horizon": {
			opt: Options{Forecast: holtwinters.NewOptions(4, 0.3, 0.1, 0.3)},
			err: ErrInvalidHorizon,
		},
		"default concurrency": {
			opt: Options{Forecast: holtwinters.NewOptions(4, 0.3, 0.1, 0.3), Horizon: 1},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			r, err := NewRunner(td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, r.opt.Concurrency, 1)
		})
	}
}

func TestRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	core, logs := observer.New(zap.InfoLevel)

	opt := testOptions()
	opt.Metrics = NewMetrics(reg)
	opt.Logger = zap.New(core)

	r, err := NewRunner(opt)
	require.NoError(t, err)

	series := []Series{
		{ID: "timed", T: hourly(len(scenarioY)), Y: scenarioY},
		{ID: "indexed", Y: scenarioY},
		{ID: "short", Y: scenarioY[:7]},
		{ID: "timed", Y: scenarioY},
	}
	results, err := r.Run(context.Background(), series)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for _, idx := range []int{0, 1} {
		res := results[idx]
		require.NoError(t, res.Err)
		assert.Empty(t, res.Error)
		assert.InDeltaSlice(t, scenarioForecast, res.Forecast.Forecast, 1e-9)
		assert.Equal(t, time.Date(1970, 1, 1, 8, 0, 0, 0, time.UTC), res.Forecast.T[0])
		require.NotNil(t, res.Model)
		require.NotNil(t, res.Scores)
	}
	assert.Equal(t, "timed", results[0].ID)
	assert.Equal(t, "indexed", results[1].ID)

	assert.Equal(t, "short", results[2].ID)
	assert.ErrorIs(t, results[2].Err, smoothing.ErrInsufficientData)
	assert.NotEmpty(t, results[2].Error)
	assert.Nil(t, results[2].Forecast)

	assert.ErrorIs(t, results[3].Err, ErrDuplicateSeries)

	assert.Equal(t, 2.0, testutil.ToFloat64(opt.Metrics.fitTotal.WithLabelValues(resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(opt.Metrics.fitTotal.WithLabelValues(resultFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(opt.Metrics.batchDuration))

	assert.Equal(t, 1, logs.FilterMessage("unable to forecast series").Len())
	summary := logs.FilterMessage("completed batch forecast").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].ContextMap()["failed"])
}

func TestRunWithoutInterval(t *testing.T) {
	opt := testOptions()
	opt.DefaultInterval = 0
	r, err := NewRunner(opt)
	require.NoError(t, err)

	results, err := r.Run(context.Background(), []Series{{ID: "a", Y: scenarioY}})
	require.NoError(t, err)
	assert.ErrorIs(t, results[0].Err, ErrNoInterval)
}

func TestRunCanceled(t *testing.T) {
	opt := testOptions()
	opt.Concurrency = 1
	r, err := NewRunner(opt)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series := make([]Series, 5)
	for i := range series {
		series[i] = Series{ID: fmt.Sprintf("s%d", i), Y: scenarioY}
	}
	results, err := r.Run(ctx, series)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 5)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestRunMany(t *testing.T) {
	opt := testOptions()
	opt.Concurrency = 4
	opt.Horizon = 12
	r, err := NewRunner(opt)
	require.NoError(t, err)

	n := 96
	series := make([]Series, 32)
	for i := range series {
		y := make(timedataset.Series, n)
		y.Add(timedataset.GenerateConstY(n, float64(10*i))).
			Add(timedataset.GenerateLinearY(n, 0.1)).
			Add(timedataset.GenerateSeasonalY(n, 5, 4))
		series[i] = Series{ID: fmt.Sprintf("s%d", i), Y: y}
	}

	results, err := r.Run(context.Background(), series)
	require.NoError(t, err)
	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, series[i].ID, res.ID)
		assert.Len(t, res.Forecast.Forecast, 12)

		// each worker owns its own model so results match a sequential fit
		m, err := smoothing.Fit(series[i].Y, opt.Forecast.Params)
		require.NoError(t, err)
		expected, err := m.Forecast(12)
		require.NoError(t, err)
		assert.InDeltaSlice(t, expected, res.Forecast.Forecast, 1e-9)
	}
}

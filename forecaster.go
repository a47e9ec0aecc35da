// Package holtwinters forecasts time stamped series with additive Holt-Winters smoothing. It wraps
// the smoothing engine with timestamps, residual outlier flagging, model persistence and plotting.
package holtwinters

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/aouyang1/go-holtwinters/smoothing"
	"github.com/aouyang1/go-holtwinters/stats"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/go-echarts/go-echarts/v2/components"
	"go.uber.org/zap"
)

var (
	ErrUntrainedForecaster = errors.New("forecaster has not been fit")
	ErrNoOptionsInModel    = errors.New("no options set in model")
	ErrInvalidModel        = errors.New("model options do not match snapshot parameters")
	ErrCannotInferInterval = errors.New("cannot infer interval from training data time")
)

// Forecaster fits an additive Holt-Winters model over time stamped observations and produces time
// stamped forecasts from the terminal state.
type Forecaster struct {
	opt    *Options
	logger *zap.Logger

	model        *smoothing.Model
	snapshot     smoothing.Snapshot
	trainingData *timedataset.TimeDataset
	trainEndTime time.Time
	interval     time.Duration
	fitResults   *FitResults
	trained      bool
}

// New creates a new instance of a Forecaster using the provided options. Options are required
// since the seasonal period and smoothing coefficients have no defaults.
func New(opt *Options) (*Forecaster, error) {
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("unable to initialize forecaster, %w", err)
	}
	f := &Forecaster{
		opt:    opt,
		logger: opt.logger(),
	}
	return f, nil
}

// NewFromModel creates a new instance of Forecaster from a pre-existing model. This should be
// generated from a previous forecaster call to Model(). The returned forecaster can predict but
// has no training data to report fit results on.
func NewFromModel(model Model) (*Forecaster, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	if err := model.Options.Validate(); err != nil {
		return nil, fmt.Errorf("unable to validate model options, %w", err)
	}
	if err := model.Snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("unable to validate model snapshot, %w", err)
	}
	if model.Options.Params != model.Snapshot.Params {
		return nil, ErrInvalidModel
	}
	if model.Interval <= 0 {
		return nil, ErrCannotInferInterval
	}

	f := &Forecaster{
		opt:          model.Options,
		logger:       model.Options.logger(),
		snapshot:     model.Snapshot,
		trainEndTime: model.TrainEndTime,
		interval:     model.Interval,
		trained:      true,
	}
	return f, nil
}

// Fit runs the smoothing recurrence over the observations. Time must be strictly increasing and
// the sampling interval is inferred from the most common spacing between points.
func (f *Forecaster) Fit(t []time.Time, y []float64) error {
	model, err := smoothing.Fit(y, f.opt.Params)
	if err != nil {
		return fmt.Errorf("unable to fit series, %w", err)
	}

	trainingData, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create univariate dataset, %w", err)
	}
	interval, err := timedataset.TimeSlice(trainingData.T).EstimateFreq()
	if err != nil {
		return fmt.Errorf("%s, %w", err.Error(), ErrCannotInferInterval)
	}

	f.model = model
	f.snapshot = model.Snapshot()
	f.trainingData = trainingData
	f.trainEndTime = timedataset.TimeSlice(trainingData.T).EndTime()
	f.interval = interval
	f.trained = true

	residual := model.ResidualValues()
	f.fitResults = &FitResults{
		T:          trainingData.T,
		Observed:   trainingData.Y,
		Fitted:     model.FittedValues(),
		Residual:   residual,
		Components: model.Components(),
	}
	if oo := f.opt.OutlierOptions; oo != nil {
		f.fitResults.Outliers = stats.DetectOutliers(residual, oo.LowerPercentile, oo.UpperPercentile, oo.TukeyFactor)
	}

	scores := model.Scores()
	f.logger.Debug("fit holt-winters series",
		zap.Int("observations", model.Len()),
		zap.Int("period", f.opt.Params.Period),
		zap.Duration("interval", interval),
		zap.Float64("mse", scores.MSE),
		zap.Float64("mape", scores.MAPE),
		zap.Float64("r2", scores.R2),
		zap.Int("outliers", len(f.fitResults.Outliers)),
	)
	return nil
}

// Predict forecasts horizon points following the end of the training data. Seasonal indices are
// reused cyclically from the last observed cycle.
func (f *Forecaster) Predict(horizon int) (*Results, error) {
	if !f.trained {
		return nil, ErrUntrainedForecaster
	}
	comp, err := f.snapshot.ForecastComponents(horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to predict series forecasts, %w", err)
	}

	t := timedataset.TimeSlice{f.trainEndTime}.Horizon(horizon, f.interval)
	r := &Results{
		T:          t,
		Forecast:   comp.Sum(),
		Components: comp,
	}
	return r, nil
}

// Residuals returns the difference between the observations and the in-sample fit
func (f *Forecaster) Residuals() []float64 {
	if f.fitResults == nil {
		return nil
	}
	return slices.Clone(f.fitResults.Residual)
}

// LevelComponent returns the smoothed level aligned with the training data
func (f *Forecaster) LevelComponent() []float64 {
	if f.fitResults == nil {
		return nil
	}
	return slices.Clone(f.fitResults.Components.Level)
}

// TrendComponent returns the smoothed trend aligned with the training data
func (f *Forecaster) TrendComponent() []float64 {
	if f.fitResults == nil {
		return nil
	}
	return slices.Clone(f.fitResults.Components.Trend)
}

// SeasonalityComponent returns the seasonal index applied to each point of the training data
func (f *Forecaster) SeasonalityComponent() []float64 {
	if f.fitResults == nil {
		return nil
	}
	return slices.Clone(f.fitResults.Components.Seasonality)
}

// Outliers returns the indices of the training data whose residual was flagged. Nil when outlier
// options are not set.
func (f *Forecaster) Outliers() []int {
	if f.fitResults == nil {
		return nil
	}
	return slices.Clone(f.fitResults.Outliers)
}

// Scores returns the in-sample fit scores
func (f *Forecaster) Scores() (smoothing.Scores, error) {
	if !f.trained || f.snapshot.Scores == nil {
		return smoothing.Scores{}, ErrUntrainedForecaster
	}
	return *f.snapshot.Scores, nil
}

// Model generates a serializeable representation of the options and terminal smoothing state.
// This can be used to initialize a new Forecaster for immediate predictions skipping the training
// step.
func (f *Forecaster) Model() (Model, error) {
	if !f.trained {
		return Model{}, ErrUntrainedForecaster
	}
	snap := f.snapshot
	snap.Season = append([]float64(nil), f.snapshot.Season...)
	m := Model{
		Options:      f.opt,
		TrainEndTime: f.trainEndTime,
		Interval:     f.interval,
		Snapshot:     snap,
	}
	return m, nil
}

// TrainingData returns the training data used to fit the current forecaster model
func (f *Forecaster) TrainingData() *timedataset.TimeDataset {
	if f.trainingData == nil {
		return nil
	}
	return f.trainingData.Copy()
}

// FitResults returns the in-sample fit, residuals and components of the training data
func (f *Forecaster) FitResults() *FitResults {
	return f.fitResults
}

// PlotOpts sets the horizon to forecast out. By default one tenth of the training size or one
// full season is used, whichever is larger.
type PlotOpts struct {
	HorizonCnt int
}

// PlotFit uses the Apache Echarts library to generate an html page showing the resulting fit,
// model components, and fit residual
func (f *Forecaster) PlotFit(w io.Writer, opt *PlotOpts) error {
	td := f.trainingData
	if td == nil || f.fitResults == nil {
		return timedataset.ErrNoTrainingData
	}

	horizonCnt := td.Len() / 10
	if horizonCnt < f.opt.Params.Period {
		horizonCnt = f.opt.Params.Period
	}
	if opt != nil && opt.HorizonCnt > 0 {
		horizonCnt = opt.HorizonCnt
	}

	forecastRes, err := f.Predict(horizonCnt)
	if err != nil {
		return fmt.Errorf("unable to predict with horizon, %w", err)
	}

	t := make([]time.Time, 0, td.Len()+horizonCnt)
	t = append(t, td.T...)
	t = append(t, forecastRes.T...)

	comp := f.fitResults.Components
	page := components.NewPage()
	page.AddCharts(
		LineForecaster(f.fitResults, forecastRes),
		LineTSeries(
			"Forecast Components",
			[]string{"Level", "Trend", "Seasonality"},
			t,
			[][]float64{
				concat(comp.Level, forecastRes.Components.Level),
				concat(comp.Trend, forecastRes.Components.Trend),
				concat(comp.Seasonality, forecastRes.Components.Seasonality),
			},
		),
		LineTSeries(
			"Fit Residual",
			[]string{"Residual"},
			t,
			[][]float64{concat(f.fitResults.Residual, nanPad(horizonCnt))},
		),
	)
	return page.Render(w)
}

func concat(a, b []float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func nanPad(n int) []float64 {
	pad := make([]float64, n)
	for i := range pad {
		pad[i] = math.NaN()
	}
	return pad
}

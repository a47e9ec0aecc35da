// Package batch fits and forecasts many independent series in parallel over a bounded pool of
// workers. A failing series never fails the batch, its error is reported in its result.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/smoothing"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidHorizon  = errors.New("horizon must be at least 1")
	ErrNoInterval      = errors.New("series has no timestamps and no default interval is set")
	ErrDuplicateSeries = errors.New("duplicate series id")
)

// Series is a single named input of a batch. When T is empty the values are placed
// Options.DefaultInterval apart starting at the unix epoch.
type Series struct {
	ID string      `json:"id"`
	T  []time.Time `json:"time,omitempty"`
	Y  []float64   `json:"values"`
}

// Result is the outcome of a single series. Exactly one of Forecast or Err is set.
type Result struct {
	ID       string               `json:"id"`
	Forecast *holtwinters.Results `json:"forecast,omitempty"`
	Model    *holtwinters.Model   `json:"model,omitempty"`
	Scores   *smoothing.Scores    `json:"scores,omitempty"`
	Outliers []int                `json:"outliers,omitempty"`
	Err      error                `json:"-"`
	Error    string               `json:"error,omitempty"`
}

// Options configures a Runner. Forecast and Horizon are required.
type Options struct {
	Forecast        *holtwinters.Options
	Horizon         int
	Concurrency     int
	DefaultInterval time.Duration

	Logger  *zap.Logger
	Metrics *Metrics
}

// Runner fans a batch of series out over at most Concurrency workers, each fitting its own
// forecaster.
type Runner struct {
	opt     Options
	logger  *zap.Logger
	metrics *Metrics
}

// NewRunner validates the options and returns a Runner. Concurrency defaults to GOMAXPROCS.
func NewRunner(opt Options) (*Runner, error) {
	if err := opt.Forecast.Validate(); err != nil {
		return nil, fmt.Errorf("unable to validate forecast options, %w", err)
	}
	if opt.Horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	if opt.Concurrency < 1 {
		opt.Concurrency = runtime.GOMAXPROCS(0)
	}
	logger := opt.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		opt:     opt,
		logger:  logger,
		metrics: opt.Metrics,
	}, nil
}

// Run fits every series and forecasts Horizon points past each. Results are returned in input
// order. The returned error is only set when ctx is done before every series was processed, in
// which case unprocessed series carry the context error.
func (r *Runner) Run(ctx context.Context, series []Series) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(series))

	seen := make(map[string]struct{}, len(series))
	for i, s := range series {
		results[i].ID = s.ID
		if _, exists := seen[s.ID]; exists {
			results[i].setErr(fmt.Errorf("%q, %w", s.ID, ErrDuplicateSeries))
			continue
		}
		seen[s.ID] = struct{}{}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opt.Concurrency)

	for i := range series {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i].setErr(err)
				r.metrics.observeFit(resultCanceled, 0, 0)
				return err
			}
			r.fitOne(series[i], &results[i])
			return nil
		})
	}
	err := g.Wait()

	var failed int
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}

	elapsed := time.Since(start)
	r.metrics.observeBatch(elapsed)
	r.logger.Info("completed batch forecast",
		zap.Int("series", len(series)),
		zap.Int("failed", failed),
		zap.Int("concurrency", r.opt.Concurrency),
		zap.Duration("elapsed", elapsed),
	)

	if err != nil {
		return results, fmt.Errorf("unable to complete batch, %w", err)
	}
	return results, nil
}

func (r *Runner) fitOne(s Series, res *Result) {
	start := time.Now()
	if err := r.forecast(s, res); err != nil {
		res.setErr(err)
		r.metrics.observeFit(resultFailure, len(s.Y), time.Since(start))
		r.logger.Warn("unable to forecast series",
			zap.String("id", s.ID),
			zap.Int("observations", len(s.Y)),
			zap.Error(err),
		)
		return
	}
	r.metrics.observeFit(resultSuccess, len(s.Y), time.Since(start))
}

func (r *Runner) forecast(s Series, res *Result) error {
	t := s.T
	if len(t) == 0 && len(s.Y) > 0 {
		if r.opt.DefaultInterval <= 0 {
			return ErrNoInterval
		}
		td, err := timedataset.NewIndexedDataset(s.Y, time.Unix(0, 0).UTC(), r.opt.DefaultInterval)
		if err != nil {
			return err
		}
		t = td.T
	}

	opt := *r.opt.Forecast
	opt.Logger = r.logger.With(zap.String("id", s.ID))
	f, err := holtwinters.New(&opt)
	if err != nil {
		return err
	}
	if err := f.Fit(t, s.Y); err != nil {
		return err
	}
	forecast, err := f.Predict(r.opt.Horizon)
	if err != nil {
		return err
	}
	model, err := f.Model()
	if err != nil {
		return err
	}
	scores, err := f.Scores()
	if err != nil {
		return err
	}

	res.Forecast = forecast
	res.Model = &model
	res.Scores = &scores
	res.Outliers = f.Outliers()
	return nil
}

func (r *Result) setErr(err error) {
	r.Err = err
	r.Error = err.Error()
}

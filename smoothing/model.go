// Package smoothing implements additive Holt-Winters triple exponential smoothing. A series is
// decomposed into level, trend and seasonal components from caller supplied smoothing
// coefficients and the terminal state is projected forward for forecasts.
package smoothing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point is a single indexed value of a series
type Point struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Model is a Holt-Winters additive decomposition fit to a single series. It is immutable once
// returned from Fit and safe for concurrent reads.
type Model struct {
	params   Params
	y        []float64
	state    *State
	scores   *Scores
	terminal Snapshot
}

// Fit validates the inputs, seeds the state from the first two seasonal periods and runs the
// smoothing recurrence over the remaining observations. Parameters and observations are fully
// validated before any state is allocated and failures never return a partial model.
func Fit(y []float64, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateObservations(y); err != nil {
		return nil, err
	}

	state, err := initialize(y, p)
	if err != nil {
		return nil, err
	}

	obs := make([]float64, len(y))
	copy(obs, y)

	state.update(obs, p)

	scores, err := NewScores(state.fitted, obs)
	if err != nil {
		return nil, fmt.Errorf("unable to score fit, %w", err)
	}

	n := state.n
	m := &Model{
		params: p,
		y:      obs,
		state:  state,
		scores: scores,
	}
	m.terminal = Snapshot{
		Params:       p,
		Observations: n,
		Level:        state.level[n-1],
		Trend:        state.trend[n-1],
		Season:       state.terminalSeason(),
		Scores:       scores,
	}
	return m, nil
}

func validateObservations(y []float64) error {
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &NonFiniteInputError{Index: i, Value: v}
		}
	}
	return nil
}

// Forecast projects horizon steps past the last observation. It can be called repeatedly with
// different horizons and never modifies the model.
//
// The seasonal index for step h is the latest refreshed index of phase (n+h-1) mod m, reused
// every m steps. Seasonality is treated as stationary beyond the training window; steps h and
// h+m differ only by m*trend.
func (m *Model) Forecast(horizon int) ([]float64, error) {
	if m == nil || m.state == nil {
		return nil, ErrUnfitModel
	}
	return m.terminal.Forecast(horizon)
}

// ForecastComponents returns the level, accumulated trend and seasonal parts of Forecast
func (m *Model) ForecastComponents(horizon int) (Components, error) {
	if m == nil || m.state == nil {
		return Components{}, ErrUnfitModel
	}
	return m.terminal.ForecastComponents(horizon)
}

// Fitted returns the in-sample fitted value at every observation index
func (m *Model) Fitted() []Point {
	return toPoints(m.state.fitted)
}

// FittedValues returns a copy of the fitted values without indices
func (m *Model) FittedValues() []float64 {
	return copySlice(m.state.fitted)
}

// Residuals returns observed minus fitted at every observation index
func (m *Model) Residuals() []Point {
	return toPoints(m.ResidualValues())
}

// ResidualValues returns observed minus fitted without indices
func (m *Model) ResidualValues() []float64 {
	residual := make([]float64, len(m.y))
	floats.SubTo(residual, m.y, m.state.fitted)
	return residual
}

// Observations returns a copy of the series the model was fit on
func (m *Model) Observations() []float64 {
	return copySlice(m.y)
}

// Level returns the level at every observation index
func (m *Model) Level() []float64 {
	return copySlice(m.state.level)
}

// Trend returns the one step trend at every observation index
func (m *Model) Trend() []float64 {
	return copySlice(m.state.trend)
}

// Season returns the full n+m seasonal sequence. Use Components for the index aligned with
// each observation.
func (m *Model) Season() []float64 {
	return copySlice(m.state.season)
}

// Components returns the decomposition aligned with the observations such that
// fitted[t] = level[t] + trend[t] + seasonality[t].
func (m *Model) Components() Components {
	seasonality := make([]float64, m.state.n)
	for t := range seasonality {
		seasonality[t] = m.state.seasonAt(t)
	}
	return Components{
		Level:       m.Level(),
		Trend:       m.Trend(),
		Seasonality: seasonality,
	}
}

// Params returns the parameters used to fit the model
func (m *Model) Params() Params {
	return m.params
}

// Scores returns the in-sample fit scores
func (m *Model) Scores() Scores {
	return *m.scores
}

// Len returns the number of observations in the fit
func (m *Model) Len() int {
	return m.state.n
}

// Snapshot returns the terminal state of the model which is all that is needed to forecast
func (m *Model) Snapshot() Snapshot {
	snap := m.terminal
	snap.Season = copySlice(m.terminal.Season)
	scores := *m.scores
	snap.Scores = &scores
	return snap
}

func toPoints(vals []float64) []Point {
	points := make([]Point, len(vals))
	for i, v := range vals {
		points[i] = Point{Index: i, Value: v}
	}
	return points
}

func copySlice(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}

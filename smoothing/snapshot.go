package smoothing

import (
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/aouyang1/go-holtwinters/smoothing/util"
)

var (
	ErrSeasonLenMismatch = errors.New("seasonal indices do not match period")
	ErrNonFiniteState    = errors.New("terminal state is not finite")
)

// Snapshot is the serializeable terminal state of a fit model. It carries everything the
// forecaster reads so it can be persisted and used for forecasts without the training history.
type Snapshot struct {
	Params       Params    `json:"params"`
	Observations int       `json:"observations"`
	Level        float64   `json:"level"`
	Trend        float64   `json:"trend"`
	Season       []float64 `json:"season"`
	Scores       *Scores   `json:"scores,omitempty"`
}

// Validate checks that a snapshot, typically one loaded from storage, can be forecast from
func (s Snapshot) Validate() error {
	if err := s.Params.Validate(); err != nil {
		return err
	}
	if len(s.Season) != s.Params.Period {
		return fmt.Errorf("expected %d seasonal indices, but got %d, %w", s.Params.Period, len(s.Season), ErrSeasonLenMismatch)
	}
	vals := append([]float64{s.Level, s.Trend}, s.Season...)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFiniteState
		}
	}
	return nil
}

// Forecast projects horizon steps past the end of the training window
func (s Snapshot) Forecast(horizon int) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return project(s.Level, s.Trend, s.Season, horizon)
}

// ForecastComponents returns the decomposition of Forecast
func (s Snapshot) ForecastComponents(horizon int) (Components, error) {
	if err := s.Validate(); err != nil {
		return Components{}, err
	}
	return projectComponents(s.Level, s.Trend, s.Season, horizon)
}

// TablePrint writes a human readable summary of the snapshot
func (s Snapshot) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%sHolt-Winters:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sPeriod: %d    Alpha: %.3f    Beta: %.3f    Gamma: %.3f\n",
		prefix, util.IndentExpand(indent, indentGrowth+1),
		s.Params.Period, s.Params.Alpha, s.Params.Beta, s.Params.Gamma,
	); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sObservations: %d\n", prefix, util.IndentExpand(indent, indentGrowth+1), s.Observations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sLevel: %.3f    Trend: %.3f\n",
		prefix, util.IndentExpand(indent, indentGrowth+1), s.Level, s.Trend,
	); err != nil {
		return err
	}

	if s.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    MAE: %.3f    R2: %.3f\n",
			prefix, util.IndentExpand(indent, indentGrowth+2),
			s.Scores.MAPE,
			s.Scores.MSE,
			s.Scores.MAE,
			s.Scores.R2,
		); err != nil {
			return err
		}
	}

	if len(s.Season) == 0 {
		_, err := fmt.Fprintf(w, "%s%sSeasonal Indices: None\n", prefix, util.IndentExpand(indent, indentGrowth+1))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sSeasonal Indices:\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sStep\tPhase\tValue\t\n", prefix, util.IndentExpand(indent, indentGrowth+2)); err != nil {
		return err
	}
	for k, v := range s.Season {
		if _, err := fmt.Fprintf(tbl, "%s%s%d\t%d\t%.3f\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+2),
			k+1, phase(s.Observations+k, len(s.Season)), v,
		); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

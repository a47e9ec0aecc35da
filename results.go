package holtwinters

import (
	"time"

	"github.com/aouyang1/go-holtwinters/smoothing"
)

// Results holds a forecast past the end of the training data
type Results struct {
	T          []time.Time          `json:"time"`
	Forecast   []float64            `json:"forecast"`
	Components smoothing.Components `json:"components"`
}

// FitResults holds the in-sample fit over the training data
type FitResults struct {
	T          []time.Time          `json:"time"`
	Observed   []float64            `json:"observed"`
	Fitted     []float64            `json:"fitted"`
	Residual   []float64            `json:"residual"`
	Components smoothing.Components `json:"components"`
	Outliers   []int                `json:"outliers,omitempty"`
}

package holtwinters

import (
	"errors"
	"fmt"
	"io"

	"github.com/aouyang1/go-holtwinters/smoothing"
	"github.com/aouyang1/go-holtwinters/smoothing/util"
	"go.uber.org/zap"
)

var (
	ErrNoOptions             = errors.New("no options provided, period and smoothing parameters are required")
	ErrInvalidOutlierOptions = errors.New("invalid outlier options")
)

// OutlierOptions configures flagging of fit residuals that fall outside of the inner
// percentile range widened by TukeyFactor. Flagged points are reported only, the fit is not
// changed.
type OutlierOptions struct {
	LowerPercentile float64 `json:"lower_percentile"`
	UpperPercentile float64 `json:"upper_percentile"`
	TukeyFactor     float64 `json:"tukey_factor"`
}

// NewOutlierOptions returns the interquartile range with a 1.5 Tukey fence
func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		LowerPercentile: 0.25,
		UpperPercentile: 0.75,
		TukeyFactor:     1.5,
	}
}

func (o *OutlierOptions) Validate() error {
	if o.LowerPercentile < 0 || o.UpperPercentile > 1 || o.LowerPercentile >= o.UpperPercentile {
		return fmt.Errorf("percentiles must satisfy 0 <= lower < upper <= 1, got %.3f and %.3f, %w",
			o.LowerPercentile, o.UpperPercentile, ErrInvalidOutlierOptions)
	}
	if o.TukeyFactor < 0 {
		return fmt.Errorf("tukey factor must not be negative, got %.3f, %w", o.TukeyFactor, ErrInvalidOutlierOptions)
	}
	return nil
}

// Options configures a Forecaster. Params has no defaults and must always be supplied.
type Options struct {
	Params         smoothing.Params `json:"params"`
	OutlierOptions *OutlierOptions  `json:"outlier_options,omitempty"`

	Logger *zap.Logger `json:"-"`
}

// NewOptions creates options for the given seasonal period and smoothing coefficients with
// outlier flagging disabled.
func NewOptions(period int, alpha, beta, gamma float64) *Options {
	return &Options{
		Params: smoothing.NewParams(period, alpha, beta, gamma),
	}
}

func (o *Options) Validate() error {
	if o == nil {
		return ErrNoOptions
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.OutlierOptions != nil {
		if err := o.OutlierOptions.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%sOptions:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	if o.OutlierOptions == nil {
		_, err := fmt.Fprintf(w, "%s%sOutlier Options: None\n", prefix, util.IndentExpand(indent, indentGrowth+1))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sOutlier Options:\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sTukey Factor: %.3f    Lower Percentile: %.2f%%    Upper Percentile: %.2f%%\n",
		prefix, util.IndentExpand(indent, indentGrowth+2),
		o.OutlierOptions.TukeyFactor,
		o.OutlierOptions.LowerPercentile*100.0,
		o.OutlierOptions.UpperPercentile*100.0,
	)
	return err
}

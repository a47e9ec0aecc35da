package smoothing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInsufficientData = errors.New("insufficient data")
	ErrNonFiniteInput   = errors.New("non-finite input")
	ErrUnfitModel       = errors.New("model has not been fit")
)

// InvalidParameterError reports a smoothing parameter, period or horizon outside of its
// allowed range.
type InvalidParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s=%v %s, %s", e.Name, e.Value, e.Reason, ErrInvalidParameter)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// InsufficientDataError reports that fewer than two full seasonal periods were supplied.
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least %d observations, got %d, %s", e.Required, e.Got, ErrInsufficientData)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// NonFiniteInputError reports the first observation that is NaN or infinite.
type NonFiniteInputError struct {
	Index int
	Value float64
}

func (e *NonFiniteInputError) Error() string {
	return fmt.Sprintf("observation %d is %v, %s", e.Index, e.Value, ErrNonFiniteInput)
}

func (e *NonFiniteInputError) Unwrap() error {
	return ErrNonFiniteInput
}

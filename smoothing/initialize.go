package smoothing

import "gonum.org/v1/gonum/stat"

// initialize seeds level, trend and one full cycle of seasonal indices from the first two
// seasonal periods of y. It is the only place state receives values not derived from the
// recurrence.
func initialize(y []float64, p Params) (*State, error) {
	n := len(y)
	if required := p.MinObservations(); n < required {
		return nil, &InsufficientDataError{Required: required, Got: n}
	}
	period := p.Period

	s := newState(n, period)

	firstCycle := stat.Mean(y[:period], nil)
	secondCycle := stat.Mean(y[period:2*period], nil)

	s.level[0] = firstCycle
	s.trend[0] = (secondCycle - firstCycle) / float64(period)
	for i := 0; i < period; i++ {
		s.seedSeason(phase(i, period), y[i]-s.level[0])
	}
	return s, nil
}

package smoothing

// MinPeriod is the smallest seasonal period the engine accepts
const MinPeriod = 2

// Params holds the caller supplied smoothing coefficients and seasonal period. There are no
// defaults; every field must be set explicitly.
type Params struct {
	Period int     `json:"period"`
	Alpha  float64 `json:"alpha"`
	Beta   float64 `json:"beta"`
	Gamma  float64 `json:"gamma"`
}

// NewParams is a convenience constructor for Params
func NewParams(period int, alpha, beta, gamma float64) Params {
	return Params{
		Period: period,
		Alpha:  alpha,
		Beta:   beta,
		Gamma:  gamma,
	}
}

// Validate checks that the period is at least MinPeriod and that alpha, beta and gamma are
// within [0, 1] inclusive.
func (p Params) Validate() error {
	if p.Period < MinPeriod {
		return &InvalidParameterError{
			Name:   "period",
			Value:  float64(p.Period),
			Reason: "must be at least 2",
		}
	}
	coefs := []struct {
		name string
		val  float64
	}{
		{"alpha", p.Alpha},
		{"beta", p.Beta},
		{"gamma", p.Gamma},
	}
	for _, c := range coefs {
		if !inUnitInterval(c.val) {
			return &InvalidParameterError{
				Name:   c.name,
				Value:  c.val,
				Reason: "must be within [0, 1]",
			}
		}
	}
	return nil
}

// MinObservations returns the number of observations needed to initialize a model with
// this period.
func (p Params) MinObservations() int {
	return 2 * p.Period
}

// NaN fails both comparisons and is rejected as well
func inUnitInterval(v float64) bool {
	return v >= 0.0 && v <= 1.0
}

package smoothing

// project extrapolates the terminal level linearly with the terminal trend and cycles through
// the most recently refreshed seasonal indices, one per step. Seasonality is held stationary
// past the observed window; indices are never re-estimated while projecting.
func project(level, trend float64, season []float64, horizon int) ([]float64, error) {
	if horizon < 1 {
		return nil, horizonError(horizon)
	}

	m := len(season)
	res := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		res[h-1] = level + float64(h)*trend + season[phase(h-1, m)]
	}
	return res, nil
}

// projectComponents splits the projection of each step into its level, trend and seasonal parts
func projectComponents(level, trend float64, season []float64, horizon int) (Components, error) {
	if horizon < 1 {
		return Components{}, horizonError(horizon)
	}

	m := len(season)
	comp := Components{
		Level:       make([]float64, horizon),
		Trend:       make([]float64, horizon),
		Seasonality: make([]float64, horizon),
	}
	for h := 1; h <= horizon; h++ {
		comp.Level[h-1] = level
		comp.Trend[h-1] = float64(h) * trend
		comp.Seasonality[h-1] = season[phase(h-1, m)]
	}
	return comp, nil
}

func horizonError(horizon int) error {
	return &InvalidParameterError{
		Name:   "horizon",
		Value:  float64(horizon),
		Reason: "must be at least 1",
	}
}

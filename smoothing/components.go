package smoothing

// Components holds the additive decomposition of a series. For fitted values the trend entry
// is the one step slope, for projections it is the accumulated h*trend offset.
type Components struct {
	Level       []float64 `json:"level"`
	Trend       []float64 `json:"trend"`
	Seasonality []float64 `json:"seasonality"`
}

// Sum adds the components back together
func (c Components) Sum() []float64 {
	res := make([]float64, len(c.Level))
	for i := range res {
		res[i] = c.Level[i] + c.Trend[i] + c.Seasonality[i]
	}
	return res
}

package smoothing

// State is the level, trend and seasonal decomposition of a single series. It is created by
// the initializer, filled in by the recurrence and read-only afterwards.
//
// The seasonal sequence spans n+m slots. Slots [0, m) hold the seed cycle and step t of the
// recurrence refreshes slot t+m from slot t, the same phase one cycle earlier. Step 0 does not
// refresh anything so slot m is left at zero and is consumed as such by step m. All offset
// arithmetic is kept behind the accessors below.
type State struct {
	period int
	n      int

	level  []float64
	trend  []float64
	season []float64
	fitted []float64
}

func newState(n, period int) *State {
	return &State{
		period: period,
		n:      n,
		level:  make([]float64, n),
		trend:  make([]float64, n),
		season: make([]float64, n+period),
		fitted: make([]float64, n),
	}
}

// phase maps a step index onto its position within a seasonal cycle
func phase(t, period int) int {
	return t % period
}

// seedSeason sets the initial seasonal index for a phase of the first cycle
func (s *State) seedSeason(phase int, v float64) {
	s.season[phase] = v
}

// priorSeason is the seasonal index consulted by step t, one cycle behind its refresh slot
func (s *State) priorSeason(t int) float64 {
	return s.season[t]
}

// refreshSeason stores the seasonal index produced by step t
func (s *State) refreshSeason(t int, v float64) {
	s.season[t+s.period] = v
}

// seasonAt is the seasonal index that contributes to the fitted value at t
func (s *State) seasonAt(t int) float64 {
	if t == 0 {
		return s.season[0]
	}
	return s.season[t+s.period]
}

// terminalSeason returns the most recently refreshed cycle, season[n..n+m-1]. Position k
// holds the index used for forecast step k+1.
func (s *State) terminalSeason() []float64 {
	out := make([]float64, s.period)
	copy(out, s.season[s.n:s.n+s.period])
	return out
}

// Period returns the seasonal period of the state
func (s *State) Period() int {
	return s.period
}

// Len returns the number of observations the state covers
func (s *State) Len() int {
	return s.n
}

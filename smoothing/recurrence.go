package smoothing

// update walks y[1..n-1] once, refreshing level, trend and seasonal index at every step and
// recording the fitted value. Inputs are validated before this point so the loop carries no
// checks; non-finite observations would propagate silently.
func (s *State) update(y []float64, p Params) {
	alpha, beta, gamma := p.Alpha, p.Beta, p.Gamma

	s.fitted[0] = s.level[0] + s.trend[0] + s.seasonAt(0)

	for t := 1; t < s.n; t++ {
		prevLevel := s.level[t-1]
		prevTrend := s.trend[t-1]
		prevSeason := s.priorSeason(t)

		level := alpha*(y[t]-prevSeason) + (1-alpha)*(prevLevel+prevTrend)
		trend := beta*(level-prevLevel) + (1-beta)*prevTrend
		season := gamma*(y[t]-level) + (1-gamma)*prevSeason

		s.level[t] = level
		s.trend[t] = trend
		s.refreshSeason(t, season)
		s.fitted[t] = level + trend + s.seasonAt(t)
	}
}

package shader

// Ramp samples the three-stop gradient at t.
//
// The segment starts at the last stop whose position is <= t, limited to
// the first two stops, so t below 0 extrapolates the first segment and t
// at or past 0.5 uses the second.
func Ramp(stops [3]RGB, t float64) [3]float64 {
	idx := 0
	for i := 0; i < 2; i++ {
		if float64(StopPositions[i]) <= t {
			idx = i
		}
	}
	lo, hi := float64(StopPositions[idx]), float64(StopPositions[idx+1])
	f := (t - lo) / (hi - lo)

	a, b := stops[idx], stops[idx+1]
	return [3]float64{
		mix(float64(a[0]), float64(b[0]), f),
		mix(float64(a[1]), float64(b[1]), f),
		mix(float64(a[2]), float64(b[2]), f),
	}
}

func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

package tracker

// Decay scales score linearly toward zero over horizonHours. The factor is
// clamped to [0, 1], so a negative elapsed time leaves the score as is and
// anything at or past the horizon yields 0.
func Decay(score, elapsedHours, horizonHours float64) float64 {
	if horizonHours <= 0 {
		return 0
	}
	if elapsedHours < 0 {
		elapsedHours = 0
	}
	factor := 1 - elapsedHours/horizonHours
	if factor < 0 {
		factor = 0
	}
	return score * factor
}

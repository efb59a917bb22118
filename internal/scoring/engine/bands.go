package engine

// Classify maps a score to its qualification band using the configured
// thresholds. It is a pure threshold comparison: scores outside [0,100]
// still classify sensibly, so callers need not clamp first.
func Classify(score int, bands Bands) Band {
	switch {
	case score >= bands.High:
		return BandHigh
	case score >= bands.Medium:
		return BandMedium
	default:
		return BandLow
	}
}

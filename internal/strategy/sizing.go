package strategy

// TieredSizeHint maps confidence to a suggested position size as a percent
// of capital, linearly interpolated within each band:
//
//	70-74% -> 3-4%, 75-79% -> 5-6%, 80-95% -> 7-10%
//
// Confidence is capped at 95, so the top band spans 80-95 and reaches the
// full 10% there. The hint is an upper bound for the executor; the risk
// manager remains the single sizing authority.
func TieredSizeHint(confidence int) float64 {
	c := float64(confidence)
	switch {
	case c >= 80:
		return 7 + (c-80)/15*3
	case c >= 75:
		return 5 + (c-75)/5*1
	case c >= 70:
		return 3 + (c-70)/5*1
	default:
		return 0
	}
}

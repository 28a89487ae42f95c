// Package indicators provides pure technical-analysis functions over
// chronologically ordered price sequences (oldest first). Every function
// returns a documented neutral value when the input is shorter than its
// lookback requirement instead of failing.
package indicators

import "math"

// Trend bias labels produced by Trend.
const (
	TrendStrongUp   = "strong_up"
	TrendStrongDown = "strong_down"
	TrendWeakUp     = "weak_up"
	TrendWeakDown   = "weak_down"
	TrendNeutral    = "neutral"
)

// Volatility regime labels produced by VolatilityRegime.
const (
	RegimeExpanding   = "expanding"
	RegimeContracting = "contracting"
)

// RSI computes the relative strength index over the last period deltas.
// Returns 50 with fewer than period+1 points, and 50 for a fully flat series
// (avg gain and avg loss both zero). Returns 100 only when there are gains
// and no losses.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// SMA is the rolling mean of the last period prices.
// Returns the last price when the sequence is shorter than period.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}
	var sum float64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// EMA is the exponentially weighted mean with multiplier 2/(period+1),
// seeded from the first price. Returns the last price when the sequence is
// shorter than period.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}
	multiplier := 2.0 / float64(period+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*multiplier + ema*(1-multiplier)
	}
	return ema
}

// Momentum is the percentage change between the last price and the price
// window points earlier. Returns 0 on insufficient length or a zero anchor.
func Momentum(prices []float64, window int) float64 {
	if window <= 0 || len(prices) < window+1 {
		return 0
	}
	old := prices[len(prices)-window-1]
	if old == 0 {
		return 0
	}
	return (prices[len(prices)-1] - old) / old * 100
}

// MomentumSlope measures acceleration: momentum over the most recent window
// minus momentum over the immediately preceding, non-overlapping window of
// the same width. Returns 0 with fewer than 2*window+2 points.
func MomentumSlope(prices []float64, window int) float64 {
	if window <= 0 || len(prices) < 2*window+2 {
		return 0
	}
	recent := Momentum(prices, window)
	earlier := Momentum(prices[:len(prices)-window-1], window)
	return recent - earlier
}

// Volatility is the standard deviation of simple returns over the last
// period deltas, as a percentage. Returns 0 with fewer than period+1 points.
func Volatility(prices []float64, period int) float64 {
	if period <= 1 || len(prices) < period+1 {
		return 0
	}
	returns := make([]float64, 0, period)
	for i := len(prices) - period; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return stddev(returns) * 100
}

// VolatilityRegime compares volatility over the recent window against the
// full lookback and tags the regime. Returns (vol, "contracting") when the
// recent window is too short to compare.
func VolatilityRegime(prices []float64, lookback, recentWindow int) (float64, string) {
	full := Volatility(prices, lookback)
	if len(prices) < recentWindow+1 {
		return full, RegimeContracting
	}
	recent := Volatility(prices, recentWindow)
	if recent > full {
		return full, RegimeExpanding
	}
	return full, RegimeContracting
}

// Trend classifies directional bias by comparing the current price to short
// and long SMAs with a 0.5% separation threshold, and scores strength 0-100
// proportional to the percentage separation between the two SMAs.
// Returns (neutral, 0) with fewer than longPeriod points.
func Trend(prices []float64, shortPeriod, longPeriod int) (string, float64) {
	if len(prices) < longPeriod {
		return TrendNeutral, 0
	}
	current := prices[len(prices)-1]
	short := SMA(prices, shortPeriod)
	long := SMA(prices, longPeriod)
	if long == 0 {
		return TrendNeutral, 0
	}

	strength := math.Min(math.Abs((short-long)/long)*100*50, 100)

	switch {
	case current > short && short > long*1.005:
		return TrendStrongUp, strength
	case current < short && short < long*0.995:
		return TrendStrongDown, strength
	case current > short:
		return TrendWeakUp, strength
	case current < short:
		return TrendWeakDown, strength
	default:
		return TrendNeutral, strength
	}
}

// BollingerPosition locates the current price within its Bollinger band:
// 0 at the mean, ±1 at the band edge, clipped to [-1, 1].
// Returns 0 with fewer than period points or zero variance.
func BollingerPosition(prices []float64, period int) float64 {
	if period <= 1 || len(prices) < period {
		return 0
	}
	window := prices[len(prices)-period:]
	mean := SMA(prices, period)
	sd := stddev(window)
	if sd == 0 {
		return 0
	}
	pos := (prices[len(prices)-1] - mean) / (2 * sd)
	return clamp(pos, -1, 1)
}

// VWAPDistance is the percentage distance of the last price from the
// volume-weighted average price over the trailing window. Returns 0 when the
// summed volume is zero or the sequences are shorter than window.
func VWAPDistance(prices, volumes []float64, window int) float64 {
	if window <= 0 || len(prices) < window || len(volumes) < window {
		return 0
	}
	p := prices[len(prices)-window:]
	v := volumes[len(volumes)-window:]

	var pv, vol float64
	for i := range p {
		pv += p[i] * v[i]
		vol += v[i]
	}
	if vol == 0 {
		return 0
	}
	vwap := pv / vol
	if vwap == 0 {
		return 0
	}
	return (prices[len(prices)-1] - vwap) / vwap * 100
}

// ZScore measures how many standard deviations the last price sits from its
// rolling mean. Returns 0 on insufficient length or zero deviation.
func ZScore(prices []float64, window int) float64 {
	if window <= 1 || len(prices) < window {
		return 0
	}
	recent := prices[len(prices)-window:]
	mean := SMA(prices, window)
	sd := stddev(recent)
	if sd == 0 {
		return 0
	}
	return (prices[len(prices)-1] - mean) / sd
}

// VolumeImpulse compares mean volume over the last 10 points against the
// prior 20-point baseline, as a percentage change. Returns 0 with fewer than
// 30 points or a zero baseline.
func VolumeImpulse(volumes []float64) float64 {
	if len(volumes) < 30 {
		return 0
	}
	recent := mean(volumes[len(volumes)-10:])
	baseline := mean(volumes[len(volumes)-30 : len(volumes)-10])
	if baseline == 0 {
		return 0
	}
	return (recent - baseline) / baseline * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

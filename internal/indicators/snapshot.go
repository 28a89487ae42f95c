package indicators

import "github.com/clawdkrab/polymarket-signal-bot/internal/signal"

// Lookbacks bundles the window parameters used to assemble a Snapshot.
type Lookbacks struct {
	RSIPeriod     int
	SlopeWindow   int
	VolPeriod     int
	VolRecent     int
	TrendShort    int
	TrendLong     int
	BollingerSpan int
	VWAPSpan      int
	ZScoreSpan    int
}

// DefaultLookbacks matches the 15-minute-candle tuning used across the
// scorer variants.
func DefaultLookbacks() Lookbacks {
	return Lookbacks{
		RSIPeriod:     14,
		SlopeWindow:   5,
		VolPeriod:     20,
		VolRecent:     5,
		TrendShort:    5,
		TrendLong:     20,
		BollingerSpan: 20,
		VWAPSpan:      30,
		ZScoreSpan:    60,
	}
}

// Compute derives a fresh indicator snapshot from the supplied price and
// volume sequences. It is a pure function; the Score field is left for the
// scorer to fill in.
func Compute(prices, volumes []float64, lb Lookbacks) signal.Snapshot {
	volPct, regime := VolatilityRegime(prices, lb.VolPeriod, lb.VolRecent)
	bias, strength := Trend(prices, lb.TrendShort, lb.TrendLong)

	var dist float64
	if len(prices) >= lb.TrendLong {
		if m := SMA(prices, lb.TrendLong); m != 0 {
			dist = (prices[len(prices)-1] - m) / m * 100
		}
	}

	return signal.Snapshot{
		RSI:             RSI(prices, lb.RSIPeriod),
		Mom1:            Momentum(prices, 1),
		Mom3:            Momentum(prices, 3),
		Mom5:            Momentum(prices, 5),
		MomSlope:        MomentumSlope(prices, lb.SlopeWindow),
		VolatilityPct:   volPct,
		VolRegime:       regime,
		TrendBias:       bias,
		TrendStrength:   strength,
		DistFromMeanPct: dist,
		BollingerPos:    BollingerPosition(prices, lb.BollingerSpan),
		VWAPDist:        VWAPDistance(prices, volumes, lb.VWAPSpan),
		ZScore:          ZScore(prices, lb.ZScoreSpan),
		VolumeImpulse:   VolumeImpulse(volumes),
	}
}

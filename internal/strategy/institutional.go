package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/clawdkrab/polymarket-signal-bot/internal/indicators"
	sig "github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

// Session hours (UTC) during which gating is relaxed.
const (
	londonOpen  = 8
	londonClose = 16
	nyOpen      = 13
	nyClose     = 21

	highVolThreshold = 1.5 // % std dev
)

// Institutional is the multi-gate scorer: momentum deceleration/acceleration,
// volatility expansion, and range-extreme-or-VWAP-deviation gates, with the
// required gate count selected by trading-session membership and the
// measured volatility regime. Two gates suffice during London/NY hours or a
// high-volatility regime; all three are required otherwise.
type Institutional struct {
	minHistory int
	lookbacks  indicators.Lookbacks
}

// NewInstitutional builds the gated scorer. Default: 50 points of history.
// The shared threshold knob is unused; gate counting replaces the score band.
func NewInstitutional(params Params) *Institutional {
	if params.MinHistory <= 0 {
		params.MinHistory = 50
	}
	return &Institutional{
		minHistory: params.MinHistory,
		lookbacks:  indicators.DefaultLookbacks(),
	}
}

// Name returns the configured identifier for logging.
func (s *Institutional) Name() string { return "institutional" }

// Evaluate requires 2-of-3 or 3-of-3 gates depending on session and regime.
// A passing gate set with no momentum direction still yields NO_TRADE.
func (s *Institutional) Evaluate(prices, volumes []float64, now time.Time) Verdict {
	if len(prices) < s.minHistory {
		return noTrade(ReasonInsufficientData)
	}

	window := prices[len(prices)-s.minHistory:]
	snap := indicators.Compute(prices, volumes, s.lookbacks)

	momGate, momDir := momentumGate(window)
	volGate, currentVol := volatilityGate(window)
	rangeGate, vwapDev := rangeOrVWAPGate(window, volumes)

	active := inActiveSession(now)
	highVol := currentVol > highVolThreshold

	required := 3
	if active || highVol {
		required = 2
	}

	passed := 0
	for _, g := range []bool{momGate, volGate, rangeGate} {
		if g {
			passed++
		}
	}

	confidence := 0
	if momGate {
		confidence += 25
	}
	if volGate {
		confidence += 20
	}
	if rangeGate {
		confidence += 25
	}
	if math.Abs(vwapDev) > 2.0 {
		confidence += 10
	}
	if highVol {
		confidence += 10
	}
	if active {
		confidence += 10
	}
	confidence = clampConfidence(confidence)

	snap.VolatilityPct = currentVol
	snap.VWAPDist = vwapDev

	direction := sig.NoTrade
	if passed >= required && confidence >= 70 && momDir != 0 {
		if momDir > 0 {
			direction = sig.Up
		} else {
			direction = sig.Down
		}
	} else {
		confidence = 0
	}

	return Verdict{
		Direction:   direction,
		Confidence:  confidence,
		SizeHintPct: TieredSizeHint(confidence),
		Reason:      fmt.Sprintf("gates=%d/%d mom=%t vol=%t range=%t session=%t", passed, required, momGate, volGate, rangeGate, active),
		Basis:       snap,
	}
}

// momentumGate passes when momentum is decelerating against its direction
// (a divergence setup) or freshly accelerating. The returned direction is
// the side the setup favors.
func momentumGate(prices []float64) (bool, int) {
	mom1 := indicators.Momentum(prices, 1)
	mom3 := indicators.Momentum(prices, 3)
	mom5 := indicators.Momentum(prices, 5)

	decelerating := math.Abs(mom1) < math.Abs(mom3) && math.Abs(mom3) < math.Abs(mom5)
	if mom1 > 0 && mom3 > 0 && decelerating {
		return true, -1
	}
	if mom1 < 0 && mom3 < 0 && decelerating {
		return true, 1
	}

	if math.Abs(mom1) > math.Abs(mom3)*1.5 && mom1 != 0 {
		if mom1 > 0 {
			return true, 1
		}
		return true, -1
	}
	return false, 0
}

// volatilityGate passes when recent volatility exceeds the historical
// baseline by 20%. Returns the recent volatility either way.
func volatilityGate(prices []float64) (bool, float64) {
	recent := indicators.Volatility(prices, 10)
	hist := indicators.Volatility(prices, 30)
	if recent > hist*1.2 {
		return true, recent
	}
	return false, recent
}

// rangeOrVWAPGate passes when price sits in the outer 10% of its 20-point
// range, or deviates more than 1% from VWAP (1.5% from SMA when volume data
// is unusable). Returns the deviation used.
func rangeOrVWAPGate(prices, volumes []float64) (bool, float64) {
	if len(prices) < 20 {
		return false, 0
	}
	current := prices[len(prices)-1]
	window := prices[len(prices)-20:]

	high, low := window[0], window[0]
	for _, p := range window {
		high = math.Max(high, p)
		low = math.Min(low, p)
	}
	if span := high - low; span > 0 {
		pos := (current - low) / span
		if pos > 0.90 {
			return true, -0.9
		}
		if pos < 0.10 {
			return true, 0.9
		}
	}

	if dev := indicators.VWAPDistance(prices, volumes, 20); dev != 0 {
		if math.Abs(dev) > 1.0 {
			return true, dev
		}
		return false, dev
	}

	sma := indicators.SMA(prices, 20)
	if sma == 0 {
		return false, 0
	}
	dev := (current - sma) / sma * 100
	if math.Abs(dev) > 1.5 {
		return true, dev
	}
	return false, 0
}

func inActiveSession(now time.Time) bool {
	hour := now.UTC().Hour()
	london := hour >= londonOpen && hour < londonClose
	ny := hour >= nyOpen && hour < nyClose
	return london || ny
}

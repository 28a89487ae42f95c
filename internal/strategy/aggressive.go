package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/clawdkrab/polymarket-signal-bot/internal/indicators"
	sig "github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

// Aggressive is the multi-factor scorer tuned to always produce an
// opinionated call: tiered momentum and acceleration weights, a
// regime-following volatility bonus, a VWAP-stretch fade, a volume-impulse
// kicker, and a weak-momentum tiebreak at fixed confidence instead of
// passing outright.
type Aggressive struct {
	minHistory int
	threshold  float64
	lookbacks  indicators.Lookbacks
}

// NewAggressive builds the aggressive scorer. Defaults: 20 points of
// history, ±0.15 score threshold.
func NewAggressive(params Params) *Aggressive {
	if params.MinHistory <= 0 {
		params.MinHistory = 20
	}
	if params.Threshold <= 0 {
		params.Threshold = 0.15
	}
	return &Aggressive{
		minHistory: params.MinHistory,
		threshold:  params.Threshold,
		lookbacks:  indicators.DefaultLookbacks(),
	}
}

// Name returns the configured identifier for logging.
func (a *Aggressive) Name() string { return "aggressive" }

// Evaluate scores the supplied history, falling back to a weak-momentum
// tiebreak at confidence 50 when the weighted score stays inside the band.
func (a *Aggressive) Evaluate(prices, volumes []float64, _ time.Time) Verdict {
	if len(prices) < a.minHistory {
		return noTrade(ReasonInsufficientData)
	}

	snap := indicators.Compute(prices, volumes, a.lookbacks)
	slope := snap.MomSlope

	var score float64

	// Tiered short-horizon momentum.
	switch {
	case snap.Mom1 > 0.15:
		score += 0.4
	case snap.Mom1 < -0.15:
		score -= 0.4
	case snap.Mom1 > 0.08:
		score += 0.2
	case snap.Mom1 < -0.08:
		score -= 0.2
	}

	// Tiered acceleration.
	switch {
	case slope > 0.1:
		score += 0.25
	case slope < -0.1:
		score -= 0.25
	case slope > 0.05:
		score += 0.1
	case slope < -0.05:
		score -= 0.1
	}

	// Expanding volatility adds conviction in the prevailing direction only.
	if snap.VolRegime == indicators.RegimeExpanding && snap.VolatilityPct > 0.3 {
		if score > 0 {
			score += 0.15
		} else if score < 0 {
			score -= 0.15
		}
	}

	// Fade extreme VWAP stretch.
	if snap.VWAPDist > 0.5 {
		score -= 0.1
	} else if snap.VWAPDist < -0.5 {
		score += 0.1
	}

	// Volume impulse confirms whichever side is already winning.
	if snap.VolumeImpulse > 20 {
		if score > 0 {
			score += 0.1
		} else if score < 0 {
			score -= 0.1
		}
	}

	snap.Score = score

	direction := sig.NoTrade
	confidence := 0
	switch {
	case score > a.threshold:
		direction = sig.Up
		confidence = clampConfidence(int(55 + score*100))
	case score < -a.threshold:
		direction = sig.Down
		confidence = clampConfidence(int(55 + math.Abs(score)*100))
	default:
		// Weak-momentum tiebreak: still pick a side when the mid-horizon
		// move leans one way. Markets here have no hold option.
		if snap.Mom3 > 0.05 {
			direction = sig.Up
			confidence = 50
		} else if snap.Mom3 < -0.05 {
			direction = sig.Down
			confidence = 50
		}
	}

	return Verdict{
		Direction:   direction,
		Confidence:  confidence,
		SizeHintPct: TieredSizeHint(confidence),
		Reason:      fmt.Sprintf("mom=%+.2f%% slope=%+.2f vwap=%+.1f%% z=%+.1f vol=%s", snap.Mom1, slope, snap.VWAPDist, snap.ZScore, snap.VolRegime),
		Basis:       snap,
	}
}

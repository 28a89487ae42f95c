// Package strategy contains the scorer variants that turn indicator
// snapshots into directional verdicts.
package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/clawdkrab/polymarket-signal-bot/internal/indicators"
	sig "github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

// Baseline is the momentum scorer: a fixed-weight sum of short-horizon
// momentum, momentum acceleration, trend bias, a volatility-expansion bonus,
// and a contrarian fade of extreme extensions from the rolling mean.
type Baseline struct {
	minHistory int
	threshold  float64
	lookbacks  indicators.Lookbacks
}

// NewBaseline builds the baseline scorer. Defaults: 20 points of history,
// ±0.25 score threshold.
func NewBaseline(params Params) *Baseline {
	if params.MinHistory <= 0 {
		params.MinHistory = 20
	}
	if params.Threshold <= 0 {
		params.Threshold = 0.25
	}
	return &Baseline{
		minHistory: params.MinHistory,
		threshold:  params.Threshold,
		lookbacks:  indicators.DefaultLookbacks(),
	}
}

// Name returns the configured identifier for logging.
func (b *Baseline) Name() string { return "baseline" }

// Evaluate scores the supplied history. Ties at the threshold favor NO_TRADE.
func (b *Baseline) Evaluate(prices, volumes []float64, _ time.Time) Verdict {
	if len(prices) < b.minHistory {
		return noTrade(ReasonInsufficientData)
	}

	snap := indicators.Compute(prices, volumes, b.lookbacks)

	var score float64

	// Short-horizon momentum carries the largest weight.
	switch {
	case snap.Mom1 > 0.2:
		score += 0.4
	case snap.Mom1 < -0.2:
		score -= 0.4
	}

	// Momentum acceleration: is the move building or fading?
	switch {
	case snap.MomSlope > 0.15:
		score += 0.2
	case snap.MomSlope < -0.15:
		score -= 0.2
	}

	switch snap.TrendBias {
	case indicators.TrendStrongUp:
		score += 0.2
	case indicators.TrendStrongDown:
		score -= 0.2
	case indicators.TrendWeakUp:
		score += 0.1
	case indicators.TrendWeakDown:
		score -= 0.1
	}

	if snap.VolRegime == indicators.RegimeExpanding && snap.VolatilityPct > 0.5 {
		score += 0.1
	}

	// Fade extreme extensions from the rolling mean.
	if snap.DistFromMeanPct > 1.5 {
		score -= 0.1
	} else if snap.DistFromMeanPct < -1.5 {
		score += 0.1
	}

	snap.Score = score

	direction := sig.NoTrade
	confidence := 0
	switch {
	case score > b.threshold:
		direction = sig.Up
		confidence = clampConfidence(int(50 + score*100))
	case score < -b.threshold:
		direction = sig.Down
		confidence = clampConfidence(int(50 + math.Abs(score)*100))
	}

	return Verdict{
		Direction:   direction,
		Confidence:  confidence,
		SizeHintPct: TieredSizeHint(confidence),
		Reason:      fmt.Sprintf("mom=%+.2f%% slope=%+.2f trend=%s vol=%s", snap.Mom1, snap.MomSlope, snap.TrendBias, snap.VolRegime),
		Basis:       snap,
	}
}

package strategy

import (
	"strings"
	"time"

	sig "github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

// Verdict is the outcome of one scoring pass over a price history.
type Verdict struct {
	Direction   sig.Direction
	Confidence  int
	SizeHintPct float64 // upper-bound hint; the risk manager owns final sizing
	Reason      string
	Basis       sig.Snapshot
}

// Scorer defines behaviour shared by the scorer variants. Implementations
// are stateless per call: every Evaluate recomputes indicators from the
// supplied sequences.
type Scorer interface {
	Evaluate(prices, volumes []float64, now time.Time) Verdict
	Name() string
}

// Params expresses the tunable knobs shared by scorer constructors.
// Zero values select per-variant defaults; min history and threshold are
// deliberately configurable since the reference variants disagree on both.
type Params struct {
	MinHistory int
	Threshold  float64
}

// Build returns a scorer implementation matching the configured mode.
func Build(mode string, params Params) Scorer {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "baseline", "momentum":
		return NewBaseline(params)
	case "aggressive", "multi_factor":
		return NewAggressive(params)
	case "institutional", "gated":
		return NewInstitutional(params)
	default:
		return NewBaseline(params)
	}
}

const (
	// ReasonInsufficientData marks verdicts emitted before the minimum
	// history requirement is met.
	ReasonInsufficientData = "insufficient_data"

	maxConfidence = 95
)

func noTrade(reason string) Verdict {
	return Verdict{Direction: sig.NoTrade, Confidence: 0, Reason: reason}
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

package strategy

import (
	"testing"
	"time"

	sig "github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

// Choppy two-percent swings resolving into a breakout close at the range
// high. The last move (+4% off a 100 close) outruns the 3-point momentum
// (+1.96%) by more than 1.5x, so the momentum gate fires on acceleration;
// the close sits in the outer 10% of the 20-point range, so the range gate
// fires too. The volatility-expansion gate stays shut (the chop keeps
// recent and historical volatility comparable) and the regime counts as
// high volatility.
func choppyBreakoutSeries() []float64 {
	prices := make([]float64, 0, 50)
	for i := 0; i < 45; i++ {
		if i%2 == 0 {
			prices = append(prices, 100)
		} else {
			prices = append(prices, 102)
		}
	}
	return append(prices, 100, 102, 102, 100, 104)
}

func TestInstitutionalRelaxedGatingDuringSession(t *testing.T) {
	scorer := NewInstitutional(Params{})
	active, _ := time.Parse(time.RFC3339, "2025-01-02T14:00:00Z") // London + NY overlap

	v := scorer.Evaluate(choppyBreakoutSeries(), flatSeries(50, 0), active)
	if v.Direction != sig.Up {
		t.Fatalf("expected UP with 2-of-3 gates during session, got %s (%s)", v.Direction, v.Reason)
	}
	if v.Confidence < 70 {
		t.Fatalf("expected confidence >= 70, got %d", v.Confidence)
	}
}

func TestInstitutionalStrictGatingOffSession(t *testing.T) {
	scorer := NewInstitutional(Params{})
	quiet, _ := time.Parse(time.RFC3339, "2025-01-02T03:00:00Z")

	// Same two passing gates, but without the session bonus confidence
	// stalls at 60 and the 70 floor rejects the setup.
	v := scorer.Evaluate(choppyBreakoutSeries(), flatSeries(50, 0), quiet)
	if v.Direction != sig.NoTrade {
		t.Fatalf("expected NO_TRADE off session without the session bonus, got %s (%s)", v.Direction, v.Reason)
	}
	if v.Confidence != 0 {
		t.Fatalf("expected zeroed confidence on rejection, got %d", v.Confidence)
	}
}

func TestInstitutionalFlatSeriesNoTrade(t *testing.T) {
	scorer := NewInstitutional(Params{})
	now, _ := time.Parse(time.RFC3339, "2025-01-02T14:00:00Z")

	v := scorer.Evaluate(flatSeries(60, 88500), flatSeries(60, 0), now)
	if v.Direction != sig.NoTrade {
		t.Fatalf("expected NO_TRADE on flat series, got %s", v.Direction)
	}
}

func TestInstitutionalInsufficientHistory(t *testing.T) {
	scorer := NewInstitutional(Params{})
	v := scorer.Evaluate(flatSeries(30, 100), nil, time.Now())
	if v.Reason != ReasonInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", v.Reason)
	}
}

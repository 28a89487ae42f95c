package indicators

import (
	"math"
	"testing"
)

func flat(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestNeutralValuesOnShortSequences(t *testing.T) {
	short := []float64{100, 101}

	if got := RSI(short, 14); got != 50 {
		t.Fatalf("expected neutral RSI 50, got %.2f", got)
	}
	if got := Momentum(short, 5); got != 0 {
		t.Fatalf("expected neutral momentum 0, got %.2f", got)
	}
	if got := Volatility(short, 10); got != 0 {
		t.Fatalf("expected neutral volatility 0, got %.2f", got)
	}
	if bias, strength := Trend(short, 5, 20); bias != TrendNeutral || strength != 0 {
		t.Fatalf("expected neutral trend, got %s/%.2f", bias, strength)
	}
	if got := SMA(short, 20); got != 101 {
		t.Fatalf("expected SMA fallback to last price, got %.2f", got)
	}
	if got := EMA(short, 20); got != 101 {
		t.Fatalf("expected EMA fallback to last price, got %.2f", got)
	}
	if got := ZScore(short, 60); got != 0 {
		t.Fatalf("expected neutral zscore 0, got %.2f", got)
	}
	if got := BollingerPosition(short, 20); got != 0 {
		t.Fatalf("expected neutral bollinger position 0, got %.2f", got)
	}
}

func TestRSIBounds(t *testing.T) {
	up := make([]float64, 0, 30)
	down := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		up = append(up, 100+float64(i))
		down = append(down, 200-float64(i))
	}

	if got := RSI(up, 14); got != 100 {
		t.Fatalf("expected RSI 100 for all gains, got %.2f", got)
	}
	if got := RSI(down, 14); got != 0 {
		t.Fatalf("expected RSI 0 for all losses, got %.2f", got)
	}
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	// avg gain == avg loss == 0 must map to 50, not the all-gains branch.
	if got := RSI(flat(25, 88500), 14); got != 50 {
		t.Fatalf("expected RSI 50 for flat series, got %.2f", got)
	}
}

func TestMomentum(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100, 101}
	got := Momentum(prices, 5)
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected +1%% momentum, got %.4f", got)
	}
}

func TestMomentumZeroAnchor(t *testing.T) {
	prices := []float64{0, 1, 2}
	if got := Momentum(prices, 2); got != 0 {
		t.Fatalf("expected 0 momentum for zero anchor, got %.4f", got)
	}
}

func TestBollingerPositionClipped(t *testing.T) {
	prices := flat(19, 100)
	prices = append(prices, 250) // far outside the band
	got := BollingerPosition(prices, 20)
	if got != 1 {
		t.Fatalf("expected clip at +1, got %.4f", got)
	}
	if got < -1 || got > 1 {
		t.Fatalf("bollinger position out of range: %.4f", got)
	}
}

func TestVWAPDistanceZeroVolume(t *testing.T) {
	prices := flat(30, 100)
	volumes := flat(30, 0)
	if got := VWAPDistance(prices, volumes, 30); got != 0 {
		t.Fatalf("expected 0 for zero summed volume, got %.4f", got)
	}
}

func TestZScoreZeroVariance(t *testing.T) {
	if got := ZScore(flat(80, 100), 60); got != 0 {
		t.Fatalf("expected 0 zscore for zero variance, got %.4f", got)
	}
}

func TestTrendClassification(t *testing.T) {
	rising := make([]float64, 0, 25)
	for i := 0; i < 25; i++ {
		rising = append(rising, 100+float64(i)*2)
	}
	bias, strength := Trend(rising, 5, 20)
	if bias != TrendStrongUp {
		t.Fatalf("expected strong_up, got %s", bias)
	}
	if strength <= 0 || strength > 100 {
		t.Fatalf("strength out of range: %.2f", strength)
	}
}

func TestVolatilityRegimeExpanding(t *testing.T) {
	prices := flat(16, 100)
	// Recent swings exceed the full-lookback average.
	prices = append(prices, 101, 99, 102, 98, 103)
	vol, regime := VolatilityRegime(prices, 20, 5)
	if regime != RegimeExpanding {
		t.Fatalf("expected expanding regime, got %s (vol %.3f)", regime, vol)
	}
}

func TestMomentumSlope(t *testing.T) {
	// Flat early window, accelerating late window.
	prices := []float64{100, 100, 100, 100, 100, 100, 101, 102, 104, 107, 111}
	got := MomentumSlope(prices, 4)
	if got <= 0 {
		t.Fatalf("expected positive slope for accelerating prices, got %.4f", got)
	}
}

func TestVolumeImpulse(t *testing.T) {
	volumes := flat(20, 10)
	volumes = append(volumes, flat(10, 20)...)
	got := VolumeImpulse(volumes)
	if math.Abs(got-100) > 1e-9 {
		t.Fatalf("expected +100%% impulse, got %.4f", got)
	}
	if got := VolumeImpulse(flat(10, 5)); got != 0 {
		t.Fatalf("expected 0 impulse on short history, got %.4f", got)
	}
}

func TestComputeSlopeComparesMomentumWindows(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103, 108, 107, 110, 109, 112, 111, 113, 115, 114, 118, 117, 120, 119, 121, 123}
	lb := DefaultLookbacks()

	snap := Compute(prices, flat(len(prices), 1), lb)
	want := MomentumSlope(prices, lb.SlopeWindow)
	if snap.MomSlope != want {
		t.Fatalf("expected windowed slope %.4f, got %.4f", want, snap.MomSlope)
	}
	// Guard against the shortcut of differencing the 1- and 5-point
	// momentum values, which measures something else entirely here.
	if proxy := Momentum(prices, 1) - Momentum(prices, 5); snap.MomSlope == proxy {
		t.Fatalf("slope must compare non-overlapping windows, got proxy value %.4f", snap.MomSlope)
	}
}

func TestIndicatorsAreIdempotent(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103, 108, 107, 110, 109, 112, 111, 113, 115, 114, 118, 117, 120, 119, 121, 123}
	first := Compute(prices, flat(len(prices), 1), DefaultLookbacks())
	second := Compute(prices, flat(len(prices), 1), DefaultLookbacks())
	if first != second {
		t.Fatalf("snapshot not idempotent: %+v vs %+v", first, second)
	}
}

package risk

import (
	"strings"
	"testing"
)

func TestShouldTradePassesAllChecks(t *testing.T) {
	m := NewManager(100, DefaultLimits())
	ok, reason := m.ShouldTrade(100, 75, 0)
	if !ok {
		t.Fatalf("expected trade allowed, got: %s", reason)
	}
	if reason != "All risk checks passed" {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestShouldTradeRejectsLowConfidence(t *testing.T) {
	m := NewManager(100, DefaultLimits())
	ok, reason := m.ShouldTrade(100, 55, 0)
	if ok {
		t.Fatalf("expected rejection below confidence floor")
	}
	if !strings.HasPrefix(reason, "Confidence too low") {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestShouldTradeCapitalPreservation(t *testing.T) {
	m := NewManager(100, DefaultLimits())
	// 25% of initial capital: preservation mode regardless of confidence.
	ok, reason := m.ShouldTrade(25, 95, 0)
	if ok {
		t.Fatalf("expected capital preservation rejection")
	}
	if !strings.HasPrefix(reason, "Capital preservation mode") {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestShouldTradeDailyLossLimit(t *testing.T) {
	m := NewManager(100, DefaultLimits())
	ok, reason := m.ShouldTrade(75, 80, -25)
	if ok {
		t.Fatalf("expected daily loss rejection")
	}
	if !strings.HasPrefix(reason, "Daily loss limit hit") {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestShouldTradeDrawdownLimit(t *testing.T) {
	m := NewManager(100, DefaultLimits())
	m.UpdatePeak(200)
	// 65% drawdown from peak 200, but still above the 30% initial floor.
	ok, reason := m.ShouldTrade(70, 80, 0)
	if ok {
		t.Fatalf("expected drawdown rejection")
	}
	if !strings.HasPrefix(reason, "Max drawdown exceeded") {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestShouldTradeHaltsOnNonPositiveCapital(t *testing.T) {
	m := NewManager(100, DefaultLimits())
	if ok, _ := m.ShouldTrade(0, 95, 0); ok {
		t.Fatalf("expected halt on zero capital")
	}
	if ok, _ := m.ShouldTrade(-5, 95, 0); ok {
		t.Fatalf("expected halt on negative capital")
	}
	if got := m.PositionSize(0, 95, 0, 0); got != 0 {
		t.Fatalf("expected zero size on zero capital, got %.2f", got)
	}
}

func TestPositionSizeLossStreakPenalty(t *testing.T) {
	m := NewManager(100, DefaultLimits())

	// Still allowed to trade on a loss streak...
	ok, reason := m.ShouldTrade(100, 90, 0)
	if !ok {
		t.Fatalf("expected trade allowed, got: %s", reason)
	}

	// ...but sized at half: 100 * 0.05 * 0.9 * 0.5 = 2.25.
	got := m.PositionSize(100, 90, 0, 3)
	if got != 2.25 {
		t.Fatalf("expected 2.25 with loss-streak penalty, got %.2f", got)
	}
}

func TestPositionSizeWinStreakBoost(t *testing.T) {
	m := NewManager(100, DefaultLimits())
	// 100 * 0.05 * 0.8 * 1.2 = 4.80.
	got := m.PositionSize(100, 80, 3, 0)
	if got != 4.80 {
		t.Fatalf("expected 4.80 with win-streak boost, got %.2f", got)
	}
}

func TestPositionSizeMonotonicInConfidence(t *testing.T) {
	m := NewManager(1000, DefaultLimits())
	prev := 0.0
	for conf := 60; conf <= 95; conf += 5 {
		size := m.PositionSize(1000, conf, 0, 0)
		if size < prev {
			t.Fatalf("size decreased with confidence: %d%% -> %.2f (prev %.2f)", conf, size, prev)
		}
		prev = size
	}
}

func TestPositionSizeDrawdownClamp(t *testing.T) {
	limits := DefaultLimits()
	m := NewManager(1000, limits)
	m.UpdatePeak(1000)

	capital := 750.0 // 25% drawdown from peak
	got := m.PositionSize(capital, 100, 0, 0)
	ceiling := 0.5 * limits.BasePositionPct * capital
	if got > ceiling {
		t.Fatalf("expected size <= %.2f under deep drawdown, got %.2f", ceiling, got)
	}
}

func TestPositionSizeClampsAndRounds(t *testing.T) {
	m := NewManager(100, DefaultLimits())

	// Tiny capital: floor at min position but never above 95% of capital.
	got := m.PositionSize(1, 60, 0, 0)
	if got > 0.95 {
		t.Fatalf("expected hard cap at 95%% of capital, got %.2f", got)
	}

	// Max-position clamp: base would be 5 but high peak drags nothing here.
	got = m.PositionSize(100, 95, 0, 0)
	if got > 100*0.15 {
		t.Fatalf("expected clamp at max position pct, got %.2f", got)
	}
}

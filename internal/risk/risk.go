// Package risk gates trades and sizes positions from capital, confidence,
// and recent performance. Nothing in this package returns an error: unmet
// preconditions surface as an explicit (false, reason) pair and sizing
// always stays within configured bounds.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Limits encodes the guard-rails for how much size a trade may take on.
type Limits struct {
	MaxPositionPct  float64 `yaml:"max_position_pct"`
	BasePositionPct float64 `yaml:"base_position_pct"`
	MinPosition     float64 `yaml:"min_position"`
	MaxDailyLossPct float64 `yaml:"max_daily_loss_pct"`
	MaxDrawdownPct  float64 `yaml:"max_drawdown_pct"`
}

// DefaultLimits mirrors the production tuning: 15% max position, 5% base,
// $1 minimum, 20% daily-loss stop, 25% drawdown stop.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionPct:  0.15,
		BasePositionPct: 0.05,
		MinPosition:     1.0,
		MaxDailyLossPct: 0.20,
		MaxDrawdownPct:  0.25,
	}
}

const (
	minConfidence        = 60
	capitalFloorFraction = 0.30
	hardCapFraction      = 0.95
)

// Manager decides whether to trade at all and computes a bounded position
// size. It owns the configuration and high-water mark; capital itself is
// supplied per call since outcome settlement happens outside this package.
type Manager struct {
	initialCapital float64
	peakCapital    float64
	limits         Limits
}

// NewManager builds a manager seeded with starting capital.
func NewManager(initialCapital float64, limits Limits) *Manager {
	if limits.BasePositionPct <= 0 {
		limits = DefaultLimits()
	}
	return &Manager{
		initialCapital: initialCapital,
		peakCapital:    initialCapital,
		limits:         limits,
	}
}

// UpdatePeak raises the high-water mark. Owners must call this after every
// capital change; drawdown math depends on it being current.
func (m *Manager) UpdatePeak(capital float64) {
	if capital > m.peakCapital {
		m.peakCapital = capital
	}
}

// PeakCapital returns the current high-water mark.
func (m *Manager) PeakCapital() float64 { return m.peakCapital }

// ShouldTrade runs the gate checks in order and returns the first failing
// reason. Non-positive capital halts trading outright.
func (m *Manager) ShouldTrade(capital float64, confidence int, dailyPnL float64) (bool, string) {
	if capital <= 0 {
		return false, fmt.Sprintf("Trading halted (non-positive capital $%.2f)", capital)
	}
	if confidence < minConfidence {
		return false, fmt.Sprintf("Confidence too low (%d%% < %d%%)", confidence, minConfidence)
	}
	floor := m.initialCapital * capitalFloorFraction
	if capital < floor {
		return false, fmt.Sprintf("Capital preservation mode ($%.2f < $%.2f)", capital, floor)
	}
	if dailyPnL < 0 && m.initialCapital > 0 {
		lossPct := -dailyPnL / m.initialCapital
		if lossPct > m.limits.MaxDailyLossPct {
			return false, fmt.Sprintf("Daily loss limit hit (%.1f%% > %.1f%%)", lossPct*100, m.limits.MaxDailyLossPct*100)
		}
	}
	if m.peakCapital > 0 {
		drawdown := (m.peakCapital - capital) / m.peakCapital
		if drawdown > m.limits.MaxDrawdownPct {
			return false, fmt.Sprintf("Max drawdown exceeded (%.1f%% > %.1f%%)", drawdown*100, m.limits.MaxDrawdownPct*100)
		}
	}
	return true, "All risk checks passed"
}

// PositionSize computes a bounded position in dollars. Base size scales with
// confidence; streaks and drawdown shrink or grow it; the result is clamped
// to [min_position, capital*max_position_pct], hard-capped at 95% of
// capital, and rounded to currency precision.
func (m *Manager) PositionSize(capital float64, confidence, winStreak, lossStreak int) float64 {
	if capital <= 0 {
		return 0
	}

	size := capital * m.limits.BasePositionPct * float64(confidence) / 100

	// Streaks reset each other, so these branches are mutually exclusive.
	if lossStreak >= 2 {
		size *= 0.5
	} else if winStreak >= 2 {
		size *= 1.2
	}

	if m.peakCapital > 0 {
		drawdown := (m.peakCapital - capital) / m.peakCapital
		// The stricter threshold replaces the looser one; they do not stack.
		if drawdown > 0.20 {
			size *= 0.5
		} else if drawdown > 0.10 {
			size *= 0.7
		}
	}

	maxSize := capital * m.limits.MaxPositionPct
	if size > maxSize {
		size = maxSize
	}
	if size < m.limits.MinPosition {
		size = m.limits.MinPosition
	}
	if hardCap := capital * hardCapFraction; size > hardCap {
		size = hardCap
	}

	rounded, _ := decimal.NewFromFloat(size).Round(2).Float64()
	return rounded
}

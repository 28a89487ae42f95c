package risk

import "sync"

// State tracks capital, streaks, and daily PnL while the owning process
// lives. Outcome settlement happens externally; ApplyOutcome is the feedback
// entry point that external resolution calls into.
type State struct {
	mu          sync.Mutex
	capital     float64
	peakCapital float64
	dailyPnL    float64
	winStreak   int
	lossStreak  int
}

// StateSnapshot is a read-only copy of the rolling performance state.
type StateSnapshot struct {
	Capital     float64
	PeakCapital float64
	DailyPnL    float64
	WinStreak   int
	LossStreak  int
}

// NewState seeds the performance state from starting capital.
func NewState(startingCapital float64) *State {
	return &State{
		capital:     startingCapital,
		peakCapital: startingCapital,
	}
}

// ApplyOutcome records one settled trade: capital and daily PnL move by pnl,
// streaks update (a win resets the loss streak and vice versa), and the peak
// advances when capital makes a new high.
func (s *State) ApplyOutcome(pnl float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.capital += pnl
	s.dailyPnL += pnl
	if pnl > 0 {
		s.winStreak++
		s.lossStreak = 0
	} else if pnl < 0 {
		s.lossStreak++
		s.winStreak = 0
	}
	if s.capital > s.peakCapital {
		s.peakCapital = s.capital
	}
}

// ResetDay zeroes the daily PnL at a day boundary. Streaks and peak carry over.
func (s *State) ResetDay() {
	s.mu.Lock()
	s.dailyPnL = 0
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateSnapshot{
		Capital:     s.capital,
		PeakCapital: s.peakCapital,
		DailyPnL:    s.dailyPnL,
		WinStreak:   s.winStreak,
		LossStreak:  s.lossStreak,
	}
}

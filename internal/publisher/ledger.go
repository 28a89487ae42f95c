package publisher

import (
	"sync"

	"github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

// Ledger keeps recent emissions in memory for quick inspection. It holds a
// bounded number of entries and evicts the oldest batch first.
type Ledger struct {
	mu      sync.Mutex
	max     int
	entries []signal.Signal
}

// NewLedger creates an empty ledger bounded to max entries.
func NewLedger(max int) *Ledger {
	if max <= 0 {
		max = 256
	}
	return &Ledger{max: max, entries: make([]signal.Signal, 0, max)}
}

// Record appends every signal in the batch, evicting the oldest entries
// when the bound is exceeded.
func (l *Ledger) Record(batch map[string]signal.Signal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, sig := range batch {
		l.entries = append(l.entries, sig)
	}
	if over := len(l.entries) - l.max; over > 0 {
		copy(l.entries, l.entries[over:])
		l.entries = l.entries[:l.max]
	}
}

// Snapshot returns a copy of the recorded signals, oldest first.
func (l *Ledger) Snapshot() []signal.Signal {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]signal.Signal, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset clears all stored entries.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()
}

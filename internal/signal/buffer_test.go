package signal

import (
	"testing"
	"time"
)

func TestBufferEvictsOldest(t *testing.T) {
	buf := NewBuffer(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		buf.Append(PricePoint{Asset: "BTC", Price: float64(100 + i), Ts: now.Add(time.Duration(i) * time.Second)})
	}

	if buf.Len() != 3 {
		t.Fatalf("expected len 3 after eviction, got %d", buf.Len())
	}
	prices := buf.Prices()
	if prices[0] != 102 || prices[2] != 104 {
		t.Fatalf("unexpected prices after eviction: %v", prices)
	}
}

func TestBufferKeepsChronologicalOrder(t *testing.T) {
	buf := NewBuffer(10)
	now := time.Now()
	buf.Append(PricePoint{Price: 100, Ts: now})
	buf.Append(PricePoint{Price: 101, Ts: now.Add(time.Second)})
	// Out-of-order point must be dropped, not inserted.
	buf.Append(PricePoint{Price: 99, Ts: now.Add(-time.Second)})

	all := buf.All()
	if len(all) != 2 {
		t.Fatalf("expected out-of-order point dropped, got %d points", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Ts.Before(all[i-1].Ts) {
			t.Fatalf("points out of order at %d", i)
		}
	}
}

func TestBufferRecentWindow(t *testing.T) {
	buf := NewBuffer(10)
	now := time.Now()
	buf.Append(PricePoint{Price: 1, Ts: now.Add(-2 * time.Minute)})
	buf.Append(PricePoint{Price: 2, Ts: now.Add(-30 * time.Second)})
	buf.Append(PricePoint{Price: 3, Ts: now.Add(-5 * time.Second)})

	recent := buf.Recent(time.Minute)
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent points, got %d", len(recent))
	}
	if recent[0].Price != 2 || recent[1].Price != 3 {
		t.Fatalf("unexpected recent points: %v", recent)
	}
}

func TestBufferEmptyNeverPanics(t *testing.T) {
	buf := NewBuffer(5)
	if got := buf.Recent(time.Minute); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
	if got := buf.All(); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
	if _, ok := buf.Last(); ok {
		t.Fatalf("expected no last point on empty buffer")
	}
}

package signal

import (
	"sync"
	"time"
)

// Buffer is a fixed-capacity, time-ordered store of recent price points for
// one asset. Oldest entries are evicted once capacity is reached.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	points   []PricePoint
}

// NewBuffer creates an empty buffer holding at most capacity points.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 300
	}
	return &Buffer{
		capacity: capacity,
		points:   make([]PricePoint, 0, capacity),
	}
}

// Append records a point, evicting the oldest entry when full. Points with a
// timestamp older than the newest entry are dropped to keep the sequence
// monotonically non-decreasing.
func (b *Buffer) Append(p PricePoint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n := len(b.points); n > 0 && p.Ts.Before(b.points[n-1].Ts) {
		return
	}
	if len(b.points) == b.capacity {
		copy(b.points, b.points[1:])
		b.points = b.points[:b.capacity-1]
	}
	b.points = append(b.points, p)
}

// Recent returns the suffix of points observed within the window ending now,
// in chronological order. An empty buffer yields an empty slice.
func (b *Buffer) Recent(window time.Duration) []PricePoint {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := time.Now().Add(-window)
	idx := len(b.points)
	for idx > 0 && b.points[idx-1].Ts.After(cutoff) {
		idx--
	}
	out := make([]PricePoint, len(b.points)-idx)
	copy(out, b.points[idx:])
	return out
}

// All returns the full chronological sequence as a copy.
func (b *Buffer) All() []PricePoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PricePoint, len(b.points))
	copy(out, b.points)
	return out
}

// Prices returns just the price column, oldest first.
func (b *Buffer) Prices() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float64, len(b.points))
	for i, p := range b.points {
		out[i] = p.Price
	}
	return out
}

// Volumes returns just the volume column, oldest first.
func (b *Buffer) Volumes() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float64, len(b.points))
	for i, p := range b.points {
		out[i] = p.Volume
	}
	return out
}

// Len reports the number of stored points.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.points)
}

// Last returns the newest point, or a zero value when empty.
func (b *Buffer) Last() (PricePoint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.points) == 0 {
		return PricePoint{}, false
	}
	return b.points[len(b.points)-1], true
}

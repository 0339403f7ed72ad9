// Package ringbuf provides a fixed-capacity circular sample buffer.
package ringbuf

import (
	"sync"

	"github.com/tphakala/go-audio-interp/internal/simdops"
)

// Ring is a circular buffer of audio samples with a fixed capacity.
// Writing into a full ring overwrites the oldest samples.
type Ring[F simdops.Float] struct {
	data     []F
	filled   int
	writePos int
	mu       sync.Mutex
}

// New creates a ring with the specified capacity. Capacities below 1 are
// raised to 1.
func New[F simdops.Float](capacity int) *Ring[F] {
	if capacity < 1 {
		capacity = 1
	}

	return &Ring[F]{
		data: make([]F, capacity),
	}
}

// Write appends samples, overwriting the oldest when the ring is full.
func (b *Ring[F]) Write(samples []F) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.data)
	if len(samples) >= capacity {
		// Only the newest capacity samples survive.
		copy(b.data, samples[len(samples)-capacity:])
		b.writePos = 0
		b.filled = capacity
		return
	}

	n := copy(b.data[b.writePos:], samples)
	if n < len(samples) {
		copy(b.data, samples[n:])
	}
	b.writePos = (b.writePos + len(samples)) % capacity
	b.filled = min(b.filled+len(samples), capacity)
}

// Snapshot returns the stored samples in order, oldest first.
func (b *Ring[F]) Snapshot() []F {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]F, b.filled)
	start := b.writePos - b.filled
	if start < 0 {
		start += len(b.data)
	}
	n := copy(result, b.data[start:min(start+b.filled, len(b.data))])
	copy(result[n:], b.data[:b.filled-n])
	return result
}

// With calls fn with the backing array in physical order and the number of
// samples written so far, holding the lock for the duration of the call.
// fn must not retain data.
func (b *Ring[F]) With(fn func(data []F, filled int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.data, b.filled)
}

// WritePos returns the index the next sample will be written to.
func (b *Ring[F]) WritePos() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writePos
}

// Len returns the number of stored samples.
func (b *Ring[F]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filled
}

// Capacity returns the fixed buffer capacity.
func (b *Ring[F]) Capacity() int {
	return len(b.data)
}

// Full reports whether every slot has been written at least once.
func (b *Ring[F]) Full() bool {
	return b.Len() == b.Capacity()
}

// Clear zeroes the buffer and empties it.
func (b *Ring[F]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.data)
	b.filled = 0
	b.writePos = 0
}

// Package engine implements the streaming interpolation engine: the per-channel
// sample history, the interpolation kernels and the fractional-position advance
// algorithm in its unbounded and bounded (wrap/silence) forms.
package engine

import "github.com/tphakala/go-audio-interp/internal/simdops"

// Float is the type constraint for sample types.
type Float = simdops.Float

// History holds the most recently consumed input samples, newest first.
// The zero value is a silent history.
type History[F Float] struct {
	s [HistorySize]F

	// Kernel weight scratch, kept here so evaluation does not allocate.
	weights [HistorySize]F
}

// Push shifts every entry one slot towards the oldest end, discarding the
// oldest, and stores v as the newest sample.
func (h *History[F]) Push(v F) {
	copy(h.s[1:], h.s[:HistorySize-1])
	h.s[0] = v
}

// PushSilence pushes a zero sample.
func (h *History[F]) PushSilence() {
	h.Push(0)
}

// PushTail refreshes the history as if every sample of block had been pushed
// in order.
func (h *History[F]) PushTail(block []F) {
	n := len(block)
	if n >= HistorySize {
		for i := range HistorySize {
			h.s[i] = block[n-1-i]
		}
		return
	}
	for _, v := range block {
		h.Push(v)
	}
}

// Reset zeroes all entries.
func (h *History[F]) Reset() {
	h.s = [HistorySize]F{}
}

// At returns entry i, where 0 is the newest sample.
func (h *History[F]) At(i int) F {
	return h.s[i]
}

// Samples returns a copy of the entries, newest first.
func (h *History[F]) Samples() [HistorySize]F {
	return h.s
}

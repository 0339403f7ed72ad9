package interp

import (
	"fmt"

	"github.com/tphakala/go-audio-interp/internal/engine"
	"github.com/tphakala/go-audio-interp/internal/ringbuf"
)

// Looper plays back a fixed-capacity recording at a variable speed, treating
// the recording as an endless loop. Record and Render may be interleaved, so
// it also works as a varispeed delay line.
type Looper[F Float] struct {
	ring   *ringbuf.Ring[F]
	state  *engine.Interpolator[F]
	cursor int
}

// NewLooper returns a looper holding capacity samples.
func NewLooper[F Float](capacity int, kind Kind, opts ...Option) (*Looper[F], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: loop capacity must be at least 1", ErrInvalidConfig)
	}

	r, err := New[F](kind, opts...)
	if err != nil {
		return nil, err
	}

	return &Looper[F]{
		ring:  ringbuf.New[F](capacity),
		state: engine.NewInterpolator(r.kernel),
	}, nil
}

// Record writes samples into the loop, overwriting the oldest.
func (l *Looper[F]) Record(samples []F) {
	l.ring.Write(samples)
}

// Render fills out by reading the loop at ratio input samples per output
// sample and returns how far the play cursor moved, modulo the capacity.
// Slots never recorded read as silence.
func (l *Looper[F]) Render(out []F, ratio float64) int {
	return l.render(out, ratio, false, 1)
}

// RenderAdding is like Render but mixes gain times the result into out.
func (l *Looper[F]) RenderAdding(out []F, ratio float64, gain F) int {
	return l.render(out, ratio, true, gain)
}

func (l *Looper[F]) render(out []F, ratio float64, adding bool, gain F) int {
	var moved int
	capacity := l.ring.Capacity()
	l.ring.With(func(data []F, _ int) {
		if adding {
			moved = l.state.ProcessWrappedAdding(ratio, data, l.cursor, out, capacity-l.cursor, capacity, gain)
		} else {
			moved = l.state.ProcessWrapped(ratio, data, l.cursor, out, capacity-l.cursor, capacity)
		}
	})
	l.cursor = (l.cursor + moved) % capacity
	return moved
}

// Cursor returns the index of the next sample to be read.
func (l *Looper[F]) Cursor() int {
	return l.cursor
}

// Seek moves the play cursor to pos, taken modulo the capacity, and clears
// the interpolation history.
func (l *Looper[F]) Seek(pos int) {
	capacity := l.ring.Capacity()
	l.cursor = ((pos % capacity) + capacity) % capacity
	l.state.Reset()
}

// Capacity returns the loop length in samples.
func (l *Looper[F]) Capacity() int {
	return l.ring.Capacity()
}

// Recording returns a copy of the recorded samples, oldest first.
func (l *Looper[F]) Recording() []F {
	return l.ring.Snapshot()
}

// Reset erases the recording and rewinds playback.
func (l *Looper[F]) Reset() {
	l.ring.Clear()
	l.cursor = 0
	l.state.Reset()
}

package interp

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-interp/internal/engine"
)

// Statistics counts the samples a Stream has handled since its last Reset.
type Statistics struct {
	InputSamples  int64
	OutputSamples int64
}

// Stream is a push-style mono resampler. Input of any length is buffered and
// every output whose input has fully arrived is emitted, so the result of a
// sequence of Write calls followed by Flush does not depend on how the input
// was chunked.
//
// A Stream is not safe for concurrent use.
type Stream[F Float] struct {
	state   *engine.Interpolator[F]
	ratio   float64
	pending []F
	fed     bool
	stats   Statistics
}

// NewStream returns a stream converting at ratio input samples per output
// sample.
func NewStream[F Float](kind Kind, ratio float64, opts ...Option) (*Stream[F], error) {
	if err := validateStreamRatio(ratio); err != nil {
		return nil, err
	}

	r, err := New[F](kind, opts...)
	if err != nil {
		return nil, err
	}

	return &Stream[F]{
		state: engine.NewInterpolator(r.kernel),
		ratio: ratio,
	}, nil
}

// NewStreamForRates returns a stream converting from inputRate to outputRate.
func NewStreamForRates[F Float](inputRate, outputRate float64, kind Kind, opts ...Option) (*Stream[F], error) {
	cfg := Config{InputRate: inputRate, OutputRate: outputRate, Channels: 1, Kind: kind}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewStream[F](kind, cfg.Ratio(), opts...)
}

// SetRatio changes the conversion ratio from the next Write. History is kept.
func (s *Stream[F]) SetRatio(ratio float64) error {
	if err := validateStreamRatio(ratio); err != nil {
		return err
	}
	s.ratio = ratio
	return nil
}

// Ratio returns the input samples consumed per output sample.
func (s *Stream[F]) Ratio() float64 {
	return s.ratio
}

// Latency returns the kernel delay in input samples.
func (s *Stream[F]) Latency() int {
	return s.state.Kernel().Kind().Latency()
}

// Write buffers input and returns every output sample that can now be
// produced.
func (s *Stream[F]) Write(input []F) []F {
	s.pending = append(s.pending, input...)
	s.stats.InputSamples += int64(len(input))
	s.fed = s.fed || len(input) > 0

	n := s.state.OutputsAvailable(s.ratio, len(s.pending), s.maxOutputs(len(s.pending)))
	if n == 0 {
		return []F{}
	}

	out := make([]F, n)
	used := s.state.Process(s.ratio, s.pending, out)
	s.pending = s.pending[:copy(s.pending, s.pending[used:])]
	s.stats.OutputSamples += int64(n)
	return out
}

// Flush drains the buffered input, feeding silence past its end until the
// kernel latency is covered, and resets the stream for reuse.
func (s *Stream[F]) Flush() []F {
	pad := 0
	if s.fed {
		pad = s.Latency()
	}
	s.pending = append(s.pending, make([]F, pad)...)

	n := s.state.OutputsAvailable(s.ratio, len(s.pending), s.maxOutputs(len(s.pending)))
	out := make([]F, n)
	if n > 0 {
		s.state.Process(s.ratio, s.pending, out)
	}
	s.stats.OutputSamples += int64(n)

	s.pending = s.pending[:0]
	s.fed = false
	s.state.Reset()
	return out
}

// Reset discards buffered input and channel history.
func (s *Stream[F]) Reset() {
	s.pending = s.pending[:0]
	s.fed = false
	s.state.Reset()
	s.stats = Statistics{}
}

// Statistics returns the sample counters.
func (s *Stream[F]) Statistics() Statistics {
	return s.stats
}

// maxOutputs bounds the planning loop to what numIn inputs could ever yield.
func (s *Stream[F]) maxOutputs(numIn int) int {
	return int(math.Ceil(float64(numIn+1)/s.ratio)) + 1
}

func validateStreamRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio < 1/maxRatioFactor || ratio > 1/minRatioFactor {
		return fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidRatio, ratio, 1/maxRatioFactor, 1/minRatioFactor)
	}
	return nil
}

package interp

import (
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tphakala/go-audio-interp/internal/coeffs"
	"github.com/tphakala/go-audio-interp/internal/engine"
)

// Option configures a Resampler.
type Option func(*options)

type options struct {
	table  *coeffs.List
	logger *zap.Logger
}

// WithCoefficients sets the coefficient table used by the Sinc kernel.
// Other kernels ignore it.
func WithCoefficients(table *CoefficientList) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithLogger sets the logger for control-path events. Nothing is logged per
// sample.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Resampler owns one interpolation state per channel and fans block calls out
// across them. Every channel uses the same kernel.
//
// The stored ratio may be changed from any goroutine. Everything else,
// including Prepare and the Process family, must be serialised by the caller.
type Resampler[F Float] struct {
	kernel engine.Kernel[F]
	states []engine.Interpolator[F]
	active int
	ratio  atomic.Uint64
	logger *zap.Logger
}

// New returns a resampler using kind with a unity ratio and no channels.
// Call Prepare before processing.
func New[F Float](kind Kind, opts ...Option) (*Resampler[F], error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	kernel, err := engine.NewKernel[F](kind, o.table)
	if err != nil {
		return nil, err
	}

	r := &Resampler[F]{
		kernel: kernel,
		logger: o.logger.With(zap.String("kernel", kind.String())),
	}
	r.ratio.Store(math.Float64bits(unityRatio))
	return r, nil
}

// SetRatio stores the input samples consumed per output sample. Values that
// are not positive and finite are ignored. The new ratio applies from the
// next ProcessBlock call; channel history is left untouched.
func (r *Resampler[F]) SetRatio(ratio float64) {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		r.logger.Warn("ignoring invalid ratio", zap.Float64("ratio", ratio))
		return
	}
	r.ratio.Store(math.Float64bits(ratio))
}

// SetRatioFromRates stores sourceRate/destRate. It does nothing if either
// rate is not positive.
func (r *Resampler[F]) SetRatioFromRates(sourceRate, destRate float64) {
	if !(sourceRate > 0) || !(destRate > 0) {
		return
	}
	r.SetRatio(sourceRate / destRate)
}

// Ratio returns the stored ratio. A concurrent SetRatio may not be visible
// until the next call.
func (r *Resampler[F]) Ratio() float64 {
	return math.Float64frombits(r.ratio.Load())
}

// InverseRatio returns output samples produced per input sample.
func (r *Resampler[F]) InverseRatio() float64 {
	return 1 / r.Ratio()
}

// Prepare readies the resampler for numChannels channels. Existing states
// are reset and states for new channels are added. States are never freed,
// so a later call with fewer channels keeps them allocated.
//
// Prepare is the only method that allocates.
func (r *Resampler[F]) Prepare(numChannels, blockSizeHint int, sampleRateHint float64) {
	numChannels = max(numChannels, 0)

	for i := range r.states {
		r.states[i].Reset()
	}

	if grow := numChannels - len(r.states); grow > 0 {
		r.states = append(r.states, make([]engine.Interpolator[F], grow)...)
		for i := len(r.states) - grow; i < len(r.states); i++ {
			r.states[i].Init(r.kernel)
		}
	}

	r.active = numChannels
	r.logger.Debug("prepared",
		zap.Int("channels", numChannels),
		zap.Int("allocated", len(r.states)),
		zap.Int("block_size", blockSizeHint),
		zap.Float64("sample_rate", sampleRateHint))
}

// NumChannels returns the channel count of the latest Prepare call.
func (r *Resampler[F]) NumChannels() int {
	return r.active
}

// Reset returns every channel to a fresh state.
func (r *Resampler[F]) Reset() {
	for i := range r.states {
		r.states[i].Reset()
	}
}

// Kind returns the kernel in use.
func (r *Resampler[F]) Kind() Kind {
	return r.kernel.Kind()
}

// Latency returns the kernel delay in input samples.
func (r *Resampler[F]) Latency() int {
	return r.kernel.Kind().Latency()
}

// Process resamples each channel of src into the matching channel of dst at
// ratio, filling len(dst[ch]) outputs. Only the first
// min(len(src), len(dst), allocated states) channels are touched. Every
// source channel must hold enough input for its output length; see
// InputRequired.
//
// It returns the input samples consumed by channel 0, or 0 when no channel
// was processed.
func (r *Resampler[F]) Process(ratio float64, src, dst [][]F) int {
	n := r.channels(len(src), len(dst))
	consumed := 0
	for ch := range n {
		used := r.states[ch].Process(ratio, src[ch], dst[ch])
		if ch == 0 {
			consumed = used
		}
	}
	return consumed
}

// ProcessBlock is Process at the stored ratio, read once for the whole block.
func (r *Resampler[F]) ProcessBlock(src, dst [][]F) int {
	return r.Process(r.Ratio(), src, dst)
}

// ProcessAdding is like Process but mixes gain times the result into dst.
func (r *Resampler[F]) ProcessAdding(ratio float64, src, dst [][]F, gain F) int {
	n := r.channels(len(src), len(dst))
	consumed := 0
	for ch := range n {
		used := r.states[ch].ProcessAdding(ratio, src[ch], dst[ch], gain)
		if ch == 0 {
			consumed = used
		}
	}
	return consumed
}

// ProcessWrapped resamples from finite blocks. Each source channel is read
// from cursor with available valid samples ahead; once exhausted, reading
// wraps back by wrap samples, or continues with silence if wrap is 0.
//
// It returns channel 0's read displacement, modulo wrap when wrap > 0.
func (r *Resampler[F]) ProcessWrapped(ratio float64, src [][]F, cursor int, dst [][]F, available, wrap int) int {
	n := r.channels(len(src), len(dst))
	moved := 0
	for ch := range n {
		d := r.states[ch].ProcessWrapped(ratio, src[ch], cursor, dst[ch], available, wrap)
		if ch == 0 {
			moved = d
		}
	}
	return moved
}

// ProcessWrappedAdding is like ProcessWrapped but mixes gain times the
// result into dst.
func (r *Resampler[F]) ProcessWrappedAdding(ratio float64, src [][]F, cursor int, dst [][]F, available, wrap int, gain F) int {
	n := r.channels(len(src), len(dst))
	moved := 0
	for ch := range n {
		d := r.states[ch].ProcessWrappedAdding(ratio, src[ch], cursor, dst[ch], available, wrap, gain)
		if ch == 0 {
			moved = d
		}
	}
	return moved
}

// InputRequired returns how many input samples channel 0 needs to produce
// numOut samples at ratio.
func (r *Resampler[F]) InputRequired(ratio float64, numOut int) int {
	if len(r.states) == 0 {
		return 0
	}
	return r.states[0].InputRequired(ratio, numOut)
}

// OutputsAvailable returns how many samples, at most maxOut, channel 0 can
// produce at ratio from numIn input samples.
func (r *Resampler[F]) OutputsAvailable(ratio float64, numIn, maxOut int) int {
	if len(r.states) == 0 {
		return 0
	}
	return r.states[0].OutputsAvailable(ratio, numIn, maxOut)
}

func (r *Resampler[F]) channels(numSrc, numDst int) int {
	return min(numSrc, numDst, len(r.states))
}

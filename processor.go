package interp

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tphakala/go-audio-interp/internal/simdops"
)

// Processor resamples whole host blocks. It owns a realtime resampler and an
// optional offline one used while rendering non-realtime, and an output
// buffer sized once per Prepare.
//
// SetRatio and SetGain may be called from a control goroutine; the mutex
// only serialises resampler swaps and Prepare against ProcessBlock.
type Processor[F Float] struct {
	mu       sync.Mutex
	realtime *Resampler[F]
	offline  *Resampler[F]

	ratio       atomic.Uint64
	gain        atomic.Uint64
	nonRealtime atomic.Bool

	channels int
	result   [][]F
	backing  []F

	logger *zap.Logger
}

// NewProcessor returns a processor with Lagrange realtime and offline
// resamplers and a unity ratio.
func NewProcessor[F Float](opts ...Option) (*Processor[F], error) {
	realtime, err := New[F](Lagrange, opts...)
	if err != nil {
		return nil, err
	}
	offline, err := New[F](Lagrange, opts...)
	if err != nil {
		return nil, err
	}

	p := &Processor[F]{
		realtime: realtime,
		offline:  offline,
		logger:   realtime.logger.Named("processor"),
	}
	p.ratio.Store(math.Float64bits(unityRatio))
	p.gain.Store(math.Float64bits(unityGain))
	return p, nil
}

// SetRatio stores the input samples per output sample, clamped to the
// processor's supported range. NaN is ignored.
func (p *Processor[F]) SetRatio(ratio float64) {
	if math.IsNaN(ratio) {
		p.logger.Warn("ignoring NaN ratio")
		return
	}
	ratio = min(max(ratio, minProcessorRatio), maxProcessorRatio)
	p.ratio.Store(math.Float64bits(ratio))
}

// SetRatioFromRates stores sourceRate/destRate. It does nothing if either
// rate is not positive.
func (p *Processor[F]) SetRatioFromRates(sourceRate, destRate float64) {
	if sourceRate > 0 && destRate > 0 {
		p.SetRatio(sourceRate / destRate)
	}
}

// Ratio returns the stored ratio.
func (p *Processor[F]) Ratio() float64 {
	return math.Float64frombits(p.ratio.Load())
}

// SetGain sets a linear gain applied to resampled blocks.
func (p *Processor[F]) SetGain(gain float64) {
	p.gain.Store(math.Float64bits(gain))
}

// Gain returns the output gain.
func (p *Processor[F]) Gain() float64 {
	return math.Float64frombits(p.gain.Load())
}

// SetNonRealtime selects the offline resampler, when one is set, for
// subsequent blocks.
func (p *Processor[F]) SetNonRealtime(nonRealtime bool) {
	p.nonRealtime.Store(nonRealtime)
}

// SetResamplers replaces the resamplers. realtime is required; offline may
// be nil. New resamplers are used as given, so prepare them or call Prepare
// again.
func (p *Processor[F]) SetResamplers(realtime, offline *Resampler[F]) error {
	if realtime == nil {
		return fmt.Errorf("%w: realtime resampler is required", ErrInvalidConfig)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.realtime != realtime || p.offline != offline {
		p.realtime = realtime
		p.offline = offline
		p.logger.Debug("resamplers replaced",
			zap.Stringer("realtime", realtime.Kind()),
			zap.Bool("offline", offline != nil))
	}
	return nil
}

// Prepare readies both resamplers for channels channels and sizes the output
// buffer for blockSize samples. Upsampled blocks grow the buffer on first use.
func (p *Processor[F]) Prepare(sampleRate float64, blockSize, channels int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	channels = max(channels, 0)
	blockSize = max(blockSize, 0)

	p.realtime.Prepare(channels, blockSize, sampleRate)
	if p.offline != nil {
		p.offline.Prepare(channels, blockSize, sampleRate)
	}

	p.channels = channels
	p.ensureResult(channels, outputLength(blockSize, p.Ratio()))

	p.logger.Info("processor prepared",
		zap.Float64("sample_rate", sampleRate),
		zap.Int("block_size", blockSize),
		zap.Int("channels", channels))
}

// ProcessBlock resamples buffer at the stored ratio and returns the result,
// one slice per channel. The returned slices alias an internal buffer that
// is overwritten by the next call.
//
// An empty block or a unity ratio bypasses resampling and returns buffer
// itself. Otherwise every channel produces max(1, n/ratio) samples from its
// n inputs, padding with silence if the kernel reads past the block.
func (p *Processor[F]) ProcessBlock(buffer [][]F) [][]F {
	n := blockLength(buffer)
	ratio := p.Ratio()
	if n <= 0 || ratio == unityRatio {
		return buffer
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.realtime
	if p.nonRealtime.Load() && p.offline != nil {
		r = p.offline
	}
	r.SetRatio(ratio)

	result := p.ensureResult(len(buffer), outputLength(n, ratio))
	for _, ch := range result {
		clear(ch)
	}

	r.ProcessWrapped(ratio, buffer, 0, result, n, 0)

	if gain := p.Gain(); gain != unityGain {
		for _, ch := range result {
			simdops.ScaleInPlace(ch, F(gain))
		}
	}
	return result
}

// Reset clears the resamplers' channel state.
func (p *Processor[F]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.realtime.Reset()
	if p.offline != nil {
		p.offline.Reset()
	}
}

// ensureResult returns channels slices of length frames, backed by a single
// allocation that only grows.
func (p *Processor[F]) ensureResult(channels, frames int) [][]F {
	need := channels * frames
	if cap(p.backing) < need {
		p.backing = make([]F, need)
	}
	if cap(p.result) < channels {
		p.result = make([][]F, channels)
	}

	p.result = p.result[:channels]
	for ch := range p.result {
		p.result[ch] = p.backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
	return p.result
}

func outputLength(numInput int, ratio float64) int {
	return int(max(1.0, float64(numInput)/ratio))
}

func blockLength[F Float](buffer [][]F) int {
	if len(buffer) == 0 {
		return 0
	}
	return len(buffer[0])
}

// Package interp provides streaming, variable-ratio sample-rate conversion
// in pure Go.
//
// A conversion is driven by a ratio of input samples consumed per output
// sample: values above 1 downsample, values below 1 upsample. Each channel
// keeps a five-sample history and a fractional read position, so a long
// signal can be processed in blocks of any size and the result is identical
// to processing it in one call. The ratio may change between blocks without
// disturbing the history.
//
// # Features
//
//   - Interpolation kernels from zero-order hold to windowed sinc
//   - Generic over float32 and float64 samples
//   - Lock-free ratio updates from a control goroutine
//   - Bounded block reads with wraparound or silence padding
//   - Kaiser windowed-sinc coefficient tables, built in or loaded from YAML
//   - Optional SIMD acceleration via github.com/tphakala/simd
//   - No allocation on the processing path after Prepare
//
// # Quick Start
//
// For simple one-shot resampling:
//
//	output, err := interp.ResampleMono(input, 44100, 48000, interp.CubicHermite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming input arriving in chunks of arbitrary size:
//
//	s, err := interp.NewStreamForRates[float32](44100, 48000, interp.Sinc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range audioChunks {
//	    writeOutput(s.Write(chunk))
//	}
//	writeOutput(s.Flush())
//
// For host-driven block processing with a fixed output size per block:
//
//	r, err := interp.New[float32](interp.Lagrange)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.SetRatioFromRates(44100, 48000)
//	r.Prepare(2, 512, 48000)
//
//	need := r.InputRequired(r.Ratio(), 512)
//	consumed := r.ProcessBlock(src, dst) // src holds need samples per channel
//
// # Kernels
//
//   - [ZeroOrderHold]: repeats the latest sample. No latency.
//   - [Linear]: two-point blend. No latency.
//   - [CubicHermite], [Cubic], [BSpline]: four-point polynomials with one
//     sample of latency. CubicHermite is the usual choice for audio.
//   - [Lagrange]: five-point polynomial with one sample of latency.
//   - [Sinc]: five taps of a Kaiser windowed sinc, normalised to unity gain,
//     with two samples of latency. The table comes from [WithCoefficients]
//     or one of the built-in qualities.
//
// # Bounded Input
//
// [Resampler.ProcessWrapped] reads from a finite block. When the declared
// samples run out, a positive wrap length rewinds into the block as if it
// were circular, and a zero wrap length feeds silence. [Looper] builds a
// variable-speed loop player on the circular form and [Processor] uses the
// silence form to resample single host blocks.
//
// # Thread Safety
//
// The stored ratio of [Resampler] and [Processor] may be set from any
// goroutine. All other calls on the same instance must be serialised.
package interp

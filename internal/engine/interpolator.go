package engine

import "math"

// Interpolator is the resampling state of one channel: a sample history and a
// fractional read position. It is stateful, so a break in the continuity of
// the input stream needs a Reset before new data is fed.
//
// An Interpolator must not be used from more than one goroutine at a time.
type Interpolator[F Float] struct {
	kernel  Kernel[F]
	history History[F]
	pos     float64
}

// NewInterpolator returns a reset state evaluating kernel.
func NewInterpolator[F Float](kernel Kernel[F]) *Interpolator[F] {
	ip := &Interpolator[F]{kernel: kernel}
	ip.Reset()
	return ip
}

// Init reinitialises ip in place with a new kernel. It exists so owners can
// keep states in a contiguous slice.
func (ip *Interpolator[F]) Init(kernel Kernel[F]) {
	ip.kernel = kernel
	ip.Reset()
}

// Reset clears the history and returns the position to its initial value.
func (ip *Interpolator[F]) Reset() {
	ip.history.Reset()
	ip.pos = resetPosition
}

// Kernel returns the kernel in use.
func (ip *Interpolator[F]) Kernel() Kernel[F] {
	return ip.kernel
}

// Position returns the current sub-sample position.
func (ip *Interpolator[F]) Position() float64 {
	return ip.pos
}

// History returns a snapshot of the sample history, newest first.
func (ip *Interpolator[F]) History() [HistorySize]F {
	return ip.history.Samples()
}

// Process resamples in into out. ratio is the number of input samples per
// output sample; in must hold at least InputRequired(ratio, len(out))
// samples. It returns the number of input samples consumed.
func (ip *Interpolator[F]) Process(ratio float64, in, out []F) int {
	return ip.advance(ratio, in, out, false, 1)
}

// ProcessAdding is like Process but adds gain times each result to the
// existing contents of out.
func (ip *Interpolator[F]) ProcessAdding(ratio float64, in, out []F, gain F) int {
	return ip.advance(ratio, in, out, true, gain)
}

func (ip *Interpolator[F]) advance(ratio float64, in, out []F, adding bool, gain F) int {
	ratio = clampRatio(ratio)
	numOut := len(out)
	pos := ip.pos

	// Unity ratio from a reset position must reproduce the input exactly.
	if ratio == identityRatio && pos == resetPosition {
		src := in[:numOut]
		if adding {
			for i, v := range src {
				out[i] += gain * v
			}
		} else {
			copy(out, src)
		}
		ip.history.PushTail(src)
		return numOut
	}

	used := 0
	for i := range out {
		for pos >= 1.0 {
			ip.history.Push(in[used])
			used++
			pos -= 1.0
		}

		emit(out, i, ip.kernel.ValueAtOffset(&ip.history, F(pos)), adding, gain)
		pos += ratio
	}

	ip.pos = pos
	return used
}

// InputRequired returns how many input samples Process would consume to
// produce numOut samples at ratio, without changing any state.
func (ip *Interpolator[F]) InputRequired(ratio float64, numOut int) int {
	if numOut <= 0 {
		return 0
	}
	ratio = clampRatio(ratio)
	pos := ip.pos
	if ratio == identityRatio && pos == resetPosition {
		return numOut
	}

	used := 0
	for range numOut {
		for pos >= 1.0 {
			used++
			pos -= 1.0
		}
		pos += ratio
	}
	return used
}

// OutputsAvailable returns the largest output count, capped at maxOut, that
// Process can produce at ratio from numIn input samples.
func (ip *Interpolator[F]) OutputsAvailable(ratio float64, numIn, maxOut int) int {
	if numIn < 0 || maxOut <= 0 {
		return 0
	}
	ratio = clampRatio(ratio)
	pos := ip.pos
	if ratio == identityRatio && pos == resetPosition {
		return min(numIn, maxOut)
	}

	used, n := 0, 0
	for n < maxOut {
		need := used
		p := pos
		for p >= 1.0 {
			need++
			p -= 1.0
		}
		if need > numIn {
			break
		}
		used = need
		pos = p + ratio
		n++
	}
	return n
}

func emit[F Float](out []F, i int, v F, adding bool, gain F) {
	if adding {
		out[i] += gain * v
		return
	}
	out[i] = v
}

func clampRatio(ratio float64) float64 {
	switch {
	case math.IsNaN(ratio) || ratio < minRatio:
		return minRatio
	case ratio > maxRatio:
		return maxRatio
	default:
		return ratio
	}
}

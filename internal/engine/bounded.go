package engine

// ProcessWrapped resamples from a finite block. Reading starts at buf[cursor]
// with available valid samples ahead. Once those are used up, a positive wrap
// moves the read index back by wrap samples and makes wrap more available, so
// the tail of buf is treated as cyclic; a wrap of 0 feeds silence for every
// further sample instead.
//
// The boundedness model differs by direction. Below unity ratio the position
// is tracked against 1.0; at or above it the position is tracked against the
// ratio and the kernel sees max(0, 1-position).
//
// The result is the net read displacement, reduced modulo wrap when wrap > 0
// so a caller can advance its own circular cursor with it.
func (ip *Interpolator[F]) ProcessWrapped(ratio float64, buf []F, cursor int, out []F, available, wrap int) int {
	return ip.advanceBounded(ratio, buf, cursor, out, available, wrap, false, 1)
}

// ProcessWrappedAdding is like ProcessWrapped but adds gain times each result
// to the existing contents of out.
func (ip *Interpolator[F]) ProcessWrappedAdding(ratio float64, buf []F, cursor int, out []F, available, wrap int, gain F) int {
	return ip.advanceBounded(ratio, buf, cursor, out, available, wrap, true, gain)
}

// boundedReader hands out samples from a finite block under the wrap/silence
// policy.
type boundedReader[F Float] struct {
	buf       []F
	idx       int
	available int
	wrap      int
	exceeded  bool
}

func (r *boundedReader[F]) settle() {
	if r.available > 0 {
		return
	}
	if r.wrap <= 0 {
		r.exceeded = true
		return
	}
	for r.available <= 0 {
		r.idx -= r.wrap
		r.available += r.wrap
	}
}

func (r *boundedReader[F]) next() F {
	if r.exceeded {
		return 0
	}
	v := r.buf[r.idx]
	r.idx++
	r.available--
	r.settle()
	return v
}

func (ip *Interpolator[F]) advanceBounded(ratio float64, buf []F, cursor int, out []F, available, wrap int, adding bool, gain F) int {
	ratio = clampRatio(ratio)
	r := boundedReader[F]{buf: buf, idx: cursor, available: available, wrap: wrap}
	r.settle()
	pos := ip.pos

	switch {
	case ratio == identityRatio && pos == resetPosition:
		for i := range out {
			v := r.next()
			ip.history.Push(v)
			emit(out, i, v, adding, gain)
		}

	case ratio < 1.0:
		for i := range out {
			for pos >= 1.0 {
				ip.history.Push(r.next())
				pos -= 1.0
			}

			emit(out, i, ip.kernel.ValueAtOffset(&ip.history, F(pos)), adding, gain)
			pos += ratio
		}

	default:
		for i := range out {
			for pos < ratio {
				ip.history.Push(r.next())
				pos += 1.0
			}
			pos -= ratio

			offset := 1 - F(pos)
			if offset < 0 {
				offset = 0
			}
			emit(out, i, ip.kernel.ValueAtOffset(&ip.history, offset), adding, gain)
		}
	}

	ip.pos = pos

	moved := r.idx - cursor
	if wrap <= 0 {
		return moved
	}
	return ((moved % wrap) + wrap) % wrap
}

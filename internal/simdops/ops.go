// Package simdops exposes the handful of vector operations the interpolation
// engine needs, generic over float32 and float64.
//
// The type switch happens once in For, so hot paths only pay for an indirect
// call through the Ops table.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported sample types.
type Float interface {
	float32 | float64
}

// Ops holds SIMD-accelerated operations for type F.
type Ops[F Float] struct {
	// Dot computes the dot product of two equal-length slices without
	// bounds checking.
	Dot func(a, b []F) F

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale multiplies each element by s: dst[i] = a[i] * s.
	Scale func(dst, a []F, s F)
}

var (
	ops32 = Ops[float32]{
		Dot:   f32.DotProductUnsafe,
		Sum:   f32.Sum,
		Scale: f32.Scale,
	}
	ops64 = Ops[float64]{
		Dot:   f64.DotProductUnsafe,
		Sum:   f64.Sum,
		Scale: f64.Scale,
	}
)

// For returns the Ops instance for type F.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// ScaleInPlace multiplies every element of buf by s.
func ScaleInPlace[F Float](buf []F, s F) {
	if len(buf) == 0 || s == 1 {
		return
	}
	For[F]().Scale(buf, buf, s)
}

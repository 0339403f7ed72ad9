package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_Float64(t *testing.T) {
	ops := For[float64]()
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{0.5, 0.25, 0, -1, 2}

	assert.InDelta(t, 0.5+0.5+0-4+10, ops.Dot(a, b), 1e-12)
	assert.InDelta(t, 15.0, ops.Sum(a), 1e-12)

	dst := make([]float64, len(a))
	ops.Scale(dst, a, 2)
	assert.Equal(t, []float64{2, 4, 6, 8, 10}, dst)
}

func TestFor_Float32(t *testing.T) {
	ops := For[float32]()
	a := []float32{1, 2, 3, 4, 5}
	b := []float32{1, 1, 1, 1, 1}

	assert.InDelta(t, 15.0, float64(ops.Dot(a, b)), 1e-5)
	assert.InDelta(t, 15.0, float64(ops.Sum(a)), 1e-5)
}

func TestScaleInPlace(t *testing.T) {
	buf := []float64{1, -2, 4}
	ScaleInPlace(buf, 0.5)
	assert.Equal(t, []float64{0.5, -1, 2}, buf)

	// Unity gain and empty input are no-ops.
	ScaleInPlace(buf, 1)
	assert.Equal(t, []float64{0.5, -1, 2}, buf)
	ScaleInPlace([]float64{}, 3)
}

func BenchmarkDot5(b *testing.B) {
	ops := For[float64]()
	h := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	w := []float64{0.05, 0.2, 0.5, 0.2, 0.05}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.Dot(h, w)
	}
}

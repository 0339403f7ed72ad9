package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-interp/internal/coeffs"
)

func historyOf[F Float](newestFirst ...F) *History[F] {
	h := &History[F]{}
	for i := len(newestFirst) - 1; i >= 0; i-- {
		h.Push(newestFirst[i])
	}
	return h
}

func mustKernel[F Float](t *testing.T, kind Kind) Kernel[F] {
	t.Helper()
	k, err := NewKernel[F](kind, nil)
	require.NoError(t, err)
	return k
}

func TestKind_StringAndParse(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, got)
	}

	aliases := map[string]Kind{
		"ZOH":         ZeroOrderHold,
		" hermite ":   CubicHermite,
		"catmull-rom": CubicHermite,
		"bspline":     BSpline,
		"Sinc":        Sinc,
	}
	for s, want := range aliases {
		got, err := ParseKind(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseKind("quintic")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestKind_Invalid(t *testing.T) {
	k := Kind(99)
	assert.False(t, k.Valid())
	assert.Equal(t, "Kind(99)", k.String())
	assert.Zero(t, k.Taps())
	assert.Zero(t, k.Latency())

	_, err := NewKernel[float64](k, nil)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestKind_Metadata(t *testing.T) {
	assert.Equal(t, 1, ZeroOrderHold.Taps())
	assert.Equal(t, 2, Linear.Taps())
	assert.Equal(t, 4, Cubic.Taps())
	assert.Equal(t, 5, Lagrange.Taps())
	assert.Equal(t, HistorySize, Sinc.Taps())

	assert.Zero(t, Linear.Latency())
	assert.Equal(t, 1, CubicHermite.Latency())
	assert.Equal(t, 2, Sinc.Latency())
}

func TestNewKernel_SincTable(t *testing.T) {
	k := mustKernel[float64](t, Sinc)
	assert.Same(t, coeffs.Default(coeffs.QualityMedium), k.Table())

	assert.Nil(t, mustKernel[float64](t, Linear).Table())

	_, err := NewKernel[float64](Sinc, &coeffs.List{Stepping: 0, Coefficients: []float64{1, 0}})
	require.ErrorIs(t, err, coeffs.ErrInvalidCoefficients)
}

func TestKernels_ConstantSignal(t *testing.T) {
	h := historyOf(0.7, 0.7, 0.7, 0.7, 0.7)

	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			k := mustKernel[float64](t, kind)
			for _, off := range []float64{0, 0.1, 0.25, 0.5, 0.77, 0.999} {
				assert.InDelta(t, 0.7, k.ValueAtOffset(h, off), 1e-9, "offset %v", off)
			}
		})
	}
}

func TestKernels_Ramp(t *testing.T) {
	// Samples 1..5 pushed in order, so the history reads 5, 4, 3, 2, 1.
	h := historyOf(5.0, 4, 3, 2, 1)

	tests := []struct {
		kind Kind
		t    float64
		want float64
	}{
		{ZeroOrderHold, 0.6, 5},
		{Linear, 0, 5},
		{Linear, 0.25, 4.75},
		{Linear, 0.5, 4.5},
		{CubicHermite, 0, 4},
		{CubicHermite, 0.3, 3.7},
		{Cubic, 0, 4},
		{Cubic, 0.5, 3.5},
		{BSpline, 0, 4},
		{BSpline, 0.4, 3.6},
		{Lagrange, 0, 4},
		{Lagrange, 0.75, 3.25},
		{Sinc, 0, 3},
	}

	for _, tc := range tests {
		k := mustKernel[float64](t, tc.kind)
		assert.InDelta(t, tc.want, k.ValueAtOffset(h, tc.t), 1e-9, "%s at %v", tc.kind, tc.t)
	}
}

func TestCubicHermite_MatchesEndpoints(t *testing.T) {
	h := historyOf(0.2, -0.4, 0.9, 0.1, 0.3)
	k := mustKernel[float64](t, CubicHermite)

	assert.InDelta(t, -0.4, k.ValueAtOffset(h, 0), 1e-12)
	assert.InDelta(t, 0.9, k.ValueAtOffset(h, 1), 1e-12)
}

func TestLagrange_ExactForQuartic(t *testing.T) {
	poly := func(s float64) float64 { return 0.5*s*s*s*s - s*s*s + 2*s - 1 }
	h := historyOf(poly(0), poly(1), poly(2), poly(3), poly(4))
	k := mustKernel[float64](t, Lagrange)

	for _, off := range []float64{0, 0.1, 0.5, 0.9} {
		assert.InDelta(t, poly(1+off), k.ValueAtOffset(h, off), 1e-9, "offset %v", off)
	}
}

func TestSinc_CentredOnTapTwo(t *testing.T) {
	h := historyOf(0.0, 0, 1, 0, 0)
	k := mustKernel[float32](t, Sinc)
	var hf History[float32]
	for _, v := range []float32{0, 0, 1, 0, 0} {
		hf.Push(v)
	}

	assert.InDelta(t, 1.0, float64(k.ValueAtOffset(&hf, 0)), 1e-5)
	assert.Less(t, float64(k.ValueAtOffset(&hf, 0.5)), 1.0)

	k64 := mustKernel[float64](t, Sinc)
	assert.InDelta(t, 1.0, k64.ValueAtOffset(h, 0), 1e-9)
}

func TestKernels_Float32MatchesFloat64(t *testing.T) {
	vals := []float64{0.31, -0.72, 0.05, 0.64, -0.18}
	h64 := historyOf(vals...)
	h32 := &History[float32]{}
	for i := len(vals) - 1; i >= 0; i-- {
		h32.Push(float32(vals[i]))
	}

	for _, kind := range Kinds() {
		k64 := mustKernel[float64](t, kind)
		k32 := mustKernel[float32](t, kind)
		for _, off := range []float64{0, 0.33, 0.8} {
			assert.InDelta(t, k64.ValueAtOffset(h64, off), float64(k32.ValueAtOffset(h32, float32(off))), 1e-5,
				"%s at %v", kind, off)
		}
	}
}

func BenchmarkKernels(b *testing.B) {
	h := historyOf(0.31, -0.72, 0.05, 0.64, -0.18)
	for _, kind := range Kinds() {
		k, err := NewKernel[float64](kind, nil)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(kind.String(), func(b *testing.B) {
			var acc float64
			for i := range b.N {
				acc += k.ValueAtOffset(h, float64(i%100)/100)
			}
			_ = acc
		})
	}
}

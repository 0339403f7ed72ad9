package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-interp/internal/testutil"
)

func TestNewLooper_InvalidCapacity(t *testing.T) {
	_, err := NewLooper[float64](0, Linear)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLooper_UnityLoop(t *testing.T) {
	l, err := NewLooper[float64](4, ZeroOrderHold)
	require.NoError(t, err)
	l.Record([]float64{1, 2, 3, 4})

	out := make([]float64, 6)
	moved := l.Render(out, 1)

	assert.Equal(t, []float64{1, 2, 3, 4, 1, 2}, out)
	assert.Equal(t, 2, moved)
	assert.Equal(t, 2, l.Cursor())
}

func TestLooper_UpsampledWrap(t *testing.T) {
	l, err := NewLooper[float64](3, Linear)
	require.NoError(t, err)
	l.Record([]float64{1, 3, 5})

	out := make([]float64, 8)
	l.Render(out, 0.5)

	testutil.AssertSlicesInDelta(t, []float64{1, 0.5, 3, 2, 5, 4, 1, 3}, out, 1e-12)
	assert.Equal(t, 1, l.Cursor())
}

func TestLooper_UnrecordedSlotsAreSilent(t *testing.T) {
	l, err := NewLooper[float32](4, ZeroOrderHold)
	require.NoError(t, err)
	l.Record([]float32{1, 2})

	out := make([]float32, 5)
	l.Render(out, 1)

	assert.Equal(t, []float32{1, 2, 0, 0, 1}, out)
}

func TestLooper_SplitRenderMatchesSingle(t *testing.T) {
	loop := testutil.Sine[float64](64, 750, 48000)

	for _, ratio := range []float64{0.3, 0.9, 1.7} {
		single, err := NewLooper[float64](len(loop), CubicHermite)
		require.NoError(t, err)
		single.Record(loop)
		want := make([]float64, 300)
		single.Render(want, ratio)

		split, err := NewLooper[float64](len(loop), CubicHermite)
		require.NoError(t, err)
		split.Record(loop)
		got := make([]float64, 300)
		for start := 0; start < len(got); start += 37 {
			split.Render(got[start:min(start+37, len(got))], ratio)
		}

		assert.Equal(t, want, got, "ratio %v", ratio)
		assert.Equal(t, single.Cursor(), split.Cursor(), "ratio %v", ratio)
	}
}

func TestLooper_RenderAdding(t *testing.T) {
	l, err := NewLooper[float64](2, ZeroOrderHold)
	require.NoError(t, err)
	l.Record([]float64{2, 4})

	out := []float64{10, 10, 10}
	l.RenderAdding(out, 1, 0.5)

	assert.Equal(t, []float64{11, 12, 11}, out)
}

func TestLooper_SeekAndReset(t *testing.T) {
	l, err := NewLooper[float64](4, ZeroOrderHold)
	require.NoError(t, err)
	l.Record([]float64{1, 2, 3, 4})

	l.Seek(-1)
	assert.Equal(t, 3, l.Cursor())
	out := make([]float64, 2)
	l.Render(out, 1)
	assert.Equal(t, []float64{4, 1}, out)

	l.Seek(9)
	assert.Equal(t, 1, l.Cursor())

	assert.Equal(t, []float64{1, 2, 3, 4}, l.Recording())
	l.Reset()
	assert.Zero(t, l.Cursor())
	assert.Empty(t, l.Recording())
	assert.Equal(t, 4, l.Capacity())
}

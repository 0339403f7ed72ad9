// Package testutil provides reusable test helpers for the interpolation packages.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-interp/internal/simdops"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-5
	DBTolerance      = 0.01
)

// AssertSlicesInDelta verifies that two slices have the same length and agree
// element-wise within tolerance.
func AssertSlicesInDelta[F simdops.Float](t *testing.T, expected, actual []F, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, float64(expected[i]), float64(actual[i]), tolerance,
			"mismatch at index %d: want %v, got %v", i, expected[i], actual[i]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F simdops.Float](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange[F simdops.Float](t *testing.T, s []F, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if f < minVal || f > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, f, minVal, maxVal)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// Sine returns n samples of a unit-amplitude sine at freq Hz sampled at rate Hz.
func Sine[F simdops.Float](n int, freq, rate float64) []F {
	out := make([]F, n)
	for i := range out {
		out[i] = F(math.Sin(2 * math.Pi * freq * float64(i) / rate))
	}
	return out
}

// Ramp returns n samples counting up from start in steps of 1.
func Ramp[F simdops.Float](n int, start F) []F {
	out := make([]F, n)
	for i := range out {
		out[i] = start + F(i)
	}
	return out
}

// Constant returns n copies of v.
func Constant[F simdops.Float](n int, v F) []F {
	out := make([]F, n)
	for i := range out {
		out[i] = v
	}
	return out
}

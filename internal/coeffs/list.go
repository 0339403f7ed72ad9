// Package coeffs holds the phase-indexed coefficient tables consumed by the
// windowed-sinc kernel.
//
// A table is one half of a symmetric impulse response sampled at Stepping
// points per input sample. Index 0 is the centre tap; index i lies at a
// distance of i/Stepping input samples from it.
package coeffs

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoefficients indicates a malformed coefficient table.
var ErrInvalidCoefficients = errors.New("invalid coefficient list")

const minCoefficients = 2

// List is an immutable coefficient table with its stepping factor.
type List struct {
	Stepping     int       `yaml:"stepping"`
	Coefficients []float64 `yaml:"coefficients"`
}

// New copies the given coefficients into a validated List.
func New(stepping int, coefficients []float64) (*List, error) {
	l := &List{
		Stepping:     stepping,
		Coefficients: append([]float64(nil), coefficients...),
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks the stepping factor and the coefficient values.
func (l *List) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: list is nil", ErrInvalidCoefficients)
	}
	if l.Stepping <= 0 {
		return fmt.Errorf("%w: stepping must be positive, got %d", ErrInvalidCoefficients, l.Stepping)
	}
	if len(l.Coefficients) < minCoefficients {
		return fmt.Errorf("%w: need at least %d coefficients, got %d",
			ErrInvalidCoefficients, minCoefficients, len(l.Coefficients))
	}
	for i, c := range l.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: coefficient %d is not finite", ErrInvalidCoefficients, i)
		}
	}
	return nil
}

// Len returns the number of coefficients.
func (l *List) Len() int {
	return len(l.Coefficients)
}

// Reach returns the largest distance, in input samples, covered by the table.
func (l *List) Reach() float64 {
	return float64(len(l.Coefficients)-1) / float64(l.Stepping)
}

// At returns the response at distance d from the centre tap, linearly
// interpolating between neighbouring table entries. Distances beyond the
// table yield 0.
func (l *List) At(d float64) float64 {
	if d < 0 {
		d = -d
	}
	idx := d * float64(l.Stepping)
	i := int(idx)
	last := len(l.Coefficients) - 1
	if i >= last {
		if i == last && idx == float64(last) {
			return l.Coefficients[last]
		}
		return 0
	}
	frac := idx - float64(i)
	c0 := l.Coefficients[i]
	return c0 + frac*(l.Coefficients[i+1]-c0)
}

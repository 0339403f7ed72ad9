package coeffs

import (
	"fmt"
	"math"
)

// Kaiser design constants (Kaiser & Schafer).
const (
	kaiserHighAttenuation = 50.0
	kaiserLowAttenuation  = 21.0
	kaiserHighSlope       = 0.1102
	kaiserHighOffset      = 8.7
	kaiserMidScale        = 0.5842
	kaiserMidExponent     = 0.4
	kaiserMidSlope        = 0.07886

	// Series terms for I0 stop once they fall below this relative size.
	besselEpsilon   = 1e-16
	besselMaxTerms  = 500
	sincZeroEpsilon = 1e-12
)

// DesignParams describes a half windowed-sinc table.
type DesignParams struct {
	// Stepping is the number of table points per input sample.
	Stepping int

	// ZeroCrossings is the one-sided length of the impulse response in
	// input samples.
	ZeroCrossings int

	// Attenuation is the stopband attenuation in dB used to derive the
	// Kaiser beta.
	Attenuation float64
}

// Design builds a half Kaiser-windowed sinc with zero crossings at integer
// distances. The centre coefficient is 1.
func Design(p DesignParams) (*List, error) {
	if p.Stepping <= 0 {
		return nil, fmt.Errorf("%w: stepping must be positive, got %d", ErrInvalidCoefficients, p.Stepping)
	}
	if p.ZeroCrossings <= 0 {
		return nil, fmt.Errorf("%w: zero crossings must be positive, got %d", ErrInvalidCoefficients, p.ZeroCrossings)
	}
	if p.Attenuation < 0 {
		return nil, fmt.Errorf("%w: attenuation must not be negative", ErrInvalidCoefficients)
	}

	n := p.ZeroCrossings*p.Stepping + 1
	half := float64(p.ZeroCrossings)
	beta := KaiserBeta(p.Attenuation)
	norm := BesselI0(beta)

	c := make([]float64, n)
	for i := range n {
		x := float64(i) / float64(p.Stepping)
		r := x / half
		w := BesselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / norm
		c[i] = sinc(x) * w
	}

	return &List{Stepping: p.Stepping, Coefficients: c}, nil
}

// KaiserBeta maps a stopband attenuation in dB to the Kaiser window beta.
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserHighAttenuation:
		return kaiserHighSlope * (attenuation - kaiserHighOffset)
	case attenuation > kaiserLowAttenuation:
		a := attenuation - kaiserLowAttenuation
		return kaiserMidScale*math.Pow(a, kaiserMidExponent) + kaiserMidSlope*a
	default:
		return 0
	}
}

// BesselI0 evaluates the zeroth-order modified Bessel function of the first
// kind by its power series.
func BesselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	q := x * x / 4
	for k := 1; k < besselMaxTerms; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < besselEpsilon*sum {
			break
		}
	}
	return sum
}

func sinc(x float64) float64 {
	if math.Abs(x) < sincZeroEpsilon {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

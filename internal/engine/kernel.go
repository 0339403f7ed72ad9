package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tphakala/go-audio-interp/internal/coeffs"
	"github.com/tphakala/go-audio-interp/internal/simdops"
)

// ErrUnknownKind indicates an interpolation kind outside the supported set.
var ErrUnknownKind = errors.New("unknown interpolation kind")

// Kind selects an interpolation algorithm.
type Kind int

const (
	// ZeroOrderHold repeats the most recently consumed sample.
	ZeroOrderHold Kind = iota

	// Linear blends the two most recent samples.
	Linear

	// CubicHermite is 4-point Catmull-Rom style Hermite interpolation.
	CubicHermite

	// Cubic is 4-point cubic polynomial interpolation.
	Cubic

	// BSpline is 4-point, 3rd-order B-spline approximation.
	BSpline

	// Lagrange is 5-point Lagrange polynomial interpolation.
	Lagrange

	// Sinc is windowed-sinc interpolation driven by a coefficient table.
	Sinc

	numKinds
)

var kindNames = [numKinds]string{
	ZeroOrderHold: "zero-order-hold",
	Linear:        "linear",
	CubicHermite:  "cubic-hermite",
	Cubic:         "cubic",
	BSpline:       "b-spline",
	Lagrange:      "lagrange",
	Sinc:          "sinc",
}

var kindTaps = [numKinds]int{
	ZeroOrderHold: 1,
	Linear:        2,
	CubicHermite:  4,
	Cubic:         4,
	BSpline:       4,
	Lagrange:      5,
	Sinc:          HistorySize,
}

// Output delay in input samples relative to the newest consumed sample.
var kindLatency = [numKinds]int{
	CubicHermite: 1,
	Cubic:        1,
	BSpline:      1,
	Lagrange:     1,
	Sinc:         sincCentreTap,
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k >= ZeroOrderHold && k < numKinds
}

// String returns the kind name used in configuration files.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Taps returns the number of history entries the kernel reads.
func (k Kind) Taps() int {
	if !k.Valid() {
		return 0
	}
	return kindTaps[k]
}

// Latency returns the kernel's delay in input samples.
func (k Kind) Latency() int {
	if !k.Valid() {
		return 0
	}
	return kindLatency[k]
}

// ParseKind maps a name (as returned by String, case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "zoh", "hold":
		return ZeroOrderHold, nil
	case "hermite", "catmull-rom":
		return CubicHermite, nil
	case "bspline":
		return BSpline, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kernel evaluates one interpolation algorithm over a History.
// It is immutable and safe to share between channels.
type Kernel[F Float] struct {
	kind  Kind
	table *coeffs.List
	ops   *simdops.Ops[F]
}

// NewKernel returns the kernel for kind. The table is only used by Sinc; a nil
// table selects the built-in medium quality table.
func NewKernel[F Float](kind Kind, table *coeffs.List) (Kernel[F], error) {
	if !kind.Valid() {
		return Kernel[F]{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	k := Kernel[F]{kind: kind}
	if kind == Sinc {
		if table == nil {
			table = coeffs.Default(coeffs.QualityMedium)
		}
		if err := table.Validate(); err != nil {
			return Kernel[F]{}, err
		}
		k.table = table
		k.ops = simdops.For[F]()
	}
	return k, nil
}

// Kind returns the kernel's algorithm.
func (k Kernel[F]) Kind() Kind {
	return k.kind
}

// Table returns the sinc coefficient table, or nil for polynomial kernels.
func (k Kernel[F]) Table() *coeffs.List {
	return k.table
}

// ValueAtOffset interpolates the history at fractional offset t in [0, 1).
// t = 0 lands on the kernel's reference tap and t -> 1 approaches the next
// older one.
func (k Kernel[F]) ValueAtOffset(h *History[F], t F) F {
	x := &h.s
	switch k.kind {
	case ZeroOrderHold:
		return x[0]
	case Linear:
		return linearAt(x[0], x[1], t)
	case CubicHermite:
		return cubicHermiteAt(x[0], x[1], x[2], x[3], t)
	case Cubic:
		return cubicAt(x[0], x[1], x[2], x[3], t)
	case BSpline:
		return bSplineAt(x[0], x[1], x[2], x[3], t)
	case Lagrange:
		return lagrangeAt(x, t)
	case Sinc:
		return k.sincAt(h, t)
	default:
		return 0
	}
}

func linearAt[F Float](x0, x1, t F) F {
	return (1-t)*x0 + t*x1
}

func cubicHermiteAt[F Float](x0, x1, x2, x3, t F) F {
	c0 := x1
	c1 := half * (x2 - x0)
	c2 := x0 - twoPointFive*x1 + two*x2 - half*x3
	c3 := half*(x3-x0) + onePointFive*(x1-x2)

	return ((c3*t+c2)*t+c1)*t + c0
}

func cubicAt[F Float](x0, x1, x2, x3, t F) F {
	a0 := x3 - x2 - x0 + x1
	a1 := x0 - x1 - a0
	a2 := x2 - x0

	return a0*t*t*t + a1*t*t + a2*t + x1
}

func bSplineAt[F Float](x0, x1, x2, x3, t F) F {
	outer := x0 + x2
	c0 := oneSixth*outer + twoThirds*x1
	c1 := half * (x2 - x0)
	c2 := half*outer - x1
	c3 := half*(x1-x2) + oneSixth*(x3-x0)

	return ((c3*t+c2)*t+c1)*t + c0
}

// lagrangeAt evaluates the polynomial through (k, x[k]), k = 0..4, at 1+t.
func lagrangeAt[F Float](x *[HistorySize]F, t F) F {
	d0 := t + 1
	d1 := t
	d2 := t - 1
	d3 := t - two
	d4 := t - 3

	return x[0]*(d1*d2*d3*d4)/lagrangeOuter -
		x[1]*(d0*d2*d3*d4)/lagrangeInner +
		x[2]*(d0*d1*d3*d4)/lagrangeMid -
		x[3]*(d0*d1*d2*d4)/lagrangeInner +
		x[4]*(d0*d1*d2*d3)/lagrangeOuter
}

// sincAt convolves the history with table weights centred at tap 2+t and
// normalises by the weight sum for unity DC gain.
func (k Kernel[F]) sincAt(h *History[F], t F) F {
	w := &h.weights
	centre := float64(sincCentreTap) + float64(t)
	for i := range w {
		w[i] = F(k.table.At(float64(i) - centre))
	}

	acc := k.ops.Dot(h.s[:], w[:])
	sum := k.ops.Sum(w[:])
	if sum > sincWeightEpsilon || sum < -sincWeightEpsilon {
		return acc / sum
	}
	return acc
}

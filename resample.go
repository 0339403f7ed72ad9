package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-interp/internal/coeffs"
	"github.com/tphakala/go-audio-interp/internal/engine"
	"github.com/tphakala/go-audio-interp/internal/simdops"
)

// Float is the constraint for supported sample types.
type Float = simdops.Float

// Kind selects an interpolation kernel.
type Kind = engine.Kind

// Supported interpolation kernels.
const (
	// ZeroOrderHold repeats the most recently consumed sample. Cheapest, with
	// strong imaging; useful for control signals.
	ZeroOrderHold = engine.ZeroOrderHold

	// Linear blends the two most recent samples.
	Linear = engine.Linear

	// CubicHermite is 4-point Catmull-Rom Hermite interpolation. A good
	// default for audio.
	CubicHermite = engine.CubicHermite

	// Cubic is 4-point cubic polynomial interpolation.
	Cubic = engine.Cubic

	// BSpline is 4-point third-order B-spline approximation. Smooth but
	// slightly low-pass.
	BSpline = engine.BSpline

	// Lagrange is 5-point Lagrange polynomial interpolation.
	Lagrange = engine.Lagrange

	// Sinc is windowed-sinc interpolation driven by a CoefficientList.
	Sinc = engine.Sinc
)

// Kinds returns every supported kernel.
func Kinds() []Kind {
	return engine.Kinds()
}

// ParseKind maps a kernel name such as "cubic-hermite" to its Kind.
func ParseKind(s string) (Kind, error) {
	return engine.ParseKind(s)
}

// CoefficientList is a sinc coefficient table: a stepping factor and the
// samples of one half of a symmetric windowed-sinc impulse response.
type CoefficientList = coeffs.List

// Quality selects one of the built-in sinc coefficient tables.
type Quality = coeffs.Quality

// Built-in coefficient table qualities.
const (
	QualityFastest = coeffs.QualityFastest
	QualityMedium  = coeffs.QualityMedium
	QualityBest    = coeffs.QualityBest
)

// DefaultCoefficients returns the shared built-in table for q. The result must
// not be modified.
func DefaultCoefficients(q Quality) *CoefficientList {
	return coeffs.Default(q)
}

// LoadCoefficients reads a YAML coefficient table from path.
func LoadCoefficients(path string) (*CoefficientList, error) {
	return coeffs.LoadFile(path)
}

// Common errors returned by the package.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid interpolator configuration")

	// ErrInvalidRatio indicates a conversion ratio that is not a positive,
	// finite number.
	ErrInvalidRatio = errors.New("invalid conversion ratio")

	// ErrInvalidCoefficients indicates a malformed sinc coefficient table.
	ErrInvalidCoefficients = coeffs.ErrInvalidCoefficients
)

// Config describes a multi-channel conversion between two fixed rates.
type Config struct {
	// InputRate is the sample rate of input audio in Hz.
	InputRate float64

	// OutputRate is the desired output sample rate in Hz.
	OutputRate float64

	// Channels is the number of audio channels to process.
	Channels int

	// Kind selects the interpolation kernel.
	Kind Kind

	// Quality selects the built-in table for the Sinc kernel. Ignored when
	// Coefficients is set.
	Quality Quality

	// Coefficients overrides the Sinc coefficient table.
	Coefficients *CoefficientList

	// BlockSize hints at the typical number of output samples per call.
	// Set to 0 to use the default.
	BlockSize int
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !(c.InputRate > 0) || !(c.OutputRate > 0) || math.IsInf(c.InputRate, 0) || math.IsInf(c.OutputRate, 0) {
		return fmt.Errorf("%w: sample rates must be positive", ErrInvalidConfig)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	ratio := c.OutputRate / c.InputRate
	if ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: conversion ratio out of range (%v to %v)", ErrInvalidConfig, minRatioFactor, maxRatioFactor)
	}

	if !c.Kind.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Kind)
	}

	if c.BlockSize < 0 {
		return fmt.Errorf("%w: block size must not be negative", ErrInvalidConfig)
	}

	if c.Coefficients != nil {
		if err := c.Coefficients.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Ratio returns the input samples consumed per output sample.
func (c *Config) Ratio() float64 {
	return c.InputRate / c.OutputRate
}

// NewFromConfig validates config and returns a prepared resampler whose ratio
// is derived from the configured rates.
func NewFromConfig[F Float](config *Config, opts ...Option) (*Resampler[F], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	table := config.Coefficients
	if table == nil && config.Kind == Sinc {
		table = coeffs.Default(config.Quality)
	}
	if table != nil {
		opts = append([]Option{WithCoefficients(table)}, opts...)
	}

	r, err := New[F](config.Kind, opts...)
	if err != nil {
		return nil, err
	}

	blockSize := config.BlockSize
	if blockSize == 0 {
		blockSize = defaultBlockSize
	}

	r.SetRatioFromRates(config.InputRate, config.OutputRate)
	r.Prepare(config.Channels, blockSize, config.OutputRate)
	return r, nil
}

// Info describes a resampler instance.
type Info struct {
	// Algorithm is the kernel name.
	Algorithm string

	// Taps is the number of history samples the kernel reads.
	Taps int

	// Latency is the kernel delay in input samples.
	Latency int

	// Channels is the prepared channel count.
	Channels int

	// Ratio is the stored input-per-output ratio.
	Ratio float64

	// Stepping is the coefficient table stepping, 0 for polynomial kernels.
	Stepping int

	// Coefficients is the coefficient table length, 0 for polynomial kernels.
	Coefficients int
}

// GetInfo returns information about r.
func GetInfo[F Float](r *Resampler[F]) Info {
	info := Info{
		Algorithm: r.Kind().String(),
		Taps:      r.Kind().Taps(),
		Latency:   r.Latency(),
		Channels:  r.NumChannels(),
		Ratio:     r.Ratio(),
	}
	if t := r.kernel.Table(); t != nil {
		info.Stepping = t.Stepping
		info.Coefficients = t.Len()
	}
	return info
}

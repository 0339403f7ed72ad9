// Package analysis measures resampled test tones in the frequency domain.
//
// Measurements use a 4-term Blackman-Harris window, whose sidelobes sit
// around -92 dB, so tone SNR figures are meaningful up to roughly 90 dB
// regardless of where the tone falls between FFT bins.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-audio-interp/internal/simdops"
)

// ErrTooShort indicates too few samples for a measurement.
var ErrTooShort = errors.New("signal too short for analysis")

const (
	// MinSamples is the shortest signal accepted by the measurements.
	MinSamples = 64

	// Blackman-Harris coefficients.
	bh0 = 0.35875
	bh1 = 0.48829
	bh2 = 0.14128
	bh3 = 0.01168

	// The window's main lobe spans this many bins either side of a tone.
	mainLobeBins = 5

	// Power floor that keeps SNR finite for a perfect tone.
	powerFloor = 1e-30
)

// Window returns an n-point Blackman-Harris window.
func Window(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	scale := 2 * math.Pi / float64(n-1)
	for i := range w {
		x := scale * float64(i)
		w[i] = bh0 - bh1*math.Cos(x) + bh2*math.Cos(2*x) - bh3*math.Cos(3*x)
	}
	return w
}

// PowerSpectrum returns the windowed power of bins 0..n/2 of samples.
func PowerSpectrum[F simdops.Float](samples []F) ([]float64, error) {
	n := len(samples)
	if n < MinSamples {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrTooShort, n, MinSamples)
	}

	w := Window(n)
	seq := make([]float64, n)
	for i, v := range samples {
		seq[i] = float64(v) * w[i]
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	power := make([]float64, len(coeffs))
	for i, c := range coeffs {
		m := cmplx.Abs(c)
		power[i] = m * m
	}
	return power, nil
}

// PeakFrequency returns the frequency in Hz of the strongest non-DC bin,
// refined by parabolic interpolation over its neighbours.
func PeakFrequency[F simdops.Float](samples []F, sampleRate float64) (float64, error) {
	power, err := PowerSpectrum(samples)
	if err != nil {
		return 0, err
	}

	peak := 1
	for i := 2; i < len(power); i++ {
		if power[i] > power[peak] {
			peak = i
		}
	}

	offset := 0.0
	if peak > 0 && peak < len(power)-1 {
		a := math.Log(power[peak-1] + powerFloor)
		b := math.Log(power[peak] + powerFloor)
		c := math.Log(power[peak+1] + powerFloor)
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}

	binWidth := sampleRate / float64(len(samples))
	return (float64(peak) + offset) * binWidth, nil
}

// ToneSNR returns the ratio in dB between the power around toneFreq and the
// power in every other bin except DC.
func ToneSNR[F simdops.Float](samples []F, sampleRate, toneFreq float64) (float64, error) {
	if !(sampleRate > 0) || !(toneFreq > 0) || toneFreq >= sampleRate/2 {
		return 0, fmt.Errorf("tone %v Hz is not below Nyquist of %v Hz", toneFreq, sampleRate)
	}

	power, err := PowerSpectrum(samples)
	if err != nil {
		return 0, err
	}

	centre := int(math.Round(toneFreq / sampleRate * float64(len(samples))))

	var signal, noise float64
	for i := 1; i < len(power); i++ {
		if i >= centre-mainLobeBins && i <= centre+mainLobeBins {
			signal += power[i]
		} else {
			noise += power[i]
		}
	}

	return 10 * math.Log10((signal+powerFloor)/(noise+powerFloor)), nil
}

// Command analyze-coeffs inspects a sinc coefficient table: its shape, the DC
// gain of the five-tap window at each phase, and the frequency response of
// the full impulse response. It can also design a table and write it as YAML.
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"

	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-audio-interp/internal/coeffs"
)

const (
	// Five taps centred on tap 2, matching the engine history.
	windowTaps   = 5
	windowCentre = 2

	// Phases inspected for DC gain.
	defaultPhases = 16

	// FFT length is at least this many times the impulse response length.
	fftOversample = 8

	// Lower stopband edge in cycles per input sample.
	stopbandEdge = 1.0

	minDB = -300.0
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "analyze-coeffs:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("analyze-coeffs", pflag.ContinueOnError)
	quality := fs.String("quality", "medium", "built-in table to inspect: fastest, medium or best")
	input := fs.String("in", "", "inspect a YAML table instead of a built-in one")
	stepping := fs.Int("stepping", 0, "design a new table with this many points per sample")
	zeroCrossings := fs.Int("zero-crossings", 3, "zero crossings of a designed table")
	attenuation := fs.Float64("attenuation", 80, "stopband attenuation in dB of a designed table")
	phases := fs.Int("phases", defaultPhases, "number of phases to report DC gain for")
	output := fs.String("out", "", "write the table as YAML to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, name, err := selectTable(*input, *quality, *stepping, *zeroCrossings, *attenuation)
	if err != nil {
		return err
	}

	report(stdout, name, table, max(1, *phases))

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := coeffs.WriteYAML(f, table); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nWrote %s\n", *output)
	}
	return nil
}

func selectTable(input, quality string, stepping, zeroCrossings int, attenuation float64) (*coeffs.List, string, error) {
	switch {
	case input != "":
		l, err := coeffs.LoadFile(input)
		return l, input, err
	case stepping > 0:
		l, err := coeffs.Design(coeffs.DesignParams{
			Stepping:      stepping,
			ZeroCrossings: zeroCrossings,
			Attenuation:   attenuation,
		})
		return l, "designed", err
	default:
		q, err := coeffs.ParseQuality(quality)
		if err != nil {
			return nil, "", err
		}
		return coeffs.Default(q), "built-in " + q.String(), nil
	}
}

func report(w io.Writer, name string, l *coeffs.List, phases int) {
	fmt.Fprintf(w, "=== Coefficient table: %s ===\n", name)
	fmt.Fprintf(w, "  Stepping: %d\n", l.Stepping)
	fmt.Fprintf(w, "  Coefficients: %d\n", l.Len())
	fmt.Fprintf(w, "  Reach: %.3f samples\n", l.Reach())
	fmt.Fprintf(w, "  Centre: %.10f\n", l.Coefficients[0])

	fmt.Fprintln(w, "\nDC gain of the five-tap window per phase:")
	gains := phaseGains(l, phases)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, g := range gains {
		fmt.Fprintf(w, "  t=%.4f: %.10f\n", float64(i)/float64(phases), g)
		lo, hi = math.Min(lo, g), math.Max(hi, g)
	}
	fmt.Fprintf(w, "  Spread: %.10f (normalised away by the kernel)\n", hi-lo)

	fmt.Fprintln(w, "\nFrequency response of the full impulse response:")
	passband, stopband := response(l)
	fmt.Fprintf(w, "  DC gain: %.10f\n", passband)
	fmt.Fprintf(w, "  Peak stopband level: %.1f dB\n", stopband)
}

// phaseGains returns the sum of the five window weights at evenly spaced
// fractional positions.
func phaseGains(l *coeffs.List, phases int) []float64 {
	gains := make([]float64, phases)
	for p := range phases {
		t := float64(p) / float64(phases)
		var sum float64
		for k := range windowTaps {
			sum += l.At(float64(k-windowCentre) - t)
		}
		gains[p] = sum
	}
	return gains
}

// impulseResponse mirrors the half table into a symmetric response sampled
// at the table rate.
func impulseResponse(l *coeffs.List) []float64 {
	n := l.Len()
	h := make([]float64, 2*n-1)
	for i, c := range l.Coefficients {
		h[n-1+i] = c
		h[n-1-i] = c
	}
	return h
}

// response returns the normalised DC gain of the impulse response and its
// peak level above stopbandEdge relative to DC.
func response(l *coeffs.List) (dc, stopbandDB float64) {
	h := impulseResponse(l)
	size := 1
	for size < fftOversample*len(h) {
		size <<= 1
	}
	padded := make([]float64, size)
	copy(padded, h)

	spec := fourier.NewFFT(size).Coefficients(nil, padded)
	dcMag := cmplx.Abs(spec[0])
	if dcMag == 0 {
		return 0, minDB
	}

	// Bin k lies at k*Stepping/size cycles per input sample.
	first := int(math.Ceil(stopbandEdge * float64(size) / float64(l.Stepping)))
	peak := 0.0
	for k := first; k < len(spec); k++ {
		peak = math.Max(peak, cmplx.Abs(spec[k]))
	}

	stopbandDB = minDB
	if peak > 0 {
		stopbandDB = 20 * math.Log10(peak/dcMag)
	}
	return dcMag / float64(l.Stepping), stopbandDB
}

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interp "github.com/tphakala/go-audio-interp"
)

func TestRun_Info(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--kernel", "lagrange", "--input-rate", "48000", "--output-rate", "44100"}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Algorithm: lagrange")
	assert.Contains(t, s, "Taps: 5")
	assert.Contains(t, s, "Tone SNR:")
}

func TestRun_InvalidRates(t *testing.T) {
	err := run([]string{"--input-rate", "0"}, &bytes.Buffer{})
	require.ErrorIs(t, err, interp.ErrInvalidConfig)
}

func TestRun_Demo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--demo", "--quality", "fastest"}, &out))

	s := out.String()
	for _, kind := range interp.Kinds() {
		assert.Contains(t, s, kind.String())
	}
	assert.Contains(t, s, "Demo Complete")
}

func TestMeasure_PeakTracksTone(t *testing.T) {
	m, err := measure(interp.CubicHermite, interp.DefaultCoefficients(interp.QualityFastest), sampleRateCD, sampleRateDAT)
	require.NoError(t, err)

	assert.InDelta(t, testSignalFrequency, m.peak, 5)
	assert.Greater(t, m.snr, 40.0)
	assert.InDelta(t, float64(testSignalSamples)*sampleRateDAT/sampleRateCD, float64(m.outputSamples), 4)
}

func TestProcessChannels(t *testing.T) {
	used, err := processChannels(surround5_1)
	require.NoError(t, err)
	assert.InDelta(t, float64(demoBlockSize)*sampleRateDAT/sampleRateCD, float64(used), 2)
}

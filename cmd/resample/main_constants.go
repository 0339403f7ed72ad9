package main

// Default command-line flag values
const (
	defaultInputRate  = 44100.0 // CD quality sample rate
	defaultOutputRate = 48000.0 // DAT/DVD sample rate
	defaultChannels   = 2       // Stereo
)

// Test signal parameters
const (
	testSignalFrequency = 1000.0 // 1 kHz test tone
	testSignalSamples   = 16384
	testSignalAmplitude = 0.5
)

// Demo sample rates
const (
	sampleRateCD    = 44100.0
	sampleRateDAT   = 48000.0
	sampleRate2xCD  = 88200.0
	sampleRateHiRes = 96000.0
)

// Demo channel configurations
const (
	monoChannels   = 1
	stereoChannels = 2
	surround5_1    = 6
	surround7_1    = 8
)

// Output samples per ProcessBlock call in the multichannel demo.
const demoBlockSize = 512

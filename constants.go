package interp

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Resampling ratio limits for Config, expressed as output/input.
const (
	minRatioFactor = 1.0 / 256.0
	maxRatioFactor = 256.0
)

// Processor ratio limits, expressed as input/output.
const (
	minProcessorRatio = 0.00001
	maxProcessorRatio = 5.0
)

// Buffer constants
const (
	defaultBlockSize = 4096 // Default block size hint in samples
	unityRatio       = 1.0
	unityGain        = 1.0
)

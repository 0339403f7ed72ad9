package interp

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// NewCDtoDAT creates a stream for CD (44.1kHz) to DAT (48kHz) conversion.
func NewCDtoDAT[F Float](kind Kind, opts ...Option) (*Stream[F], error) {
	return NewStreamForRates[F](RateCD, RateDAT, kind, opts...)
}

// NewDATtoCD creates a stream for DAT (48kHz) to CD (44.1kHz) conversion.
func NewDATtoCD[F Float](kind Kind, opts ...Option) (*Stream[F], error) {
	return NewStreamForRates[F](RateDAT, RateCD, kind, opts...)
}

// NewStereo creates a prepared two-channel resampler for the given rates.
func NewStereo[F Float](inputRate, outputRate float64, kind Kind, opts ...Option) (*Resampler[F], error) {
	return NewFromConfig[F](&Config{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   stereoChannels,
		Kind:       kind,
	}, opts...)
}

// NewMultiChannel creates a prepared multi-channel resampler.
func NewMultiChannel[F Float](inputRate, outputRate float64, channels int, kind Kind, opts ...Option) (*Resampler[F], error) {
	return NewFromConfig[F](&Config{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   channels,
		Kind:       kind,
	}, opts...)
}

// ResampleMono is a convenience function for one-shot mono resampling.
// It creates a stream, writes the input, flushes, and returns the result.
func ResampleMono[F Float](input []F, inputRate, outputRate float64, kind Kind, opts ...Option) ([]F, error) {
	s, err := NewStreamForRates[F](inputRate, outputRate, kind, opts...)
	if err != nil {
		return nil, err
	}

	output := s.Write(input)
	return append(output, s.Flush()...), nil
}

// ResampleStereo is a convenience function for one-shot stereo resampling.
func ResampleStereo[F Float](left, right []F, inputRate, outputRate float64, kind Kind, opts ...Option) (leftOut, rightOut []F, err error) {
	leftOut, err = ResampleMono(left, inputRate, outputRate, kind, opts...)
	if err != nil {
		return nil, nil, err
	}

	rightOut, err = ResampleMono(right, inputRate, outputRate, kind, opts...)
	if err != nil {
		return nil, nil, err
	}

	return leftOut, rightOut, nil
}

// ResampleChannels resamples planar multi-channel audio in one shot.
func ResampleChannels[F Float](input [][]F, inputRate, outputRate float64, kind Kind, opts ...Option) ([][]F, error) {
	output := make([][]F, len(input))
	for ch, samples := range input {
		out, err := ResampleMono(samples, inputRate, outputRate, kind, opts...)
		if err != nil {
			return nil, err
		}
		output[ch] = out
	}
	return output, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo[F Float](left, right []F) []F {
	minLen := min(len(left), len(right))
	result := make([]F, minLen*stereoChannels)
	for i := range minLen {
		result[i*stereoChannels] = left[i]
		result[i*stereoChannels+1] = right[i]
	}
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo[F Float](interleaved []F) (left, right []F) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]F, numSamples)
	right = make([]F, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}

// Deinterleave splits interleaved frames into planar channels.
func Deinterleave[F Float](interleaved []F, channels int) [][]F {
	if channels < 1 {
		return nil
	}
	frames := len(interleaved) / channels
	out := make([][]F, channels)
	for ch := range out {
		out[ch] = make([]F, frames)
		for i := range frames {
			out[ch][i] = interleaved[i*channels+ch]
		}
	}
	return out
}

// Interleave merges planar channels into interleaved frames, truncating to
// the shortest channel.
func Interleave[F Float](planar [][]F) []F {
	if len(planar) == 0 {
		return nil
	}
	frames := len(planar[0])
	for _, ch := range planar[1:] {
		frames = min(frames, len(ch))
	}

	channels := len(planar)
	out := make([]F, frames*channels)
	for ch, samples := range planar {
		for i := range frames {
			out[i*channels+ch] = samples[i]
		}
	}
	return out
}

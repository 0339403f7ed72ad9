package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	interp "github.com/tphakala/go-audio-interp"
)

var errUnsupportedBitDepth = errors.New("unsupported bit depth")

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file.
func openWAVInput(path string, log *zap.Logger) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if _, err := maxSampleValue(bitDepth); err != nil {
		_ = inputFile.Close()
		return nil, err
	}

	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	log.Debug("input format",
		zap.Int("rate", format.SampleRate),
		zap.Int("channels", format.NumChannels),
		zap.Int("bit_depth", bitDepth),
		zap.Duration("duration", duration))

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// createChannelStreams creates one stream per channel.
func createChannelStreams[F interp.Float](
	numChannels int,
	inputRate, targetRate int,
	kind interp.Kind,
	opts ...interp.Option,
) ([]*interp.Stream[F], error) {
	streams := make([]*interp.Stream[F], numChannels)
	for ch := range numChannels {
		s, err := interp.NewStreamForRates[F](float64(inputRate), float64(targetRate), kind, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create stream for channel %d: %w", ch, err)
		}
		streams[ch] = s
	}
	return streams, nil
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	if _, err := maxSampleValue(bitDepth); err != nil {
		return nil, err
	}

	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	if len(samples) == 0 {
		return nil
	}
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalises the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// resampleBuffers holds the preallocated conversion buffers.
type resampleBuffers[F interp.Float] struct {
	intBuffer    *audio.IntBuffer
	channelBufs  [][]F
	outputIntBuf []int
	invMaxVal    float64
	maxVal       float64
	gain         float64
}

// newResampleBuffers preallocates every buffer the processing loop needs.
func newResampleBuffers[F interp.Float](
	channels, bitDepth, blockSize int,
	inputRate, targetRate int,
	gain float64,
	format *audio.Format,
) (*resampleBuffers[F], error) {
	maxVal, err := maxSampleValue(bitDepth)
	if err != nil {
		return nil, err
	}

	channelBufs := make([][]F, channels)
	for ch := range channels {
		channelBufs[ch] = make([]F, blockSize)
	}

	estimatedOutput := int(float64(blockSize)*float64(targetRate)/float64(inputRate)) + outputBufferMargin

	return &resampleBuffers[F]{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, blockSize*channels),
			Format: format,
		},
		channelBufs:  channelBufs,
		outputIntBuf: make([]int, estimatedOutput*channels),
		invMaxVal:    1 / maxVal,
		maxVal:       maxVal,
		gain:         gain,
	}, nil
}

// progressTracker logs progress every progressInterval percent.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	log          *zap.Logger
}

func newProgressTracker(totalFrames int64, log *zap.Logger) *progressTracker {
	return &progressTracker{totalFrames: totalFrames, log: log}
}

func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		p.log.Debug("progress", zap.Int("percent", progress))
		p.lastProgress = progress
	}
}

// resampleChannelData feeds one block to every channel stream. Multichannel
// input is spread over goroutines when parallel is set.
func resampleChannelData[F interp.Float](
	streams []*interp.Stream[F],
	channelBufs [][]F,
	numFrames int,
	parallel bool,
) [][]F {
	out := make([][]F, len(streams))

	if !parallel || len(streams) == monoChannels {
		for ch, s := range streams {
			out[ch] = s.Write(channelBufs[ch][:numFrames])
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for ch, s := range streams {
		g.Go(func() error {
			out[ch] = s.Write(channelBufs[ch][:numFrames])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// flushChannels drains every stream.
func flushChannels[F interp.Float](streams []*interp.Stream[F]) [][]F {
	out := make([][]F, len(streams))
	for ch, s := range streams {
		out[ch] = s.Flush()
	}
	return out
}

// frameCount returns the longest channel length.
func frameCount[F interp.Float](channels [][]F) int {
	n := 0
	for _, ch := range channels {
		n = max(n, len(ch))
	}
	return n
}

func maxSampleValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("%w: %d", errUnsupportedBitDepth, bitDepth)
	}
}

// deinterleaveInto converts interleaved PCM into per-channel buffers scaled
// to [-1, 1].
func deinterleaveInto[F interp.Float](data []int, channelBufs [][]F, numFrames int, invMaxVal float64) {
	numChannels := len(channelBufs)

	if numChannels == stereoChannels {
		buf0, buf1 := channelBufs[0], channelBufs[1]
		for i := range numFrames {
			idx := i * stereoChannels
			buf0[i] = F(float64(data[idx]) * invMaxVal)
			buf1[i] = F(float64(data[idx+1]) * invMaxVal)
		}
		return
	}

	for i := range numFrames {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = F(float64(data[base+ch]) * invMaxVal)
		}
	}
}

// interleaveInto converts per-channel buffers into interleaved PCM, applying
// gain and clipping to full scale. Channels shorter than the longest are
// padded with silence. dst is grown when too small and returned.
func interleaveInto[F interp.Float](channels [][]F, dst []int, maxVal, gain float64) []int {
	numChannels := len(channels)
	frames := frameCount(channels)
	total := frames * numChannels
	if cap(dst) < total {
		dst = make([]int, total)
	}
	dst = dst[:total]

	for ch, buf := range channels {
		for i := range frames {
			var sample float64
			if i < len(buf) {
				sample = float64(buf[i]) * gain
			}
			dst[i*numChannels+ch] = int(min(max(sample, -1), 1) * maxVal)
		}
	}
	return dst
}

package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	interp "github.com/tphakala/go-audio-interp"
	"github.com/tphakala/go-audio-interp/internal/config"
)

// writeTestWAV writes a 16-bit sine wave with the given layout.
func writeTestWAV(t *testing.T, path string, rate, channels, frames int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)

	data := make([]int, frames*channels)
	for i := range frames {
		v := int(0.5 * maxInt16 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		for ch := range channels {
			data[i*channels+ch] = v
		}
	}

	enc := wav.NewEncoder(f, rate, bitsPerSample16, channels, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitsPerSample16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func readTestWAV(t *testing.T, path string) *audio.IntBuffer {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	return buf
}

func testConfig(t *testing.T, kernel string) config.Config {
	t.Helper()
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	cfg.Kernel = kernel
	cfg.BlockSize = 256
	return cfg
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a wav file"), 0o644))

	_, err := openWAVInput(invalidFile, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestOpenWAVInput_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.wav")
	writeTestWAV(t, path, 8000, 2, 800)

	input, err := openWAVInput(path, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = input.Close() }()

	assert.Equal(t, 8000, input.rate)
	assert.Equal(t, 2, input.channels)
	assert.Equal(t, 16, input.bitDepth)
	assert.InDelta(t, 800, input.totalFrames, 1)
}

func TestCreateChannelStreams(t *testing.T) {
	for _, channels := range []int{1, 2, 8} {
		streams, err := createChannelStreams[float64](channels, 44100, 48000, interp.CubicHermite)
		require.NoError(t, err)
		require.Len(t, streams, channels)
		for i, s := range streams {
			require.NotNil(t, s, "stream %d", i)
			assert.InDelta(t, 44100.0/48000.0, s.Ratio(), 1e-12)
		}
	}
}

func TestCreateChannelStreams_InvalidRate(t *testing.T) {
	_, err := createChannelStreams[float64](2, 0, 48000, interp.Linear)
	require.ErrorIs(t, err, interp.ErrInvalidConfig)
}

func TestCreateWAVOutput_InvalidDirectory(t *testing.T) {
	_, err := createWAVOutput("/nonexistent/dir/output.wav", 48000, 16, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestCreateWAVOutput_UnsupportedBitDepth(t *testing.T) {
	_, err := createWAVOutput(filepath.Join(t.TempDir(), "out.wav"), 48000, 12, 2)
	require.ErrorIs(t, err, errUnsupportedBitDepth)
}

func TestWAVOutput_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := createWAVOutput(path, 16000, 16, 2)
	require.NoError(t, err)
	require.NoError(t, w.WriteSamples([]int{1, -1, 100, -100}))
	require.NoError(t, w.WriteSamples(nil))
	require.NoError(t, w.Close())

	buf := readTestWAV(t, path)
	assert.Equal(t, 16000, buf.Format.SampleRate)
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, []int{1, -1, 100, -100}, buf.Data)
}

func TestNewResampleBuffers(t *testing.T) {
	format := &audio.Format{SampleRate: 44100, NumChannels: 2}
	buffers, err := newResampleBuffers[float64](2, 16, 1024, 44100, 48000, 1, format)
	require.NoError(t, err)

	assert.Len(t, buffers.channelBufs, 2)
	assert.Len(t, buffers.channelBufs[0], 1024)
	assert.Len(t, buffers.intBuffer.Data, 2048)
	assert.GreaterOrEqual(t, len(buffers.outputIntBuf), 2*int(1024*48000/44100))
	assert.InDelta(t, maxInt16, buffers.maxVal, 0)
	assert.InDelta(t, 1/maxInt16, buffers.invMaxVal, 1e-15)

	_, err = newResampleBuffers[float64](2, 8, 1024, 44100, 48000, 1, format)
	require.ErrorIs(t, err, errUnsupportedBitDepth)
}

func TestProgressTracker_ZeroFrames(t *testing.T) {
	tracker := newProgressTracker(0, zap.NewNop())
	tracker.reportIfNeeded(100)
	assert.Equal(t, 0, tracker.lastProgress)
}

func TestProgressTracker_Steps(t *testing.T) {
	tracker := newProgressTracker(1000, zap.NewNop())
	tracker.reportIfNeeded(50)
	assert.Equal(t, 0, tracker.lastProgress)
	tracker.reportIfNeeded(250)
	assert.Equal(t, 25, tracker.lastProgress)
	tracker.reportIfNeeded(300)
	assert.Equal(t, 25, tracker.lastProgress)
}

func TestDeinterleaveInto(t *testing.T) {
	data := []int{2, -2, 4, -4, 6, -6}
	bufs := [][]float64{make([]float64, 3), make([]float64, 3)}
	deinterleaveInto(data, bufs, 3, 0.5)
	assert.Equal(t, []float64{1, 2, 3}, bufs[0])
	assert.Equal(t, []float64{-1, -2, -3}, bufs[1])

	three := [][]float32{make([]float32, 1), make([]float32, 1), make([]float32, 1)}
	deinterleaveInto([]int{1, 2, 3}, three, 1, 1)
	assert.Equal(t, [][]float32{{1}, {2}, {3}}, three)
}

func TestInterleaveInto_ClipsAndPads(t *testing.T) {
	channels := [][]float64{{0.5, 2, -2}, {0.25}}
	out := interleaveInto(channels, nil, 100, 1)
	assert.Equal(t, []int{50, 25, 100, 0, -100, 0}, out)
}

func TestInterleaveInto_Gain(t *testing.T) {
	dst := make([]int, 16)
	out := interleaveInto([][]float64{{0.25, -0.25}}, dst, 100, 2)
	assert.Equal(t, []int{50, -50}, out)
	assert.Same(t, &dst[0], &out[0], "reuses a large enough buffer")
}

func TestResampleChannelData_ParallelMatchesSequential(t *testing.T) {
	newStreams := func() []*interp.Stream[float64] {
		streams, err := createChannelStreams[float64](4, 44100, 48000, interp.Lagrange)
		require.NoError(t, err)
		return streams
	}

	bufs := make([][]float64, 4)
	for ch := range bufs {
		bufs[ch] = make([]float64, 200)
		for i := range bufs[ch] {
			bufs[ch][i] = math.Sin(float64(i*(ch+1)) * 0.05)
		}
	}

	seq := resampleChannelData(newStreams(), bufs, 200, false)
	par := resampleChannelData(newStreams(), bufs, 200, true)
	require.Len(t, par, 4)
	assert.Equal(t, seq, par)
}

func TestFlushChannels_Empty(t *testing.T) {
	streams, err := createChannelStreams[float64](2, 44100, 48000, interp.Linear)
	require.NoError(t, err)

	flushed := flushChannels(streams)
	require.Len(t, flushed, 2)
	assert.Equal(t, 0, frameCount(flushed))
}

func TestResampleWAV_Upsample(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	writeTestWAV(t, in, 8000, 2, 1000)

	stats, err := resampleWAV[float64](job{
		inputPath:  in,
		outputPath: out,
		targetRate: 16000,
		parallel:   true,
		cfg:        testConfig(t, "linear"),
		log:        zap.NewNop(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), stats.inputFrames)
	assert.InDelta(t, 2000, stats.outputFrames, 4)

	buf := readTestWAV(t, out)
	assert.Equal(t, 16000, buf.Format.SampleRate)
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, int(stats.outputFrames)*2, len(buf.Data))
	for i := 0; i+1 < len(buf.Data); i += 2 {
		require.Equal(t, buf.Data[i], buf.Data[i+1], "identical channels stay identical")
	}
}

func TestResampleWAV_SameRate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeTestWAV(t, in, 8000, 1, 100)

	_, err := resampleWAV[float32](job{
		inputPath:  in,
		outputPath: filepath.Join(dir, "out.wav"),
		targetRate: 8000,
		cfg:        testConfig(t, "linear"),
		log:        zap.NewNop(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already at target rate")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	writeTestWAV(t, in, 16000, 1, 1600)

	var stdout bytes.Buffer
	err := run([]string{"--rate", "8", "--kernel", "sinc", "--quality", "fastest", "--precision", "float32", in, out}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "16000 Hz -> 8000 Hz")

	buf := readTestWAV(t, out)
	assert.Equal(t, 8000, buf.Format.SampleRate)
	assert.InDelta(t, 800, len(buf.Data), 4)
}

func TestRun_MissingArgs(t *testing.T) {
	err := run([]string{"only-one.wav"}, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)
}

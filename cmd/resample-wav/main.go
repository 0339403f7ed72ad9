// Command resample-wav resamples WAV audio files to a target sample rate.
//
// Usage:
//
//	resample-wav --rate 48 input.wav output.wav
//	resample-wav --rate 16 --kernel sinc --quality best input.wav output.wav
//	resample-wav --rate 48 --precision float32 input.wav output.wav
//	resample-wav --rate 48 --parallel=false input.wav out.wav
//
// Settings may also come from a YAML file (--config) or INTERP_* environment
// variables.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	interp "github.com/tphakala/go-audio-interp"
	"github.com/tphakala/go-audio-interp/internal/config"
	"github.com/tphakala/go-audio-interp/internal/logger"
)

const (
	// Output buffer margin to handle ratio variations
	outputBufferMargin = 1024

	monoChannels   = 1
	stereoChannels = 2

	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	kHzToHz          = 1000
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // percent
	percentScale     = 100

	defaultRateKHz  = 48.0
	minRequiredArgs = 2

	wavFormatPCM = 1
)

var errUsage = errors.New("insufficient arguments")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "resample-wav:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("resample-wav", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	rateKHz := fs.Float64("rate", defaultRateKHz, "target sample rate in kHz (e.g. 16, 44.1, 48, 96)")
	parallel := fs.Bool("parallel", true, "process channels concurrently")
	verbose := fs.BoolP("verbose", "v", false, "log debug output")
	cpuprofile := fs.String("cpuprofile", "", "write CPU profile to file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: resample-wav [options] input.wav output.wav\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return errUsage
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	j := job{
		inputPath:  fs.Arg(0),
		outputPath: fs.Arg(1),
		targetRate: int(*rateKHz * kHzToHz),
		parallel:   *parallel,
		cfg:        cfg,
		log:        log,
	}

	log.Debug("starting",
		zap.String("input", j.inputPath),
		zap.String("output", j.outputPath),
		zap.Int("target_rate", j.targetRate),
		zap.String("kernel", cfg.Kernel),
		zap.String("precision", cfg.Precision),
		zap.Bool("parallel", j.parallel))

	start := time.Now()
	var stats *resampleStats
	if cfg.Precision == config.PrecisionFloat32 {
		stats, err = resampleWAV[float32](j)
	} else {
		stats, err = resampleWAV[float64](j)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "Resampled %s -> %s\n", filepath.Base(j.inputPath), filepath.Base(j.outputPath))
	fmt.Fprintf(stdout, "  %d Hz -> %d Hz (%d channels, %d-bit, %s)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth, cfg.Kernel)
	fmt.Fprintf(stdout, "  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(stdout, "  Duration: %.2fs, Speed: %.1fx realtime\n",
			secs, float64(stats.inputFrames)/float64(stats.inputRate)/secs)
	}

	return nil
}

type job struct {
	inputPath  string
	outputPath string
	targetRate int
	parallel   bool
	cfg        config.Config
	log        *zap.Logger
}

type resampleStats struct {
	inputRate    int
	outputRate   int
	channels     int
	bitDepth     int
	inputFrames  int64
	outputFrames int64
}

// streamOptions builds the interp options for the configured kernel.
func streamOptions(cfg config.Config, log *zap.Logger) ([]interp.Option, error) {
	opts := []interp.Option{interp.WithLogger(log)}

	if cfg.Coefficients != "" {
		table, err := interp.LoadCoefficients(cfg.Coefficients)
		if err != nil {
			return nil, err
		}
		return append(opts, interp.WithCoefficients(table)), nil
	}

	q, err := cfg.CoefficientQuality()
	if err != nil {
		return nil, err
	}
	return append(opts, interp.WithCoefficients(interp.DefaultCoefficients(q))), nil
}

func resampleWAV[F interp.Float](j job) (stats *resampleStats, err error) {
	input, err := openWAVInput(j.inputPath, j.log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if input.rate == j.targetRate {
		return nil, fmt.Errorf("input already at target rate %d Hz", j.targetRate)
	}

	kind, err := j.cfg.Kind()
	if err != nil {
		return nil, err
	}
	opts, err := streamOptions(j.cfg, j.log)
	if err != nil {
		return nil, err
	}

	streams, err := createChannelStreams[F](input.channels, input.rate, j.targetRate, kind, opts...)
	if err != nil {
		return nil, err
	}

	buffers, err := newResampleBuffers[F](
		input.channels, input.bitDepth, j.cfg.BlockSize,
		input.rate, j.targetRate,
		j.cfg.Gain,
		input.format,
	)
	if err != nil {
		return nil, err
	}

	output, err := createWAVOutput(j.outputPath, j.targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close errors matter on the success path: the encoder writes the header sizes there.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: j.targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalFrames, j.log)

	for {
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}
		stats.inputFrames += int64(frames)

		deinterleaveInto(buffers.intBuffer.Data[:frames*input.channels], buffers.channelBufs, frames, buffers.invMaxVal)
		resampled := resampleChannelData(streams, buffers.channelBufs, frames, j.parallel)

		if err := writeChannels(output, buffers, resampled, stats); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
		progress.reportIfNeeded(stats.inputFrames)
	}

	if err := writeChannels(output, buffers, flushChannels(streams), stats); err != nil {
		return nil, fmt.Errorf("failed to write flushed data: %w", err)
	}

	return stats, nil
}

func writeChannels[F interp.Float](output *wavOutputWriter, buffers *resampleBuffers[F], channels [][]F, stats *resampleStats) error {
	buffers.outputIntBuf = interleaveInto(channels, buffers.outputIntBuf, buffers.maxVal, buffers.gain)
	stats.outputFrames += int64(frameCount(channels))
	return output.WriteSamples(buffers.outputIntBuf)
}

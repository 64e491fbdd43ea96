// Command tone-wav writes a stereo 16-bit WAV test signal for wav2waterfall.
//
// The left and right channels carry the real and imaginary parts of a
// complex exponential, so a positive frequency shows up right of center in
// the waterfall and a negative one left of center.
//
// Usage:
//
//	tone-wav -freq 3000 -frames 480000 tone.wav
//	tone-wav -freq -12000 -amp 0.25 negative.wav
//	tone-wav -silence -frames 65536 silence.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	defaultRate   = 48000
	defaultFrames = 48000
	defaultFreq   = 1000.0
	defaultAmp    = 0.5

	stereoChannels = 2
	bitDepth       = 16
	pcmFormat      = 1
	maxInt16       = 32767.0

	// Frames generated per encoder write.
	chunkFrames = 4096
)

var errUsage = errors.New("usage error")

// toneOptions describes the signal to generate.
type toneOptions struct {
	rate    int
	frames  int
	freq    float64
	amp     float64
	silence bool
}

// Validate checks if the options are valid.
func (o *toneOptions) Validate() error {
	if o.rate <= 0 {
		return fmt.Errorf("%w: rate must be positive", errUsage)
	}
	if o.frames < 0 {
		return fmt.Errorf("%w: frames must not be negative", errUsage)
	}
	if o.amp < 0 || o.amp > 1 {
		return fmt.Errorf("%w: amplitude must be in [0, 1]", errUsage)
	}
	if math.Abs(o.freq) > float64(o.rate)/2 {
		return fmt.Errorf("%w: |freq| must not exceed %d Hz", errUsage, o.rate/2)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tone-wav", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := toneOptions{}
	fs.IntVar(&opts.rate, "rate", defaultRate, "Sample rate in Hz")
	fs.IntVar(&opts.frames, "frames", defaultFrames, "Number of stereo frames")
	fs.Float64Var(&opts.freq, "freq", defaultFreq, "Tone frequency in Hz (negative for left of center)")
	fs.Float64Var(&opts.amp, "amp", defaultAmp, "Amplitude, 0 to 1")
	fs.BoolVar(&opts.silence, "silence", false, "Write silence instead of a tone")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tone-wav [options] output.wav\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: expected one output file", errUsage)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	path := fs.Arg(0)
	if err := writeTone(path, opts); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %s: %d frames at %d Hz", path, opts.frames, opts.rate)
	if opts.silence {
		fmt.Fprintf(stdout, ", silence\n")
	} else {
		fmt.Fprintf(stdout, ", %g Hz at amplitude %g\n", opts.freq, opts.amp)
	}
	return nil
}

// writeTone encodes the signal described by opts to path.
func writeTone(path string, opts toneOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(f, opts.rate, bitDepth, stereoChannels, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: stereoChannels, SampleRate: opts.rate},
		Data:           make([]int, chunkFrames*stereoChannels),
		SourceBitDepth: bitDepth,
	}

	amp := opts.amp
	if opts.silence {
		amp = 0
	}
	step := 2 * math.Pi * opts.freq / float64(opts.rate)

	// Write runs even for zero frames so the header is always emitted.
	for start := 0; start == 0 || start < opts.frames; start += chunkFrames {
		n := min(chunkFrames, opts.frames-start)
		buf.Data = buf.Data[:n*stereoChannels]
		for i := range n {
			phase := step * float64(start+i)
			buf.Data[2*i] = int(math.Round(amp * maxInt16 * math.Cos(phase)))
			buf.Data[2*i+1] = int(math.Round(amp * maxInt16 * math.Sin(phase)))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("failed to write audio data: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}

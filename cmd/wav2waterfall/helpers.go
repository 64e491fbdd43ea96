package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"time"

	waterfall "github.com/tphakala/go-wav-waterfall"
)

var (
	errUsage         = errors.New("usage error")
	errInvalidNumber = errors.New("invalid number")
)

// params holds the parsed command line.
type params struct {
	input    string
	output   string
	width    int
	height   int
	offsetDB float64
	rangeDB  float64
}

// parseArgs parses the six positional arguments. Range checks are left to
// waterfall.Config.Validate.
func parseArgs(args []string) (*params, error) {
	if len(args) != requiredArgs {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", errUsage, requiredArgs, len(args))
	}

	width, err := parseInt("width", args[argWidth])
	if err != nil {
		return nil, err
	}
	height, err := parseInt("height", args[argHeight])
	if err != nil {
		return nil, err
	}
	offset, err := parseFloat("offset", args[argOffset])
	if err != nil {
		return nil, err
	}
	rangeDB, err := parseFloat("range", args[argRange])
	if err != nil {
		return nil, err
	}

	return &params{
		input:    args[argInput],
		output:   args[argOutput],
		width:    width,
		height:   height,
		offsetDB: offset,
		rangeDB:  rangeDB,
	}, nil
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", errInvalidNumber, name, s)
	}
	return v, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, floatBits)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", errInvalidNumber, name, s)
	}
	return v, nil
}

// config builds the renderer configuration.
func (p *params) config(logger *log.Logger) *waterfall.Config {
	return &waterfall.Config{
		Width:            p.width,
		Height:           p.height,
		OffsetDB:         p.offsetDB,
		RangeDB:          p.rangeDB,
		Logger:           logger,
		ProgressInterval: waterfall.DefaultProgressInterval,
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <input.wav> <width> <height> <offset_dB> <range_dB> <output.png>\n\n", progName)
	fmt.Fprintf(w, "Input must be a stereo 16-bit PCM WAV file. Left is the real part and\n")
	fmt.Fprintf(w, "right the imaginary part of the signal; DC is drawn in column width/2.\n")
	fmt.Fprintf(w, "\nExample:\n")
	fmt.Fprintf(w, "  %s iq.wav 1024 600 100 -100 waterfall.png\n", progName)
}

func printBanner(w io.Writer, p *params) {
	fmt.Fprintf(w, "%s: WAV to waterfall spectrogram\n", progName)
	fmt.Fprintf(w, "  Width:  %d\n", p.width)
	fmt.Fprintf(w, "  Height: %d\n", p.height)
	fmt.Fprintf(w, "  Offset: %g dB\n", p.offsetDB)
	fmt.Fprintf(w, "  Range:  %g dB\n", p.rangeDB)
}

func printSummary(w io.Writer, p *params, stats *waterfall.Stats, elapsed time.Duration) {
	fmt.Fprintf(w, "Rendered %s -> %s\n", filepath.Base(p.input), filepath.Base(p.output))
	fmt.Fprintf(w, "  %dx%d pixels from %d Hz, %d channels, %d-bit\n",
		stats.Width, stats.Height, stats.SampleRate, stats.Channels, stats.BitsPerSample)
	fmt.Fprintf(w, "  %d frames read (%.2fs of audio)\n", stats.FramesRead, stats.Duration.Seconds())
	if stats.PaddedRows > 0 {
		fmt.Fprintf(w, "  %d rows padded with silence\n", stats.PaddedRows)
	}
	if elapsed > 0 {
		fmt.Fprintf(w, "  Elapsed: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(), stats.Duration.Seconds()/elapsed.Seconds())
	}
}

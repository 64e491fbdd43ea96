// Command wav2waterfall renders a stereo 16-bit WAV file as a waterfall
// spectrogram PNG.
//
// Usage:
//
//	wav2waterfall input.wav 1024 600 100 -100 output.png
//
// The arguments are the input file, the image width (also the transform
// length), the image height in rows, the dB offset drawn black, the dB range
// spanned by the color table (negative to draw strong signals bright), and
// the output file. Every row consumes width stereo frames. If the input is
// too short, the remaining rows are rendered as silence.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	waterfall "github.com/tphakala/go-wav-waterfall"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	p, err := parseArgs(args)
	if err != nil {
		printUsage(stderr)
		return err
	}

	printBanner(stdout, p)

	cfg := p.config(log.Default())
	start := time.Now()
	stats, err := waterfall.RenderFile(p.input, p.output, cfg)
	if err != nil {
		return fmt.Errorf("render %s: %w", p.input, err)
	}

	printSummary(stdout, p, stats, time.Since(start))
	return nil
}

package waterfall

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/tphakala/go-wav-waterfall/internal/colormap"
	"github.com/tphakala/go-wav-waterfall/internal/pngstream"
	"github.com/tphakala/go-wav-waterfall/internal/spectrum"
	"github.com/tphakala/go-wav-waterfall/internal/wavheader"
)

// Config holds rendering parameters.
type Config struct {
	// Width is the image width in pixels and the transform length in frames.
	Width int

	// Height is the number of rows. Each row consumes Width frames.
	Height int

	// OffsetDB is the dB value drawn with color index 0, the black end.
	OffsetDB float64

	// RangeDB is the dB span covered by the 256 colors. Must be non-zero.
	// Stronger bins have smaller dB values, so a negative range draws them
	// bright; a positive range inverts the color scale.
	RangeDB float64

	// Strict makes a short input an error instead of padding it with silence.
	Strict bool

	// Logger receives format, warning and progress messages.
	// A nil Logger disables logging.
	Logger *log.Logger

	// ProgressInterval is the row percentage between progress messages.
	// Set to 0 to disable progress reporting.
	ProgressInterval int
}

// Errors returned by the renderer.
var (
	// ErrInvalidConfig indicates a nil config or an out-of-range setting.
	ErrInvalidConfig = errors.New("invalid waterfall configuration")

	// ErrInvalidDimensions indicates a width or height below 1.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrInvalidRange indicates a zero or non-finite dB range or offset.
	ErrInvalidRange = colormap.ErrInvalidRange

	// ErrOpenInput indicates the input file could not be opened.
	ErrOpenInput = errors.New("cannot open input")

	// ErrOpenOutput indicates the output file could not be created.
	ErrOpenOutput = errors.New("cannot open output")

	// ErrShortInput indicates the input ran out before Height rows in
	// strict mode.
	ErrShortInput = errors.New("input too short")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: %dx%d (width and height must be at least 1)", ErrInvalidDimensions, c.Width, c.Height)
	}

	if c.RangeDB == 0 || !isFinite(c.RangeDB) {
		return fmt.Errorf("%w: range %g dB (must be non-zero and finite)", ErrInvalidRange, c.RangeDB)
	}

	if !isFinite(c.OffsetDB) {
		return fmt.Errorf("%w: offset %g dB", ErrInvalidRange, c.OffsetDB)
	}

	if c.ProgressInterval < 0 || c.ProgressInterval > percentScale {
		return fmt.Errorf("%w: progress interval must be 0-%d", ErrInvalidConfig, percentScale)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Stats describes a finished render.
type Stats struct {
	Width  int
	Height int

	SampleRate    int
	Channels      int
	BitsPerSample int

	// DataFrames is the frame count declared by the header's data chunk.
	DataFrames int64

	// FramesRead counts frames actually taken from the input.
	FramesRead int64

	// PaddedRows counts rows completed with silence because the input ran out.
	PaddedRows int

	// Duration is the audio time covered by FramesRead.
	Duration time.Duration
}

// Renderer turns WAV streams into waterfall PNGs. It owns all row buffers,
// which are allocated once by New and reused. A Renderer is not safe for
// concurrent use.
type Renderer struct {
	cfg    Config
	proc   *spectrum.Processor
	mapper *colormap.Mapper
	row    []byte
}

// New creates a Renderer for the given configuration.
func New(cfg *Config) (*Renderer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	proc, err := spectrum.New(cfg.Width)
	if err != nil {
		return nil, fmt.Errorf("failed to create spectrum processor: %w", err)
	}

	mapper, err := colormap.NewMapper(cfg.Width, cfg.OffsetDB, cfg.RangeDB)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		cfg:    *cfg,
		proc:   proc,
		mapper: mapper,
		row:    make([]byte, cfg.Width*pngstream.BytesPerPixel),
	}, nil
}

// Config returns a copy of the renderer's configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render reads a WAV stream from src and writes the PNG to dst.
// The header is validated before anything is written to dst.
func (r *Renderer) Render(src io.Reader, dst io.Writer) (*Stats, error) {
	h, err := readHeader(src)
	if err != nil {
		return nil, err
	}
	return r.render(h, src, dst)
}

// readHeader reads the 44-byte header and checks the sample format.
func readHeader(src io.Reader) (wavheader.Header, error) {
	h, err := wavheader.Read(src)
	if err != nil {
		return wavheader.Header{}, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if err := h.CheckSupported(); err != nil {
		return wavheader.Header{}, err
	}
	return h, nil
}

// render runs the row loop on a stream positioned at the first sample.
func (r *Renderer) render(h wavheader.Header, src io.Reader, dst io.Writer) (*Stats, error) {
	r.logf("Input format: %d Hz, %d channels, %d-bit, %d frames (%s)",
		h.SampleRate, h.Channels, h.BitsPerSample, h.Frames(), h.Duration().Round(time.Millisecond))

	img, err := pngstream.NewWriter(dst, r.cfg.Width, r.cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to start PNG: %w", err)
	}

	stats := &Stats{
		Width:         r.cfg.Width,
		Height:        r.cfg.Height,
		SampleRate:    int(h.SampleRate),
		Channels:      int(h.Channels),
		BitsPerSample: int(h.BitsPerSample),
		DataFrames:    h.Frames(),
	}
	progress := newProgressTracker(r.cfg.Logger, r.cfg.Height, r.cfg.ProgressInterval)

	for y := range r.cfg.Height {
		frames, err := r.proc.ReadRow(src)
		stats.FramesRead += int64(frames)

		if err != nil {
			if !errors.Is(err, spectrum.ErrShortRow) {
				return nil, fmt.Errorf("failed to read row %d: %w", y, err)
			}
			if r.cfg.Strict {
				return nil, fmt.Errorf("%w: row %d of %d: %w", ErrShortInput, y, r.cfg.Height, err)
			}
			if stats.PaddedRows == 0 {
				r.logf("Warning: input ended after %d frames, padding %d rows with silence",
					stats.FramesRead, r.cfg.Height-y)
			}
			stats.PaddedRows++
		}

		r.proc.Transform()
		r.mapper.MapRow(r.row, r.proc.Power())

		if err := img.WriteRow(r.row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", y, err)
		}

		progress.reportIfNeeded(y + 1)
	}

	if err := img.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish PNG: %w", err)
	}

	if stats.SampleRate > 0 {
		stats.Duration = time.Duration(float64(stats.FramesRead) / float64(stats.SampleRate) * float64(time.Second))
	}

	return stats, nil
}

func (r *Renderer) logf(format string, args ...any) {
	if r.cfg.Logger != nil {
		r.cfg.Logger.Printf(format, args...)
	}
}

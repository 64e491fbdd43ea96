// Package spectrum turns rows of interleaved stereo PCM into centered power
// spectra.
//
// Each (left, right) frame is treated as one complex sample, left as the
// real part and right as the imaginary part, so positive and negative
// frequencies are distinguishable. A row of width frames is windowed,
// transformed with an unnormalized forward DFT of length width, rotated so
// DC sits at index width/2, and reduced to squared magnitudes.
package spectrum

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-wav-waterfall/internal/window"
)

const (
	// BytesPerFrame is the size of one interleaved stereo 16-bit frame.
	BytesPerFrame = 4

	bytesPerSample = 2

	// fullScale maps int16 samples onto [-1, 1). 1/32768 is a power of two,
	// so scaling by it is exact.
	fullScale    = 32768.0
	invFullScale = 1.0 / fullScale
)

// ErrShortRow is returned by ReadRow when the reader ran out before a full
// row was read. The missing frames have been zero-filled.
var ErrShortRow = errors.New("short spectrum row")

// Processor owns every buffer needed to turn one row of PCM into a power
// spectrum. All buffers are allocated by New and reused for every row.
// A Processor is not safe for concurrent use.
type Processor struct {
	width int
	fft   *fourier.CmplxFFT

	// taps holds the analysis window as purely real complex values so it can
	// scale both parts of every sample in one multiply.
	taps []complex128

	raw      []byte
	left     []float64
	right    []float64
	spectrum []complex128
	power    []float64
}

// New creates a Processor for rows of width frames.
func New(width int) (*Processor, error) {
	if width < 1 {
		return nil, fmt.Errorf("invalid spectrum width: %d (must be >= 1)", width)
	}

	w := window.New(width)
	taps := make([]complex128, width)
	for i, v := range w {
		taps[i] = complex(v, 0)
	}

	return &Processor{
		width:    width,
		fft:      fourier.NewCmplxFFT(width),
		taps:     taps,
		raw:      make([]byte, width*BytesPerFrame),
		left:     make([]float64, width),
		right:    make([]float64, width),
		spectrum: make([]complex128, width),
		power:    make([]float64, width),
	}, nil
}

// Width returns the row length in frames.
func (p *Processor) Width() int {
	return p.width
}

// ReadRow reads exactly Width frames from r into the row buffer and returns
// the number of whole frames read.
//
// If r is exhausted first, the rest of the row is zero-filled and the
// returned error wraps both ErrShortRow and the underlying io.EOF or
// io.ErrUnexpectedEOF. Any other read error is returned as is.
func (p *Processor) ReadRow(r io.Reader) (int, error) {
	n, err := io.ReadFull(r, p.raw)
	if err == nil {
		return p.width, nil
	}

	frames := n / BytesPerFrame
	clear(p.raw[frames*BytesPerFrame:])

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return frames, fmt.Errorf("%w: read %d of %d frames: %w", ErrShortRow, frames, p.width, err)
	}
	return frames, err
}

// SetRow loads a row from interleaved samples instead of a reader. Missing
// frames are zero-filled; extra samples are ignored.
func (p *Processor) SetRow(samples []int16) {
	clear(p.raw)
	limit := min(len(samples), 2*p.width)
	for i := range limit {
		binary.LittleEndian.PutUint16(p.raw[i*bytesPerSample:], uint16(samples[i]))
	}
}

// Transform runs the spectral pipeline on the current row. The result is
// available from Power until the next call. Transform may be called more
// than once for the same row and gives the same result.
func (p *Processor) Transform() {
	p.decode()

	// Normalize to [-1, 1).
	f64.Scale(p.left, p.left, invFullScale)
	f64.Scale(p.right, p.right, invFullScale)

	for i := range p.spectrum {
		p.spectrum[i] = complex(p.left[i], p.right[i])
	}

	// Window both parts with the same tap.
	c128.Mul(p.spectrum, p.spectrum, p.taps)

	p.fft.Coefficients(p.spectrum, p.spectrum)

	Center(p.spectrum)

	for i, v := range p.spectrum {
		re, im := real(v), imag(v)
		p.power[i] = re*re + im*im
	}
}

// Power returns the squared magnitude per bin of the last Transform, DC at
// index Width()/2. The slice is owned by the Processor.
func (p *Processor) Power() []float64 {
	return p.power
}

// Spectrum returns the centered complex spectrum of the last Transform.
// The slice is owned by the Processor.
func (p *Processor) Spectrum() []complex128 {
	return p.spectrum
}

// decode splits the raw little-endian row into left and right planes.
func (p *Processor) decode() {
	for i := range p.width {
		base := i * BytesPerFrame
		p.left[i] = float64(int16(binary.LittleEndian.Uint16(p.raw[base:])))
		p.right[i] = float64(int16(binary.LittleEndian.Uint16(p.raw[base+bytesPerSample:])))
	}
}

// Package pngstream encodes an 8-bit RGB PNG one row at a time.
//
// Only the current row and a bounded compression buffer are held in memory,
// so the image height does not affect memory use. Rows must be written in
// order, exactly height of them.
package pngstream

import (
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
)

const (
	// MaxChunkSize caps the payload of each IDAT chunk.
	MaxChunkSize = 32 * 1024

	// BytesPerPixel is the size of one RGB pixel.
	BytesPerPixel = 3

	bitDepth       = 8
	colorTypeRGB   = 2
	filterNone     = 0
	ihdrLength     = 13
	chunkOverhead  = 12
	lengthTypeSize = 8
)

const pngSignature = "\x89PNG\r\n\x1a\n"

var (
	// ErrInvalidSize is returned by NewWriter for dimensions PNG cannot carry.
	ErrInvalidSize = errors.New("invalid image size")

	// ErrRowLength is returned when a row is not exactly 3*width bytes.
	ErrRowLength = errors.New("row length mismatch")

	// ErrTooManyRows is returned when more than height rows are written.
	ErrTooManyRows = errors.New("too many rows")

	// ErrIncompleteImage is returned by Close when fewer than height rows
	// were written.
	ErrIncompleteImage = errors.New("incomplete image")

	// ErrClosed is returned by WriteRow after Close.
	ErrClosed = errors.New("writer closed")
)

// Writer streams rows into a PNG. It is not safe for concurrent use.
type Writer struct {
	width  int
	height int
	rows   int

	out  *chunkWriter
	idat *idatBuffer
	zw   *zlib.Writer

	filter [1]byte
	err    error

	closed   bool
	closeErr error
}

// NewWriter writes the PNG signature and IHDR to w and returns a Writer
// expecting height rows of width pixels each.
func NewWriter(w io.Writer, width, height int) (*Writer, error) {
	if width < 1 || height < 1 || width > math.MaxInt32 || height > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	out := &chunkWriter{w: w}
	if _, err := io.WriteString(w, pngSignature); err != nil {
		return nil, fmt.Errorf("failed to write PNG signature: %w", err)
	}

	var ihdr [ihdrLength]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = bitDepth
	ihdr[9] = colorTypeRGB
	// compression, filter and interlace methods are all 0.
	if err := out.writeChunk("IHDR", ihdr[:]); err != nil {
		return nil, err
	}

	idat := &idatBuffer{out: out, buf: make([]byte, 0, MaxChunkSize)}
	return &Writer{
		width:  width,
		height: height,
		out:    out,
		idat:   idat,
		zw:     zlib.NewWriter(idat),
	}, nil
}

// Width returns the image width in pixels.
func (w *Writer) Width() int { return w.width }

// Height returns the image height in rows.
func (w *Writer) Height() int { return w.height }

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int { return w.rows }

// WriteRow appends one row of packed RGB pixels. rgb must be exactly
// 3*width bytes.
func (w *Writer) WriteRow(rgb []byte) error {
	if w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	if len(rgb) != w.width*BytesPerPixel {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrRowLength, len(rgb), w.width*BytesPerPixel)
	}
	if w.rows >= w.height {
		return fmt.Errorf("%w: image has %d rows", ErrTooManyRows, w.height)
	}

	w.filter[0] = filterNone
	if _, err := w.zw.Write(w.filter[:]); err != nil {
		w.err = fmt.Errorf("failed to compress row %d: %w", w.rows, err)
		return w.err
	}
	if _, err := w.zw.Write(rgb); err != nil {
		w.err = fmt.Errorf("failed to compress row %d: %w", w.rows, err)
		return w.err
	}
	w.rows++
	return nil
}

// Close finishes the compressed stream and writes the final IDAT and IEND
// chunks. It does not close the underlying writer. Calling Close again
// returns the result of the first call.
func (w *Writer) Close() error {
	if w.closed {
		return w.closeErr
	}
	w.closed = true
	w.closeErr = w.finish()
	return w.closeErr
}

func (w *Writer) finish() error {
	if w.err != nil {
		return w.err
	}
	if w.rows < w.height {
		return fmt.Errorf("%w: wrote %d of %d rows", ErrIncompleteImage, w.rows, w.height)
	}
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("failed to finish compressed stream: %w", err)
	}
	if err := w.idat.flush(); err != nil {
		return err
	}
	return w.out.writeChunk("IEND", nil)
}

// chunkWriter frames data as PNG chunks: length, type, data, CRC-32.
type chunkWriter struct {
	w      io.Writer
	header [lengthTypeSize]byte
	footer [4]byte
}

func (c *chunkWriter) writeChunk(typ string, data []byte) error {
	binary.BigEndian.PutUint32(c.header[:4], uint32(len(data)))
	copy(c.header[4:], typ)

	crc := crc32.Update(0, crc32.IEEETable, c.header[4:])
	crc = crc32.Update(crc, crc32.IEEETable, data)
	binary.BigEndian.PutUint32(c.footer[:], crc)

	if _, err := c.w.Write(c.header[:]); err != nil {
		return fmt.Errorf("failed to write %s chunk: %w", typ, err)
	}
	if len(data) > 0 {
		if _, err := c.w.Write(data); err != nil {
			return fmt.Errorf("failed to write %s chunk: %w", typ, err)
		}
	}
	if _, err := c.w.Write(c.footer[:]); err != nil {
		return fmt.Errorf("failed to write %s chunk: %w", typ, err)
	}
	return nil
}

// idatBuffer collects compressed bytes and emits an IDAT chunk each time
// MaxChunkSize bytes are pending.
type idatBuffer struct {
	out *chunkWriter
	buf []byte
}

func (b *idatBuffer) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		k := min(len(p), MaxChunkSize-len(b.buf))
		b.buf = append(b.buf, p[:k]...)
		p = p[k:]
		if len(b.buf) == MaxChunkSize {
			if err := b.flush(); err != nil {
				return n - len(p), err
			}
		}
	}
	return n, nil
}

func (b *idatBuffer) flush() error {
	if len(b.buf) == 0 {
		return nil
	}
	err := b.out.writeChunk("IDAT", b.buf)
	b.buf = b.buf[:0]
	return err
}

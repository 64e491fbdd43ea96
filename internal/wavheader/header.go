// Package wavheader reads the canonical 44-byte RIFF/WAVE header that
// precedes raw PCM data.
//
// Only the fixed layout is understood: RIFF chunk, a 16-byte "fmt " chunk
// and the "data" chunk header, in that order. Files carrying extra chunks
// (LIST, fact, extensible fmt) are not supported.
package wavheader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// Size is the length of the canonical WAV header in bytes.
const Size = 44

// Supported sample layout.
const (
	SupportedChannels      = 2
	SupportedBitsPerSample = 16
)

const bitsPerByte = 8

var (
	tagRIFF = [4]byte{'R', 'I', 'F', 'F'}
	tagWAVE = [4]byte{'W', 'A', 'V', 'E'}
	tagFmt  = [4]byte{'f', 'm', 't', ' '}
)

var (
	// ErrShortHeader is returned when fewer than Size bytes are available.
	ErrShortHeader = errors.New("wav header truncated")

	// ErrTagMismatch is returned when the RIFF, WAVE or "fmt " tag is wrong.
	ErrTagMismatch = errors.New("wav container tag mismatch")

	// ErrUnsupported is returned by CheckSupported for any layout other than
	// stereo 16-bit.
	ErrUnsupported = errors.New("unsupported wav sample layout")
)

// Header mirrors the 44-byte header field by field.
// The field order and widths match the on-disk little-endian layout.
type Header struct {
	RIFFTag     [4]byte
	ChunkLength int32
	WAVETag     [4]byte

	FmtTag         [4]byte
	FmtLength      int32
	FormatTag      int16 // 1 = PCM, not validated
	Channels       int16
	SampleRate     int32
	AvgBytesPerSec int32
	BlockAlign     int16
	BitsPerSample  int16

	DataTag    [4]byte // not validated
	DataLength int32
}

// Parse decodes a header from the first Size bytes of b.
func Parse(b []byte) (Header, error) {
	var h Header
	if len(b) < Size {
		return h, fmt.Errorf("%w: got %d of %d bytes", ErrShortHeader, len(b), Size)
	}

	if err := binary.Read(bytes.NewReader(b[:Size]), binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("decode wav header: %w", err)
	}

	switch {
	case h.RIFFTag != tagRIFF:
		return Header{}, fmt.Errorf("%w: expected %q, got %q", ErrTagMismatch, tagRIFF[:], h.RIFFTag[:])
	case h.WAVETag != tagWAVE:
		return Header{}, fmt.Errorf("%w: expected %q, got %q", ErrTagMismatch, tagWAVE[:], h.WAVETag[:])
	case h.FmtTag != tagFmt:
		return Header{}, fmt.Errorf("%w: expected %q, got %q", ErrTagMismatch, tagFmt[:], h.FmtTag[:])
	}

	return h, nil
}

// Read consumes exactly Size bytes from r and parses them.
func Read(r io.Reader) (Header, error) {
	buf := make([]byte, Size)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: got %d of %d bytes", ErrShortHeader, n, Size)
		}
		return Header{}, fmt.Errorf("read wav header: %w", err)
	}
	return Parse(buf)
}

// CheckSupported reports whether the sample layout is two-channel 16-bit.
func (h Header) CheckSupported() error {
	if h.Channels != SupportedChannels || h.BitsPerSample != SupportedBitsPerSample {
		return fmt.Errorf("%w: %d channel(s), %d bits per sample (only %d channel, %d bits per sample files are supported)",
			ErrUnsupported, h.Channels, h.BitsPerSample, SupportedChannels, SupportedBitsPerSample)
	}
	return nil
}

// Frames returns the number of sample frames announced by the data chunk.
// It falls back to channels*bits when BlockAlign is zero and returns 0 when
// neither is usable.
func (h Header) Frames() int64 {
	align := int64(h.BlockAlign)
	if align <= 0 {
		align = int64(h.Channels) * int64(h.BitsPerSample) / bitsPerByte
	}
	if align <= 0 || h.DataLength <= 0 {
		return 0
	}
	return int64(h.DataLength) / align
}

// Duration returns the playback length announced by the header.
func (h Header) Duration() time.Duration {
	if h.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(h.Frames()) / float64(h.SampleRate) * float64(time.Second))
}

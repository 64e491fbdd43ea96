package testutil

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

// PCM constants for fixtures.
const (
	FixtureSampleRate = 48000
	pcmFormat         = 1
	maxInt16          = 32767.0
)

// WriteWAV writes interleaved samples to dir/name through go-audio/wav and
// returns the full path. The encoder always emits the canonical 44-byte
// header, even for zero frames.
func WriteWAV(t *testing.T, dir, name string, channels, bitDepth int, samples []int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	enc := wav.NewEncoder(f, FixtureSampleRate, bitDepth, channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: FixtureSampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())

	return path
}

// WriteSilentStereo writes frames of stereo 16-bit silence.
func WriteSilentStereo(t *testing.T, dir, name string, frames int) string {
	t.Helper()
	return WriteWAV(t, dir, name, 2, 16, make([]int, frames*2))
}

// ComplexTone returns frames of interleaved stereo samples forming the
// complex exponential amp*exp(j*2π*bin*n/period). Left carries the real part
// and right the imaginary part, so a positive bin lands right of DC.
func ComplexTone(frames, period int, bin, amp float64) []int {
	samples := make([]int, frames*2)
	for n := range frames {
		phase := 2 * math.Pi * bin * float64(n%period) / float64(period)
		samples[2*n] = int(math.Round(amp * maxInt16 * math.Cos(phase)))
		samples[2*n+1] = int(math.Round(amp * maxInt16 * math.Sin(phase)))
	}
	return samples
}

// PCMBytes encodes interleaved samples as little-endian int16 bytes.
func PCMBytes(samples []int) []byte {
	b := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(int16(s)))
	}
	return b
}

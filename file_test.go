package waterfall

import (
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-wav-waterfall/internal/colormap"
	"github.com/tphakala/go-wav-waterfall/internal/testutil"
	"github.com/tphakala/go-wav-waterfall/internal/wavheader"
)

func TestRenderFile_Silence(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteSilentStereo(t, dir, "silence.wav", testWidth*testHeight)
	out := filepath.Join(dir, "silence.png")

	stats, err := RenderFile(in, out, testConfig())
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, testWidth, stats.Width)
	assert.Equal(t, testHeight, stats.Height)
	assert.Equal(t, 2, stats.Channels)
	assert.Equal(t, 16, stats.BitsPerSample)
	assert.Zero(t, stats.PaddedRows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	img := decodeRGBA(t, data)
	assert.Equal(t, image.Rect(0, 0, testWidth, testHeight), img.Bounds())

	want := colormap.Color(0)
	require.Equal(t, color.RGBA{A: 255}, want)
	assertPixels(t, img, func(int, int) color.RGBA { return want })
}

func TestRenderFile_Padded(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteSilentStereo(t, dir, "short.wav", testWidth)
	out := filepath.Join(dir, "short.png")

	stats, err := RenderFile(in, out, testConfig())
	require.NoError(t, err)
	assert.Equal(t, testHeight-1, stats.PaddedRows)
	assert.FileExists(t, out)
}

func TestRenderFile_NoOutputOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T, dir string) string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "zero width",
			input:   silentInput,
			modify:  func(c *Config) { c.Width = 0 },
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "zero height",
			input:   silentInput,
			modify:  func(c *Config) { c.Height = 0 },
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "zero range",
			input:   silentInput,
			modify:  func(c *Config) { c.RangeDB = 0 },
			wantErr: ErrInvalidRange,
		},
		{
			name: "mono",
			input: func(t *testing.T, dir string) string {
				return testutil.WriteWAV(t, dir, "mono.wav", 1, 16, make([]int, testWidth*testHeight))
			},
			wantErr: wavheader.ErrUnsupported,
		},
		{
			name: "8-bit",
			input: func(t *testing.T, dir string) string {
				return testutil.WriteWAV(t, dir, "8bit.wav", 2, 8, make([]int, 2*testWidth*testHeight))
			},
			wantErr: wavheader.ErrUnsupported,
		},
		{
			name: "missing input",
			input: func(_ *testing.T, dir string) string {
				return filepath.Join(dir, "missing.wav")
			},
			wantErr: ErrOpenInput,
		},
		{
			name: "truncated header",
			input: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "truncated.wav")
				require.NoError(t, os.WriteFile(path, []byte("RIFF\x00\x00"), 0o600))
				return path
			},
			wantErr: wavheader.ErrShortHeader,
		},
		{
			name: "wrong WAVE tag",
			input: func(t *testing.T, dir string) string {
				path := silentInput(t, dir)
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				copy(data[8:12], "WAVX")
				require.NoError(t, os.WriteFile(path, data, 0o600))
				return path
			},
			wantErr: wavheader.ErrTagMismatch,
		},
		{
			name: "strict short input",
			input: func(t *testing.T, dir string) string {
				return testutil.WriteSilentStereo(t, dir, "short.wav", testWidth)
			},
			modify:  func(c *Config) { c.Strict = true },
			wantErr: ErrShortInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := tt.input(t, dir)
			out := filepath.Join(dir, "out.png")

			cfg := testConfig()
			if tt.modify != nil {
				tt.modify(cfg)
			}

			stats, err := RenderFile(in, out, cfg)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, stats)
			assert.NoFileExists(t, out)
		})
	}
}

func silentInput(t *testing.T, dir string) string {
	t.Helper()
	return testutil.WriteSilentStereo(t, dir, "in.wav", testWidth*testHeight)
}

func TestRenderFile_MissingInputIsNotExist(t *testing.T) {
	dir := t.TempDir()
	_, err := RenderFile(filepath.Join(dir, "nope.wav"), filepath.Join(dir, "out.png"), testConfig())
	require.ErrorIs(t, err, ErrOpenInput)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRenderFile_OutputNotCreatable(t *testing.T) {
	dir := t.TempDir()
	in := silentInput(t, dir)
	out := filepath.Join(dir, "no-such-dir", "out.png")

	stats, err := RenderFile(in, out, testConfig())
	require.ErrorIs(t, err, ErrOpenOutput)
	assert.Nil(t, stats)
}

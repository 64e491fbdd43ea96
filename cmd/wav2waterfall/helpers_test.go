package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	waterfall "github.com/tphakala/go-wav-waterfall"
	"github.com/tphakala/go-wav-waterfall/internal/testutil"
	"github.com/tphakala/go-wav-waterfall/internal/wavheader"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *params
		wantErr error
	}{
		{
			name: "valid",
			args: []string{"in.wav", "512", "100", "-20", "120", "out.png"},
			want: &params{input: "in.wav", output: "out.png", width: 512, height: 100, offsetDB: -20, rangeDB: 120},
		},
		{
			name: "fractional dB",
			args: []string{"in.wav", "8", "2", "-3.5", "-60.25", "out.png"},
			want: &params{input: "in.wav", output: "out.png", width: 8, height: 2, offsetDB: -3.5, rangeDB: -60.25},
		},
		{
			name: "zero width parses",
			args: []string{"in.wav", "0", "2", "0", "1", "out.png"},
			want: &params{input: "in.wav", output: "out.png", width: 0, height: 2, offsetDB: 0, rangeDB: 1},
		},
		{"no arguments", nil, nil, errUsage},
		{"too few", []string{"in.wav", "512", "100", "-20", "120"}, nil, errUsage},
		{"too many", []string{"in.wav", "512", "100", "-20", "120", "out.png", "extra"}, nil, errUsage},
		{"bad width", []string{"in.wav", "wide", "100", "-20", "120", "out.png"}, nil, errInvalidNumber},
		{"fractional height", []string{"in.wav", "512", "1.5", "-20", "120", "out.png"}, nil, errInvalidNumber},
		{"bad offset", []string{"in.wav", "512", "100", "x", "120", "out.png"}, nil, errInvalidNumber},
		{"bad range", []string{"in.wav", "512", "100", "-20", "", "out.png"}, nil, errInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_Config(t *testing.T) {
	p := &params{width: 256, height: 10, offsetDB: -5, rangeDB: 90}
	cfg := p.config(nil)

	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
	assert.InDelta(t, -5, cfg.OffsetDB, 0)
	assert.InDelta(t, 90, cfg.RangeDB, 0)
	assert.Equal(t, waterfall.DefaultProgressInterval, cfg.ProgressInterval)
	assert.False(t, cfg.Strict)
	require.NoError(t, cfg.Validate())
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteSilentStereo(t, dir, "in.wav", 32*4)
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	err := run([]string{in, "32", "4", "100", "-100", out}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Width:  32")
	assert.Contains(t, stdout.String(), "Rendered in.wav -> out.png")
	assert.Empty(t, stderr.String())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
	assert.Equal(t, 4, cfg.Height)
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	stereo := testutil.WriteSilentStereo(t, dir, "stereo.wav", 64)
	mono := testutil.WriteWAV(t, dir, "mono.wav", 1, 16, make([]int, 64))

	tests := []struct {
		name      string
		args      func(out string) []string
		wantErr   error
		wantUsage bool
	}{
		{"wrong argument count", func(out string) []string { return []string{stereo, out} }, errUsage, true},
		{"bad number", func(out string) []string { return []string{stereo, "8", "x", "0", "1", out} }, errInvalidNumber, true},
		{"zero width", func(out string) []string { return []string{stereo, "0", "2", "0", "1", out} }, waterfall.ErrInvalidDimensions, false},
		{"zero height", func(out string) []string { return []string{stereo, "8", "0", "0", "1", out} }, waterfall.ErrInvalidDimensions, false},
		{"zero range", func(out string) []string { return []string{stereo, "8", "2", "0", "0", out} }, waterfall.ErrInvalidRange, false},
		{"mono input", func(out string) []string { return []string{mono, "8", "2", "0", "1", out} }, wavheader.ErrUnsupported, false},
		{"missing input", func(out string) []string {
			return []string{filepath.Join(dir, "missing.wav"), "8", "2", "0", "1", out}
		}, waterfall.ErrOpenInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.png")
			var stdout, stderr bytes.Buffer

			err := run(tt.args(out), &stdout, &stderr)
			require.ErrorIs(t, err, tt.wantErr)
			assert.NoFileExists(t, out)
			if tt.wantUsage {
				assert.Contains(t, stderr.String(), "Usage: "+progName)
			} else {
				assert.Empty(t, stderr.String())
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	p := &params{input: "/tmp/a/in.wav", output: "/tmp/b/out.png"}
	stats := &waterfall.Stats{
		Width: 16, Height: 4, SampleRate: 48000, Channels: 2, BitsPerSample: 16,
		FramesRead: 48, PaddedRows: 1, Duration: time.Millisecond,
	}

	var buf bytes.Buffer
	printSummary(&buf, p, stats, 2*time.Millisecond)
	s := buf.String()

	assert.Contains(t, s, "Rendered in.wav -> out.png")
	assert.Contains(t, s, "16x4 pixels from 48000 Hz, 2 channels, 16-bit")
	assert.Contains(t, s, "1 rows padded with silence")
	assert.Contains(t, s, "0.5x realtime")
}

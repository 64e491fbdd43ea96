// Package colormap scales spectrum power to decibels and maps it onto the
// fixed waterfall color table.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

const (
	// Epsilon keeps log10 away from zero for silent bins.
	Epsilon = 1e-15

	// Levels is the number of entries in the color table.
	Levels = 256

	maxLevel   = Levels - 1
	dbScale    = -20.0
	bytesPerPx = 3
)

var (
	// ErrInvalidRange is returned for a zero or non-finite dB range, or a
	// non-finite offset.
	ErrInvalidRange = errors.New("invalid dB range")

	// ErrInvalidWidth is returned for a non-positive transform width.
	ErrInvalidWidth = errors.New("invalid transform width")
)

// DB converts the power of one bin of an unnormalized transform of the
// given width to attenuation in dB: -20*log10(|(power+ε)/width|).
// Stronger bins give smaller (more negative) values.
func DB(power float64, width int) float64 {
	return dbScale * math.Log10(math.Abs((power+Epsilon)/float64(width)))
}

// Intensity maps a dB value onto a table index. offset is the dB value that
// lands on index 0 (black) and rangeDB the span covered by the full table.
// Stronger bins have smaller dB values, so a negative rangeDB draws them
// toward the hot end. The scaled value is truncated toward zero, then
// clamped to [0, 255].
func Intensity(db, offset, rangeDB float64) int {
	v := (db - offset) / rangeDB * maxLevel
	switch {
	case math.IsNaN(v):
		return 0
	case v >= maxLevel:
		return maxLevel
	case v <= 0:
		return 0
	}
	return int(v)
}

// Mapper converts rows of power values into packed RGB pixels.
type Mapper struct {
	width   int
	offset  float64
	rangeDB float64
}

// NewMapper returns a Mapper for spectra of the given transform width.
func NewMapper(width int, offset, rangeDB float64) (*Mapper, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if rangeDB == 0 || math.IsNaN(rangeDB) || math.IsInf(rangeDB, 0) {
		return nil, fmt.Errorf("%w: range %g dB", ErrInvalidRange, rangeDB)
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, fmt.Errorf("%w: offset %g dB", ErrInvalidRange, offset)
	}
	return &Mapper{width: width, offset: offset, rangeDB: rangeDB}, nil
}

// Intensity returns the table index for one power value.
func (m *Mapper) Intensity(power float64) int {
	return Intensity(DB(power, m.width), m.offset, m.rangeDB)
}

// MapRow writes one RGB triple per power value into dst.
// dst must hold at least 3*len(power) bytes.
func (m *Mapper) MapRow(dst []byte, power []float64) {
	if len(power) == 0 {
		return
	}
	_ = dst[bytesPerPx*len(power)-1]
	for i, p := range power {
		c := table[m.Intensity(p)]
		px := dst[i*bytesPerPx : i*bytesPerPx+bytesPerPx]
		px[0], px[1], px[2] = c.R, c.G, c.B
	}
}

// Color returns table entry i. It panics if i is outside [0, 255].
func Color(i int) color.RGBA {
	return table[i]
}

// Table returns a copy of the color table.
func Table() [Levels]color.RGBA {
	return table
}

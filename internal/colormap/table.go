package colormap

import (
	"image/color"
	"math"
)

// anchor pins a color to a table index. Entries between anchors are linearly
// interpolated.
type anchor struct {
	index int
	color color.RGBA
}

// Index 0 is black and index 255 the hottest color. A bin at the offset is
// drawn black and a bin a full range away is drawn white.
var anchors = []anchor{
	{0, color.RGBA{R: 0, G: 0, B: 0, A: 255}},
	{31, color.RGBA{R: 0, G: 0, B: 120, A: 255}},
	{79, color.RGBA{R: 128, G: 0, B: 128, A: 255}},
	{127, color.RGBA{R: 220, G: 20, B: 20, A: 255}},
	{175, color.RGBA{R: 255, G: 140, B: 0, A: 255}},
	{223, color.RGBA{R: 255, G: 255, B: 0, A: 255}},
	{maxLevel, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
}

var table = buildTable(anchors)

func buildTable(points []anchor) [Levels]color.RGBA {
	var t [Levels]color.RGBA
	for i := 0; i < len(points)-1; i++ {
		lo, hi := points[i], points[i+1]
		span := float64(hi.index - lo.index)
		for j := lo.index; j <= hi.index; j++ {
			t[j] = interpolate(lo.color, hi.color, float64(j-lo.index)/span)
		}
	}
	return t
}

func interpolate(c1, c2 color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: clampByte(float64(c1.R) + f*(float64(c2.R)-float64(c1.R))),
		G: clampByte(float64(c1.G) + f*(float64(c2.G)-float64(c1.G))),
		B: clampByte(float64(c1.B) + f*(float64(c2.B)-float64(c1.B))),
		A: 255,
	}
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Package window generates the analysis window applied to every spectrum row.
package window

import "math"

// Blackman-Harris family coefficients used for the waterfall window.
const (
	C0 = 0.44959
	C1 = 0.49364
	C2 = 0.05677
)

const (
	// singleTap is the value of a one-sample window.
	singleTap = 1.0

	twoPi  = 2 * math.Pi
	fourPi = 4 * math.Pi
)

// Cosine generates a symmetric three-term cosine window:
//
//	w[n] = c0 - c1*cos(2πn/M) + c2*cos(4πn/M),  M = length-1
//
// A length of 1 has no defined M and yields a single tap of 1.0.
// Non-positive lengths yield an empty window.
func Cosine(length int, c0, c1, c2 float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	taps := make([]float64, length)

	if length == 1 {
		taps[0] = singleTap
		return taps
	}

	m := float64(length - 1)
	for n := range length {
		x := float64(n)
		taps[n] = c0 - c1*math.Cos(twoPi*x/m) + c2*math.Cos(fourPi*x/m)
	}

	return taps
}

// New returns the waterfall analysis window of the given length.
func New(length int) []float64 {
	return Cosine(length, C0, C1, C2)
}

package epicycle

import (
	"iter"
	"math"
	"math/cmplx"

	Mt "github.com/maroda/epicycle/types"
)

// Chain yields the joints of the epicycle chain at time t,
// one cumulative position per coefficient in drawing order.
// t is the fraction of a full cycle, 0 <= t < 1.
// Nothing is kept between calls so the sequence can be ranged over again.
func Chain(coeffs []Mt.Coefficient, t float64) iter.Seq[Mt.Point] {
	return func(yield func(Mt.Point) bool) {
		var tip complex128
		for _, c := range coeffs {
			tip += Rotate(c, t)
			if !yield(Mt.PointFromC(tip)) {
				return
			}
		}
	}
}

// Rotate returns the bar for c turned to time t.
// It keeps the magnitude of c.Amp and adds 2*pi*Freq*t to its phase.
func Rotate(c Mt.Coefficient, t float64) complex128 {
	r, theta := cmplx.Polar(c.Amp)
	return cmplx.Rect(r, theta+2*math.Pi*float64(c.Freq)*t)
}

// BarChain collects Chain, this is what gets drawn as the bars
func BarChain(coeffs []Mt.Coefficient, t float64) []Mt.Point {
	bars := make([]Mt.Point, 0, len(coeffs))
	for p := range Chain(coeffs, t) {
		bars = append(bars, p)
	}
	return bars
}

// TracePoint is the tip of the chain at t, the point on the reconstructed path.
// An empty coefficient set has its tip at the origin.
func TracePoint(coeffs []Mt.Coefficient, t float64) Mt.Point {
	var tip Mt.Point
	for p := range Chain(coeffs, t) {
		tip = p
	}
	return tip
}

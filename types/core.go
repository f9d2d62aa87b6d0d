package types

/*

	These are the "immutable" core types of Epicycle,
	provided for cross-package use (e.g. Plugins) and testing.

	There are no functions defined here beyond simple conversions.
	Struct constructors are housed in their own packages.

*/

import (
	"fmt"
	"image/color"
	"time"
)

// Point is a single 2D coordinate.
// It is both the raw path input and the vertex handed to a renderer.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// C returns the Point as a complex number, X is real and Y is imaginary
func (p Point) C() complex128 {
	return complex(p.X, p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// PointFromC is the reverse of Point.C
func PointFromC(c complex128) Point {
	return Point{X: real(c), Y: imag(c)}
}

// Coefficient is one rotating vector, or "bar".
// Freq is how many turns it makes per cycle (negative turns clockwise),
// Amp is its magnitude and starting phase.
type Coefficient struct {
	Freq int16
	Amp  complex128
}

// Colour is RGBA in the 0.0 - 1.0 range
type Colour struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// NRGBA converts to the 8-bit colour used by image and plot libraries
func (c Colour) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

func (c Colour) String() string {
	return fmt.Sprintf("%g, %g, %g, %g", c.R, c.G, c.B, c.A)
}

// Frame is everything a renderer needs for one set at one moment.
// Bars is sized to the coefficient count, Trace to the sample count.
type Frame struct {
	Set   string  `json:"set"`
	T     float64 `json:"t"`
	Bars  []Point `json:"bars"`
	Trace []Point `json:"trace"`
}

// TraceRecord is a fully drawn outline, produced once per cycle.
// These are what the output plugins receive.
type TraceRecord struct {
	Set       string    // name of the line in the config
	Session   string    // unique per program run
	Cycle     int       // zero-based cycle count within the session
	Completed time.Time // when the last sample was pushed
	Points    []Point
}

package epicycle

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	Mt "github.com/maroda/epicycle/types"
)

var (
	ErrEmptyPath      = errors.New("path has no points")
	ErrFrequencyRange = errors.New("path needs a frequency outside the int16 range")
	ErrNonFinite      = errors.New("path has a non-finite coordinate")
)

// MaxPathLen is the longest path Transform accepts.
// The fastest bar turns len/2 times per cycle and that has to fit an int16.
const MaxPathLen = 2*math.MaxInt16 + 1

// Normalise scales the path so its larger bounding box side is 1.
// The box always includes the origin, so every coordinate ends up in [-1, 1].
// The path is not re-centred, so the shape keeps its offset from the origin.
// A path collapsed onto the origin is left as it is.
func Normalise(points []Mt.Point) {
	if len(points) == 0 {
		return
	}

	var minX, maxX, minY, maxY float64
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return
	}

	scale := 1 / span
	for i := range points {
		points[i].X *= scale
		points[i].Y *= scale
	}
}

// CheckFinite returns ErrNonFinite naming the first NaN or Inf point
func CheckFinite(points []Mt.Point) error {
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %d is %s", ErrNonFinite, i, p)
		}
	}
	return nil
}

// Frequencies lists the rotation rates used for a path of n points,
// in drawing order: 0, 1, -1, 2, -2, ...
// There are always exactly n of them, for even n the final -n/2 is dropped
// since it lands on the same samples as +n/2.
func Frequencies(n int) ([]int16, error) {
	if n <= 0 {
		return nil, ErrEmptyPath
	}
	if n > MaxPathLen {
		return nil, fmt.Errorf("%w: %d points, max is %d", ErrFrequencyRange, n, MaxPathLen)
	}

	freqs := make([]int16, 0, n+1)
	freqs = append(freqs, 0)
	for k := 1; k <= n/2; k++ {
		freqs = append(freqs, int16(k), int16(-k))
	}

	if len(freqs) > n {
		freqs = freqs[:n]
	}
	return freqs, nil
}

// Transform performs the discrete Fourier decomposition of a closed path.
// The result is one Coefficient per point, ordered as Frequencies.
// Transform does not normalise, call Normalise first if that is wanted.
func Transform(points []Mt.Point) ([]Mt.Coefficient, error) {
	freqs, err := Frequencies(len(points))
	if err != nil {
		return nil, err
	}

	coeffs := make([]Mt.Coefficient, len(freqs))
	for i, k := range freqs {
		coeffs[i] = Mt.Coefficient{
			Freq: k,
			Amp:  coefficient(points, int(k)),
		}
	}
	return coeffs, nil
}

// coefficient is c_k = 1/n * sum(P_i * e^(-j*2*pi*k*i/n)),
// built from each point's polar form: the phase is wound back
// by 2*pi*k*i/n and the rotated vectors are summed.
func coefficient(points []Mt.Point, k int) complex128 {
	n := float64(len(points))

	var sum complex128
	for i, p := range points {
		r, theta := cmplx.Polar(p.C())
		theta -= 2 * math.Pi * float64(k) * float64(i) / n
		sum += cmplx.Rect(r, theta)
	}
	return sum / complex(n, 0)
}

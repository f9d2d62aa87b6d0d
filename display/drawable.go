package epicycle

import (
	"errors"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	Mt "github.com/maroda/epicycle/types"
)

var ErrVertexCount = errors.New("wrong vertex count")

// Drawable is anything the View can put on screen.
// Upload replaces the vertices, Draw renders them to /s/.
type Drawable interface {
	Upload(points []Mt.Point) error
	Draw(s tcell.Screen)
}

// DrawItem is a fixed-size line strip, either the bars or an outline
type DrawItem struct {
	Name   string
	Count  int // vertex count, fixed at creation
	Style  tcell.Style
	Glyph  rune
	points []Mt.Point
}

// NewBar is the strip joining the epicycle chain, one vertex per coefficient
func NewBar(n int, c Mt.Colour, width float32) *DrawItem {
	glyph := '·'
	if width >= 2 {
		glyph = '█'
	}
	return newDrawItem("bars", n, c, glyph)
}

// NewOutline is the traced path, one vertex per sample
func NewOutline(samples int, c Mt.Colour, width float32) *DrawItem {
	glyph := '•'
	if width >= 2 {
		glyph = '●'
	}
	return newDrawItem("outline", samples, c, glyph)
}

func newDrawItem(name string, n int, c Mt.Colour, glyph rune) *DrawItem {
	if n < 0 {
		n = 0
	}
	return &DrawItem{
		Name:   name,
		Count:  n,
		Style:  ColourStyle(c),
		Glyph:  glyph,
		points: make([]Mt.Point, n),
	}
}

// ColourStyle maps an RGBA colour onto a tcell foreground,
// mostly transparent colours are drawn dim
func ColourStyle(c Mt.Colour) tcell.Style {
	rgba := c.NRGBA()
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B)))
	if c.A < 0.5 {
		style = style.Dim(true)
	}
	return style
}

func (d *DrawItem) Upload(points []Mt.Point) error {
	if len(points) != d.Count {
		return fmt.Errorf("%s: %w, want %d got %d", d.Name, ErrVertexCount, d.Count, len(points))
	}
	copy(d.points, points)
	return nil
}

// Draw joins consecutive vertices with straight runs of Glyph
func (d *DrawItem) Draw(s tcell.Screen) {
	w, h := s.Size()
	if len(d.points) == 0 || w == 0 || h == 0 {
		return
	}

	x0, y0 := Project(d.points[0], w, h)
	s.SetContent(x0, y0, d.Glyph, nil, d.Style)
	for _, p := range d.points[1:] {
		x1, y1 := Project(p, w, h)
		d.line(s, x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}

// line is Bresenham between two cells, both ends included
func (d *DrawItem) line(s tcell.Screen, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		s.SetContent(x0, y0, d.Glyph, nil, d.Style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Points returns a copy of the last upload
func (d *DrawItem) Points() []Mt.Point {
	out := make([]Mt.Point, len(d.points))
	copy(out, d.points)
	return out
}

// Project maps [-1, 1] on both axes onto a w by h grid of cells.
// y is flipped so positive y is up. Points outside the square land off screen.
func Project(p Mt.Point, w, h int) (int, int) {
	x := (p.X + 1) / 2 * float64(w-1)
	y := (1 - p.Y) / 2 * float64(h-1)
	return int(math.Round(x)), int(math.Round(y))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

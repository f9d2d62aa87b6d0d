package types_test

import (
	"image/color"
	"testing"

	Mt "github.com/maroda/epicycle/types"
)

func TestPoint(t *testing.T) {
	p := Mt.Point{X: 1.5, Y: -2}

	if p.C() != complex(1.5, -2) {
		t.Errorf("C() = %v", p.C())
	}
	if Mt.PointFromC(p.C()) != p {
		t.Errorf("PointFromC(C()) = %v, want %v", Mt.PointFromC(p.C()), p)
	}
	if p.String() != "(1.5, -2)" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestColour_NRGBA(t *testing.T) {
	tests := []struct {
		name string
		c    Mt.Colour
		want color.NRGBA
	}{
		{"Opaque white", Mt.Colour{R: 1, G: 1, B: 1, A: 1}, color.NRGBA{255, 255, 255, 255}},
		{"Half grey", Mt.Colour{R: 0.5, G: 0.5, B: 0.5, A: 1}, color.NRGBA{128, 128, 128, 255}},
		{"Clamped", Mt.Colour{R: 2, G: -1, B: 0, A: 0}, color.NRGBA{255, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.NRGBA(); got != tt.want {
				t.Errorf("NRGBA() = %v, want %v", got, tt.want)
			}
		})
	}
}

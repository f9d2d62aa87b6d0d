package epicycle_test

import (
	"testing"

	Es "github.com/maroda/epicycle/server"
	Mt "github.com/maroda/epicycle/types"
)

func TestConvertDesmos(t *testing.T) {
	t.Run("Converts a copied point list", func(t *testing.T) {
		in := `\left(0,0\right),\left(2,0\right),\left(2,2\right),\left(0,2\right)`
		got, centre, err := Es.ConvertDesmos(in)
		assertError(t, err, nil)
		assertStringContains(t, got, "(0,0),(2,0),(2,2),(0,2)")
		assertPoint(t, centre, Mt.Point{X: 1, Y: 1})

		points, err := Es.ParsePoints(got)
		assertError(t, err, nil)
		assertInt(t, len(points), 4)
	})

	t.Run("Drops a leading label", func(t *testing.T) {
		in := `A=\left(1.5,-3\right),\left(4,5\right)`
		got, _, err := Es.ConvertDesmos(in)
		assertError(t, err, nil)
		if got != "(1.5,-3),(4,5)" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Errors on empty input", func(t *testing.T) {
		_, _, err := Es.ConvertDesmos("")
		assertError(t, err, Es.ErrEmptyPath)
	})

	t.Run("Errors on garbage", func(t *testing.T) {
		_, _, err := Es.ConvertDesmos(`\left(one,two\right)`)
		assertGotError(t, err)
	})
}

func TestCentroid(t *testing.T) {
	assertPoint(t, Es.Centroid(nil), Mt.Point{})
	assertPoint(t, Es.Centroid([]Mt.Point{{X: -1, Y: 4}, {X: 3, Y: 0}}), Mt.Point{X: 1, Y: 2})
}

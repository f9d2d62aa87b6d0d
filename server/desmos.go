package epicycle

import (
	"fmt"
	"strings"

	Mt "github.com/maroda/epicycle/types"
)

// ConvertDesmos turns a copied Desmos point list,
// e.g. \left(1,2\right),\left(3,4\right), into the config syntax (1,2),(3,4).
// The centroid of the points is returned too, handy for spotting
// a path that sits far from the origin.
func ConvertDesmos(text string) (string, Mt.Point, error) {
	arr := strings.Split(text, `\right),\left(`)

	// Strip anything before the first "(" and after the last "\"
	first := arr[0]
	if i := strings.LastIndex(first, "("); i >= 0 {
		first = first[i+1:]
	}
	arr[0] = first

	last := arr[len(arr)-1]
	if i := strings.Index(last, `\`); i >= 0 {
		last = last[:i]
	}
	arr[len(arr)-1] = last

	var pairs []string
	for _, a := range arr {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		pairs = append(pairs, "("+a+")")
	}

	if len(pairs) == 0 {
		return "", Mt.Point{}, ErrEmptyPath
	}

	out := strings.Join(pairs, ",")
	points, err := ParsePoints(out)
	if err != nil {
		return "", Mt.Point{}, fmt.Errorf("desmos conversion: %w", err)
	}

	return out, Centroid(points), nil
}

// Centroid is the mean of all points, the zero Point for none
func Centroid(points []Mt.Point) Mt.Point {
	var c Mt.Point
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	c.X /= n
	c.Y /= n
	return c
}

package epicycle_test

import (
	"bytes"
	"testing"

	Ed "github.com/maroda/epicycle/display"
	Mt "github.com/maroda/epicycle/types"
)

func TestSpectrumChart(t *testing.T) {
	coeffs := []Mt.Coefficient{
		{Freq: 0, Amp: 1},
		{Freq: 1, Amp: 0.5i},
		{Freq: -1, Amp: -0.25},
	}

	bar := Ed.SpectrumChart("wobble", coeffs)

	var buf bytes.Buffer
	err := bar.Render(&buf)
	assertError(t, err, nil)
	assertStringContains(t, buf.String(), "wobble")
	assertStringContains(t, buf.String(), "3 coefficients")

	t.Run("Does not reorder the caller's coefficients", func(t *testing.T) {
		if coeffs[1].Freq != 1 || coeffs[2].Freq != -1 {
			t.Errorf("coefficients were reordered: %v", coeffs)
		}
	})
}

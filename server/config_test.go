package epicycle_test

import (
	"context"
	"os"
	"strings"
	"testing"

	Es "github.com/maroda/epicycle/server"
	Mt "github.com/maroda/epicycle/types"
)

const testConfig = `{
  "setup": {"bg_colour": "0,0,0,1", "fps": 30, "time": 2, "render": false, "cycle": "freeze"},
  "lines": [
    {"name": "square", "points": "(0,0),(1,0),(1,1),(0,1)", "samples": 40,
     "outline_colour": "1,1,1,1", "outline_width": 1, "bar_colour": "0.5,0.5,1,1", "bar_width": 2},
    {"points": "(0,0), (2,1), (1,3)", "samples": 12,
     "outline_colour": "1,0,0,1", "outline_width": 1, "bar_colour": "0,1,0,1", "bar_width": 1}
  ]
}`

// Temporary OS file to use for testing configurations
func createTempFile(t testing.TB, data string) (*os.File, func()) {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "epicycle")
	if err != nil {
		t.Fatalf("could not create temp file %v", err)
	}

	tmpfile.Write([]byte(data))
	removeFile := func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
	}
	return tmpfile, removeFile
}

func TestLoadConfigFileName(t *testing.T) {
	configFile, delConfig := createTempFile(t, testConfig)
	defer delConfig()
	fileName := configFile.Name()

	t.Run("Loads the setup block", func(t *testing.T) {
		cf, err := Es.LoadConfigFileName(fileName)
		assertError(t, err, nil)
		if *cf.Setup.FPS != 30 || *cf.Setup.Time != 2 || *cf.Setup.Render {
			t.Errorf("setup = %v %v %v, want 30 2 false", *cf.Setup.FPS, *cf.Setup.Time, *cf.Setup.Render)
		}
	})

	t.Run("Names unnamed lines by position", func(t *testing.T) {
		cf, err := Es.LoadConfigFileName(fileName)
		assertError(t, err, nil)
		assertInt(t, len(cf.Lines), 2)
		assertStringContains(t, cf.Lines[0].Name, "square")
		assertStringContains(t, cf.Lines[1].Name, "line1")
	})

	t.Run("Errors with malformed JSON", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, `{"setup": [1, 2}`)
		defer delConfig()

		_, err := Es.LoadConfigFileName(configFile.Name())
		assertGotError(t, err)
	})

	t.Run("Errors with an empty file", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, ``)
		defer delConfig()

		_, err := Es.LoadConfigFileName(configFile.Name())
		assertGotError(t, err)
	})

	t.Run("Errors with missing file", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, ``)
		fileName := configFile.Name()
		delConfig()

		_, err := Es.LoadConfigFileName(fileName)
		assertGotError(t, err)
	})
}

func TestConfigFile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		missing string
	}{
		{"Missing fps", `"fps": 30, `, ``, "fps"},
		{"Missing bg_colour", `"bg_colour": "0,0,0,1", `, ``, "bg_colour"},
		{"Missing render", `, "render": false`, ``, "render"},
		{"Missing points", `"points": "(0,0),(1,0),(1,1),(0,1)", `, ``, "points"},
		{"Missing samples", `"samples": 40,`, ``, "samples"},
		{"Missing bar_width", `, "bar_width": 2`, ``, "bar_width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(testConfig, tt.from, tt.to, 1)
			_, err := Es.LoadConfig(strings.NewReader(data))
			assertError(t, err, Es.ErrMissingKey)
			if err != nil {
				assertStringContains(t, err.Error(), tt.missing)
			}
		})
	}

	t.Run("Missing setup block", func(t *testing.T) {
		_, err := Es.LoadConfig(strings.NewReader(`{"lines": []}`))
		assertError(t, err, Es.ErrMissingKey)
	})

	t.Run("Rejects a zero fps", func(t *testing.T) {
		data := strings.Replace(testConfig, `"fps": 30`, `"fps": 0`, 1)
		_, err := Es.LoadConfig(strings.NewReader(data))
		assertGotError(t, err)
	})

	t.Run("Rejects line names that are paths", func(t *testing.T) {
		for _, name := range []string{"../x", "a/b", `a\\b`, ".."} {
			data := strings.Replace(testConfig, `"name": "square"`, `"name": "`+name+`"`, 1)
			_, err := Es.LoadConfig(strings.NewReader(data))
			assertGotError(t, err)
		}
	})

	t.Run("Rejects an unknown cycle policy", func(t *testing.T) {
		data := strings.Replace(testConfig, `"freeze"`, `"spin"`, 1)
		_, err := Es.LoadConfig(strings.NewReader(data))
		assertGotError(t, err)
	})

	t.Run("Rejects negative samples", func(t *testing.T) {
		data := strings.Replace(testConfig, `"samples": 12`, `"samples": -2`, 1)
		_, err := Es.LoadConfig(strings.NewReader(data))
		assertGotError(t, err)
	})
}

func TestParsePoints(t *testing.T) {
	t.Run("Reads the point syntax", func(t *testing.T) {
		got, err := Es.ParsePoints("(0,0),(1.5,-2),(3e2,4)")
		assertError(t, err, nil)
		assertPoints(t, got, []Mt.Point{{X: 0, Y: 0}, {X: 1.5, Y: -2}, {X: 300, Y: 4}})
	})

	t.Run("Ignores whitespace", func(t *testing.T) {
		got, err := Es.ParsePoints(" (0, 0), (1, 2) ")
		assertError(t, err, nil)
		assertPoints(t, got, []Mt.Point{{X: 0, Y: 0}, {X: 1, Y: 2}})
	})

	t.Run("Reads a single point", func(t *testing.T) {
		got, err := Es.ParsePoints("(4,5)")
		assertError(t, err, nil)
		assertPoints(t, got, []Mt.Point{{X: 4, Y: 5}})
	})

	bad := []string{"", "(1)", "(1,2,3)", "(a,b)", "(1,2),(3,x)", "(NaN,0)", "(Inf,1)", "(0,0),(1,+Inf)", "(-inf,2)"}
	for _, b := range bad {
		_, err := Es.ParsePoints(b)
		if err == nil {
			t.Errorf("ParsePoints(%q) should fail", b)
		}
	}
}

func TestParsePoints_NonFinite(t *testing.T) {
	_, err := Es.ParsePoints("(NaN,0),(1,1),(0,1)")
	assertError(t, err, Es.ErrNonFinite)
	assertStringContains(t, err.Error(), "NaN,0")
}

func TestParseColour(t *testing.T) {
	t.Run("Reads four components", func(t *testing.T) {
		got, err := Es.ParseColour("1, 0.5, 0.25, 1")
		assertError(t, err, nil)
		if got != (Mt.Colour{R: 1, G: 0.5, B: 0.25, A: 1}) {
			t.Errorf("ParseColour = %v", got)
		}
	})

	t.Run("Errors on the wrong count", func(t *testing.T) {
		_, err := Es.ParseColour("1,1,1")
		assertGotError(t, err)
	})

	t.Run("Errors on a bad number", func(t *testing.T) {
		_, err := Es.ParseColour("1,1,one,1")
		assertGotError(t, err)
	})
}

func TestNewFourierSetsFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("Builds one set per line", func(t *testing.T) {
		cf, err := Es.LoadConfig(strings.NewReader(testConfig))
		assertError(t, err, nil)

		var got []*Mt.TraceRecord
		sets, err := Es.NewFourierSetsFromConfig(ctx, cf, "sess", func(r *Mt.TraceRecord) { got = append(got, r) })
		assertError(t, err, nil)
		assertInt(t, len(sets), 2)

		sq := sets[0]
		assertInt(t, sq.N, 4)
		assertInt(t, sq.Outline.Size, 40)
		if sq.Policy != Es.CycleFreeze {
			t.Errorf("Policy = %v, want freeze", sq.Policy)
		}
		if sq.BarWidth != 2 || sq.BarColour.B != 1 {
			t.Errorf("bar presentation = %v %v", sq.BarWidth, sq.BarColour)
		}

		sq.Frame(1)
		assertInt(t, len(got), 1)
		assertStringContains(t, got[0].Session, "sess")
	})

	t.Run("A bad line aborts setup and is named", func(t *testing.T) {
		data := strings.Replace(testConfig, `"(0,0), (2,1), (1,3)"`, `"(0,0),(2,oops)"`, 1)
		cf, err := Es.LoadConfig(strings.NewReader(data))
		assertError(t, err, nil)

		sets, err := Es.NewFourierSetsFromConfig(ctx, cf, "sess", nil)
		assertGotError(t, err)
		if sets != nil {
			t.Errorf("expected no sets, got %d", len(sets))
		}
		assertStringContains(t, err.Error(), "line1")
	})

	t.Run("A bad colour aborts setup", func(t *testing.T) {
		data := strings.Replace(testConfig, `"1,0,0,1"`, `"red"`, 1)
		cf, err := Es.LoadConfig(strings.NewReader(data))
		assertError(t, err, nil)

		_, err = Es.NewFourierSetsFromConfig(ctx, cf, "sess", nil)
		assertGotError(t, err)
	})

	t.Run("Builds a clock from setup", func(t *testing.T) {
		cf, err := Es.LoadConfig(strings.NewReader(testConfig))
		assertError(t, err, nil)
		c := Es.NewClockFromConfig(cf)
		if c.Step != 1.0/60 {
			t.Errorf("Step = %g, want %g", c.Step, 1.0/60)
		}
	})
}

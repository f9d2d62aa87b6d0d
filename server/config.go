package epicycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	Mt "github.com/maroda/epicycle/types"
)

var ErrMissingKey = errors.New("unable to find key")

// ConfigFile is the whole on-disk config: one setup block and any number of lines.
// Required keys are pointers so a missing key can be told apart from a zero value.
type ConfigFile struct {
	Setup *SetupConfig  `json:"setup"`
	Lines []*LineConfig `json:"lines"`
}

type SetupConfig struct {
	BgColour *string  `json:"bg_colour"`
	FPS      *float64 `json:"fps"`
	Time     *float64 `json:"time"`   // seconds per cycle
	Render   *bool    `json:"render"` // skip frame pacing
	Cycle    string   `json:"cycle"`  // "reset" (default) or "freeze"
}

type LineConfig struct {
	Name          string   `json:"name"`
	Points        *string  `json:"points"` // "(x,y),(x,y),..."
	Samples       *int     `json:"samples"`
	OutlineColour *string  `json:"outline_colour"`
	OutlineWidth  *float32 `json:"outline_width"`
	BarColour     *string  `json:"bar_colour"`
	BarWidth      *float32 `json:"bar_width"`
}

// LoadConfigFileName pulls a given filename config off local disk
// Validation is performed on the file before opening
func LoadConfigFileName(filename string) (*ConfigFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// validation
	err = validateLoad(file)
	if err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return nil, err
	}

	return LoadConfig(file)
}

func validateLoad(file *os.File) error {
	// validate file
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	// validate size
	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

// LoadConfig decodes and validates JSON config from any reader
func LoadConfig(r io.Reader) (*ConfigFile, error) {
	var config ConfigFile
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&config); err != nil {
		slog.Error("could not decode config", slog.Any("Error", err))
		return nil, err
	}

	if err := config.Validate(); err != nil {
		slog.Error("invalid config", slog.Any("Error", err))
		return nil, err
	}

	return &config, nil
}

// Validate checks every required key is present and usable.
// Points and colours are parsed later when the sets are built.
func (cf *ConfigFile) Validate() error {
	s := cf.Setup
	if s == nil {
		return fmt.Errorf("%w setup", ErrMissingKey)
	}

	switch {
	case s.BgColour == nil:
		return fmt.Errorf("%w bg_colour", ErrMissingKey)
	case s.FPS == nil:
		return fmt.Errorf("%w fps", ErrMissingKey)
	case s.Time == nil:
		return fmt.Errorf("%w time", ErrMissingKey)
	case s.Render == nil:
		return fmt.Errorf("%w render", ErrMissingKey)
	}

	if *s.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %g", *s.FPS)
	}
	if *s.Time <= 0 {
		return fmt.Errorf("time must be positive, got %g", *s.Time)
	}
	if _, err := ParseCyclePolicy(s.Cycle); err != nil {
		return err
	}

	for i, l := range cf.Lines {
		if l == nil {
			return fmt.Errorf("line %d is null", i)
		}
		if l.Name == "" {
			l.Name = fmt.Sprintf("line%d", i)
		}
		if strings.ContainsAny(l.Name, `/\`) || l.Name == "." || l.Name == ".." {
			return fmt.Errorf("line %d: name %q must not be a path", i, l.Name)
		}

		var missing string
		switch {
		case l.Points == nil:
			missing = "points"
		case l.Samples == nil:
			missing = "samples"
		case l.OutlineColour == nil:
			missing = "outline_colour"
		case l.OutlineWidth == nil:
			missing = "outline_width"
		case l.BarColour == nil:
			missing = "bar_colour"
		case l.BarWidth == nil:
			missing = "bar_width"
		}
		if missing != "" {
			return fmt.Errorf("line %s: %w %s", l.Name, ErrMissingKey, missing)
		}

		if *l.Samples < 0 {
			return fmt.Errorf("line %s: samples must not be negative, got %d", l.Name, *l.Samples)
		}
	}

	return nil
}

// ParseCyclePolicy reads the setup "cycle" key
func ParseCyclePolicy(s string) (CyclePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reset":
		return CycleReset, nil
	case "freeze":
		return CycleFreeze, nil
	default:
		return CycleReset, fmt.Errorf("unknown cycle policy: %q", s)
	}
}

// ParsePoints reads the "(x,y),(x,y)" point syntax
func ParsePoints(s string) ([]Mt.Point, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, ErrEmptyPath
	}

	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	var points []Mt.Point
	for _, pair := range strings.Split(s, "),(") {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("error parsing point from %q", pair)
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing point from %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing point from %q: %w", pair, err)
		}
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("error parsing point from %q: %w", pair, ErrNonFinite)
		}

		points = append(points, Mt.Point{X: x, Y: y})
	}

	return points, nil
}

// ParseColour reads "r,g,b,a", each a float from 0 to 1
func ParseColour(s string) (Mt.Colour, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Mt.Colour{}, fmt.Errorf("colour %q needs 4 values, got %d", s, len(parts))
	}

	var val [4]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Mt.Colour{}, fmt.Errorf("error parsing colour %q: %w", s, err)
		}
		val[i] = float32(f)
	}

	return Mt.Colour{R: val[0], G: val[1], B: val[2], A: val[3]}, nil
}

// NewFourierSetsFromConfig returns a FourierSet for every config line.
// Any bad line aborts the whole setup, nothing is drawn from a half-built config.
func NewFourierSetsFromConfig(ctx context.Context, cf *ConfigFile, session string, onComplete func(*Mt.TraceRecord)) ([]*FourierSet, error) {
	if err := cf.Validate(); err != nil {
		return nil, err
	}

	policy, _ := ParseCyclePolicy(cf.Setup.Cycle)

	var sets []*FourierSet
	for _, l := range cf.Lines {
		points, err := ParsePoints(*l.Points)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l.Name, err)
		}
		outlineColour, err := ParseColour(*l.OutlineColour)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l.Name, err)
		}
		barColour, err := ParseColour(*l.BarColour)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l.Name, err)
		}

		fs, err := NewFourierSet(ctx, l.Name, points, *l.Samples)
		if err != nil {
			return nil, err
		}
		fs.Session = session
		fs.Policy = policy
		fs.OutlineColour = outlineColour
		fs.OutlineWidth = *l.OutlineWidth
		fs.BarColour = barColour
		fs.BarWidth = *l.BarWidth
		fs.OnComplete = onComplete

		slog.Info("Loaded line",
			slog.String("set", fs.Name),
			slog.Int("points", fs.N),
			slog.Int("samples", fs.Outline.Size))
		sets = append(sets, fs)
	}

	return sets, nil
}

// NewClockFromConfig builds the frame clock from the setup block
func NewClockFromConfig(cf *ConfigFile) *Clock {
	return NewClock(*cf.Setup.FPS, *cf.Setup.Time, *cf.Setup.Render)
}

package epicycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	Mt "github.com/maroda/epicycle/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CyclePolicy decides what happens to the outline when t wraps back to 0
type CyclePolicy int

const (
	CycleReset  CyclePolicy = iota // Start a new outline each cycle
	CycleFreeze                    // Keep the first complete outline on screen
)

// SetState is where a FourierSet is within one cycle
type SetState int

const (
	Idle      SetState = iota // nothing traced yet
	Advancing                 // outline partially drawn
	Complete                  // outline fully drawn
)

func (s SetState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Advancing:
		return "advancing"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// FourierSet is one animated line: its bars, its outline, and playback state.
// Nothing is shared between sets.
type FourierSet struct {
	Name    string
	Session string
	N       int              // number of points in the source path, also the bar count
	Bars    []Mt.Coefficient // rotating vectors in drawing order
	Outline *OutlineBuffer   // traced path for the current cycle
	Policy  CyclePolicy

	OutlineColour Mt.Colour
	OutlineWidth  float32
	BarColour     Mt.Colour
	BarWidth      float32

	// OnComplete receives each fully traced outline, once per cycle
	OnComplete func(rec *Mt.TraceRecord)

	lastT float64
	cycle int
}

// NewFourierSet normalises a copy of points, decomposes it,
// and allocates an outline of /samples/ points.
func NewFourierSet(ctx context.Context, name string, points []Mt.Point, samples int) (*FourierSet, error) {
	_, span := otel.Tracer("epicycle").Start(ctx, "NewFourierSet")
	defer span.End()
	span.SetAttributes(
		attribute.String("set", name),
		attribute.Int("points", len(points)),
		attribute.Int("samples", samples),
	)

	if samples < 0 {
		err := fmt.Errorf("line %s: samples must not be negative, got %d", name, samples)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := CheckFinite(points); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("line %s: %w", name, err)
	}

	path := make([]Mt.Point, len(points))
	copy(path, points)
	Normalise(path)

	bars, err := Transform(path)
	if err != nil {
		slog.Error("Could not decompose path", slog.String("set", name), slog.Any("Error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("line %s: %w", name, err)
	}

	return &FourierSet{
		Name:    name,
		N:       len(path),
		Bars:    bars,
		Outline: NewOutlineBuffer(samples),
	}, nil
}

// Frame advances the set to cycle time t and returns what to draw.
// The bars are always computed fresh for t. The outline catches up
// to t in steps of 1/samples, so skipped frames leave no gaps.
func (fs *FourierSet) Frame(t float64) Mt.Frame {
	if t < fs.lastT {
		fs.wrap()
	}
	fs.lastT = t

	bars := BarChain(fs.Bars, t)

	filled := false
	for fs.Outline.HasCapacity() && fs.Outline.PercentFull() < t {
		fs.Outline.Push(TracePoint(fs.Bars, fs.Outline.PercentFull()))
		filled = true
	}
	if filled && !fs.Outline.HasCapacity() {
		fs.complete()
	}

	return Mt.Frame{
		Set:   fs.Name,
		T:     t,
		Bars:  bars,
		Trace: fs.Outline.ReadPadded(),
	}
}

// State reports where the set is within its cycle
func (fs *FourierSet) State() SetState {
	switch {
	case fs.Outline.Cursor == 0:
		return Idle
	case fs.Outline.HasCapacity():
		return Advancing
	default:
		return Complete
	}
}

// Cycle is the number of wraps seen so far
func (fs *FourierSet) Cycle() int {
	return fs.cycle
}

// Restart clears the outline regardless of policy, used for a manual reset
func (fs *FourierSet) Restart() {
	fs.Outline.Reset()
	fs.lastT = 0
}

func (fs *FourierSet) wrap() {
	fs.cycle++
	if fs.Policy == CycleReset {
		fs.Outline.Reset()
	}
	slog.Debug("Cycle wrapped",
		slog.String("set", fs.Name),
		slog.Int("cycle", fs.cycle),
		slog.String("state", fs.State().String()))
}

func (fs *FourierSet) complete() {
	if fs.OnComplete == nil {
		return
	}
	fs.OnComplete(&Mt.TraceRecord{
		Set:       fs.Name,
		Session:   fs.Session,
		Cycle:     fs.cycle,
		Completed: time.Now(),
		Points:    fs.Outline.ReadPadded(),
	})
}

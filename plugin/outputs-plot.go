package plugin

/*
	PlotOutput

	Writes every completed outline as a PNG using gonum/plot,
	one file per set per cycle: <dir>/<set>-<cycle>.png

	TracePlot is also used by the web display to render live frames.
*/

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	Mt "github.com/maroda/epicycle/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const plotSize = 6 * vg.Inch

type PlotOutput struct {
	MU        sync.Mutex
	Dir       string
	BatchSize int
	Buffer    []*Mt.TraceRecord
	Written   []*Mt.TraceRecord // everything saved so far, for QueryRange
	Colour    color.Color
}

func NewPlotOutput(dir string, batchSize int) (*PlotOutput, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("PlotOutput could not create directory", slog.String("dir", dir), slog.Any("error", err))
		return nil, fmt.Errorf("plot directory error: %w", err)
	}

	slog.Info("PlotOutput opened",
		slog.String("dir", dir),
		slog.Int("batchSize", batchSize))

	return &PlotOutput{
		Dir:       dir,
		BatchSize: batchSize,
		Buffer:    make([]*Mt.TraceRecord, 0, batchSize),
		Colour:    color.Black,
	}, nil
}

func (po *PlotOutput) WriteTrace(rec *Mt.TraceRecord) error {
	po.MU.Lock()
	defer po.MU.Unlock()

	po.Buffer = append(po.Buffer, rec)
	if len(po.Buffer) >= po.BatchSize {
		return po.flushLocked()
	}
	return nil
}

// WriteBatch saves one PNG per record
func (po *PlotOutput) WriteBatch(recs []*Mt.TraceRecord) error {
	for _, r := range recs {
		p, err := TracePlot(r.Set, closeTrace(r.Points), nil, po.Colour, nil)
		if err != nil {
			return fmt.Errorf("plot error: %w", err)
		}

		file := po.FileName(r)
		if err := p.Save(plotSize, plotSize, file); err != nil {
			slog.Error("PlotOutput failed to save", slog.String("file", file), slog.Any("error", err))
			return fmt.Errorf("plot save error: %w", err)
		}
		slog.Debug("PlotOutput saved trace", slog.String("file", file))
	}
	return nil
}

// FileName is where a record's PNG is written, always directly inside Dir
func (po *PlotOutput) FileName(rec *Mt.TraceRecord) string {
	return filepath.Join(po.Dir, filepath.Base(fmt.Sprintf("%s-%d.png", rec.Set, rec.Cycle)))
}

func (po *PlotOutput) Flush() error {
	po.MU.Lock()
	defer po.MU.Unlock()

	if len(po.Buffer) == 0 {
		return nil
	}
	return po.flushLocked()
}

func (po *PlotOutput) flushLocked() error {
	err := po.WriteBatch(po.Buffer)
	if err == nil {
		po.Written = append(po.Written, po.Buffer...)
	}
	po.Buffer = po.Buffer[:0]
	return err
}

// QueryRange lists the traces saved so far completed in [start, end)
func (po *PlotOutput) QueryRange(start, end time.Time) ([]*Mt.TraceRecord, error) {
	po.MU.Lock()
	defer po.MU.Unlock()

	var recs []*Mt.TraceRecord
	for _, r := range po.Written {
		if !r.Completed.Before(start) && r.Completed.Before(end) {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

func (po *PlotOutput) Close() error {
	po.MU.Lock()
	pending := len(po.Buffer)
	po.MU.Unlock()

	slog.Info("PlotOutput closing, flushing buffer", slog.Int("bufferSize", pending))
	return po.Flush()
}

func (po *PlotOutput) Type() string { return "Plot" }

// TracePlot draws a trace, and optionally the bar chain, on square axes.
// The bar chain is drawn from the origin.
func TracePlot(title string, trace, bars []Mt.Point, traceColour, barColour color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if traceColour == nil {
		traceColour = color.Black
	}
	if len(trace) > 0 {
		line, err := plotter.NewLine(toXYs(trace))
		if err != nil {
			return nil, err
		}
		line.Color = traceColour
		line.Width = vg.Points(1)
		p.Add(line)
	}

	if len(bars) > 0 {
		// the chain starts at the origin
		xys := append(plotter.XYs{{X: 0, Y: 0}}, toXYs(bars)...)
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		if barColour == nil {
			barColour = color.Gray{Y: 128}
		}
		line.Color = barColour
		line.Width = vg.Points(0.5)
		p.Add(line)
	}

	squareAxes(p)
	return p, nil
}

// closeTrace joins a finished outline back to its start
func closeTrace(points []Mt.Point) []Mt.Point {
	if len(points) == 0 {
		return points
	}
	out := make([]Mt.Point, 0, len(points)+1)
	out = append(out, points...)
	return append(out, points[0])
}

func toXYs(points []Mt.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

// squareAxes gives both axes the same range so circles stay round
func squareAxes(p *plot.Plot) {
	lo := min(p.X.Min, p.Y.Min)
	hi := max(p.X.Max, p.Y.Max)
	switch {
	case math.IsInf(lo, 0) || math.IsInf(hi, 0):
		lo, hi = -1, 1 // nothing plotted
	case lo == hi:
		lo, hi = lo-1, hi+1
	}
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = lo, hi
}

package epicycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	Eo "github.com/maroda/epicycle/obvy"
	Ep "github.com/maroda/epicycle/plugin"
	Es "github.com/maroda/epicycle/server"
	Mt "github.com/maroda/epicycle/types"
)

// Render mode has no frame pacing, this is the floor for the ticker
const renderInterval = time.Millisecond

const shutdownTimeout = 5 * time.Second

// View draws every FourierSet and keeps the latest frames for the web mirror
type View struct {
	MU         sync.Mutex          // State locks to read data
	Sets       []*Es.FourierSet    // one per config line
	Clock      *Es.Clock           // cycle time source
	Screen     tcell.Screen        // the screen itself, nil for web only
	Stats      *Eo.StatsInternal   // Internal status for prometheus
	Output     Ep.OutputAdapter    // optional home for completed traces
	Supervisor *PlaybackSupervisor // runs the clock when there is no TUI
	Session    string              // unique per run, stamped on every TraceRecord
	Background tcell.Color
	Paused     bool
	server     *http.Server
	items      map[string]*setItems
	frames     []Mt.Frame
	pending    []*Mt.TraceRecord // completed outlines waiting for Output
}

// setItems are the two primitives drawn for one set
type setItems struct {
	bars    *DrawItem
	outline *DrawItem
}

// NewView wraps already built sets. The screen may be nil.
func NewView(sets []*Es.FourierSet, clock *Es.Clock, screen tcell.Screen) (*View, error) {
	if len(sets) == 0 {
		slog.Error("Could not get any lines for display")
		return nil, errors.New("no lines to draw")
	}
	if clock == nil {
		return nil, errors.New("no clock")
	}

	view := &View{
		Sets:       sets,
		Clock:      clock,
		Screen:     screen,
		Stats:      Eo.NewStatsInternal(),
		Background: tcell.ColorBlack,
	}
	view.makeItems()

	return view, nil
}

// NewViewFromConfig builds the sets from config and wires
// their completion hook to the stats and the output plugin
func NewViewFromConfig(ctx context.Context, cf *Es.ConfigFile, session string, output Ep.OutputAdapter, screen tcell.Screen) (*View, error) {
	// The sets need the hook before the view exists
	view := &View{
		Stats:   Eo.NewStatsInternal(),
		Output:  output,
		Session: session,
		Screen:  screen,
	}

	sets, err := Es.NewFourierSetsFromConfig(ctx, cf, session, view.RecordTrace)
	if err != nil {
		slog.Error("Failed to init lines", slog.Any("Error", err))
		return nil, err
	}
	if len(sets) == 0 {
		return nil, errors.New("no lines to draw")
	}

	bg, err := Es.ParseColour(*cf.Setup.BgColour)
	if err != nil {
		return nil, fmt.Errorf("bg_colour: %w", err)
	}
	rgba := bg.NRGBA()

	view.Sets = sets
	view.Clock = Es.NewClockFromConfig(cf)
	view.Background = tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
	view.makeItems()

	return view, nil
}

// makeItems allocates the primitives, called whenever Sets changes
func (v *View) makeItems() {
	v.items = make(map[string]*setItems, len(v.Sets))
	for _, fs := range v.Sets {
		v.items[fs.Name] = &setItems{
			bars:    NewBar(len(fs.Bars), fs.BarColour, fs.BarWidth),
			outline: NewOutline(fs.Outline.Size, fs.OutlineColour, fs.OutlineWidth),
		}
	}
	v.frames = nil
}

// Step advances the clock one tick (unless paused),
// moves every set to the new time and uploads the results.
// Outlines completed during the step are written after MU is released.
func (v *View) Step() []Mt.Frame {
	frames, done := v.step()
	v.writeTraces(done)
	return frames
}

func (v *View) step() ([]Mt.Frame, []*Mt.TraceRecord) {
	v.MU.Lock()
	defer v.MU.Unlock()

	start := time.Now()

	t := v.Clock.T
	if !v.Paused {
		t = v.Clock.Tick()
	}

	frames := make([]Mt.Frame, 0, len(v.Sets))
	for _, fs := range v.Sets {
		f := fs.Frame(t)
		frames = append(frames, f)
		v.Stats.RecTraceFill(fs.Name, fs.Outline.PercentFull())

		items, ok := v.items[fs.Name]
		if !ok {
			continue
		}
		if err := items.bars.Upload(f.Bars); err != nil {
			slog.Error("Could not upload bars", slog.String("set", fs.Name), slog.Any("Error", err))
		}
		if err := items.outline.Upload(f.Trace); err != nil {
			slog.Error("Could not upload outline", slog.String("set", fs.Name), slog.Any("Error", err))
		}
	}
	v.frames = frames

	v.Stats.RecFrameTimer(time.Since(start).Seconds())

	done := v.pending
	v.pending = nil
	return frames, done
}

// Frames is a copy of what the last Step produced
func (v *View) Frames() []Mt.Frame {
	v.MU.Lock()
	defer v.MU.Unlock()

	out := make([]Mt.Frame, len(v.frames))
	copy(out, v.frames)
	return out
}

// RecordTrace is the completion hook handed to every FourierSet.
// It runs inside Step with MU already held, so it only queues the record.
func (v *View) RecordTrace(rec *Mt.TraceRecord) {
	v.Stats.RecCycle(rec.Set)
	slog.Debug("Outline complete",
		slog.String("set", rec.Set),
		slog.Int("cycle", rec.Cycle))

	if v.Output != nil {
		v.pending = append(v.pending, rec)
	}
}

// writeTraces hands queued records to Output, called without MU.
// Output failures are only logged, playback carries on.
func (v *View) writeTraces(recs []*Mt.TraceRecord) {
	for _, rec := range recs {
		err := v.Output.WriteTrace(rec)
		v.Stats.RecTraceWrite(v.Output.Type(), err)
		if err != nil {
			slog.Error("Could not write trace",
				slog.String("output", v.Output.Type()),
				slog.String("set", rec.Set),
				slog.Any("Error", err))
		}
	}
}

// Restart puts the clock and every outline back to the beginning
func (v *View) Restart() {
	v.MU.Lock()
	defer v.MU.Unlock()

	v.Clock.Reset()
	for _, fs := range v.Sets {
		fs.Restart()
	}
	slog.Info("Restarted all lines")
}

func (v *View) TogglePause() {
	v.MU.Lock()
	defer v.MU.Unlock()
	v.Paused = !v.Paused
}

// DrawText displays the text string at the given (x1, y1) with box size (x2, y2)
func (v *View) DrawText(x1, y1, x2, y2 int, text string) {
	row := y1
	col := x1
	style := tcell.StyleDefault.Background(v.Background).Foreground(tcell.ColorLightSteelBlue)
	for _, r := range text {
		v.Screen.SetContent(col, row, r, nil, style)
		col++
		if col >= x2 {
			row++
			col = x1
		}
		if row > y2 {
			break
		}
	}
}

// DrawViewBorder displays the outline of the View
func (v *View) DrawViewBorder(width, height int) {
	hvStyle := tcell.StyleDefault.Background(v.Background).Foreground(tcell.ColorPink)
	v.Screen.SetContent(0, 0, tcell.RuneULCorner, nil, hvStyle)
	v.Screen.SetContent(width, 0, tcell.RuneURCorner, nil, hvStyle)
	v.Screen.SetContent(0, height, tcell.RuneLLCorner, nil, hvStyle)
	v.Screen.SetContent(width, height, tcell.RuneLRCorner, nil, hvStyle)

	for i := 1; i < width; i++ {
		v.Screen.SetContent(i, 0, tcell.RuneHLine, nil, hvStyle)
		v.Screen.SetContent(i, height, tcell.RuneHLine, nil, hvStyle)
	}
	for i := 1; i < height; i++ {
		v.Screen.SetContent(0, i, tcell.RuneVLine, nil, hvStyle)
		v.Screen.SetContent(width, i, tcell.RuneVLine, nil, hvStyle)
	}
}

// DrawEpicycles draws every set, outlines first so the bars sit on top
func (v *View) DrawEpicycles() {
	width, height := v.GetScreenSize()

	v.MU.Lock()
	defer v.MU.Unlock()

	v.Screen.Fill(' ', tcell.StyleDefault.Background(v.Background))
	for _, fs := range v.Sets {
		if items, ok := v.items[fs.Name]; ok {
			items.outline.Draw(v.Screen)
			items.bars.Draw(v.Screen)
		}
	}

	v.DrawViewBorder(width-1, height-1)

	status := fmt.Sprintf("t=%.3f", v.Clock.T)
	if v.Paused {
		status += " PAUSED"
	}
	v.DrawText(2, 0, width-2, 0, status)
	v.DrawText(1, height-1, width, height, "/space/ pause | /r/ restart | /ESC/ quit")
	v.DrawText(width-10, height-1, width, height, "EPICYCLE")
}

// exit stops the web endpoint and releases the terminal.
// The output is left open, its owner closes it.
func (v *View) exit() {
	if v.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := v.server.Shutdown(ctx); err != nil {
			slog.Error("Could not stop web endpoint", slog.Any("Error", err))
		}
	}
	if v.Screen != nil {
		v.Screen.Fini()
	}
}

// HandleKey acts on one key press, returning true when it asks to quit
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}

	switch ev.Rune() {
	case ' ':
		v.TogglePause()
	case 'r':
		v.Restart()
	}
	return false
}

// Running Loop to handle events, returns when a key asks to quit
// or the screen goes away
func (v *View) handleKeyBoardEvent() {
	for {
		ev := v.Screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			v.ResizeScreen()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return
			}
		}
	}
}

// GetScreenSize provides the terminal size for drawing
func (v *View) GetScreenSize() (int, int) {
	width, height := v.Screen.Size()
	return width, height
}

// ResizeScreen redraws after terminal changes
func (v *View) ResizeScreen() {
	v.Screen.Sync()
	v.UpdateScreen()
}

func (v *View) UpdateScreen() {
	if v.Screen == nil {
		return
	}
	v.Screen.Clear()
	v.DrawEpicycles()
	v.Screen.Show()
}

// interval is the ticker period for the frame loop
func (v *View) interval() time.Duration {
	if i := v.Clock.Interval(); i > 0 {
		return i
	}
	return renderInterval
}

// run is the frame loop, one Step and one redraw per tick until stop closes
func (v *View) run(stop <-chan struct{}) {
	// Panic recovery and logging
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in run loop", slog.Any("panic", r))
			slog.Error("Recovered from panic", slog.String("stack", string(debug.Stack())))
		}
	}()

	slog.Info("Starting Epicycle view", slog.Int("lines", len(v.Sets)), slog.Duration("interval", v.interval()))
	ticker := time.NewTicker(v.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			v.Step()
			v.UpdateScreen()
		case <-stop:
			return
		}
	}
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)
		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}

// NewScreen creates and initializes the terminal
func NewScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		slog.Error("Could not get new screen", slog.Any("Error", err))
		return nil, err
	}
	if err := s.Init(); err != nil {
		slog.Error("Could not initialize screen", slog.Any("Error", err))
		return nil, err
	}

	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorPink))
	s.Clear()
	return s, nil
}

func (v *View) startServer(addr string) {
	v.server = &http.Server{
		Addr:    addr,
		Handler: v.SetupMux(),
	}
}

// StartEpicycleView is called by main to run the program.
// This also starts up the web endpoints on /addr/.
func StartEpicycleView(ctx context.Context, cf *Es.ConfigFile, session string, output Ep.OutputAdapter, addr string) error {
	screen, err := NewScreen()
	if err != nil {
		return err
	}

	view, err := NewViewFromConfig(ctx, cf, session, output, screen)
	if err != nil {
		screen.Fini()
		slog.Error("Could not start Epicycle view", slog.Any("Error", err))
		return err
	}
	view.startServer(addr)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		view.run(stop)
	}()

	go func() {
		slog.Info("Starting Epicycle web endpoint...", slog.String("Port", addr))
		if err := view.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not start web endpoint", slog.Any("Error", err))
		}
	}()

	view.handleKeyBoardEvent()
	slog.Info("Quit requested, stopping Epicycle view")

	close(stop)
	<-done
	view.exit()

	return nil
}

// StartWebNoTUI runs the playback loop under a supervisor and serves the web mirror.
// It blocks until the server stops.
func StartWebNoTUI(ctx context.Context, cf *Es.ConfigFile, session string, output Ep.OutputAdapter, addr string) error {
	view, err := NewViewFromConfig(ctx, cf, session, output, nil)
	if err != nil {
		return err
	}
	view.startServer(addr)

	ps := view.NewPlaybackSupervisor()
	ps.Start()
	defer ps.Stop()

	slog.Info("Starting Epicycle web server...", slog.String("Port", addr))
	if err := view.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Could not start web endpoint", slog.Any("Error", err))
		return err
	}

	return nil
}

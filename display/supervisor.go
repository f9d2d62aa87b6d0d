package epicycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	Es "github.com/maroda/epicycle/server"
)

// PlaybackSupervisor drives the frame clock when there is no terminal loop
type PlaybackSupervisor struct {
	View     *View
	Ticker   *time.Ticker
	StopChan chan struct{}
	WG       sync.WaitGroup
}

// NewPlaybackSupervisor is a wrapper around the View that manages the playback goroutine
// They are strongly coupled, one knows about the other
func (v *View) NewPlaybackSupervisor() *PlaybackSupervisor {
	ps := &PlaybackSupervisor{
		View: v,
	}
	v.Supervisor = ps
	return ps
}

// ReloadConfig swaps in new lines and a new clock.
// On error the running sets are left untouched.
func (v *View) ReloadConfig(ctx context.Context, cf *Es.ConfigFile) error {
	sets, err := Es.NewFourierSetsFromConfig(ctx, cf, v.Session, v.RecordTrace)
	if err != nil {
		slog.Error("Reload failed, keeping current lines", slog.Any("Error", err))
		return err
	}
	if len(sets) == 0 {
		return errors.New("no lines to draw")
	}

	if v.Supervisor != nil {
		v.Supervisor.Stop()
	}

	v.MU.Lock()
	v.Sets = sets
	v.Clock = Es.NewClockFromConfig(cf)
	v.makeItems()
	v.MU.Unlock()
	slog.Info("Reloaded config", slog.Int("lines", len(sets)))

	if v.Supervisor != nil {
		v.Supervisor.Start()
	}
	return nil
}

// Start the PlaybackSupervisor
func (p *PlaybackSupervisor) Start() {
	p.StopChan = make(chan struct{})
	p.Ticker = time.NewTicker(p.View.interval())

	p.WG.Add(1)
	go func() {
		defer p.WG.Done()
		defer p.Ticker.Stop()

		for {
			select {
			case <-p.Ticker.C:
				p.View.Step()
				p.View.UpdateScreen()
			case <-p.StopChan:
				return
			}
		}
	}()
}

// Stop the PlaybackSupervisor, safe to call more than once
func (p *PlaybackSupervisor) Stop() {
	if p.StopChan != nil {
		close(p.StopChan)
		p.WG.Wait()
		p.StopChan = nil
	}
}

// Restart the PlaybackSupervisor
func (p *PlaybackSupervisor) Restart() {
	p.Stop()
	p.Start()
}

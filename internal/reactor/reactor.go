// Package reactor turns display server notifications into redraws and
// visibility changes for the corner decoration.
package reactor

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Visibility is the mapped state of the decoration window.
type Visibility int32

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Surface is the on-screen decoration the reactor drives.
type Surface interface {
	// Draw renders the corners onto the decoration.
	Draw() error
	// Flush pushes buffered drawing requests to the server.
	Flush() error
	// Hide unmaps the decoration.
	Hide() error
	// WindowState returns the _NET_WM_STATE atom names of win.
	WindowState(win WindowID) ([]string, error)
	// ActiveWindowState returns the _NET_WM_STATE atom names of the
	// currently active window.
	ActiveWindowState() ([]string, error)
}

// Config holds configuration for the reactor.
type Config struct {
	// HideOnFullscreen unmaps the decoration once any watched window
	// enters fullscreen.
	HideOnFullscreen bool
	Logger           *slog.Logger
}

// Reactor dispatches display server events for a decoration window.
type Reactor struct {
	surface          Surface
	hideOnFullscreen bool
	logger           *slog.Logger
	visibility       atomic.Int32
}

// New creates a reactor for surface. The surface is assumed mapped.
func New(cfg Config, surface Surface) *Reactor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reactor{
		surface:          surface,
		hideOnFullscreen: cfg.HideOnFullscreen,
		logger:           logger,
	}
}

// Visibility returns the current visibility state.
func (r *Reactor) Visibility() Visibility {
	return Visibility(r.visibility.Load())
}

// Run handles events in delivery order until ctx is cancelled or events is
// closed. Each event is handled to completion before the next is read.
func (r *Reactor) Run(ctx context.Context, events <-chan Event) error {
	r.logger.Debug("reactor started", "hide_on_fullscreen", r.hideOnFullscreen)

	for r.running(ctx) {
		select {
		case <-ctx.Done():
		case ev, ok := <-events:
			if !ok {
				r.logger.Debug("event stream closed")
				return nil
			}
			r.Handle(ev)
		}
	}

	r.logger.Debug("reactor stopped")
	return nil
}

func (r *Reactor) running(ctx context.Context) bool {
	return ctx.Err() == nil
}

// Handle dispatches a single event.
func (r *Reactor) Handle(ev Event) {
	switch e := ev.(type) {
	case Expose:
		r.handleExpose(e)
	case PropertyChange:
		r.handlePropertyChange(e)
	default:
		r.logger.Debug("unhandled event", "event", ev)
	}
}

func (r *Reactor) handleExpose(e Expose) {
	if e.Count > 0 {
		return
	}
	if r.Visibility() == Hidden {
		return
	}
	if err := r.surface.Draw(); err != nil {
		r.logger.Warn("draw failed", "error", err)
		return
	}
	if err := r.surface.Flush(); err != nil {
		r.logger.Warn("flush failed", "error", err)
	}
}

func (r *Reactor) handlePropertyChange(e PropertyChange) {
	if !r.hideOnFullscreen || r.Visibility() == Hidden || e.Deleted {
		return
	}

	var (
		states []string
		err    error
	)
	switch e.Property {
	case AtomWMState:
		states, err = r.surface.WindowState(e.Window)
	case AtomActiveWindow:
		states, err = r.surface.ActiveWindowState()
	default:
		return
	}
	if err != nil {
		r.logger.Debug("window state unavailable", "window", e.Window, "property", e.Property, "error", err)
		return
	}

	if !containsFullscreen(states) {
		return
	}
	if err := r.surface.Hide(); err != nil {
		r.logger.Warn("hide failed", "error", err)
		return
	}
	r.visibility.Store(int32(Hidden))
	r.logger.Info("fullscreen window detected, decoration hidden", "window", e.Window)
}

func containsFullscreen(states []string) bool {
	for _, s := range states {
		if s == AtomStateFullscreen {
			return true
		}
	}
	return false
}

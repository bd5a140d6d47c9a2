package reactor

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRefreshRate is used when no positive refresh rate is configured.
const DefaultRefreshRate = 60.0

// Painter copies pre-rendered corners onto a shared overlay surface.
type Painter interface {
	// Repaint synchronizes with the server and paints the corners again.
	Repaint() error
}

// IntervalFor returns the repaint interval for a refresh rate in Hz.
func IntervalFor(rate float64) time.Duration {
	if rate <= 0 {
		rate = DefaultRefreshRate
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	return interval
}

// RepainterConfig holds configuration for the repainter.
type RepainterConfig struct {
	RefreshRate float64
	Logger      *slog.Logger
}

// Repainter periodically repaints the overlay. Other clients draw on the
// composite overlay window too, so the corners are put back every frame.
type Repainter struct {
	interval time.Duration
	painter  Painter
	logger   *slog.Logger
}

// NewRepainter creates a repainter for painter.
func NewRepainter(cfg RepainterConfig, painter Painter) *Repainter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Repainter{
		interval: IntervalFor(cfg.RefreshRate),
		painter:  painter,
		logger:   logger,
	}
}

// Interval returns the time between repaints.
func (r *Repainter) Interval() time.Duration {
	return r.interval
}

// Run paints once immediately and then on every tick until ctx is
// cancelled.
func (r *Repainter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("repainter started", "interval", r.interval)
	r.repaint()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("repainter stopped")
			return nil
		case <-ticker.C:
			r.repaint()
		}
	}
}

func (r *Repainter) repaint() {
	if err := r.painter.Repaint(); err != nil {
		r.logger.Warn("repaint failed", "error", err)
	}
}

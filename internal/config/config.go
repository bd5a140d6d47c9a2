// Package config resolves the xcorners configuration from command-line flags
// and XCORNERS_* environment variables into an immutable Config.
package config

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	"github.com/1broseidon/xcorners/internal/shape"
)

// ClassName is the WM_CLASS instance and class of every decoration window.
const ClassName = "xcorners"

// DefaultRadius is the corner radius used when none is given.
const DefaultRadius = 12

// Limits of the X protocol's 16-bit window geometry.
const (
	MaxExtent = math.MaxUint16
	MaxOffset = math.MaxInt16
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Mode selects where the corners are drawn.
type Mode string

const (
	// ModeWindow draws into a click-through override-redirect window and
	// redraws on Expose.
	ModeWindow Mode = "window"
	// ModeOverlay draws into the composite overlay window and repaints at a
	// fixed rate.
	ModeOverlay Mode = "overlay"
)

// Config is the resolved configuration. It is built once at startup and
// passed by value; nothing mutates it afterwards.
type Config struct {
	Geometry         shape.Geometry `yaml:"geometry"`
	Color            shape.Color    `yaml:"color"`
	Highlight        bool           `yaml:"highlight"`
	HighlightColor   *shape.Color   `yaml:"highlight_color,omitempty"`
	Mode             Mode           `yaml:"mode"`
	RefreshRate      float64        `yaml:"refresh_rate"`
	SingleInstance   bool           `yaml:"single_instance"`
	HideOnFullscreen bool           `yaml:"hide_on_fullscreen"`
	Monitor          string         `yaml:"monitor,omitempty"`
	Display          string         `yaml:"display,omitempty"`
	LogLevel         string         `yaml:"log_level"`
}

// Default returns the configuration used when no flag or environment
// variable is set. Width and height stay zero until Place fills them in.
func Default() Config {
	return Config{
		Geometry: shape.Geometry{
			Radius: DefaultRadius,
			Top:    true,
			Bottom: false,
		},
		Color:            shape.Black,
		Mode:             ModeWindow,
		RefreshRate:      60,
		HideOnFullscreen: true,
		LogLevel:         "warn",
	}
}

// Validate checks the values that flag parsing alone cannot.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeWindow, ModeOverlay:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	if math.IsNaN(c.RefreshRate) || math.IsInf(c.RefreshRate, 0) || c.RefreshRate <= 0 {
		return fmt.Errorf("%w: refresh rate must be a positive number, got %v", ErrInvalid, c.RefreshRate)
	}
	if err := validateGeometry(c.Geometry); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func validateGeometry(g shape.Geometry) error {
	for _, v := range []struct {
		name  string
		value uint
		limit uint
	}{
		{keyWidth, g.Width, MaxExtent},
		{keyHeight, g.Height, MaxExtent},
		{keyRadius, g.Radius, MaxExtent},
		{keyXOffset, g.XOffset, MaxOffset},
		{keyYOffset, g.YOffset, MaxOffset},
	} {
		if v.value > v.limit {
			return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalid, v.name, v.limit, v.value)
		}
	}
	return nil
}

// Passes returns the ordered fill passes for the configured colors.
func (c Config) Passes() []shape.FillPass {
	if !c.Highlight {
		return shape.SolidFill(c.Color)
	}
	muted := c.Color.Muted()
	if c.HighlightColor != nil {
		muted = *c.HighlightColor
	}
	return shape.HighlightFill(c.Color, muted)
}

// Place returns a copy of c positioned inside area. A zero width or height
// takes the area's size; offsets are relative to the area's origin.
func (c Config) Place(area image.Rectangle) Config {
	placed := c
	g := &placed.Geometry
	if g.Width == 0 {
		g.Width = uint(area.Dx())
	}
	if g.Height == 0 {
		g.Height = uint(area.Dy())
	}
	g.XOffset += uint(max(area.Min.X, 0))
	g.YOffset += uint(max(area.Min.Y, 0))
	return placed
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

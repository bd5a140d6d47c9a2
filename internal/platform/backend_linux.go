//go:build linux

package platform

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/1broseidon/xcorners/internal/reactor"
	"github.com/1broseidon/xcorners/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection to display. An empty display means $DISPLAY.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(x11.Options{Display: display, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LinuxBackend{conn: conn, logger: logger}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// ScreenBounds returns the root window geometry.
func (b *LinuxBackend) ScreenBounds() image.Rectangle {
	if b == nil || b.conn == nil {
		return image.Rectangle{}
	}
	return b.conn.ScreenRect()
}

// Display returns the active RandR output called name.
func (b *LinuxBackend) Display(name string) (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return Display{}, err
	}
	m, err := x11.FindMonitor(monitors, name)
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(m), nil
}

// InstanceRunning reports whether a window with WM_CLASS class exists.
func (b *LinuxBackend) InstanceRunning(class string) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.InstanceRunning(class)
}

// CompositorRunning reports whether a compositing manager is active.
func (b *LinuxBackend) CompositorRunning() (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.CompositorRunning()
}

// NewDecoration creates an unmapped click-through window at bounds showing img.
func (b *LinuxBackend) NewDecoration(bounds image.Rectangle, class string, img *image.RGBA) (Decoration, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	dec, err := conn.CreateDecoration(bounds, class)
	if err != nil {
		return nil, err
	}
	dec.SetImage(img)
	b.logger.Debug("decoration created", "window", dec.Window(), "bounds", dec.Bounds())
	return &linuxDecoration{conn: conn, dec: dec}, nil
}

// NewOverlay acquires the composite overlay window and uploads img, to be
// painted at the given root coordinates.
func (b *LinuxBackend) NewOverlay(at image.Point, img *image.RGBA) (Overlay, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	ov, err := conn.Overlay()
	if err != nil {
		return nil, err
	}
	if err := ov.SetImage(img, at); err != nil {
		ov.Release()
		return nil, err
	}
	b.logger.Debug("overlay acquired", "window", ov.Window(), "at", at)
	return &linuxOverlay{ov: ov}, nil
}

// Events returns the translated X event stream.
func (b *LinuxBackend) Events(ctx context.Context) <-chan reactor.Event {
	if b == nil || b.conn == nil {
		ch := make(chan reactor.Event)
		close(ch)
		return ch
	}
	return b.conn.Events(ctx)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: m.Rect(),
	}
}

// linuxDecoration adapts an x11.Decoration to reactor.Surface.
type linuxDecoration struct {
	conn *x11.Connection
	dec  *x11.Decoration
}

var _ Decoration = (*linuxDecoration)(nil)

func (d *linuxDecoration) Show() error {
	d.dec.Map()
	d.conn.Sync()
	return nil
}

func (d *linuxDecoration) Draw() error {
	return d.dec.Draw()
}

func (d *linuxDecoration) Flush() error {
	d.conn.Sync()
	return nil
}

func (d *linuxDecoration) Hide() error {
	d.dec.Unmap()
	d.conn.Sync()
	return nil
}

func (d *linuxDecoration) WindowState(win reactor.WindowID) ([]string, error) {
	return d.conn.WindowState(xproto.Window(win))
}

func (d *linuxDecoration) ActiveWindowState() ([]string, error) {
	return d.conn.ActiveWindowState()
}

func (d *linuxDecoration) Close() {
	d.dec.Destroy()
}

// linuxOverlay adapts an x11.Overlay to reactor.Painter.
type linuxOverlay struct {
	ov *x11.Overlay
}

func (o *linuxOverlay) Repaint() error {
	return o.ov.Repaint()
}

func (o *linuxOverlay) Close() {
	o.ov.Release()
}

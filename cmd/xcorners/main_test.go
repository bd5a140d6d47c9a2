package main

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/xcorners/internal/platform"
	"github.com/1broseidon/xcorners/internal/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeDecoration struct {
	mu     sync.Mutex
	bounds image.Rectangle
	img    *image.RGBA
	shown  bool
	draws  int
	closed bool
}

func (d *fakeDecoration) Show() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = true
	return nil
}

func (d *fakeDecoration) Draw() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draws++
	return nil
}

func (d *fakeDecoration) Flush() error { return nil }
func (d *fakeDecoration) Hide() error  { return nil }

func (d *fakeDecoration) WindowState(reactor.WindowID) ([]string, error) { return nil, nil }
func (d *fakeDecoration) ActiveWindowState() ([]string, error)           { return nil, nil }

func (d *fakeDecoration) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

type fakeOverlay struct {
	at       image.Point
	repaints int
	onPaint  func()
	closed   bool
}

func (o *fakeOverlay) Repaint() error {
	o.repaints++
	if o.onPaint != nil {
		o.onPaint()
	}
	return nil
}

func (o *fakeOverlay) Close() { o.closed = true }

type fakeBackend struct {
	display      string
	running      bool
	screen       image.Rectangle
	events       []reactor.Event
	decoration   *fakeDecoration
	overlay      *fakeOverlay
	disconnected bool
}

func (b *fakeBackend) ScreenBounds() image.Rectangle { return b.screen }

func (b *fakeBackend) Display(name string) (platform.Display, error) {
	return platform.Display{Name: name, Bounds: image.Rect(1920, 0, 3840, 1080)}, nil
}

func (b *fakeBackend) InstanceRunning(string) (bool, error) { return b.running, nil }
func (b *fakeBackend) CompositorRunning() (bool, error)     { return true, nil }

func (b *fakeBackend) NewDecoration(bounds image.Rectangle, _ string, img *image.RGBA) (platform.Decoration, error) {
	b.decoration = &fakeDecoration{bounds: bounds, img: img}
	return b.decoration, nil
}

func (b *fakeBackend) NewOverlay(at image.Point, _ *image.RGBA) (platform.Overlay, error) {
	if b.overlay == nil {
		b.overlay = &fakeOverlay{}
	}
	b.overlay.at = at
	return b.overlay, nil
}

func (b *fakeBackend) Events(context.Context) <-chan reactor.Event {
	ch := make(chan reactor.Event, len(b.events))
	for _, ev := range b.events {
		ch <- ev
	}
	close(ch)
	return ch
}

func (b *fakeBackend) Disconnect() { b.disconnected = true }

type harness struct {
	backend   *fakeBackend
	connected bool
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

func newHarness() *harness {
	return &harness{backend: &fakeBackend{screen: image.Rect(0, 0, 1920, 1080)}}
}

func (h *harness) run(ctx context.Context, args ...string) int {
	connect := func(display string, _ *slog.Logger) (platform.Backend, error) {
		h.connected = true
		h.backend.display = display
		return h.backend, nil
	}
	return run(ctx, args, &h.stdout, &h.stderr, connect)
}

func TestInvalidNumberFailsBeforeConnecting(t *testing.T) {
	h := newHarness()

	code := h.run(context.Background(), "-r", "abc")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "radius")
	assert.False(t, h.connected)
	assert.Nil(t, h.backend.decoration)
}

func TestStartupErrorsExitOne(t *testing.T) {
	for _, args := range [][]string{
		{"--nope"},
		{"stray"},
		{"-c", "purple"},
		{"--refresh-rate", "-1"},
		{"-f", "NaN"},
		{"-W", "70000"},
		{"-W", "4000000000"},
		{"-x", "40000"},
	} {
		h := newHarness()
		assert.Equal(t, 1, h.run(context.Background(), args...), args)
		assert.NotEmpty(t, h.stderr.String(), args)
		assert.False(t, h.connected, args)
	}
}

func TestPlacementBeyondProtocolRangeFails(t *testing.T) {
	h := newHarness()

	code := h.run(context.Background(), "-m", "DP-1", "-x", "31000")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "x-offset")
	assert.True(t, h.connected)
	assert.Nil(t, h.backend.decoration)
	assert.True(t, h.backend.disconnected)
}

func TestHelpExitsZero(t *testing.T) {
	h := newHarness()

	code := h.run(context.Background(), "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, h.stdout.String(), "--radius")
	assert.Contains(t, h.stdout.String(), "XCORNERS_")
	assert.False(t, h.connected)
}

func TestPrintConfig(t *testing.T) {
	h := newHarness()

	code := h.run(context.Background(), "--print-config", "-r", "16", "-b")
	require.Equal(t, 0, code, h.stderr.String())

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &out))
	geometry := out["geometry"].(map[string]any)
	assert.Equal(t, 16, geometry["radius"])
	assert.Equal(t, true, geometry["bottom"])
	assert.Equal(t, "000000ff", out["color"])
	assert.False(t, h.connected)
}

func TestExplainFlag(t *testing.T) {
	h := newHarness()

	code := h.run(context.Background(), "--explain", "radius", "-r", "3")
	require.Equal(t, 0, code, h.stderr.String())

	assert.Equal(t, "key: radius\nsource: flag (--radius)\nvalue: 3\n", h.stdout.String())
}

func TestSingleInstanceNotice(t *testing.T) {
	h := newHarness()
	h.backend.running = true

	code := h.run(context.Background(), "-1")

	assert.Equal(t, 0, code)
	assert.Equal(t, "xcorners is already running\n", h.stdout.String())
	assert.Nil(t, h.backend.decoration)
	assert.True(t, h.backend.disconnected)
}

func TestWindowModeRunsUntilEventsEnd(t *testing.T) {
	h := newHarness()
	h.backend.events = []reactor.Event{
		reactor.Expose{Count: 1},
		reactor.Expose{Count: 0},
	}

	code := h.run(context.Background(), "-W", "100", "-H", "100", "-x", "5", "-d", ":3")
	require.Equal(t, 0, code, h.stderr.String())

	dec := h.backend.decoration
	require.NotNil(t, dec)
	assert.Equal(t, ":3", h.backend.display)
	assert.Equal(t, image.Rect(5, 0, 105, 100), dec.bounds)
	assert.Equal(t, image.Rect(0, 0, 100, 100), dec.img.Bounds())
	assert.True(t, dec.shown)
	assert.Equal(t, 1, dec.draws)
	assert.True(t, dec.closed)
	assert.True(t, h.backend.disconnected)
}

func TestRadiusIsDecimal(t *testing.T) {
	h := newHarness()

	code := h.run(context.Background(), "--print-config", "-r", "010")
	require.Equal(t, 0, code, h.stderr.String())

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &out))
	assert.Equal(t, 10, out["geometry"].(map[string]any)["radius"])
}

func TestMonitorPlacement(t *testing.T) {
	h := newHarness()

	code := h.run(context.Background(), "-m", "DP-1", "-y", "10")
	require.Equal(t, 0, code, h.stderr.String())

	assert.Equal(t, image.Rect(1920, 10, 3840, 1090), h.backend.decoration.bounds)
}

func TestOverlayModeRepaintsUntilCancelled(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.backend.overlay = &fakeOverlay{}
	h.backend.overlay.onPaint = func() {
		if h.backend.overlay.repaints >= 2 {
			cancel()
		}
	}

	code := h.run(ctx, "-o", "-f", "500", "-x", "7", "-y", "9")
	require.Equal(t, 0, code, h.stderr.String())

	ov := h.backend.overlay
	assert.Equal(t, image.Pt(7, 9), ov.at)
	assert.GreaterOrEqual(t, ov.repaints, 2)
	assert.True(t, ov.closed)
	assert.Nil(t, h.backend.decoration)
}

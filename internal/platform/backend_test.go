package platform

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/1broseidon/xcorners/internal/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	screen   image.Rectangle
	displays map[string]Display
}

func (s *stubBackend) ScreenBounds() image.Rectangle { return s.screen }

func (s *stubBackend) Display(name string) (Display, error) {
	d, ok := s.displays[name]
	if !ok {
		return Display{}, errors.New("monitor not found")
	}
	return d, nil
}

func (s *stubBackend) InstanceRunning(string) (bool, error) { return false, nil }
func (s *stubBackend) CompositorRunning() (bool, error)     { return true, nil }

func (s *stubBackend) NewDecoration(image.Rectangle, string, *image.RGBA) (Decoration, error) {
	return nil, errors.New("not implemented")
}

func (s *stubBackend) NewOverlay(image.Point, *image.RGBA) (Overlay, error) {
	return nil, errors.New("not implemented")
}

func (s *stubBackend) Events(context.Context) <-chan reactor.Event { return nil }
func (s *stubBackend) Disconnect()                                 {}

func TestAreaWholeScreen(t *testing.T) {
	b := &stubBackend{screen: image.Rect(0, 0, 3840, 1200)}

	area, err := Area(b, "")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3840, 1200), area)
}

func TestAreaNamedDisplay(t *testing.T) {
	b := &stubBackend{
		screen: image.Rect(0, 0, 3840, 1200),
		displays: map[string]Display{
			"DP-1": {ID: 1, Name: "DP-1", Bounds: image.Rect(1920, 0, 3840, 1080)},
		},
	}

	area, err := Area(b, "DP-1")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1920, 0, 3840, 1080), area)

	_, err = Area(b, "HDMI-1")
	assert.Error(t, err)
}

func TestAreaEmpty(t *testing.T) {
	_, err := Area(&stubBackend{}, "")
	assert.ErrorIs(t, err, ErrAreaEmpty)
}

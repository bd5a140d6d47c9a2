package platform

import (
	"context"
	"errors"
	"image"

	"github.com/1broseidon/xcorners/internal/reactor"
)

// ErrAreaEmpty is returned by Area when the resolved region has no pixels.
var ErrAreaEmpty = errors.New("screen area is empty")

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds image.Rectangle
}

// Decoration is a mapped corner window driven by a reactor.
type Decoration interface {
	reactor.Surface
	// Show maps the window. The first Expose triggers the initial draw.
	Show() error
	Close()
}

// Overlay is the composite overlay surface driven by a repainter.
type Overlay interface {
	reactor.Painter
	Close()
}

// Backend abstracts the window-system operations xcorners needs.
type Backend interface {
	ScreenBounds() image.Rectangle
	Display(name string) (Display, error)
	InstanceRunning(class string) (bool, error)
	CompositorRunning() (bool, error)
	NewDecoration(bounds image.Rectangle, class string, img *image.RGBA) (Decoration, error)
	NewOverlay(at image.Point, img *image.RGBA) (Overlay, error)
	Events(ctx context.Context) <-chan reactor.Event
	Disconnect()
}

// Area returns the region to decorate: the named display, or the whole
// screen when name is empty.
func Area(b Backend, name string) (image.Rectangle, error) {
	area := b.ScreenBounds()
	if name != "" {
		d, err := b.Display(name)
		if err != nil {
			return image.Rectangle{}, err
		}
		area = d.Bounds
	}
	if area.Empty() {
		return image.Rectangle{}, ErrAreaEmpty
	}
	return area, nil
}

package x11

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
)

// ARGBDepth is the depth of a visual with an alpha channel.
const ARGBDepth = 32

// ErrNoARGBVisual is returned when the screen has no 32-bit TrueColor visual.
var ErrNoARGBVisual = errors.New("no visual found supporting 32 bit color")

// FindARGBVisual returns the first TrueColor visual of depth 32 on screen.
func FindARGBVisual(screen *xproto.ScreenInfo) (xproto.Visualid, error) {
	if screen == nil {
		return 0, ErrNoARGBVisual
	}
	for _, depth := range screen.AllowedDepths {
		if depth.Depth != ARGBDepth {
			continue
		}
		for _, visual := range depth.Visuals {
			if visual.Class == xproto.VisualClassTrueColor {
				return visual.VisualId, nil
			}
		}
	}
	return 0, ErrNoARGBVisual
}

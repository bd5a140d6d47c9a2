// Package shape traces and fills the rounded-corner cutouts drawn by xcorners.
//
// Each enabled corner is an independent closed region bounded by the two
// screen edges meeting at that corner and a quarter circle of the configured
// radius. All regions are traced into one compound path and filled by an
// ordered list of passes.
package shape

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
)

// MaxDimension is the largest width or height Rasterize accepts, the limit
// of an X drawable.
const MaxDimension = 1<<16 - 1

// ErrTooLarge is returned by Rasterize for images beyond MaxDimension.
var ErrTooLarge = errors.New("image too large")

// Geometry describes the decorated rectangle.
type Geometry struct {
	Width   uint `yaml:"width"`
	Height  uint `yaml:"height"`
	XOffset uint `yaml:"x_offset"`
	YOffset uint `yaml:"y_offset"`
	Radius  uint `yaml:"radius"`
	Top     bool `yaml:"top"`
	Bottom  bool `yaml:"bottom"`
}

// Empty reports whether no corner is enabled.
func (g Geometry) Empty() bool {
	return !g.Top && !g.Bottom
}

// Bounds returns the on-screen rectangle covered by the decoration.
func (g Geometry) Bounds() image.Rectangle {
	x, y := int(g.XOffset), int(g.YOffset)
	return image.Rect(x, y, x+int(g.Width), y+int(g.Height))
}

// FillMode controls whether a fill keeps the current path.
type FillMode int

const (
	// FillPreserve fills and keeps the path for the next pass.
	FillPreserve FillMode = iota
	// FillConsume fills and clears the path.
	FillConsume
)

func (m FillMode) String() string {
	switch m {
	case FillPreserve:
		return "preserve"
	case FillConsume:
		return "consume"
	default:
		return "unknown"
	}
}

// FillPass is one fill applied to the traced corner path.
type FillPass struct {
	Color Color
	Mode  FillMode
}

// SolidFill is the single-pass fill list for color.
func SolidFill(color Color) []FillPass {
	return []FillPass{{Color: color, Mode: FillConsume}}
}

// HighlightFill fills with muted first and keeps the path, then fills again
// with color. Only antialiased edge pixels keep a trace of the first pass.
func HighlightFill(color, muted Color) []FillPass {
	return []FillPass{
		{Color: muted, Mode: FillPreserve},
		{Color: color, Mode: FillConsume},
	}
}

// Canvas is the retained-path drawing surface Render draws on.
// *gg.Context satisfies it.
type Canvas interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	DrawArc(x, y, r, angle1, angle2 float64)
	ClosePath()
	ClearPath()
	SetRGBA(r, g, b, a float64)
	Fill() error
	FillPreserve() error
}

var _ Canvas = (*gg.Context)(nil)

// corner is a single cutout: the screen corner it hangs off, the arc center
// and the sweep, in canvas coordinates (y grows downward).
type corner struct {
	cornerX, cornerY float64
	centerX, centerY float64
	start, end       float64
}

// arcStart is the point where the quarter circle begins.
func (c corner) arcStart(r float64) (float64, float64) {
	return c.centerX + r*math.Cos(c.start), c.centerY + r*math.Sin(c.start)
}

func corners(g Geometry) []corner {
	w, h, r := float64(g.Width), float64(g.Height), float64(g.Radius)

	var out []corner
	if g.Top {
		out = append(out,
			corner{cornerX: 0, cornerY: 0, centerX: r, centerY: r, start: -math.Pi, end: -math.Pi / 2},
			corner{cornerX: w, cornerY: 0, centerX: w - r, centerY: r, start: -math.Pi / 2, end: 0},
		)
	}
	if g.Bottom {
		out = append(out,
			corner{cornerX: 0, cornerY: h, centerX: r, centerY: h - r, start: math.Pi / 2, end: math.Pi},
			corner{cornerX: w, cornerY: h, centerX: w - r, centerY: h - r, start: 0, end: math.Pi / 2},
		)
	}
	return out
}

// Trace appends one closed sub-path per enabled corner to c. It returns the
// number of sub-paths traced.
func Trace(c Canvas, g Geometry) int {
	r := float64(g.Radius)
	traced := corners(g)
	for _, cn := range traced {
		c.MoveTo(cn.cornerX, cn.cornerY)
		c.LineTo(cn.arcStart(r))
		c.DrawArc(cn.centerX, cn.centerY, r, cn.start, cn.end)
		c.ClosePath()
	}
	return len(traced)
}

// Render traces the enabled corners of g and applies passes in order.
// Nothing is drawn when no corner is enabled or passes is empty.
func Render(c Canvas, g Geometry, passes []FillPass) error {
	if g.Empty() || len(passes) == 0 {
		return nil
	}
	if Trace(c, g) == 0 {
		return nil
	}

	defer c.ClearPath()
	for _, pass := range passes {
		c.SetRGBA(pass.Color.Channels())

		fill := c.Fill
		if pass.Mode == FillPreserve {
			fill = c.FillPreserve
		}
		if err := fill(); err != nil {
			return err
		}
	}
	return nil
}

// Rasterize renders g into a fresh transparent image of g.Width by g.Height
// pixels.
func Rasterize(g Geometry, passes []FillPass) (*image.RGBA, error) {
	if g.Width > MaxDimension || g.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, g.Width, g.Height, MaxDimension)
	}
	w, h := int(g.Width), int(g.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	dc.Clear()
	if err := Render(dc, g, passes); err != nil {
		return nil, err
	}

	img := dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

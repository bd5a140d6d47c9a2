package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Decoration is a click-through override-redirect ARGB window showing a
// pre-rendered image.
type Decoration struct {
	conn     *Connection
	window   *xwindow.Window
	colormap xproto.Colormap
	gc       xproto.Gcontext
	bounds   image.Rectangle
	pixels   bitmap
}

// CreateDecoration creates an unmapped decoration window covering bounds.
// The window uses the screen's ARGB visual, carries WM_CLASS class and
// ignores all pointer input.
func (c *Connection) CreateDecoration(bounds image.Rectangle, class string) (*Decoration, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("decoration bounds %v are empty", bounds)
	}

	conn := c.XUtil.Conn()
	visual, err := FindARGBVisual(c.XUtil.Screen())
	if err != nil {
		return nil, err
	}

	cmap, err := xproto.NewColormapId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateColormapChecked(conn, xproto.ColormapAllocNone, cmap, c.Root, visual).Check(); err != nil {
		return nil, fmt.Errorf("create colormap: %w", err)
	}

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		xproto.FreeColormap(conn, cmap)
		return nil, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		ARGBDepth,
		win.Id,
		c.Root,
		int16(bounds.Min.X), int16(bounds.Min.Y),
		uint16(bounds.Dx()), uint16(bounds.Dy()),
		0, // border_width
		xproto.WindowClassInputOutput,
		visual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect|xproto.CwEventMask|xproto.CwColormap,
		// Value list order follows the bit positions of the mask.
		[]uint32{
			0, // back_pixel=transparent
			0, // border_pixel
			1, // override_redirect=true
			xproto.EventMaskExposure | xproto.EventMaskPropertyChange,
			uint32(cmap),
		},
	).Check()
	if err != nil {
		xproto.FreeColormap(conn, cmap)
		return nil, fmt.Errorf("create window: %w", err)
	}

	d := &Decoration{conn: c, window: win, colormap: cmap, bounds: bounds}

	if err := c.setHints(win.Id, class); err != nil {
		c.logger.Debug("could not set window hints", "window", win.Id, "error", err)
	}
	if err := c.clearInputShape(win.Id); err != nil {
		d.Destroy()
		return nil, err
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		d.Destroy()
		return nil, err
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(win.Id), xproto.GcGraphicsExposures, []uint32{0}).Check(); err != nil {
		d.Destroy()
		return nil, fmt.Errorf("create gc: %w", err)
	}
	d.gc = gc

	return d, nil
}

// setHints names the window and asks pagers and compositors to treat it as
// an always-on-top dock.
func (c *Connection) setHints(win xproto.Window, class string) error {
	if err := icccm.WmClassSet(c.XUtil, win, &icccm.WmClass{Instance: class, Class: class}); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.XUtil, win, class); err != nil {
		return err
	}
	if err := ewmh.WmWindowTypeSet(c.XUtil, win, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
		return err
	}
	return ewmh.WmStateSet(c.XUtil, win, []string{"_NET_WM_STATE_ABOVE", "_NET_WM_STATE_STICKY"})
}

// clearInputShape gives win an empty input region so pointer events pass
// through to the windows below.
func (c *Connection) clearInputShape(win xproto.Window) error {
	conn := c.XUtil.Conn()
	region, err := xfixes.NewRegionId(conn)
	if err != nil {
		return err
	}
	if err := xfixes.CreateRegionChecked(conn, region, nil).Check(); err != nil {
		return fmt.Errorf("create region: %w", err)
	}
	defer xfixes.DestroyRegion(conn, region)

	if err := xfixes.SetWindowShapeRegionChecked(conn, win, shape.SkInput, 0, 0, region).Check(); err != nil {
		return fmt.Errorf("set input shape: %w", err)
	}
	return nil
}

// Window returns the decoration's window ID.
func (d *Decoration) Window() xproto.Window {
	return d.window.Id
}

// Bounds returns the window geometry in root coordinates.
func (d *Decoration) Bounds() image.Rectangle {
	return d.bounds
}

// SetImage replaces the image shown by Draw. img is drawn at the window's
// origin.
func (d *Decoration) SetImage(img *image.RGBA) {
	d.pixels = convertBGRA(d.conn.XUtil, img, ARGBDepth)
}

// Draw uploads the current image into the window.
func (d *Decoration) Draw() error {
	if d.pixels.data == nil {
		return fmt.Errorf("decoration %d has no image", d.window.Id)
	}
	putImage(d.conn.XUtil, xproto.Drawable(d.window.Id), d.gc, d.pixels, 0, 0)
	return nil
}

// Map shows the window.
func (d *Decoration) Map() {
	d.window.Map()
}

// Unmap hides the window.
func (d *Decoration) Unmap() {
	d.window.Unmap()
}

// Destroy releases the window and its server resources.
func (d *Decoration) Destroy() {
	conn := d.conn.XUtil.Conn()
	if d.gc != 0 {
		xproto.FreeGC(conn, d.gc)
		d.gc = 0
	}
	d.window.Destroy()
	if d.colormap != 0 {
		xproto.FreeColormap(conn, d.colormap)
		d.colormap = 0
	}
}

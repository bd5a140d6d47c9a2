package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"
)

// Overlay paints a pre-rendered image onto the composite overlay window.
//
// The overlay window has the root window's depth, so the image is kept in a
// server-side pixmap and copied through a clip mask built from its alpha
// channel. Pixels below the mask threshold are left untouched.
type Overlay struct {
	conn   *Connection
	window xproto.Window
	pixmap xproto.Pixmap
	mask   xproto.Pixmap
	gc     xproto.Gcontext
	bounds image.Rectangle
}

// Overlay acquires the composite overlay window and makes it click-through.
// Call SetImage before the first Repaint.
func (c *Connection) Overlay() (*Overlay, error) {
	conn := c.XUtil.Conn()
	if err := composite.Init(conn); err != nil {
		return nil, fmt.Errorf("composite init failed: %w", err)
	}
	if _, err := composite.QueryVersion(conn, 0, 4).Reply(); err != nil {
		return nil, fmt.Errorf("composite version query failed: %w", err)
	}

	reply, err := composite.GetOverlayWindow(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get overlay window: %w", err)
	}
	o := &Overlay{conn: c, window: reply.OverlayWin}

	if err := c.clearInputShape(o.window); err != nil {
		o.Release()
		return nil, err
	}
	return o, nil
}

// Window returns the overlay window's ID.
func (o *Overlay) Window() xproto.Window {
	return o.window
}

// SetImage uploads img to the server. Every Repaint paints it with its
// top-left corner at the given root coordinates.
func (o *Overlay) SetImage(img *image.RGBA, at image.Point) error {
	o.freeImage()

	xu := o.conn.XUtil
	conn := xu.Conn()
	depth := xu.Screen().RootDepth
	if err := checkPixmapFormat(xu.Setup(), depth); err != nil {
		return err
	}

	b := img.Bounds()
	w, h := uint16(b.Dx()), uint16(b.Dy())
	if w == 0 || h == 0 {
		return fmt.Errorf("overlay image %v is empty", b)
	}

	var err error
	if o.pixmap, err = o.createPixmap(depth, w, h); err != nil {
		return err
	}
	if o.mask, err = o.createPixmap(1, w, h); err != nil {
		return err
	}

	// The pixmaps need GCs of their own depth for the upload.
	if err := o.upload(o.pixmap, convertBGRA(xu, opaque(img), depth)); err != nil {
		return err
	}
	setup := xu.Setup()
	lsbFirst := setup.BitmapFormatBitOrder == xproto.ImageOrderLSBFirst
	if err := o.upload(o.mask, packMask(img, lsbFirst, int(setup.BitmapFormatScanlinePad))); err != nil {
		return err
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return err
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(o.window),
		xproto.GcGraphicsExposures|xproto.GcClipOriginX|xproto.GcClipOriginY|xproto.GcClipMask,
		[]uint32{0, uint32(int32(at.X)), uint32(int32(at.Y)), uint32(o.mask)},
	).Check()
	if err != nil {
		return fmt.Errorf("create overlay gc: %w", err)
	}
	o.gc = gc
	o.bounds = image.Rectangle{Min: at, Max: at.Add(b.Size())}
	return nil
}

func (o *Overlay) createPixmap(depth byte, w, h uint16) (xproto.Pixmap, error) {
	conn := o.conn.XUtil.Conn()
	pid, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(conn, depth, pid, xproto.Drawable(o.conn.Root), w, h).Check(); err != nil {
		return 0, fmt.Errorf("create pixmap of depth %d: %w", depth, err)
	}
	return pid, nil
}

func (o *Overlay) upload(pixmap xproto.Pixmap, bm bitmap) error {
	conn := o.conn.XUtil.Conn()
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return err
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(pixmap), 0, nil).Check(); err != nil {
		return fmt.Errorf("create upload gc: %w", err)
	}
	defer xproto.FreeGC(conn, gc)

	putImage(o.conn.XUtil, xproto.Drawable(pixmap), gc, bm, 0, 0)
	return nil
}

// Repaint synchronizes with the server and copies the image onto the
// overlay window.
func (o *Overlay) Repaint() error {
	if o.gc == 0 {
		return fmt.Errorf("overlay has no image")
	}
	o.conn.Sync()
	xproto.CopyArea(
		o.conn.XUtil.Conn(),
		xproto.Drawable(o.pixmap),
		xproto.Drawable(o.window),
		o.gc,
		0, 0,
		int16(o.bounds.Min.X), int16(o.bounds.Min.Y),
		uint16(o.bounds.Dx()), uint16(o.bounds.Dy()),
	)
	return nil
}

func (o *Overlay) freeImage() {
	conn := o.conn.XUtil.Conn()
	if o.gc != 0 {
		xproto.FreeGC(conn, o.gc)
		o.gc = 0
	}
	if o.pixmap != 0 {
		xproto.FreePixmap(conn, o.pixmap)
		o.pixmap = 0
	}
	if o.mask != 0 {
		xproto.FreePixmap(conn, o.mask)
		o.mask = 0
	}
}

// Release frees the image and hands the overlay window back to the server.
func (o *Overlay) Release() {
	o.freeImage()
	composite.ReleaseOverlayWindow(o.conn.XUtil.Conn(), o.conn.Root)
}

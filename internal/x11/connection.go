package x11

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Options configures NewConnection.
type Options struct {
	// Display is the X display name. Empty means $DISPLAY.
	Display string
	Logger  *slog.Logger
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	Screen int

	logger *slog.Logger
}

// NewConnection establishes a connection to the X11 server and initializes
// the XFixes extension used for input shapes.
func NewConnection(opts Options) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("open display %q: %w", opts.Display, err)
	}

	if err := xfixes.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("xfixes init failed: %w", err)
	}
	// XFixes requires a version handshake before any other request.
	if _, err := xfixes.QueryVersion(xu.Conn(), 5, 0).Reply(); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("xfixes version query failed: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		Screen: xu.Conn().DefaultScreen,
		logger: logger,
	}, nil
}

// ScreenRect returns the root window's geometry.
func (c *Connection) ScreenRect() image.Rectangle {
	s := c.XUtil.Screen()
	return image.Rect(0, 0, int(s.WidthInPixels), int(s.HeightInPixels))
}

// Sync waits until the server has processed every request sent so far.
func (c *Connection) Sync() {
	c.XUtil.Sync()
}

// CompositorRunning reports whether a compositing manager owns the
// _NET_WM_CM_S<screen> selection.
func (c *Connection) CompositorRunning() (bool, error) {
	atom, err := xprop.Atm(c.XUtil, fmt.Sprintf("_NET_WM_CM_S%d", c.Screen))
	if err != nil {
		return false, err
	}
	reply, err := xproto.GetSelectionOwner(c.XUtil.Conn(), atom).Reply()
	if err != nil {
		return false, fmt.Errorf("get selection owner: %w", err)
	}
	return reply.Owner != xproto.WindowNone, nil
}

// InstanceRunning reports whether a top-level window with the given WM_CLASS
// instance or class already exists.
func (c *Connection) InstanceRunning(class string) (bool, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return false, fmt.Errorf("query tree: %w", err)
	}
	for _, child := range tree.Children {
		wc, err := icccm.WmClassGet(c.XUtil, child)
		if err != nil {
			continue
		}
		if wc.Instance == class || wc.Class == class {
			c.logger.Debug("found running instance", "window", child)
			return true, nil
		}
	}
	return false, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

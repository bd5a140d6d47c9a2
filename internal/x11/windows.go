package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowState returns the _NET_WM_STATE atom names of a window.
func (c *Connection) WindowState(windowID xproto.Window) ([]string, error) {
	return ewmh.WmStateGet(c.XUtil, windowID)
}

// GetActiveWindow returns the window named by _NET_ACTIVE_WINDOW, or 0 when
// nothing is focused.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// ActiveWindowState returns the _NET_WM_STATE of the active window. It is
// empty when no window is active.
func (c *Connection) ActiveWindowState() ([]string, error) {
	active, err := c.GetActiveWindow()
	if err != nil {
		return nil, err
	}
	if active == xproto.WindowNone {
		return nil, nil
	}
	return c.WindowState(active)
}

// WatchProperties selects PropertyNotify events on a window owned by another
// client. Other clients' event masks are unaffected.
func (c *Connection) WatchProperties(windowID xproto.Window) error {
	return xwindow.New(c.XUtil, windowID).Listen(xproto.EventMaskPropertyChange)
}

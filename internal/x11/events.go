package x11

import (
	"context"
	"fmt"
	"strings"

	"github.com/1broseidon/xcorners/internal/reactor"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Events selects property changes on the root and active windows and
// returns a channel of translated events. The channel is closed when the
// connection is closed or ctx is cancelled.
//
// When the active window changes, its properties are watched too, so that
// toggling fullscreen without a focus change is noticed.
func (c *Connection) Events(ctx context.Context) <-chan reactor.Event {
	if err := c.WatchProperties(c.Root); err != nil {
		c.logger.Warn("cannot watch root window properties", "error", err)
	}
	c.followActiveWindow()

	out := make(chan reactor.Event)
	go func() {
		defer close(out)
		for {
			ev, xerr := c.XUtil.Conn().WaitForEvent()
			if ev == nil && xerr == nil {
				c.logger.Debug("x connection closed")
				return
			}
			if xerr != nil {
				c.logger.Debug("x error", "error", xerr)
				continue
			}

			translated := translateEvent(ev, c.atomName)
			if pc, ok := translated.(reactor.PropertyChange); ok &&
				pc.Property == reactor.AtomActiveWindow && xproto.Window(pc.Window) == c.Root {
				c.followActiveWindow()
			}

			select {
			case out <- translated:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (c *Connection) followActiveWindow() {
	active, err := c.GetActiveWindow()
	if err != nil || active == xproto.WindowNone {
		return
	}
	if err := c.WatchProperties(active); err != nil {
		c.logger.Debug("cannot watch active window", "window", active, "error", err)
	}
}

func (c *Connection) atomName(atom xproto.Atom) (string, error) {
	return xprop.AtomName(c.XUtil, atom)
}

// translateEvent maps an X event to a reactor event. Atom names that cannot
// be resolved become "atom <id>".
func translateEvent(ev xgb.Event, atomName func(xproto.Atom) (string, error)) reactor.Event {
	switch e := ev.(type) {
	case xproto.ExposeEvent:
		return reactor.Expose{Window: reactor.WindowID(e.Window), Count: int(e.Count)}
	case xproto.PropertyNotifyEvent:
		name, err := atomName(e.Atom)
		if err != nil {
			name = fmt.Sprintf("atom %d", e.Atom)
		}
		return reactor.PropertyChange{
			Window:   reactor.WindowID(e.Window),
			Property: name,
			Deleted:  e.State == xproto.PropertyDelete,
		}
	default:
		return reactor.Other{Kind: eventKind(ev)}
	}
}

// eventKind returns a short name such as "ConfigureNotify".
func eventKind(ev xgb.Event) string {
	name := fmt.Sprintf("%T", ev)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "Event")
}

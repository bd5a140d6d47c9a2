package reactor

import "fmt"

// Property names the reactor reacts to.
const (
	AtomWMState         = "_NET_WM_STATE"
	AtomActiveWindow    = "_NET_ACTIVE_WINDOW"
	AtomStateFullscreen = "_NET_WM_STATE_FULLSCREEN"
)

// WindowID identifies a window on the display server.
type WindowID uint32

// Event is a notification delivered by the display server.
type Event interface {
	event()
}

// Expose reports that part of the decoration needs repainting. Count is the
// number of Expose events still to follow in the same burst.
type Expose struct {
	Window WindowID
	Count  int
}

// PropertyChange reports that Property changed on Window.
type PropertyChange struct {
	Window   WindowID
	Property string
	Deleted  bool
}

// Other is any event the reactor has no handler for.
type Other struct {
	Kind string
}

func (Expose) event()         {}
func (PropertyChange) event() {}
func (Other) event()          {}

func (e Expose) String() string {
	return fmt.Sprintf("Expose(window=0x%x count=%d)", uint32(e.Window), e.Count)
}

func (e PropertyChange) String() string {
	return fmt.Sprintf("PropertyChange(window=0x%x property=%s)", uint32(e.Window), e.Property)
}

func (e Other) String() string {
	return fmt.Sprintf("Other(%s)", e.Kind)
}

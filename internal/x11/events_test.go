package x11

import (
	"errors"
	"testing"

	"github.com/1broseidon/xcorners/internal/reactor"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
)

func fakeAtoms(names map[xproto.Atom]string) func(xproto.Atom) (string, error) {
	return func(a xproto.Atom) (string, error) {
		name, ok := names[a]
		if !ok {
			return "", errors.New("BadAtom")
		}
		return name, nil
	}
}

func TestTranslateExpose(t *testing.T) {
	ev := translateEvent(xproto.ExposeEvent{Window: 0x2a00001, Count: 3}, fakeAtoms(nil))
	assert.Equal(t, reactor.Expose{Window: 0x2a00001, Count: 3}, ev)
}

func TestTranslatePropertyNotify(t *testing.T) {
	atoms := fakeAtoms(map[xproto.Atom]string{301: reactor.AtomWMState})

	ev := translateEvent(xproto.PropertyNotifyEvent{Window: 0x100, Atom: 301, State: xproto.PropertyNewValue}, atoms)
	assert.Equal(t, reactor.PropertyChange{Window: 0x100, Property: reactor.AtomWMState}, ev)

	ev = translateEvent(xproto.PropertyNotifyEvent{Window: 0x100, Atom: 301, State: xproto.PropertyDelete}, atoms)
	assert.Equal(t, reactor.PropertyChange{Window: 0x100, Property: reactor.AtomWMState, Deleted: true}, ev)

	ev = translateEvent(xproto.PropertyNotifyEvent{Window: 0x100, Atom: 999}, atoms)
	assert.Equal(t, reactor.PropertyChange{Window: 0x100, Property: "atom 999"}, ev)
}

func TestTranslateOther(t *testing.T) {
	ev := translateEvent(xproto.ConfigureNotifyEvent{}, fakeAtoms(nil))
	assert.Equal(t, reactor.Other{Kind: "ConfigureNotify"}, ev)

	ev = translateEvent(xproto.MapNotifyEvent{}, fakeAtoms(nil))
	assert.Equal(t, reactor.Other{Kind: "MapNotify"}, ev)
}

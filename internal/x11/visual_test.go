package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindARGBVisual(t *testing.T) {
	screen := &xproto.ScreenInfo{
		AllowedDepths: []xproto.DepthInfo{
			{Depth: 24, Visuals: []xproto.VisualInfo{{VisualId: 0x21, Class: xproto.VisualClassTrueColor}}},
			{Depth: 32, Visuals: []xproto.VisualInfo{
				{VisualId: 0x40, Class: xproto.VisualClassDirectColor},
				{VisualId: 0x41, Class: xproto.VisualClassTrueColor},
				{VisualId: 0x42, Class: xproto.VisualClassTrueColor},
			}},
		},
	}

	visual, err := FindARGBVisual(screen)
	require.NoError(t, err)
	assert.Equal(t, xproto.Visualid(0x41), visual)
}

func TestFindARGBVisualMissing(t *testing.T) {
	screen := &xproto.ScreenInfo{
		AllowedDepths: []xproto.DepthInfo{
			{Depth: 24, Visuals: []xproto.VisualInfo{{VisualId: 0x21, Class: xproto.VisualClassTrueColor}}},
			{Depth: 32, Visuals: []xproto.VisualInfo{{VisualId: 0x40, Class: xproto.VisualClassDirectColor}}},
		},
	}

	_, err := FindARGBVisual(screen)
	assert.ErrorIs(t, err, ErrNoARGBVisual)

	_, err = FindARGBVisual(nil)
	assert.ErrorIs(t, err, ErrNoARGBVisual)
}

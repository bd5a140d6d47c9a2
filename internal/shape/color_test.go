package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"ff000080", 0xff000080},
		{"000000", 0x000000ff},
		{"#12ab34", 0x12ab34ff},
		{"0x12AB34CD", 0x12ab34cd},
		{" ffffffff ", 0xffffffff},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseColorRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "fff", "12345", "1234567", "123456789", "gg0000", "0x"} {
		_, err := ParseColor(in)
		assert.Error(t, err, "%q", in)
	}
}

func TestColorChannelsHalfTransparentRed(t *testing.T) {
	c, err := ParseColor("ff000080")
	require.NoError(t, err)

	r, g, b, a := c.Channels()
	assert.Equal(t, 1.0, r)
	assert.Equal(t, 0.0, g)
	assert.Equal(t, 0.0, b)
	assert.InDelta(t, 0.502, a, 0.001)
}

func TestColorChannelsRoundTrip(t *testing.T) {
	for _, c := range []Color{0, 0xffffffff, 0x000000ff, 0xff000080, 0x12345678, 0x01fe7f80} {
		assert.Equal(t, c, ColorFromChannels(c.Channels()), c.String())
	}
}

func TestColorFromChannelsClamps(t *testing.T) {
	assert.Equal(t, Color(0xff0000ff), ColorFromChannels(2, -1, 0, 1.5))
}

func TestColorMutedIsLighterAndKeepsAlpha(t *testing.T) {
	muted := Color(0x00000080).Muted()
	r, g, b, a := muted.RGBA()
	assert.Equal(t, uint8(0x80), r)
	assert.Equal(t, uint8(0x80), g)
	assert.Equal(t, uint8(0x80), b)
	assert.Equal(t, uint8(0x80), a)
}

func TestColorTextRoundTrip(t *testing.T) {
	c := Color(0xa1b2c3d4)
	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4", string(text))

	var back Color
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, c, back)
}

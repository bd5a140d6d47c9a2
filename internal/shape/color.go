package shape

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a packed 0xRRGGBBAA fill color.
type Color uint32

// Common colors.
const (
	Black Color = 0x000000ff
	White Color = 0xffffffff
)

// ParseColor decodes a hex color. Six digits (RRGGBB) get a fixed alpha of
// 0xff; eight digits (RRGGBBAA) carry their own alpha. A leading "#" or
// "0x" is accepted.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) > 2 && (hex[:2] == "0x" || hex[:2] == "0X") {
		hex = hex[2:]
	}

	switch len(hex) {
	case 6, 8:
	default:
		return 0, fmt.Errorf("invalid color %q: want RRGGBB or RRGGBBAA", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color(v), nil
}

// RGBA returns the individual 8-bit channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Channels returns the color as four components in [0, 1].
func (c Color) Channels() (r, g, b, a float64) {
	r8, g8, b8, a8 := c.RGBA()
	return float64(r8) / 255, float64(g8) / 255, float64(b8) / 255, float64(a8) / 255
}

// ColorFromChannels packs four [0, 1] components. Out of range values are
// clamped.
func ColorFromChannels(r, g, b, a float64) Color {
	return Color(channel(r)<<24 | channel(g)<<16 | channel(b)<<8 | channel(a))
}

func channel(v float64) uint32 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint32(math.Round(v * 255))
}

// Muted returns the color blended halfway toward white, keeping alpha.
func (c Color) Muted() Color {
	r, g, b, a := c.Channels()
	return ColorFromChannels((r+1)/2, (g+1)/2, (b+1)/2, a)
}

// String formats the color as eight lowercase hex digits.
func (c Color) String() string {
	return fmt.Sprintf("%08x", uint32(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

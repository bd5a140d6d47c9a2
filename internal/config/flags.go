package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/xcorners/internal/shape"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "XCORNERS"

// Flag names.
const (
	keyWidth            = "width"
	keyHeight           = "height"
	keyXOffset          = "x-offset"
	keyYOffset          = "y-offset"
	keyRadius           = "radius"
	keyTop              = "top"
	keyNoTop            = "no-top"
	keyBottom           = "bottom"
	keyNoBottom         = "no-bottom"
	keyColor            = "color"
	keyHighlight        = "highlight"
	keyHighlightColor   = "highlight-color"
	keyOverlay          = "overlay"
	keyRefreshRate      = "refresh-rate"
	keySingleInstance   = "single-instance"
	keyMonitor          = "monitor"
	keyNoFullscreenHide = "no-fullscreen-hide"
	keyDisplay          = "display"
	keyLogLevel         = "log-level"
)

// Keys lists every configuration key in display order.
var Keys = []string{
	keyWidth, keyHeight, keyXOffset, keyYOffset, keyRadius,
	keyTop, keyBottom, keyColor, keyHighlight, keyHighlightColor,
	keyOverlay, keyRefreshRate, keySingleInstance, keyMonitor,
	keyNoFullscreenHide, keyDisplay, keyLogLevel,
}

// Flags is the set of configuration flags registered on a pflag.FlagSet.
type Flags struct {
	set    *pflag.FlagSet
	top    bool
	bottom bool
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	d := Default()
	f := &Flags{set: fs, top: d.Geometry.Top, bottom: d.Geometry.Bottom}

	fs.VarP(newDecimal(0), keyWidth, "W", "horizontal space between the corners (default screen width)")
	fs.VarP(newDecimal(0), keyHeight, "H", "vertical space between the corners (default screen height)")
	fs.VarP(newDecimal(0), keyXOffset, "x", "horizontal offset")
	fs.VarP(newDecimal(0), keyYOffset, "y", "vertical offset")
	fs.VarP(newDecimal(d.Geometry.Radius), keyRadius, "r", "corner radius")

	fs.BoolFuncP(keyTop, "t", "enable top corners (default)", f.toggle(&f.top, true))
	fs.BoolFuncP(keyNoTop, "T", "disable top corners", f.toggle(&f.top, false))
	fs.BoolFuncP(keyBottom, "b", "enable bottom corners", f.toggle(&f.bottom, true))
	fs.BoolFuncP(keyNoBottom, "B", "disable bottom corners (default)", f.toggle(&f.bottom, false))

	fs.StringP(keyColor, "c", d.Color.String(), "fill color as hex RRGGBB or RRGGBBAA")
	fs.Bool(keyHighlight, false, "fill twice, first with a muted shade, for a soft edge")
	fs.String(keyHighlightColor, "", "muted shade for --highlight (default derived from --color)")

	fs.BoolP(keyOverlay, "o", false, "draw into the composite overlay window")
	fs.Float64P(keyRefreshRate, "f", d.RefreshRate, "overlay repaint rate in Hz")
	fs.BoolP(keySingleInstance, "1", false, "exit if another xcorners window already exists")
	fs.StringP(keyMonitor, "m", "", "RandR output to cover (default whole screen)")
	fs.Bool(keyNoFullscreenHide, false, "stay visible when a window goes fullscreen")
	fs.StringP(keyDisplay, "d", "", "X display to connect to (default $DISPLAY)")
	fs.String(keyLogLevel, d.LogLevel, "log level: debug, info, warn, error")

	return f
}

// toggle sets *target to value when the flag is given. "-t=false" inverts it.
func (f *Flags) toggle(target *bool, value bool) func(string) error {
	return func(s string) error {
		on, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*target = on == value
		return nil
	}
}

// decimal is a uint flag value that only accepts base 10, so "010" is ten.
type decimal uint

func newDecimal(v uint) *decimal {
	d := decimal(v)
	return &d
}

func (d *decimal) Set(s string) error {
	n, err := parseDecimal(s)
	if err != nil {
		return err
	}
	*d = decimal(n)
	return nil
}

func (d *decimal) String() string { return strconv.FormatUint(uint64(*d), 10) }
func (d *decimal) Type() string   { return "uint" }

func parseDecimal(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("expects a non-negative decimal number, got %q", s)
	}
	return uint(n), nil
}

// NewEnv returns a viper instance reading XCORNERS_* environment variables.
func NewEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// EnvName returns the environment variable consulted for key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Load resolves the configuration. Flags given on the command line win over
// environment variables, which win over defaults. Width and height are left
// zero when unset; see Config.Place.
func (f *Flags) Load(v *viper.Viper, lookupEnv func(string) (string, bool)) (*LoadResult, error) {
	if err := v.BindPFlags(f.set); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	l := loader{flags: f, v: v, lookupEnv: lookupEnv, sources: make(map[string]Source)}
	cfg := Default()
	g := &cfg.Geometry

	g.Width = l.uint(keyWidth)
	g.Height = l.uint(keyHeight)
	g.XOffset = l.uint(keyXOffset)
	g.YOffset = l.uint(keyYOffset)
	g.Radius = l.uint(keyRadius)
	g.Top = l.toggle(keyTop, keyNoTop, f.top, g.Top)
	g.Bottom = l.toggle(keyBottom, keyNoBottom, f.bottom, g.Bottom)

	cfg.Color = l.color(keyColor, cfg.Color)
	cfg.Highlight = l.bool(keyHighlight)
	if s := l.string(keyHighlightColor); s != "" {
		c, err := shape.ParseColor(s)
		if err != nil {
			l.fail(keyHighlightColor, err)
		} else {
			cfg.HighlightColor = &c
		}
	}

	if l.bool(keyOverlay) {
		cfg.Mode = ModeOverlay
	}
	cfg.RefreshRate = l.float(keyRefreshRate)
	cfg.SingleInstance = l.bool(keySingleInstance)
	cfg.Monitor = l.string(keyMonitor)
	cfg.HideOnFullscreen = !l.bool(keyNoFullscreenHide)
	cfg.Display = l.string(keyDisplay)
	cfg.LogLevel = l.string(keyLogLevel)

	if l.err != nil {
		return nil, l.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Sources: l.sources}, nil
}

// loader reads typed values through viper, records where each came from and
// keeps the first parse error.
type loader struct {
	flags     *Flags
	v         *viper.Viper
	lookupEnv func(string) (string, bool)
	sources   map[string]Source
	err       error
}

func (l *loader) source(key string) Source {
	if l.flags.set.Changed(key) {
		return Source{Kind: SourceFlag, Name: "--" + key}
	}
	if l.lookupEnv != nil {
		if _, ok := l.lookupEnv(EnvName(key)); ok {
			return Source{Kind: SourceEnv, Name: EnvName(key)}
		}
	}
	return Source{Kind: SourceDefault, Name: "defaults"}
}

func (l *loader) fail(key string, err error) {
	if l.err != nil {
		return
	}
	src := l.source(key)
	l.err = fmt.Errorf("%w: %s: %v", ErrInvalid, src.Name, err)
}

func (l *loader) raw(key string) string {
	l.sources[key] = l.source(key)
	return strings.TrimSpace(l.v.GetString(key))
}

func (l *loader) string(key string) string {
	return l.raw(key)
}

func (l *loader) uint(key string) uint {
	n, err := parseDecimal(l.raw(key))
	if err != nil {
		l.fail(key, err)
		return 0
	}
	return n
}

func (l *loader) float(key string) float64 {
	s := l.raw(key)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		l.fail(key, fmt.Errorf("expects a number, got %q", s))
		return 0
	}
	return n
}

func (l *loader) bool(key string) bool {
	s := l.raw(key)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		l.fail(key, fmt.Errorf("expects true or false, got %q", s))
		return false
	}
	return b
}

func (l *loader) color(key string, def shape.Color) shape.Color {
	s := l.raw(key)
	if s == "" {
		return def
	}
	c, err := shape.ParseColor(s)
	if err != nil {
		l.fail(key, err)
		return def
	}
	return c
}

// toggle resolves an enable/disable flag pair sharing one value. The pair
// is recorded under the enabling key. In the environment the disabling
// variable wins when both are set.
func (l *loader) toggle(on, off string, flagValue, def bool) bool {
	if l.flags.set.Changed(on) || l.flags.set.Changed(off) {
		name := on
		if l.flags.set.Changed(off) {
			name = off
		}
		l.sources[on] = Source{Kind: SourceFlag, Name: "--" + name}
		return flagValue
	}

	l.sources[on] = l.source(on)
	value := def
	if b, ok := l.envBool(on); ok {
		value = b
	}
	if b, ok := l.envBool(off); ok {
		value = !b
		l.sources[on] = l.source(off)
	}
	return value
}

// envBool reads a toggle key that was not given as a flag. ok is false when
// the key is unset or invalid.
func (l *loader) envBool(key string) (value, ok bool) {
	s := strings.TrimSpace(l.v.GetString(key))
	if s == "" {
		return false, false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		l.fail(key, fmt.Errorf("expects true or false, got %q", s))
		return false, false
	}
	return b, true
}

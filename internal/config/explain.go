package config

import (
	"fmt"
	"strings"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceEnv     SourceKind = "env"
	SourceFlag    SourceKind = "flag"
)

type Source struct {
	Kind SourceKind
	Name string // flag or environment variable name
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFlag, SourceEnv:
		return fmt.Sprintf("%s (%s)", s.Kind, s.Name)
	default:
		return string(SourceDefault)
	}
}

type LoadResult struct {
	Config  Config
	Sources map[string]Source // key -> where its value came from
}

// Explain returns the effective value of a configuration key and its source.
// Keys are flag names; "no-top" and "no-bottom" resolve to their pair.
func Explain(res *LoadResult, key string) (any, Source, error) {
	if res == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	key = strings.TrimPrefix(strings.TrimSpace(key), "--")
	if key == "" {
		return nil, Source{}, fmt.Errorf("key is empty")
	}
	switch key {
	case keyNoTop:
		key = keyTop
	case keyNoBottom:
		key = keyBottom
	}

	value, err := lookupValue(res.Config, key)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[key]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg Config, key string) (any, error) {
	g := cfg.Geometry
	switch key {
	case keyWidth:
		return g.Width, nil
	case keyHeight:
		return g.Height, nil
	case keyXOffset:
		return g.XOffset, nil
	case keyYOffset:
		return g.YOffset, nil
	case keyRadius:
		return g.Radius, nil
	case keyTop:
		return g.Top, nil
	case keyBottom:
		return g.Bottom, nil
	case keyColor:
		return cfg.Color, nil
	case keyHighlight:
		return cfg.Highlight, nil
	case keyHighlightColor:
		if cfg.HighlightColor == nil {
			return cfg.Color.Muted(), nil
		}
		return *cfg.HighlightColor, nil
	case keyOverlay:
		return cfg.Mode == ModeOverlay, nil
	case keyRefreshRate:
		return cfg.RefreshRate, nil
	case keySingleInstance:
		return cfg.SingleInstance, nil
	case keyMonitor:
		return cfg.Monitor, nil
	case keyNoFullscreenHide:
		return !cfg.HideOnFullscreen, nil
	case keyDisplay:
		return cfg.Display, nil
	case keyLogLevel:
		return cfg.LogLevel, nil
	default:
		return nil, fmt.Errorf("unknown key: %s", key)
	}
}

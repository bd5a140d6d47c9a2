// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"

	"github.com/gogpu/gg"
	"golang.org/x/term"
)

// Format selects the handler used by New.
type Format int

const (
	// FormatAuto picks text on a terminal and JSON otherwise.
	FormatAuto Format = iota
	FormatText
	FormatJSON
)

// Options configures New.
type Options struct {
	Level  slog.Leveler
	Format Format
}

// New returns a logger writing to w. gg's internal logger is pointed at the
// same handler.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if resolveFormat(w, opts.Format) == FormatJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	gg.SetLogger(logger.With("component", "gg"))
	return logger
}

func resolveFormat(w io.Writer, f Format) Format {
	if f != FormatAuto {
		return f
	}
	if fd, ok := w.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(fd.Fd())) {
		return FormatText
	}
	return FormatJSON
}

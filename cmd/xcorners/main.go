// Command xcorners draws rounded screen corners in a click-through window
// or on the composite overlay.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/xcorners/internal/platform"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, connectX11)
	stop()
	os.Exit(code)
}

func connectX11(display string, logger *slog.Logger) (platform.Backend, error) {
	backend, err := platform.NewLinuxBackendFromDisplay(display, logger)
	if err != nil {
		return nil, err
	}
	return backend, nil
}

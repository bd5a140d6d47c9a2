package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/xcorners/internal/config"
	"github.com/1broseidon/xcorners/internal/logging"
	"github.com/1broseidon/xcorners/internal/platform"
	"github.com/1broseidon/xcorners/internal/reactor"
	"github.com/1broseidon/xcorners/internal/shape"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// connectFunc opens the window-system backend.
type connectFunc func(display string, logger *slog.Logger) (platform.Backend, error)

type rootOptions struct {
	printConfig bool
	explain     string
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, connect connectFunc) int {
	cmd := newRootCmd(stdout, stderr, connect)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
		fmt.Fprintf(stderr, "Try `%s --help` for more information.\n", cmd.Name())
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer, connect connectFunc) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "xcorners [flags]",
		Short: "Rounded screen corners for X11",
		Long: `xcorners masks the corners of the screen with rounded, click-through
decorations.

By default the corners live in an override-redirect window that is redrawn
on exposure and hidden for good once a window goes fullscreen. With
--overlay they are painted onto the composite overlay window instead and
repainted at --refresh-rate.

Every long flag can also be set through an XCORNERS_<NAME> environment
variable, for example XCORNERS_RADIUS=16. Flags win over the environment.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.printConfig, "print-config", false, "print the resolved configuration as YAML and exit")
	cmd.Flags().StringVar(&opts.explain, "explain", "", "print the value of a flag and where it came from, then exit")
	cmd.Flags().SortFlags = false

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		res, err := flags.Load(config.NewEnv(), os.LookupEnv)
		if err != nil {
			return err
		}

		switch {
		case opts.explain != "":
			return explain(stdout, res, opts.explain)
		case opts.printConfig:
			return printConfig(stdout, res.Config)
		}

		level, err := config.ParseLevel(res.Config.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(stderr, logging.Options{Level: level})
		return decorate(cmd.Context(), res.Config, stdout, logger, connect)
	}

	return cmd
}

func explain(w io.Writer, res *config.LoadResult, key string) error {
	value, src, err := config.Explain(res, key)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "key: %s\n", key)
	fmt.Fprintf(w, "source: %s\n", src)
	fmt.Fprintf(w, "value: %s", out)
	return nil
}

func printConfig(w io.Writer, cfg config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// decorate connects to the display and runs until ctx is cancelled or the
// connection goes away.
func decorate(ctx context.Context, cfg config.Config, stdout io.Writer, logger *slog.Logger, connect connectFunc) error {
	backend, err := connect(cfg.Display, logger)
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	if cfg.SingleInstance {
		running, err := backend.InstanceRunning(config.ClassName)
		if err != nil {
			logger.Warn("instance check failed", "error", err)
		}
		if running {
			fmt.Fprintf(stdout, "%s is already running\n", config.ClassName)
			return nil
		}
	}

	if ok, err := backend.CompositorRunning(); err != nil {
		logger.Debug("compositor check failed", "error", err)
	} else if !ok {
		logger.Warn("no compositing manager is running; transparent corners will render opaque")
	}

	area, err := platform.Area(backend, cfg.Monitor)
	if err != nil {
		return err
	}
	cfg = cfg.Place(area)
	if err := cfg.Validate(); err != nil {
		return err
	}
	bounds := cfg.Geometry.Bounds()

	img, err := shape.Rasterize(cfg.Geometry, cfg.Passes())
	if err != nil {
		return fmt.Errorf("render corners: %w", err)
	}
	logger.Debug("corners rendered", "bounds", bounds, "radius", cfg.Geometry.Radius, "mode", cfg.Mode)

	if cfg.Mode == config.ModeOverlay {
		return runOverlay(ctx, cfg, backend, img, logger)
	}
	return runWindow(ctx, cfg, backend, img, logger)
}

func runWindow(ctx context.Context, cfg config.Config, backend platform.Backend, img *image.RGBA, logger *slog.Logger) error {
	dec, err := backend.NewDecoration(cfg.Geometry.Bounds(), config.ClassName, img)
	if err != nil {
		return err
	}
	defer dec.Close()

	events := backend.Events(ctx)
	if err := dec.Show(); err != nil {
		return err
	}

	r := reactor.New(reactor.Config{
		HideOnFullscreen: cfg.HideOnFullscreen,
		Logger:           logger,
	}, dec)
	if err := r.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runOverlay(ctx context.Context, cfg config.Config, backend platform.Backend, img *image.RGBA, logger *slog.Logger) error {
	ov, err := backend.NewOverlay(cfg.Geometry.Bounds().Min, img)
	if err != nil {
		return err
	}
	defer ov.Close()

	r := reactor.NewRepainter(reactor.RepainterConfig{
		RefreshRate: cfg.RefreshRate,
		Logger:      logger,
	}, ov)
	return r.Run(ctx)
}

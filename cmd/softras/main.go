// softras - software rasterizer viewer
// Renders a small demo world on the CPU and shows it in the terminal, in a
// desktop window, or as a series of image files.
//
// Controls:
//
//	A/D, ←/→   - Orbit left/right
//	W/S, ↑/↓   - Orbit up/down
//	+/-        - Zoom in/out
//	Space      - Kick the bouncing sprite
//	V, Tab     - Cycle debug view (normal, depth, clickables)
//	F          - Toggle fill rule (top-left, inclusive)
//	C          - Toggle backface culling
//	P          - Pause animation
//	R          - Reset view
//	Esc, Q     - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/softras/internal/config"
	"github.com/taigrr/softras/internal/demo"
	"github.com/taigrr/softras/internal/platform"
	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/render"
)

var version = "dev"

// options are the flag values shared by every command.
type options struct {
	configPath string
	logLevel   string
	flags      config.Flags
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "softras",
		Short: "A CPU software rasterizer and demo viewer",
		Long: "softras renders a small 3D world entirely on the CPU: clipped, " +
			"perspective-correct triangles, lines, sprites and a depth buffer.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "JSON config file")
	pf.StringVar(&opts.flags.Model, "model", "", "glTF/GLB model to show at the origin")
	pf.StringVar(&opts.flags.Texture, "texture", "", "floor texture (PNG/JPEG/BMP/TGA)")
	pf.StringVar(&opts.flags.Sprite, "sprite", "", "sprite image; magenta (255,0,255) is transparent")
	pf.StringVar(&opts.flags.DebugMode, "debug", "", "debug view: normal, depth or clickables")
	pf.StringVar(&opts.flags.FillRule, "fill", "", "fill rule: top-left or inclusive")
	pf.BoolVar(&opts.flags.NoCull, "no-cull", false, "draw back faces")
	pf.IntVar(&opts.flags.TickHz, "hz", 0, "fixed update rate")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(newPlayCmd(opts), newWindowCmd(opts), newSnapshotCmd(opts))
	return root
}

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Show the demo in the terminal (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}
}

func newWindowCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the demo in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, world, err := setup(opts)
			if err != nil {
				return err
			}
			return platform.RunWindow(world, cfg.Width, cfg.Height, cfg.Scale, cfg.TickHz)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.flags.Width, "width", 0, "framebuffer width in pixels")
	f.IntVar(&opts.flags.Height, "height", 0, "framebuffer height in pixels")
	f.IntVar(&opts.flags.Scale, "scale", 0, "window pixels per framebuffer pixel")
	return cmd
}

func newSnapshotCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render frames headlessly to image files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, world, err := setup(opts)
			if err != nil {
				return err
			}
			snap := &platform.Snapshot{
				Width:   cfg.Width,
				Height:  cfg.Height,
				Steps:   cfg.Frames,
				Dir:     cfg.OutputDir,
				Format:  cfg.Format,
				Upscale: cfg.Upscale,
				Step:    engine.NewFixedStep(cfg.TickHz),
			}
			paths, err := snap.Run(cmd.Context(), world)
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", len(paths), cfg.OutputDir)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.flags.Width, "width", 0, "framebuffer width in pixels")
	f.IntVar(&opts.flags.Height, "height", 0, "framebuffer height in pixels")
	f.IntVar(&opts.flags.Frames, "frames", 0, "number of fixed steps to render")
	f.StringVar(&opts.flags.OutputDir, "out", "", "output directory")
	f.StringVar(&opts.flags.Format, "format", "", "image format: png or webp")
	f.IntVar(&opts.flags.Upscale, "upscale", 0, "integer upscale factor for written frames")
	return cmd
}

func runPlay(ctx context.Context, opts *options) error {
	cfg, world, err := setup(opts)
	if err != nil {
		return err
	}
	return platform.NewTerminal(cfg.TickHz, render.Logger()).Run(ctx, world)
}

// setup installs the logger, resolves the config and builds the world.
func setup(opts *options) (config.Config, *demo.World, error) {
	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	render.SetLogger(logger)

	var cfg config.Config
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, nil, err
		}
	}
	cfg.Resolve(opts.flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	assets, err := demo.LoadAssets(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	world, err := demo.New(cfg, assets)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger.Debug("world ready", "width", cfg.Width, "height", cfg.Height, "hz", cfg.TickHz)
	return cfg, world, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

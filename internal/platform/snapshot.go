package platform

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/render"
)

// Snapshot renders a fixed number of steps without a clock and writes
// every drawn frame to Dir as frame_0000.png (or .webp).
type Snapshot struct {
	Width, Height int
	Steps         int
	Dir           string
	Format        string // "png" or "webp"
	Upscale       int
	Step          *engine.FixedStep
	Input         *engine.Input // scripted input; may be nil
}

// Run drives app for s.Steps updates, drawing after each one, and returns
// the paths written in frame order.
func (s *Snapshot) Run(ctx context.Context, app engine.Application) ([]string, error) {
	save, ext, err := encoder(s.Format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	step := s.Step
	if step == nil {
		step = engine.NewFixedStep(0)
	}
	in := s.Input
	if in == nil {
		in = engine.NewInput()
	}

	fb := render.NewFramebuffer(s.Width, s.Height)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var paths []string
	for i := range s.Steps {
		if gctx.Err() != nil {
			break
		}
		drawn, err := engine.Tick(app, in, step, step.Step, fb)
		if err != nil {
			if err := quitOK(err); err != nil {
				_ = g.Wait()
				return paths, err
			}
			break
		}
		if !drawn {
			continue
		}

		// The encoder gets its own copy; fb is reused by the next step.
		img := fb.Scaled(s.Upscale)
		path := filepath.Join(s.Dir, fmt.Sprintf("frame_%04d.%s", i, ext))
		paths = append(paths, path)
		g.Go(func() error { return save(path, img) })
	}
	if err := g.Wait(); err != nil {
		return paths, err
	}
	render.Logger().Info("snapshot written", "frames", len(paths), "dir", s.Dir)
	return paths, ctx.Err()
}

func encoder(format string) (func(string, image.Image) error, string, error) {
	switch format {
	case "", "png":
		return render.SavePNG, "png", nil
	case "webp":
		return render.SaveWebP, "webp", nil
	}
	return nil, "", fmt.Errorf("unknown image format %q", format)
}

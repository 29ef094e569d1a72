package engine

import (
	"time"

	"github.com/taigrr/softras/pkg/render"
)

// Application is driven by a backend through Tick.
type Application interface {
	// Update advances the simulation by dt seconds. Returning ErrQuit ends
	// the loop without error.
	Update(in *Input, dt float64) error
	// Draw renders the current state into fb.
	Draw(fb *render.Framebuffer)
}

// Tick runs as many fixed updates as elapsed allows and draws after the
// last one. It reports whether Draw was called.
func Tick(app Application, in *Input, step *FixedStep, elapsed time.Duration, fb *render.Framebuffer) (drawn bool, err error) {
	err = step.Advance(elapsed, func(dt float64, last bool) error {
		err := app.Update(in, dt)
		in.CachePrevious()
		if err != nil {
			return err
		}
		if last {
			app.Draw(fb)
			drawn = true
		}
		return nil
	})
	return drawn, err
}

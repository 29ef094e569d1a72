package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/render"
)

// terminalKeys are the key names forwarded from terminal key events.
var terminalKeys = []engine.Key{
	engine.KeyEscape, engine.KeySpace, engine.KeyTab, engine.KeyEnter,
	engine.KeyUp, engine.KeyDown, engine.KeyLeft, engine.KeyRight,
	"a", "c", "d", "f", "p", "q", "r", "s", "v", "w",
	"+", "=", "-",
}

var hudStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#E0E0E0")).
	Background(lipgloss.Color("#303040")).
	Bold(true)

// Terminal shows frames as half-block cells, two pixel rows per cell, with
// a status line on the last row.
type Terminal struct {
	Step   *engine.FixedStep
	Logger *slog.Logger

	term    *uv.Terminal
	input   *engine.Input
	fb      *render.Framebuffer
	resized chan [2]int
}

// NewTerminal prepares a terminal backend running hz updates per second.
func NewTerminal(hz int, logger *slog.Logger) *Terminal {
	return &Terminal{
		Step:    engine.NewFixedStep(hz),
		Logger:  logger,
		input:   engine.NewInput(),
		resized: make(chan [2]int, 1),
	}
}

// Run drives app until it quits, ctx is cancelled or ctrl+c is pressed.
func (t *Terminal) Run(ctx context.Context, app engine.Application) error {
	t.term = uv.DefaultTerminal()
	if t.Logger != nil {
		t.term.SetLogger(slog.NewLogLogger(t.Logger.Handler(), slog.LevelDebug))
	}

	width, height, err := t.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	t.term.EnterAltScreen()
	t.term.HideCursor()
	t.term.Resize(width, height)
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode
	defer t.cleanup()

	t.fb = render.NewFramebuffer(width, max(height-1, 1)*2)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.pumpEvents(ctx) })
	g.Go(func() error { return t.loop(ctx, app) })
	return quitOK(g.Wait())
}

func (t *Terminal) cleanup() {
	fmt.Fprint(os.Stdout, "\x1b[?1003l")
	fmt.Fprint(os.Stdout, "\x1b[?1006l")
	t.term.ExitAltScreen()
	t.term.ShowCursor()
	t.term.Shutdown(context.Background())
}

// pumpEvents turns terminal events into Input changes. Most terminals
// report presses only, so keys are pulsed for one step.
func (t *Terminal) pumpEvents(ctx context.Context) error {
	events := t.term.Events()
	for {
		var ev uv.Event
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return engine.ErrQuit
			}
			ev = e
		}

		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			select {
			case <-t.resized:
			default:
			}
			t.resized <- [2]int{ev.Width, ev.Height}

		case uv.KeyPressEvent:
			if ev.MatchString("ctrl+c") {
				return engine.ErrQuit
			}
			for _, k := range terminalKeys {
				if ev.MatchString(string(k)) {
					t.input.Pulse(k)
				}
			}

		case uv.KeyReleaseEvent:
			for _, k := range terminalKeys {
				if ev.MatchString(string(k)) {
					t.input.SetKey(k, false)
				}
			}

		case uv.MouseClickEvent:
			t.input.SetMouse(ev.X, ev.Y*2)
			if ev.Button == uv.MouseLeft {
				t.input.SetKey(engine.KeyMouseLeft, true)
			}

		case uv.MouseReleaseEvent:
			t.input.SetKey(engine.KeyMouseLeft, false)

		case uv.MouseMotionEvent:
			t.input.SetMouse(ev.X, ev.Y*2)
		}
	}
}

func (t *Terminal) loop(ctx context.Context, app engine.Application) error {
	ticker := time.NewTicker(t.Step.Step)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case size := <-t.resized:
			t.term.Erase()
			t.term.Resize(size[0], size[1])
			t.fb.Resize(size[0], max(size[1]-1, 1)*2)
		case now := <-ticker.C:
			drawn, err := engine.Tick(app, t.input, t.Step, now.Sub(last), t.fb)
			last = now
			if err != nil {
				return err
			}
			if drawn {
				if err := t.present(app); err != nil {
					return err
				}
			}
		}
	}
}

func (t *Terminal) present(app engine.Application) error {
	rows := t.fb.Height / 2
	t.fb.Draw(t.term, uv.Rect(0, 0, t.fb.Width, rows))
	line := hudStyle.Width(t.fb.Width).MaxWidth(t.fb.Width).Render(status(app))
	uv.NewStyledString(line).Draw(t.term, uv.Rect(0, rows, t.fb.Width, 1))
	if err := t.term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

package platform

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/render"
)

// windowKeys maps ebiten keys to engine key names.
var windowKeys = map[ebiten.Key]engine.Key{
	ebiten.KeyEscape:     engine.KeyEscape,
	ebiten.KeySpace:      engine.KeySpace,
	ebiten.KeyTab:        engine.KeyTab,
	ebiten.KeyEnter:      engine.KeyEnter,
	ebiten.KeyArrowUp:    engine.KeyUp,
	ebiten.KeyArrowDown:  engine.KeyDown,
	ebiten.KeyArrowLeft:  engine.KeyLeft,
	ebiten.KeyArrowRight: engine.KeyRight,
	ebiten.KeyA:          "a",
	ebiten.KeyC:          "c",
	ebiten.KeyD:          "d",
	ebiten.KeyF:          "f",
	ebiten.KeyP:          "p",
	ebiten.KeyQ:          "q",
	ebiten.KeyR:          "r",
	ebiten.KeyS:          "s",
	ebiten.KeyV:          "v",
	ebiten.KeyW:          "w",
	ebiten.KeyEqual:      "=",
	ebiten.KeyMinus:      "-",
}

// RunWindow opens a desktop window showing app at width×height pixels,
// each drawn scale×scale. It blocks until the window closes or app quits.
func RunWindow(app engine.Application, width, height, scale, hz int) error {
	g := &windowGame{
		app:  app,
		in:   engine.NewInput(),
		step: engine.NewFixedStep(hz),
		fb:   render.NewFramebuffer(width, height),
		pix:  make([]byte, width*height*4),
	}
	ebiten.SetWindowTitle("softras")
	ebiten.SetWindowSize(width*scale, height*scale)
	ebiten.SetTPS(hz)
	return quitOK(ebiten.RunGame(g))
}

type windowGame struct {
	app  engine.Application
	in   *engine.Input
	step *engine.FixedStep
	fb   *render.Framebuffer
	img  *ebiten.Image
	pix  []byte
	last time.Time
}

func (g *windowGame) Update() error {
	for ek, k := range windowKeys {
		g.in.SetKey(k, ebiten.IsKeyPressed(ek))
	}
	g.in.SetKey(engine.KeyMouseLeft, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	g.in.SetKey(engine.KeyMouseRight, ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight))
	g.in.SetMouse(ebiten.CursorPosition())

	now := time.Now()
	if g.last.IsZero() {
		g.last = now.Add(-g.step.Step)
	}
	_, err := engine.Tick(g.app, g.in, g.step, now.Sub(g.last), g.fb)
	g.last = now
	if err != nil {
		if errors.Is(err, engine.ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.fb.Width, g.fb.Height)
	}
	for i, c := range g.fb.Pixels {
		g.pix[i*4+0] = c.R
		g.pix[i*4+1] = c.G
		g.pix[i*4+2] = c.B
		g.pix[i*4+3] = 0xFF
	}
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
	ebitenutil.DebugPrint(screen, status(g.app))
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width, g.fb.Height
}

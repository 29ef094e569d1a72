// Package demo is the scene shown by the softras viewer. It exercises every
// primitive of the rasterizer: meshes, immediate triangles, lines, sprites
// and gizmos.
package demo

import (
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/softras/internal/config"
	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

const (
	orbitStep    = math.Pi / 12
	minDistance  = 2.0
	maxDistance  = 20.0
	ballSize     = 0.5
	ballBounce   = 0.8
	floorY       = -1.0
	spinPerSec   = 0.6
	hueDegPerSec = 40.0
)

// orbit is one camera axis eased towards its target by a spring.
type orbit struct {
	pos, vel, target float64
	spring           harmonica.Spring
}

func (o *orbit) update() {
	o.pos, o.vel = o.spring.Update(o.pos, o.vel, o.target)
}

// World implements engine.Application.
type World struct {
	cfg    config.Config
	assets Assets
	bg     render.Color

	r      *render.Rasterizer
	camera *render.Camera
	light  math3d.Vec3

	yaw, pitch, distance orbit

	cube  *models.Mesh
	floor *models.Mesh

	delta  float64 // seconds per update
	ball   *harmonica.Projectile
	time   float64
	paused bool

	stats  render.Stats
	picked int // triangle under the mouse in clickables mode, -1 for none
	mouseX int
	mouseY int
}

// New builds the scene. cfg must already be resolved and valid.
func New(cfg config.Config, assets Assets) (*World, error) {
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	w := &World{
		cfg:    cfg,
		assets: assets,
		bg:     bg,
		r:      render.NewRasterizer(nil),
		camera: render.NewCamera(math3d.Radians(cfg.FOVDegrees), float64(cfg.Width)/float64(cfg.Height), cfg.Near, cfg.Far),
		light:  math3d.V3(0.5, 1, 0.3).Normalize(),
		cube:   models.NewCube(1, [6]math3d.Vec3{}),
		floor:  models.NewPlane(float64(2 * render.GridSize)),
		delta:  harmonica.FPS(cfg.TickHz),
		picked: -1,
	}
	cfg.Apply(w.r)

	// Frequency 6, damping 0.7: quick with a little overshoot.
	for _, o := range []*orbit{&w.yaw, &w.pitch, &w.distance} {
		o.spring = harmonica.NewSpring(w.delta, 6.0, 0.7)
	}
	w.Reset()
	w.recolorCube()
	return w, nil
}

// Reset puts the camera and the bouncing ball back to their start.
func (w *World) Reset() {
	w.yaw = orbit{spring: w.yaw.spring, pos: 0.6, target: 0.6}
	w.pitch = orbit{spring: w.pitch.spring, pos: 0.35, target: 0.35}
	w.distance = orbit{spring: w.distance.spring, pos: 6, target: 6}
	w.kick(math3d.V3(-2.5, floorY, 1.5), 4)
	w.placeCamera()
}

// kick restarts the ball at pos with an upward speed.
func (w *World) kick(pos math3d.Vec3, speed float64) {
	w.ball = harmonica.NewProjectile(w.delta,
		harmonica.Point{X: pos.X, Y: pos.Y, Z: pos.Z},
		harmonica.Vector{X: 0.3, Y: speed, Z: 0},
		harmonica.Gravity)
}

// Update implements engine.Application.
func (w *World) Update(in *engine.Input, dt float64) error {
	if in.Pressed(engine.KeyEscape) || in.Pressed("q") {
		return engine.ErrQuit
	}
	w.handleKeys(in)
	w.mouseX, w.mouseY = in.Mouse()

	w.yaw.update()
	w.pitch.update()
	w.distance.update()
	w.placeCamera()

	if !w.paused {
		w.time += dt
		w.recolorCube()
	}
	w.stepBall()
	return nil
}

func (w *World) handleKeys(in *engine.Input) {
	switch {
	case in.Held("a") || in.Held(engine.KeyLeft):
		w.yaw.target -= orbitStep / 3
	case in.Held("d") || in.Held(engine.KeyRight):
		w.yaw.target += orbitStep / 3
	}
	switch {
	case in.Held("w") || in.Held(engine.KeyUp):
		w.pitch.target = math3d.Clamp(w.pitch.target+orbitStep/3, -1.2, 1.2)
	case in.Held("s") || in.Held(engine.KeyDown):
		w.pitch.target = math3d.Clamp(w.pitch.target-orbitStep/3, -1.2, 1.2)
	}
	switch {
	case in.Held("+") || in.Held("="):
		w.distance.target = max(minDistance, w.distance.target-0.25)
	case in.Held("-"):
		w.distance.target = min(maxDistance, w.distance.target+0.25)
	}

	if in.Pressed(engine.KeySpace) {
		p := w.ball.Position()
		w.kick(math3d.V3(p.X, max(p.Y, floorY), p.Z), 5)
	}
	if in.Pressed("v") || in.Pressed(engine.KeyTab) {
		w.r.Debug = w.r.Debug.Next()
	}
	if in.Pressed("f") {
		if w.r.FillRule == render.FillTopLeft {
			w.r.FillRule = render.FillInclusive
		} else {
			w.r.FillRule = render.FillTopLeft
		}
	}
	if in.Pressed("c") {
		w.r.DisableBackfaceCulling = !w.r.DisableBackfaceCulling
	}
	if in.Pressed("p") {
		w.paused = !w.paused
	}
	if in.Pressed("r") {
		w.Reset()
	}
}

func (w *World) placeCamera() {
	w.camera.Orbit(math3d.V3(0, 0, 0), w.distance.pos, w.yaw.pos, w.pitch.pos)
}

// stepBall advances the projectile and bounces it off the floor, losing
// some speed each time.
func (w *World) stepBall() {
	p := w.ball.Update()
	if p.Y >= floorY {
		return
	}
	v := w.ball.Velocity()
	if v.Y < 0 {
		speed := -v.Y * ballBounce
		if speed < 0.5 {
			speed = 4 // rest, then hop again
		}
		w.kick(math3d.V3(p.X, floorY, p.Z), speed)
	}
}

// recolorCube walks the cube sides around the hue wheel.
func (w *World) recolorCube() {
	base := math.Mod(w.time*hueDegPerSec, 360)
	for i := range w.cube.Vertices {
		side := i / 4
		c := colorful.Hsv(math.Mod(base+float64(side)*60, 360), 0.65, 0.95)
		w.cube.Vertices[i].Color = math3d.V3(c.R, c.G, c.B)
	}
}

// Draw implements engine.Application.
func (w *World) Draw(fb *render.Framebuffer) {
	if w.r.Target() != render.Target(fb) {
		w.r.SetTarget(fb)
	}
	if fb.Height > 0 {
		w.camera.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	}

	bg := w.bg
	if w.r.Debug != render.DebugNormal {
		bg = render.ColorBlack
	}
	fb.Clear(bg)
	w.r.Begin(w.camera.ViewProjectionMatrix())

	w.drawFloor()
	render.DrawGrid(w.r, math3d.V3(0, floorY+0.001, 0), 1, render.ColorGray)
	render.DrawAxes(w.r, 1.5)

	spin := math3d.RotateY(w.time * spinPerSec).Mul(math3d.RotateX(w.time * spinPerSec / 2))
	w.r.DrawMesh(w.cube, math3d.Translate(math3d.V3(2.5, 0, 0)).Mul(spin), &w.light)
	render.DrawCube(w.r, math3d.Translate(math3d.V3(2.5, 0, 0)).Mul(spin), 1.05, render.ColorWhite)

	w.drawModel(spin)
	w.drawSail()
	w.drawSprites()
	w.drawLightGizmos()
	if w.r.Debug == render.DebugNormal {
		// Sprite legend in the top-left corner.
		sp := w.assets.Sprite
		fb.Blit(sp, image.Rect(0, 0, sp.Width, sp.Height), 1, 1, true)
	}

	w.stats = w.r.Stats()
	w.picked = -1
	if w.r.Debug == render.DebugClickables {
		if id, ok := render.PickID(fb.GetPixel(w.mouseX, w.mouseY)); ok {
			w.picked = id
		}
	}
}

func (w *World) drawFloor() {
	prev := w.r.BindTexture(w.assets.Floor)
	w.r.DrawMesh(w.floor, math3d.Translate(math3d.V3(0, floorY, 0)), nil)
	w.r.BindTexture(prev)
}

func (w *World) drawModel(spin math3d.Mat4) {
	m := w.assets.Model
	if m == nil {
		// Without a model the origin shows a spinning wire cube.
		render.DrawCube(w.r, spin, 1.5, render.ColorCyan)
		return
	}
	if m.Texture != nil {
		prev := w.r.BindTexture(m.Texture)
		defer w.r.BindTexture(prev)
	}
	w.r.DrawMesh(m, math3d.RotateY(w.time*spinPerSec), &w.light)
}

// drawSail is an immediate-mode quad whose corner colors are Lab blends
// between two hues, one corner per triangle fan vertex.
func (w *World) drawSail() {
	a := colorful.Hsv(200, 0.8, 0.9)
	b := colorful.Hsv(20, 0.8, 0.9)
	corner := func(t float64) math3d.Vec3 {
		c := a.BlendLab(b, t).Clamped()
		return math3d.V3(c.R, c.G, c.B)
	}
	v0 := render.V(-3, -1, -2).WithColor(corner(0))
	v1 := render.V(-1, -1, -3).WithColor(corner(1.0 / 3))
	v2 := render.V(-1, 1, -3).WithColor(corner(2.0 / 3))
	v3 := render.V(-3, 1, -2).WithColor(corner(1))
	// Two-sided: draw both windings so it shows from every angle.
	w.r.DrawTriangle(v0, v1, v2)
	w.r.DrawTriangle(v0, v2, v3)
	w.r.DrawTriangle(v0, v2, v1)
	w.r.DrawTriangle(v0, v3, v2)
}

func (w *World) drawSprites() {
	const ring = 8
	for i := range ring {
		a := float64(i) * 2 * math.Pi / ring
		w.r.DrawSprite(math3d.V3(5*math.Cos(a), floorY, 5*math.Sin(a)), 1.2, w.assets.Sprite)
	}
	p := w.ball.Position()
	w.r.DrawSprite(math3d.V3(p.X, p.Y, p.Z), ballSize, w.assets.Sprite)
}

// drawLightGizmos marks the light direction with a dotted line of points.
func (w *World) drawLightGizmos() {
	for i := 1; i <= 8; i++ {
		p := w.light.Scale(float64(i) * 0.25)
		w.r.DrawGizmo(render.VertexAt(p).WithColor(math3d.V3(1, 1, 0)))
	}
}

// Stats are the counters of the last drawn frame.
func (w *World) Stats() render.Stats { return w.stats }

// Picked is the triangle under the mouse in clickables mode, or -1.
func (w *World) Picked() int { return w.picked }

// Status summarises the render options and last frame's counters for a HUD.
func (w *World) Status() string {
	cull := "on"
	if w.r.DisableBackfaceCulling {
		cull = "off"
	}
	s := fmt.Sprintf("%s | fill %s | cull %s | tris %d culled %d rejected %d | lines %d sprites %d",
		w.r.Debug, w.r.FillRule, cull,
		w.stats.Triangles, w.stats.Culled, w.stats.Rejected, w.stats.Lines, w.stats.Sprites)
	if w.picked >= 0 {
		s += fmt.Sprintf(" | pick #%d", w.picked)
	}
	return s
}

// Rasterizer exposes the world's rasterizer for backends that tweak it.
func (w *World) Rasterizer() *render.Rasterizer { return w.r }

package render

import (
	"image"
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// FillRule decides ownership of pixels that lie exactly on a triangle edge.
type FillRule int

const (
	// FillTopLeft draws edge pixels only for top and left edges, so triangles
	// sharing an edge never touch the same pixel twice.
	FillTopLeft FillRule = iota
	// FillInclusive draws every pixel with all edge functions >= 0.
	FillInclusive
)

func (f FillRule) String() string {
	switch f {
	case FillTopLeft:
		return "top-left"
	case FillInclusive:
		return "inclusive"
	}
	return "unknown"
}

// Viewport maps normalized device coordinates to pixels:
// x = ndc.x*HalfW + OriginX, y = -ndc.y*HalfH + OriginY.
type Viewport struct {
	HalfW, HalfH     float64
	OriginX, OriginY float64
}

// Stats counts what happened during the current frame. Begin resets it.
type Stats struct {
	Triangles    int // triangles rasterized
	Culled       int // back-facing or zero-area triangles
	Rejected     int // triangles clipped away entirely
	Lines        int
	Sprites      int
	Gizmos       int
	MeshesTested int
	MeshesCulled int
}

// Rasterizer owns the per-frame render state: the depth buffer, the
// view-projection matrix, the viewport and the bound texture.
//
// A new Rasterizer is ready but inactive. Draw calls are ignored until the
// first Begin.
type Rasterizer struct {
	target   Target
	width    int
	height   int
	depth    []float32
	viewProj math3d.Mat4
	viewport Viewport
	scissor  image.Rectangle
	texture  *Texture
	clipper  *Clipper
	active   bool
	stats    Stats

	frustum      Frustum
	frustumDirty bool

	// DisableBackfaceCulling rasterizes back faces with their winding
	// swapped instead of dropping them.
	DisableBackfaceCulling bool
	FillRule               FillRule
	Debug                  DebugMode
	// DepthRange is the clip-space depth drawn as black in DebugDepth.
	DepthRange float64
}

// NewRasterizer creates a rasterizer bound to target.
func NewRasterizer(target Target) *Rasterizer {
	r := &Rasterizer{
		target:     target,
		clipper:    NewClipper(),
		DepthRange: 32,
	}
	r.Resize()
	return r
}

// SetTarget switches to a new pixel buffer and resizes the depth buffer to
// match.
func (r *Rasterizer) SetTarget(t Target) {
	r.target = t
	r.Resize()
}

// Target returns the current pixel buffer.
func (r *Rasterizer) Target() Target {
	return r.target
}

// Resize re-reads the target size, reallocates the depth buffer and resets
// the viewport to cover the whole target.
func (r *Rasterizer) Resize() {
	r.width, r.height = 0, 0
	if r.target != nil {
		r.width, r.height = r.target.Size()
	}
	r.depth = make([]float32, r.width*r.height)
	r.SetViewport(0, 0, r.width, r.height)
	r.ClearDepth()
	Logger().Debug("rasterizer resized", "width", r.width, "height", r.height)
}

// Width returns the target width.
func (r *Rasterizer) Width() int { return r.width }

// Height returns the target height.
func (r *Rasterizer) Height() int { return r.height }

// SetViewport maps NDC onto the w×h pixel rectangle at (x, y). Triangles,
// lines and sprites never write outside that rectangle.
func (r *Rasterizer) SetViewport(x, y, w, h int) {
	r.viewport = Viewport{
		HalfW:   float64(w) / 2,
		HalfH:   float64(h) / 2,
		OriginX: float64(x) + float64(w)/2,
		OriginY: float64(y) + float64(h)/2,
	}
	r.scissor = image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, r.width, r.height))
}

// Viewport returns the current viewport descriptor.
func (r *Rasterizer) Viewport() Viewport {
	return r.viewport
}

// Begin starts a frame: it stores viewProj, clears the depth buffer and
// resets the counters. The color buffer is left alone.
func (r *Rasterizer) Begin(viewProj math3d.Mat4) {
	if r.target != nil {
		if w, h := r.target.Size(); w != r.width || h != r.height || len(r.depth) != w*h {
			r.Resize()
		}
	}
	r.viewProj = viewProj
	r.frustumDirty = true
	r.ClearDepth()
	r.stats = Stats{}
	r.active = true
}

// ClearDepth fills the depth buffer with the farthest representable depth.
func (r *Rasterizer) ClearDepth() {
	n := len(r.depth)
	if n == 0 {
		return
	}
	r.depth[0] = math.MaxFloat32
	for i := 1; i < n; i *= 2 {
		copy(r.depth[i:], r.depth[:i])
	}
}

// Depth returns the stored depth at (x, y), or MaxFloat32 out of range.
func (r *Rasterizer) Depth(x, y int) float32 {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return math.MaxFloat32
	}
	return r.depth[y*r.width+x]
}

// ViewProjection returns the matrix given to the last Begin.
func (r *Rasterizer) ViewProjection() math3d.Mat4 {
	return r.viewProj
}

// Stats returns the counters of the current frame.
func (r *Rasterizer) Stats() Stats {
	return r.stats
}

// BindTexture makes t the texture sampled by subsequent triangles and
// returns the previously bound one. Passing nil unbinds.
func (r *Rasterizer) BindTexture(t *Texture) (prev *Texture) {
	prev, r.texture = r.texture, t
	return prev
}

// UnbindTexture is BindTexture(nil).
func (r *Rasterizer) UnbindTexture() (prev *Texture) {
	return r.BindTexture(nil)
}

// Texture returns the bound texture, if any.
func (r *Rasterizer) Texture() *Texture {
	return r.texture
}

// ready reports whether draw calls may touch the buffers.
func (r *Rasterizer) ready() bool {
	return r.active && r.target != nil && len(r.depth) == r.width*r.height && r.width > 0 && r.height > 0
}

// screenVertex is a vertex after perspective divide and viewport transform.
// W and Z are kept from clip space for perspective correction and depth.
type screenVertex struct {
	X, Y  int
	Z, W  float64
	Color math3d.Vec3
	UV    math3d.Vec2
}

// project divides a clip-space vertex by w and maps it to pixels. It fails
// for w <= 0 or NaN, which only happens for unclipped or degenerate input.
func (r *Rasterizer) project(v Vertex) (screenVertex, bool) {
	w := v.Pos.W
	if !(w > 0) {
		return screenVertex{}, false
	}
	ndc := v.Pos.PerspectiveDivide()
	x := ndc.X*r.viewport.HalfW + r.viewport.OriginX
	y := -ndc.Y*r.viewport.HalfH + r.viewport.OriginY
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return screenVertex{}, false
	}
	// keep far off-screen vertices from overflowing the integer edge setup
	const limit = 1 << 24
	x = math3d.Clamp(math.Round(x), -limit, limit)
	y = math3d.Clamp(math.Round(y), -limit, limit)
	return screenVertex{
		X:     int(x),
		Y:     int(y),
		Z:     v.Pos.Z,
		W:     w,
		Color: v.Color,
		UV:    v.UV,
	}, true
}

// DrawGizmo plots a single vertex as one pixel in its own color. Points
// outside the view volume are skipped.
func (r *Rasterizer) DrawGizmo(v Vertex) {
	if !r.ready() {
		return
	}
	v.Pos = r.viewProj.MulVec4(v.Pos)
	if Outcode(v.Pos) != 0 {
		return
	}
	sv, ok := r.project(v)
	if !ok || !image.Pt(sv.X, sv.Y).In(r.scissor) {
		return
	}
	r.target.SetIndex(sv.Y*r.width+sv.X, vertexColor(v.Color))
	r.stats.Gizmos++
}

// vertexColor converts a 0..1 color to 8 bits, clamping out of range values.
func vertexColor(c math3d.Vec3) Color {
	return Color{R: channel(c.X), G: channel(c.Y), B: channel(c.Z), A: 255}
}

func channel(v float64) uint8 {
	v *= 255
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

package render

import (
	"image"

	"github.com/taigrr/softras/pkg/math3d"
)

// DrawLine draws a world-space segment in a flat color. The segment is
// clipped to the view volume first. Lines do not read or write the depth
// buffer, so they always end up on top. Pixels outside the viewport are
// dropped.
func (r *Rasterizer) DrawLine(p0, p1 math3d.Vec3, c Color) {
	if !r.ready() {
		return
	}
	a, b, ok := ClipLine(r.viewProj.MulVec4(math3d.Point(p0)), r.viewProj.MulVec4(math3d.Point(p1)))
	if !ok {
		return
	}
	s0, ok0 := r.project(Vertex{Pos: a})
	s1, ok1 := r.project(Vertex{Pos: b})
	if !ok0 || !ok1 {
		return
	}
	r.drawLine2D(s0.X, s0.Y, s0.Z, s1.X, s1.Y, s1.Z, c)
	r.stats.Lines++
}

// drawLine2D walks a Bresenham line including both endpoints. Depth is
// interpolated along the major axis and only used by DebugDepth.
func (r *Rasterizer) drawLine2D(x0, y0 int, z0 float64, x1, y1 int, z1 float64, c Color) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
		z0, z1 = z1, z0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	ystep := 1
	if y0 > y1 {
		ystep = -1
	}
	err := dx / 2
	y := y0

	for x := x0; x <= x1; x++ {
		px, py := x, y
		if steep {
			px, py = y, x
		}
		if image.Pt(px, py).In(r.scissor) {
			col := c
			if r.Debug == DebugDepth {
				t := 0.0
				if dx > 0 {
					t = float64(x-x0) / float64(dx)
				}
				col = depthGray(float32(z0+(z1-z0)*t), r.DepthRange)
			}
			r.target.SetIndex(py*r.width+px, col)
		}

		err -= dy
		if err < 0 {
			y += ystep
			err += dx
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package render

import "github.com/taigrr/softras/pkg/math3d"

// Vertex is the unit of geometry fed to the rasterizer. Pos is homogeneous
// (w is usually 1 in world space), Color holds channels in 0..1 and UV is
// only read while a texture is bound.
type Vertex struct {
	Pos   math3d.Vec4
	Color math3d.Vec3
	UV    math3d.Vec2
}

// V creates a white vertex at (x, y, z).
func V(x, y, z float64) Vertex {
	return Vertex{Pos: math3d.V4(x, y, z, 1), Color: math3d.V3(1, 1, 1)}
}

// VertexAt creates a white vertex at p.
func VertexAt(p math3d.Vec3) Vertex {
	return Vertex{Pos: math3d.Point(p), Color: math3d.V3(1, 1, 1)}
}

// WithColor returns a copy of v with the given color.
func (v Vertex) WithColor(c math3d.Vec3) Vertex {
	v.Color = c
	return v
}

// WithUV returns a copy of v with the given texture coordinate.
func (v Vertex) WithUV(u, t float64) Vertex {
	v.UV = math3d.V2(u, t)
	return v
}

// Lerp interpolates every attribute of v towards o.
func (v Vertex) Lerp(o Vertex, t float64) Vertex {
	return Vertex{
		Pos:   v.Pos.Lerp(o.Pos, t),
		Color: v.Color.Lerp(o.Color, t),
		UV:    v.UV.Lerp(o.UV, t),
	}
}

// ColorVec converts an 8-bit color to the 0..1 range used by vertices.
func ColorVec(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

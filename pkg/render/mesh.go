package render

import "github.com/taigrr/softras/pkg/math3d"

// MeshRenderer is the view of a mesh the rasterizer needs. It keeps render
// free of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// ColoredMeshRenderer is a mesh with per-vertex colors in 0..1.
type ColoredMeshRenderer interface {
	MeshRenderer
	GetColor(i int) math3d.Vec3
}

// BoundedMeshRenderer is a mesh that knows its local bounds, which lets
// DrawMesh skip it when it is outside the frustum.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// ambient is the light level of faces pointing away from the light.
const ambient = 0.3

// DrawMesh draws every face of mesh after transform. With a non-nil light
// direction (pointing towards the light) each vertex color is scaled by a
// Lambert term before rasterization. Meshes that implement
// BoundedMeshRenderer are tested against the frustum first.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, light *math3d.Vec3) {
	if !r.ready() || r.frustumCull(mesh, transform) {
		return
	}

	colored, hasColor := mesh.(ColoredMeshRenderer)
	var l math3d.Vec3
	if light != nil {
		l = light.Normalize()
	}

	vertex := func(i int) Vertex {
		pos, normal, uv := mesh.GetVertex(i)
		v := Vertex{
			Pos:   math3d.Point(transform.MulVec3(pos)),
			Color: math3d.V3(1, 1, 1),
			UV:    uv,
		}
		if hasColor {
			v.Color = colored.GetColor(i)
		}
		if light != nil {
			n := transform.MulVec3Dir(normal).Normalize()
			v.Color = v.Color.Scale(ambient + (1-ambient)*max(0, n.Dot(l)))
		}
		return v
	}

	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		r.DrawTriangle(vertex(f[0]), vertex(f[1]), vertex(f[2]))
	}
}

// frustumCull reports whether a bounded mesh is entirely outside the view.
func (r *Rasterizer) frustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}
	r.stats.MeshesTested++
	lo, hi := bounded.GetBounds()
	if !r.IsVisible(AABB{Min: lo, Max: hi}.Transform(transform)) {
		r.stats.MeshesCulled++
		return true
	}
	return false
}

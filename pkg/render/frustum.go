package render

import "github.com/taigrr/softras/pkg/math3d"

// Plane is the set of points where Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane so Normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint is the signed distance to point, positive on the normal's
// side.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six view volume planes in world space, normals pointing
// inward. Planes are indexed like the outcode bits.
type Frustum struct {
	Planes [6]Plane
}

// ExtractFrustum pulls the frustum planes out of a view-projection matrix
// (Gribb/Hartmann). A clip plane c maps back to world space as c·M, so each
// world plane is built from the same vectors the clipper tests against.
func ExtractFrustum(m math3d.Mat4) Frustum {
	var f Frustum
	for i, c := range clipPlanes {
		col := func(k int) float64 {
			return c.Dot(math3d.V4(m[4*k], m[4*k+1], m[4*k+2], m[4*k+3]))
		}
		f.Planes[i] = Plane{Normal: math3d.V3(col(0), col(1), col(2)), D: col(3)}
		f.Planes[i].Normalize()
	}
	return f
}

// ContainsPoint reports whether p is inside all six planes.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectAABB reports whether any part of box may be visible. For each
// plane only the corner farthest along the normal is tested.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, pl := range f.Planes {
		p := box.Min
		if pl.Normal.X >= 0 {
			p.X = box.Max.X
		}
		if pl.Normal.Y >= 0 {
			p.Y = box.Max.Y
		}
		if pl.Normal.Z >= 0 {
			p.Z = box.Max.Z
		}
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns the box bounding all eight corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := AABB{Min: m.MulVec3(b.Min)}
	out.Max = out.Min
	for i := 1; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p is inside or on the box.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Frustum returns the world-space frustum of the current frame.
func (r *Rasterizer) Frustum() Frustum {
	if r.frustumDirty {
		r.frustum = ExtractFrustum(r.viewProj)
		r.frustumDirty = false
	}
	return r.frustum
}

// IsVisible tests a world-space box against the current frustum.
func (r *Rasterizer) IsVisible(box AABB) bool {
	return r.Frustum().IntersectAABB(box)
}

package render

import "github.com/taigrr/softras/pkg/math3d"

// Outcode bits, one per homogeneous clip plane.
const (
	ClipRight  uint8 = 1 << iota // w < x
	ClipLeft                     // w < -x
	ClipTop                      // w < y
	ClipBottom                   // w < -y
	ClipFar                      // w < z
	ClipNear                     // w < -z
)

// clipPlanes are indexed by outcode bit. plane·p >= 0 means p is inside.
var clipPlanes = [6]math3d.Vec4{
	{X: -1, W: 1},
	{X: 1, W: 1},
	{Y: -1, W: 1},
	{Y: 1, W: 1},
	{Z: -1, W: 1},
	{Z: 1, W: 1},
}

// Outcode reports which clip planes p lies outside of.
func Outcode(p math3d.Vec4) uint8 {
	var code uint8
	if p.W < p.X {
		code |= ClipRight
	}
	if p.W < -p.X {
		code |= ClipLeft
	}
	if p.W < p.Y {
		code |= ClipTop
	}
	if p.W < -p.Y {
		code |= ClipBottom
	}
	if p.W < p.Z {
		code |= ClipFar
	}
	if p.W < -p.Z {
		code |= ClipNear
	}
	return code
}

// ClipLine clips the clip-space segment p0-p1 against the view volume.
// ok is false when nothing of the segment survives.
func ClipLine(p0, p1 math3d.Vec4) (a, b math3d.Vec4, ok bool) {
	c0, c1 := Outcode(p0), Outcode(p1)
	if c0|c1 == 0 {
		return p0, p1, true
	}
	if c0&c1 != 0 {
		return p0, p1, false
	}

	t0, t1 := 0.0, 1.0
	mask := c0 | c1
	for i, plane := range clipPlanes {
		if mask&(1<<i) == 0 {
			continue
		}
		d0, d1 := plane.Dot(p0), plane.Dot(p1)
		switch {
		case d0 < 0 && d1 < 0:
			return p0, p1, false
		case d0 < 0:
			t0 = max(t0, d0/(d0-d1))
		case d1 < 0:
			t1 = min(t1, d0/(d0-d1))
		}
	}
	if t0 > t1 {
		return p0, p1, false
	}
	return p0.Lerp(p1, t0), p0.Lerp(p1, t1), true
}

// clipPoolSize bounds the polygon a triangle can grow into: three input
// vertices plus at most two new ones per plane.
const clipPoolSize = 16

// Clipper clips triangles against the view volume. It keeps its buffers
// between calls, so reuse one per rasterizer.
type Clipper struct {
	pool    [clipPoolSize]Vertex
	n       int
	in, out []int
	indices []int
}

// NewClipper creates a Clipper with preallocated buffers.
func NewClipper() *Clipper {
	return &Clipper{
		in:      make([]int, 0, clipPoolSize),
		out:     make([]int, 0, clipPoolSize),
		indices: make([]int, 0, 3*clipPoolSize),
	}
}

// ClipTriangle clips a clip-space triangle. It returns false when nothing
// remains. On success Indices holds a fan triangulation into Vertices.
// A triangle fully inside is passed through as indices 0, 1, 2.
func (c *Clipper) ClipTriangle(v0, v1, v2 Vertex) bool {
	c.pool[0], c.pool[1], c.pool[2] = v0, v1, v2
	c.n = 3
	c.indices = c.indices[:0]

	c0, c1, c2 := Outcode(v0.Pos), Outcode(v1.Pos), Outcode(v2.Pos)
	if c0&c1&c2 != 0 {
		return false
	}
	if c0|c1|c2 == 0 {
		c.indices = append(c.indices, 0, 1, 2)
		return true
	}

	mask := c0 | c1 | c2
	c.in = append(c.in[:0], 0, 1, 2)
	for i, plane := range clipPlanes {
		if mask&(1<<i) == 0 {
			continue
		}
		if !c.clipPlane(plane) {
			return false
		}
		if len(c.in) < 3 {
			return false
		}
	}

	for i := 1; i+1 < len(c.in); i++ {
		c.indices = append(c.indices, c.in[0], c.in[i], c.in[i+1])
	}
	return true
}

// clipPlane runs one Sutherland-Hodgman pass over c.in. It returns false if
// the vertex pool overflows.
func (c *Clipper) clipPlane(plane math3d.Vec4) bool {
	c.out = c.out[:0]
	prev := c.in[len(c.in)-1]
	dPrev := plane.Dot(c.pool[prev].Pos)

	for _, cur := range c.in {
		dCur := plane.Dot(c.pool[cur].Pos)
		if (dPrev >= 0) != (dCur >= 0) {
			if c.n == clipPoolSize {
				return false
			}
			t := dPrev / (dPrev - dCur)
			c.pool[c.n] = c.pool[prev].Lerp(c.pool[cur], t)
			c.out = append(c.out, c.n)
			c.n++
		}
		if dCur >= 0 {
			c.out = append(c.out, cur)
		}
		prev, dPrev = cur, dCur
	}

	c.in, c.out = c.out, c.in
	return true
}

// Vertices returns the vertex pool of the last clip.
func (c *Clipper) Vertices() []Vertex {
	return c.pool[:c.n]
}

// Indices returns the fan triangulation of the last clip, three per
// triangle.
func (c *Clipper) Indices() []int {
	return c.indices
}

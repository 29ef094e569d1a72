package models

import "github.com/taigrr/softras/pkg/math3d"

// cubeSides lists each face normal with tangent axes u and v, u×v = n.
var cubeSides = [6][3]math3d.Vec3{
	{{X: 1}, {Y: 1}, {Z: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {Z: 1}, {X: 1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {Y: 1}, {X: 1}},
}

// addQuad appends the quad center±u±v facing n, with UVs spanning 0..1.
// Corners are taken counter-clockwise seen from outside and stored
// reversed.
func (m *Mesh) addQuad(center, n, u, v math3d.Vec3, color math3d.Vec3) {
	base := len(m.Vertices)
	corners := [4]struct {
		su, sv float64
	}{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: center.Add(u.Scale(c.su)).Add(v.Scale(c.sv)),
			Normal:   n,
			UV:       math3d.V2((c.su+1)/2, (1-c.sv)/2),
			Color:    color,
		})
	}
	m.Faces = append(m.Faces,
		Face{V: [3]int{base, base + 2, base + 1}, Material: -1},
		Face{V: [3]int{base, base + 3, base + 2}, Material: -1},
	)
}

// NewCube builds an axis-aligned cube of edge size centered on the origin.
// colors gives each side its color in the order +X, -X, +Y, -Y, +Z, -Z.
func NewCube(size float64, colors [6]math3d.Vec3) *Mesh {
	m := NewMesh("cube")
	h := size / 2
	for i, s := range cubeSides {
		n, u, v := s[0], s[1], s[2]
		m.addQuad(n.Scale(h), n, u.Scale(h), v.Scale(h), colors[i])
	}
	m.CalculateBounds()
	return m
}

// NewPlane builds a white square of edge size in the XZ plane facing +Y.
func NewPlane(size float64) *Mesh {
	m := NewMesh("plane")
	h := size / 2
	s := cubeSides[2]
	m.addQuad(math3d.Vec3{}, s[0], s[1].Scale(h), s[2].Scale(h), math3d.V3(1, 1, 1))
	m.CalculateBounds()
	return m
}

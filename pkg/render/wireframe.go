package render

import "github.com/taigrr/softras/pkg/math3d"

// GridSize is the number of cells on each side of the grid origin.
const GridSize = 12

// DrawGrid draws a square grid on the XZ plane centred on origin, GridSize
// cells in every direction.
func DrawGrid(r *Rasterizer, origin math3d.Vec3, cell float64, c Color) {
	ext := float64(GridSize) * cell
	for i := -GridSize; i <= GridSize; i++ {
		d := float64(i) * cell
		r.DrawLine(origin.Add(math3d.V3(d, 0, -ext)), origin.Add(math3d.V3(d, 0, ext)), c)
		r.DrawLine(origin.Add(math3d.V3(-ext, 0, d)), origin.Add(math3d.V3(ext, 0, d)), c)
	}
}

// DrawAxes draws the world X, Y and Z axes in red, green and blue.
func DrawAxes(r *Rasterizer, length float64) {
	o := math3d.V3(0, 0, 0)
	r.DrawLine(o, math3d.V3(length, 0, 0), ColorRed)
	r.DrawLine(o, math3d.V3(0, length, 0), ColorGreen)
	r.DrawLine(o, math3d.V3(0, 0, length), ColorBlue)
}

var cubeEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawCube draws the edges of a cube of the given size after transform.
func DrawCube(r *Rasterizer, transform math3d.Mat4, size float64, c Color) {
	h := size / 2
	var corners [8]math3d.Vec3
	for i := range corners {
		p := math3d.V3(-h, -h, -h)
		if i&1 != 0 {
			p.X = h
		}
		if i&2 != 0 {
			p.Y = h
		}
		if i&4 != 0 {
			p.Z = h
		}
		corners[i] = transform.MulVec3(p)
	}
	for _, e := range cubeEdges {
		r.DrawLine(corners[e[0]], corners[e[1]], c)
	}
}

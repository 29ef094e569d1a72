package render

// DrawTriangle transforms a world-space triangle by the frame's
// view-projection, clips it and rasterizes what remains.
//
// Front faces are clockwise on screen. Back faces are culled unless
// DisableBackfaceCulling is set. Nothing here can fail: degenerate,
// back-facing and off-screen triangles just draw nothing.
func (r *Rasterizer) DrawTriangle(v0, v1, v2 Vertex) {
	if !r.ready() {
		return
	}
	v0.Pos = r.viewProj.MulVec4(v0.Pos)
	v1.Pos = r.viewProj.MulVec4(v1.Pos)
	v2.Pos = r.viewProj.MulVec4(v2.Pos)

	if !r.clipper.ClipTriangle(v0, v1, v2) {
		r.stats.Rejected++
		return
	}
	verts := r.clipper.Vertices()
	idx := r.clipper.Indices()
	for i := 0; i+2 < len(idx); i += 3 {
		r.rasterize(verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]])
	}
}

// orient2d is twice the signed area of (a, b, p). It is positive when p is
// to the right of a->b in y-down screen space.
func orient2d(ax, ay, bx, by, px, py int) int {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// edgeBias returns 0 for top and left edges and -1 for the rest, so pixels
// exactly on a shared edge belong to one triangle only.
func edgeBias(a, b screenVertex) int {
	dx, dy := b.X-a.X, b.Y-a.Y
	if (dy == 0 && dx > 0) || dy < 0 {
		return 0
	}
	return -1
}

// rasterize draws one clipped clip-space triangle.
func (r *Rasterizer) rasterize(a, b, c Vertex) {
	p0, ok0 := r.project(a)
	p1, ok1 := r.project(b)
	p2, ok2 := r.project(c)
	if !ok0 || !ok1 || !ok2 {
		return
	}

	area := orient2d(p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)
	if area == 0 {
		r.stats.Culled++
		return
	}
	if area < 0 {
		if !r.DisableBackfaceCulling {
			r.stats.Culled++
			return
		}
		p1, p2 = p2, p1
	}

	minX := max(min(p0.X, p1.X, p2.X), r.scissor.Min.X)
	maxX := min(max(p0.X, p1.X, p2.X), r.scissor.Max.X-1)
	minY := max(min(p0.Y, p1.Y, p2.Y), r.scissor.Min.Y)
	maxY := min(max(p0.Y, p1.Y, p2.Y), r.scissor.Max.Y-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Edge i is opposite vertex i. Stepping one pixel right adds a, one
	// pixel down adds b.
	a12, b12 := p1.Y-p2.Y, p2.X-p1.X
	a20, b20 := p2.Y-p0.Y, p0.X-p2.X
	a01, b01 := p0.Y-p1.Y, p1.X-p0.X

	e0Row := orient2d(p1.X, p1.Y, p2.X, p2.Y, minX, minY)
	e1Row := orient2d(p2.X, p2.Y, p0.X, p0.Y, minX, minY)
	e2Row := orient2d(p0.X, p0.Y, p1.X, p1.Y, minX, minY)

	var bias0, bias1, bias2 int
	if r.FillRule == FillTopLeft {
		bias0 = edgeBias(p1, p2)
		bias1 = edgeBias(p2, p0)
		bias2 = edgeBias(p0, p1)
	}

	id := r.stats.Triangles
	r.stats.Triangles++

	invW0, invW1, invW2 := 1/p0.W, 1/p1.W, 1/p2.W
	depth := r.depth
	width := r.width

	for y := minY; y <= maxY; y++ {
		e0, e1, e2 := e0Row, e1Row, e2Row
		row := y * width

		for x := minX; x <= maxX; x++ {
			if (e0+bias0)|(e1+bias1)|(e2+bias2) >= 0 {
				w0 := float64(e0) * invW0
				w1 := float64(e1) * invW1
				w2 := float64(e2) * invW2
				if sum := w0 + w1 + w2; sum != 0 {
					inv := 1 / sum
					w0, w1, w2 = w0*inv, w1*inv, w2*inv

					z := float32(w0*p0.Z + w1*p1.Z + w2*p2.Z)
					i := row + x
					if z < depth[i] {
						depth[i] = z
						r.target.SetIndex(i, r.shade(&p0, &p1, &p2, w0, w1, w2, z, id))
					}
				}
			}
			e0 += a12
			e1 += a20
			e2 += a01
		}

		e0Row += b12
		e1Row += b20
		e2Row += b01
	}
}

// shade resolves the color of one covered pixel from its perspective-correct
// weights.
func (r *Rasterizer) shade(p0, p1, p2 *screenVertex, w0, w1, w2 float64, z float32, id int) Color {
	switch r.Debug {
	case DebugDepth:
		return depthGray(z, r.DepthRange)
	case DebugClickables:
		return PickColor(id)
	}
	if r.texture != nil {
		u := w0*p0.UV.X + w1*p1.UV.X + w2*p2.UV.X
		v := w0*p0.UV.Y + w1*p1.UV.Y + w2*p2.UV.Y
		return r.texture.Sample(u, v)
	}
	return vertexColor(p0.Color.Scale(w0).Add(p1.Color.Scale(w1)).Add(p2.Color.Scale(w2)))
}

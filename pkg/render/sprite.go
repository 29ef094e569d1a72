package render

import (
	"image"

	"github.com/taigrr/softras/pkg/math3d"
)

// DrawSprite draws tex as a camera-facing billboard standing on pos and
// size world units tall. The quad is square on screen and the texture is
// stretched to fill it. Texels equal to MaskColor are transparent and leave both color and
// depth untouched. The rest are depth tested at the anchor's depth.
func (r *Rasterizer) DrawSprite(pos math3d.Vec3, size float64, tex *Texture) {
	if !r.ready() || tex == nil || tex.Width == 0 || tex.Height == 0 || !(size > 0) {
		return
	}
	bottom := r.viewProj.MulVec4(math3d.Point(pos))
	top := r.viewProj.MulVec4(math3d.Point(pos.Add(math3d.V3(0, size, 0))))
	if Outcode(bottom)&ClipNear != 0 || !(top.W > 0) {
		return
	}
	sb, ok0 := r.project(Vertex{Pos: bottom})
	st, ok1 := r.project(Vertex{Pos: top})
	if !ok0 || !ok1 {
		return
	}

	h := abs(sb.Y - st.Y)
	if h == 0 {
		return
	}
	w := h
	left, topY := sb.X-w/2, sb.Y-h

	// clip against the viewport before touching any pixel
	dst := image.Rect(left, topY, left+w, sb.Y)
	clipped := dst.Intersect(r.scissor)
	if clipped.Empty() {
		return
	}

	z := float32(bottom.Z)
	du := 1 / float64(max(w-1, 1))
	dv := 1 / float64(max(h-1, 1))

	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		v := float64(y-topY) * dv
		row := y * r.width
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			c := tex.Sample(float64(x-left)*du, v)
			if c == MaskColor {
				continue
			}
			i := row + x
			if z < r.depth[i] {
				r.depth[i] = z
				if r.Debug == DebugDepth {
					c = depthGray(z, r.DepthRange)
				}
				r.target.SetIndex(i, c)
			}
		}
	}
	r.stats.Sprites++
}

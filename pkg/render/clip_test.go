package render

import (
	"math"
	"testing"

	"github.com/taigrr/softras/pkg/math3d"
)

func TestOutcode(t *testing.T) {
	tests := []struct {
		name string
		p    math3d.Vec4
		want uint8
	}{
		{"inside", math3d.V4(0, 0, 0, 1), 0},
		{"on boundary", math3d.V4(1, -1, 1, 1), 0},
		{"right", math3d.V4(2, 0, 0, 1), ClipRight},
		{"left", math3d.V4(-2, 0, 0, 1), ClipLeft},
		{"top", math3d.V4(0, 2, 0, 1), ClipTop},
		{"bottom", math3d.V4(0, -2, 0, 1), ClipBottom},
		{"far", math3d.V4(0, 0, 2, 1), ClipFar},
		{"near", math3d.V4(0, 0, -2, 1), ClipNear},
		{"corner", math3d.V4(3, 3, 0, 1), ClipRight | ClipTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcode(tt.p); got != tt.want {
				t.Errorf("Outcode(%v) = %06b, want %06b", tt.p, got, tt.want)
			}
		})
	}
}

func TestClipLine(t *testing.T) {
	t.Run("inside unchanged", func(t *testing.T) {
		p0, p1 := math3d.V4(-0.5, 0, 0, 1), math3d.V4(0.5, 0.2, 0.1, 1)
		a, b, ok := ClipLine(p0, p1)
		if !ok || a != p0 || b != p1 {
			t.Errorf("got %v %v %v, want endpoints unchanged", a, b, ok)
		}
	})

	t.Run("behind near plane", func(t *testing.T) {
		_, _, ok := ClipLine(math3d.V4(0, 0, -3, 1), math3d.V4(0.5, 0, -2, 1))
		if ok {
			t.Error("line behind the near plane survived")
		}
	})

	t.Run("straddles near plane", func(t *testing.T) {
		p0, p1 := math3d.V4(0, 0, 0, 1), math3d.V4(0.3, 0, -3, 1)
		// near distance is z + w: 1 at p0, -2 at p1
		wantT := 1.0 / 3.0
		a, b, ok := ClipLine(p0, p1)
		if !ok {
			t.Fatal("line was rejected")
		}
		if a != p0 {
			t.Errorf("inside endpoint moved to %v", a)
		}
		want := p0.Lerp(p1, wantT)
		if math.Abs(b.X-want.X) > 1e-12 || math.Abs(b.Z-want.Z) > 1e-12 {
			t.Errorf("clipped endpoint = %v, want %v", b, want)
		}
		if math.Abs(b.Z+b.W) > 1e-12 {
			t.Errorf("clipped endpoint %v is not on the near plane", b)
		}
	})

	t.Run("misses the corner", func(t *testing.T) {
		// crosses the right and top planes outside the view volume
		_, _, ok := ClipLine(math3d.V4(0.5, 3, 0, 1), math3d.V4(3, 0.5, 0, 1))
		if ok {
			t.Error("line outside the corner survived")
		}
	})
}

func TestDrawLineBehindCamera(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	r.Begin(headOn(64, 64))

	r.DrawLine(math3d.V3(-1, 0, -2), math3d.V3(1, 0, -3), ColorWhite)

	if _, _, _, _, n := coverage(fb, ColorBlack); n != 0 {
		t.Errorf("%d pixels drawn, want 0", n)
	}
	if got := r.Stats().Lines; got != 0 {
		t.Errorf("lines = %d, want 0", got)
	}
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 math3d.Vec3
		pixels int
	}{
		{"horizontal", math3d.V3(-0.5, 0, 0), math3d.V3(0.5, 0, 0), 17},
		{"vertical", math3d.V3(0, -0.5, 0), math3d.V3(0, 0.5, 0), 17},
		{"steep diagonal", math3d.V3(-0.25, -0.5, 0), math3d.V3(0.25, 0.5, 0), 17},
		{"reversed", math3d.V3(0.5, 0.5, 0), math3d.V3(-0.5, -0.5, 0), 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := createTestRasterizer(32, 32)
			r.Begin(math3d.Identity())
			r.DrawLine(tt.p0, tt.p1, ColorWhite)

			if _, _, _, _, n := coverage(fb, ColorBlack); n != tt.pixels {
				t.Errorf("drew %d pixels, want %d", n, tt.pixels)
			}
		})
	}
}

func TestDrawLineClippedToView(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	r.Begin(math3d.Identity())

	// runs far past both sides
	r.DrawLine(math3d.V3(-10, 0, 0), math3d.V3(10, 0, 0), ColorWhite)

	minX, _, maxX, _, n := coverage(fb, ColorBlack)
	if n == 0 || minX != 0 || maxX != 31 {
		t.Errorf("line spans %d..%d with %d pixels, want 0..31", minX, maxX, n)
	}
}

func TestClipTriangleInside(t *testing.T) {
	c := NewClipper()
	v0 := Vertex{Pos: math3d.V4(-0.5, -0.5, 0, 1), UV: math3d.V2(0, 1)}
	v1 := Vertex{Pos: math3d.V4(0.5, -0.5, 0.2, 1), UV: math3d.V2(1, 1)}
	v2 := Vertex{Pos: math3d.V4(0, 0.5, -0.2, 1), UV: math3d.V2(0.5, 0)}

	if !c.ClipTriangle(v0, v1, v2) {
		t.Fatal("inside triangle was rejected")
	}
	idx := c.Indices()
	if len(idx) != 3 || idx[0] != 0 || idx[1] != 1 || idx[2] != 2 {
		t.Fatalf("indices = %v, want [0 1 2]", idx)
	}
	verts := c.Vertices()
	if verts[0] != v0 || verts[1] != v1 || verts[2] != v2 {
		t.Errorf("vertices were modified: %v", verts)
	}
}

func TestClipTriangleOutside(t *testing.T) {
	c := NewClipper()
	ok := c.ClipTriangle(
		Vertex{Pos: math3d.V4(2, 0, 0, 1)},
		Vertex{Pos: math3d.V4(3, 1, 0, 1)},
		Vertex{Pos: math3d.V4(4, -1, 0, 1)},
	)
	if ok {
		t.Error("triangle right of the view volume survived")
	}
}

func TestClipTriangleNearPlane(t *testing.T) {
	c := NewClipper()
	ok := c.ClipTriangle(
		Vertex{Pos: math3d.V4(0, 0, -3, 1), Color: math3d.V3(1, 0, 0)},
		Vertex{Pos: math3d.V4(0.5, 0, 0, 1), Color: math3d.V3(0, 1, 0)},
		Vertex{Pos: math3d.V4(0, 0.5, 0, 1), Color: math3d.V3(0, 0, 1)},
	)
	if !ok {
		t.Fatal("straddling triangle was rejected")
	}

	idx := c.Indices()
	if len(idx) != 6 {
		t.Fatalf("got %d indices, want a quad split into 2 triangles", len(idx))
	}
	verts := c.Vertices()
	for _, i := range idx {
		p := verts[i].Pos
		if d := p.Z + p.W; d < -1e-9 {
			t.Errorf("vertex %v is behind the near plane", p)
		}
	}
}

func TestClipTriangleAllPlanes(t *testing.T) {
	// a huge triangle crossing all four side planes
	c := NewClipper()
	ok := c.ClipTriangle(
		Vertex{Pos: math3d.V4(-10, -10, 0, 1)},
		Vertex{Pos: math3d.V4(10, -10, 0, 1)},
		Vertex{Pos: math3d.V4(0, 20, 0, 1)},
	)
	if !ok {
		t.Fatal("triangle covering the view was rejected")
	}
	idx := c.Indices()
	if len(idx)%3 != 0 || len(idx) < 6 {
		t.Fatalf("got %d indices", len(idx))
	}
	for _, i := range idx {
		p := c.Vertices()[i].Pos
		if math.Abs(p.X) > p.W+1e-9 || math.Abs(p.Y) > p.W+1e-9 {
			t.Errorf("vertex %v outside the view volume", p)
		}
	}
}

func BenchmarkClipTriangle(b *testing.B) {
	c := NewClipper()
	v0 := Vertex{Pos: math3d.V4(-10, -10, 0, 1)}
	v1 := Vertex{Pos: math3d.V4(10, -10, 0, 1)}
	v2 := Vertex{Pos: math3d.V4(0, 20, -3, 1)}

	for b.Loop() {
		c.ClipTriangle(v0, v1, v2)
	}
}

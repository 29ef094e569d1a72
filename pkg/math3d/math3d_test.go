package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(math.Pi/2, 1, 1, 10)

	tests := []struct {
		name string
		z    float64
		want float64
	}{
		{"near plane", -1, -1},
		{"far plane", -10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := proj.MulVec4(V4(0, 0, tt.z, 1))
			if got := clip.Z / clip.W; !near(got, tt.want) {
				t.Errorf("ndc z = %v, want %v", got, tt.want)
			}
			if !near(clip.W, -tt.z) {
				t.Errorf("w = %v, want %v", clip.W, -tt.z)
			}
		})
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := V3(3, 4, 5)
	view := LookAt(eye, V3(0, 0, 0), Up())

	got := view.MulVec3(eye)
	if !near(got.X, 0) || !near(got.Y, 0) || !near(got.Z, 0) {
		t.Errorf("eye in view space = %v, want origin", got)
	}

	// the target lies straight down -Z
	target := view.MulVec3(V3(0, 0, 0))
	if !near(target.X, 0) || !near(target.Y, 0) || target.Z >= 0 {
		t.Errorf("target in view space = %v, want on -Z", target)
	}
}

func TestMulOrder(t *testing.T) {
	// Translate after rotating: the rotation must not move the offset.
	m := Translate(V3(10, 0, 0)).Mul(RotateY(math.Pi / 2))
	got := m.MulVec3(V3(1, 0, 0))
	want := V3(10, 0, -1)
	if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.Z, want.Z) {
		t.Errorf("got %v, want %v", got, want)
	}

	dir := m.MulVec3Dir(V3(1, 0, 0))
	if !near(dir.X, 0) || !near(dir.Z, -1) {
		t.Errorf("direction picked up translation: %v", dir)
	}
}

func TestVec4Lerp(t *testing.T) {
	a, b := V4(0, 0, 0, 1), V4(2, 4, -6, 3)
	got := a.Lerp(b, 0.5)
	want := V4(1, 2, -3, 2)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := V2(1, 1).Lerp(V2(3, 5), 0.25); got != V2(1.5, 2) {
		t.Errorf("Vec2 lerp = %v, want (1.5, 2)", got)
	}
}

func TestPerspectiveDivideZeroW(t *testing.T) {
	v := V4(1, 2, 3, 0)
	if got := v.PerspectiveDivide(); got != V3(1, 2, 3) {
		t.Errorf("got %v, want components unchanged", got)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := V3(0, 0, 0).Normalize(); got != (Vec3{}) {
		t.Errorf("got %v, want zero vector", got)
	}
}

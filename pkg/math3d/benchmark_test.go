package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkVec4Lerp(b *testing.B) {
	p, q := V4(1, 2, 3, 1), V4(-4, 0.5, 9, 2)

	for b.Loop() {
		_ = p.Lerp(q, 0.37)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view := LookAt(V3(0, 0, 10), V3(0, 0, 0), Up())
	proj := Perspective(math.Pi/3, 4.0/3.0, 0.1, 100)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}

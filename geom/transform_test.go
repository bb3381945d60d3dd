package geom

import (
	"math"
	"testing"
)

func approxEq(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

// TestDegenerateInverse verifies that a zero scale yields the identity
// inverse instead of NaN or a panic.
func TestDegenerateInverse(t *testing.T) {
	tr := NewTransform2D()
	tr.SetScale(Vec2{0, 0})
	tr.SetPosition(Vec2{0.5, 0.5})
	tr.SetRotation(37)

	inv := tr.InverseMatrix()
	if inv != Identity {
		t.Errorf("InverseMatrix() = %v, want identity", inv)
	}
	for i, v := range inv {
		if math.IsNaN(float64(v)) {
			t.Errorf("inv[%d] is NaN", i)
		}
	}
}

// TestTransformRoundTrip verifies inverse-transforming a transformed point
// recovers the original for non-degenerate transforms.
func TestTransformRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		position Vec2
		rotation float32
		scale    Vec2
	}{
		{"identity", Vec2{}, 0, Vec2{1, 1}},
		{"translated", Vec2{0.3, 0.7}, 0, Vec2{1, 1}},
		{"rotated", Vec2{}, 45, Vec2{1, 1}},
		{"scaled", Vec2{}, 0, Vec2{2, 0.5}},
		{"combined", Vec2{0.2, 0.8}, 120, Vec2{0.4, 1.6}},
		{"negative rotation", Vec2{0.5, 0.5}, -90, Vec2{3, 3}},
	}

	points := []Vec2{{0, 0}, {1, 0}, {0, 1}, {-0.5, 0.25}, {0.1, -0.9}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTransform2D()
			tr.SetPosition(tc.position)
			tr.SetRotation(tc.rotation)
			tr.SetScale(tc.scale)

			for _, p := range points {
				world := tr.TransformPoint(p)
				back := tr.InverseTransformPoint(world)
				if !approxEq(back.X, p.X, 1e-4) || !approxEq(back.Y, p.Y, 1e-4) {
					t.Errorf("round trip of %v: got %v", p, back)
				}
			}
		})
	}
}

// TestTransformDirectionIgnoresTranslation verifies direction transforms use
// only the linear part.
func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	tr := NewTransform2D()
	tr.SetPosition(Vec2{10, 20})
	tr.SetRotation(90)

	d := tr.TransformDirection(Vec2{1, 0})
	// y-down screen space: rotating +x by 90 degrees gives +y.
	if !approxEq(d.X, 0, 1e-5) || !approxEq(d.Y, 1, 1e-5) {
		t.Errorf("TransformDirection((1,0)) = %v, want (0,1)", d)
	}
}

// TestMatrixCacheInvalidation verifies setters take effect on the next
// Matrix call.
func TestMatrixCacheInvalidation(t *testing.T) {
	tr := NewTransform2D()
	m1 := tr.Matrix()
	if m1 != Identity {
		t.Fatalf("fresh transform matrix = %v, want identity", m1)
	}

	tr.SetPosition(Vec2{0.25, 0.75})
	m2 := tr.Matrix()
	if m2[4] != 0.25 || m2[5] != 0.75 {
		t.Errorf("matrix after SetPosition = %v, want tx=0.25 ty=0.75", m2)
	}

	tr.SetScale(Vec2{2, 2})
	m3 := tr.Matrix()
	if m3[0] != 2 || m3[3] != 2 {
		t.Errorf("matrix after SetScale = %v, want a=d=2", m3)
	}
}

// TestInverseMatrixValues checks the inverse against a hand-computed case.
func TestInverseMatrixValues(t *testing.T) {
	tr := NewTransform2D()
	tr.SetScale(Vec2{2, 4})
	tr.SetPosition(Vec2{1, 1})

	inv := tr.InverseMatrix()
	want := Mat2x3{0.5, 0, 0, 0.25, -0.5, -0.25}
	for i := range want {
		if !approxEq(inv[i], want[i], 1e-5) {
			t.Errorf("inv[%d] = %v, want %v", i, inv[i], want[i])
		}
	}
}

// TestVecNormalized covers unit scaling and the zero-vector passthrough.
func TestVecNormalized(t *testing.T) {
	n := Vec2{3, 4}.Normalized()
	if !approxEq(n.X, 0.6, 1e-5) || !approxEq(n.Y, 0.8, 1e-5) {
		t.Errorf("Normalized (3,4) = %v, want (0.6,0.8)", n)
	}
	z := Vec2{}.Normalized()
	if z != (Vec2{}) {
		t.Errorf("Normalized zero = %v, want zero", z)
	}
}

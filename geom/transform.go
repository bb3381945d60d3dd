package geom

import "math"

// matrixState tracks whether the cached matrix reflects the current
// position/rotation/scale. An explicit two-state enum (rather than a bool)
// makes the cache invariant checkable at a glance.
type matrixState uint8

const (
	matrixDirty matrixState = iota
	matrixClean
)

// Mat2x3 is a 2D affine matrix stored as [a, b, c, d, tx, ty]. A point
// transforms as x' = a*x + c*y + tx, y' = b*x + d*y + ty.
type Mat2x3 [6]float32

// Identity is the identity affine matrix.
var Identity = Mat2x3{1, 0, 0, 1, 0, 0}

// degenerateDet is the determinant magnitude below which the linear part is
// treated as non-invertible and the inverse silently degrades to identity.
const degenerateDet = 1e-10

// Transform2D is a 2D affine transform: rotation (degrees) composed with
// non-uniform scale, then translation. It converts between an emitter's local
// shape space and normalized world space. The forward matrix is cached and
// recomputed lazily after any setter call.
type Transform2D struct {
	position Vec2
	rotation float32 // degrees
	scale    Vec2

	matrix Mat2x3
	state  matrixState
}

// NewTransform2D returns an identity transform (scale 1,1).
func NewTransform2D() *Transform2D {
	return &Transform2D{scale: Vec2{1, 1}, state: matrixDirty}
}

// Position returns the translation component.
func (t *Transform2D) Position() Vec2 { return t.position }

// Rotation returns the rotation in degrees.
func (t *Transform2D) Rotation() float32 { return t.rotation }

// Scale returns the scale component.
func (t *Transform2D) Scale() Vec2 { return t.scale }

// SetPosition sets the translation and invalidates the cached matrix.
func (t *Transform2D) SetPosition(p Vec2) {
	t.position = p
	t.state = matrixDirty
}

// SetRotation sets the rotation in degrees and invalidates the cached matrix.
func (t *Transform2D) SetRotation(degrees float32) {
	t.rotation = degrees
	t.state = matrixDirty
}

// SetScale sets the scale and invalidates the cached matrix.
func (t *Transform2D) SetScale(s Vec2) {
	t.scale = s
	t.state = matrixDirty
}

// Matrix returns the forward matrix R(rotation)*S(scale) plus translation,
// recomputing it if a setter ran since the last call.
func (t *Transform2D) Matrix() Mat2x3 {
	if t.state == matrixDirty {
		rad := float64(t.rotation) * math.Pi / 180
		cos := float32(math.Cos(rad))
		sin := float32(math.Sin(rad))
		t.matrix = Mat2x3{
			cos * t.scale.X,
			sin * t.scale.X,
			-sin * t.scale.Y,
			cos * t.scale.Y,
			t.position.X,
			t.position.Y,
		}
		t.state = matrixClean
	}
	return t.matrix
}

// InverseMatrix returns the algebraic inverse of Matrix. If the linear part
// is degenerate (|det| below threshold, e.g. a zero scale axis) it returns
// the identity instead of failing; a bad frame must not take down the loop.
func (t *Transform2D) InverseMatrix() Mat2x3 {
	m := t.Matrix()
	det := m[0]*m[3] - m[1]*m[2]
	if float32(math.Abs(float64(det))) < degenerateDet {
		return Identity
	}
	inv := Mat2x3{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
	}
	inv[4] = -(inv[0]*m[4] + inv[2]*m[5])
	inv[5] = -(inv[1]*m[4] + inv[3]*m[5])
	return inv
}

// TransformPoint maps a local-space point to world space.
func (t *Transform2D) TransformPoint(p Vec2) Vec2 {
	m := t.Matrix()
	return Vec2{
		m[0]*p.X + m[2]*p.Y + m[4],
		m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// InverseTransformPoint maps a world-space point back to local space.
func (t *Transform2D) InverseTransformPoint(p Vec2) Vec2 {
	m := t.InverseMatrix()
	return Vec2{
		m[0]*p.X + m[2]*p.Y + m[4],
		m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// TransformDirection maps a local-space direction to world space using only
// the linear part (no translation).
func (t *Transform2D) TransformDirection(d Vec2) Vec2 {
	m := t.Matrix()
	return Vec2{
		m[0]*d.X + m[2]*d.Y,
		m[1]*d.X + m[3]*d.Y,
	}
}

// InverseTransformDirection maps a world-space direction to local space using
// only the linear part.
func (t *Transform2D) InverseTransformDirection(d Vec2) Vec2 {
	m := t.InverseMatrix()
	return Vec2{
		m[0]*d.X + m[2]*d.Y,
		m[1]*d.X + m[3]*d.Y,
	}
}

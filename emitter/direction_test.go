package emitter

import (
	"math/rand"
	"testing"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// TestResolveDirectionFixed verifies fixed mode returns a unit vector
// parallel to the configured direction, and the (0,1) fallback for
// near-zero input.
func TestResolveDirectionFixed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name  string
		fixed geom.Vec2
		want  geom.Vec2
	}{
		{"axis", geom.Vec2{X: 3, Y: 0}, geom.Vec2{X: 1, Y: 0}},
		{"diagonal", geom.Vec2{X: 1, Y: 1}, geom.Vec2{X: 0.70710677, Y: 0.70710677}},
		{"tiny magnitude", geom.Vec2{X: 1e-9, Y: 0}, geom.Vec2{X: 0, Y: 1}},
		{"zero", geom.Vec2{}, geom.Vec2{X: 0, Y: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveDirection(DirFixed, tc.fixed, geom.Vec2{X: 9, Y: 9}, rng)
			if !approx(got.X, tc.want.X, 1e-5) || !approx(got.Y, tc.want.Y, 1e-5) {
				t.Errorf("resolveDirection = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestResolveDirectionSamplerModes verifies normal/tangent/outward/inward
// all normalize the sampler-supplied default rather than recomputing it.
func TestResolveDirectionSamplerModes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sample := geom.Vec2{X: 0, Y: -4}

	for _, mode := range []DirectionMode{DirNormal, DirTangent, DirOutward, DirInward} {
		t.Run(mode.String(), func(t *testing.T) {
			got := resolveDirection(mode, geom.Vec2{X: 1, Y: 0}, sample, rng)
			if !approx(got.X, 0, 1e-5) || !approx(got.Y, -1, 1e-5) {
				t.Errorf("resolveDirection(%v) = %v, want (0,-1)", mode, got)
			}
		})
	}
}

// TestResolveDirectionRandomIsUnit verifies random mode yields unit vectors.
func TestResolveDirectionRandomIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		got := resolveDirection(DirRandom, geom.Vec2{}, geom.Vec2{}, rng)
		if !approx(got.Length(), 1, 1e-5) {
			t.Fatalf("random direction %v has length %v", got, got.Length())
		}
	}
}

// TestApplySpreadBounds verifies jitter stays within +-spread/2 and leaves
// the vector unit length.
func TestApplySpreadBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := geom.Vec2{X: 1, Y: 0}

	for i := 0; i < 200; i++ {
		got := applySpread(base, 90, rng)
		if !approx(got.Length(), 1, 1e-5) {
			t.Fatalf("spread direction %v not unit length", got)
		}
		angle := got.Angle()
		if angle < -0.7854-1e-4 || angle > 0.7854+1e-4 {
			t.Fatalf("spread angle %v outside +-45 degrees", angle)
		}
	}

	unchanged := applySpread(base, 0, rng)
	if unchanged != base {
		t.Errorf("zero spread changed direction: %v", unchanged)
	}
}

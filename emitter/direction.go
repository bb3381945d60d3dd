package emitter

import (
	"math"
	"math/rand"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// directionFallback is the defined direction when a mode's source vector is
// too short to normalize.
var directionFallback = geom.Vec2{X: 0, Y: 1}

// minDirectionLength is the length below which a direction vector is treated
// as zero.
const minDirectionLength = 1e-6

// resolveDirection produces the unit direction for one splat. Fixed mode
// normalizes the emitter's configured world-space direction, random mode
// draws a uniform angle, and every other mode normalizes the sampler-supplied
// default for the point (already transformed to world space by the caller).
func resolveDirection(mode DirectionMode, fixed, sampleDir geom.Vec2, rng *rand.Rand) geom.Vec2 {
	switch mode {
	case DirFixed:
		return normalizeOrFallback(fixed)
	case DirRandom:
		return geom.FromAngle(rng.Float32() * 2 * math.Pi)
	default:
		return normalizeOrFallback(sampleDir)
	}
}

func normalizeOrFallback(v geom.Vec2) geom.Vec2 {
	if v.Length() <= minDirectionLength {
		return directionFallback
	}
	return v.Normalized()
}

// applySpread perturbs the direction angle by a uniform random offset within
// +-spread/2. Spread is given in degrees; jitter is drawn per splat, not per
// burst.
func applySpread(dir geom.Vec2, spreadDegrees float32, rng *rand.Rand) geom.Vec2 {
	if spreadDegrees <= 0 {
		return dir
	}
	spreadRad := spreadDegrees * math.Pi / 180
	offset := (rng.Float32() - 0.5) * spreadRad
	return geom.FromAngle(dir.Angle() + offset)
}

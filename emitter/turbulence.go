package emitter

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// turbulenceFrequency is the spatial frequency of the direction wobble
// noise, in cycles per world unit.
const turbulenceFrequency = 4.0

// maxWobbleRadians caps the wobble at a full quarter turn each way when an
// emitter's Turbulence is 1.
const maxWobbleRadians = 1.5707963

// applyTurbulence perturbs the direction angle with coherent noise sampled
// at the splat position and current time, so nearby splats wobble together
// instead of scattering.
func applyTurbulence(dir geom.Vec2, pos geom.Vec2, timeSec, strength float32, noise opensimplex.Noise) geom.Vec2 {
	if strength <= 0 || noise == nil {
		return dir
	}
	n := noise.Eval3(
		float64(pos.X)*turbulenceFrequency,
		float64(pos.Y)*turbulenceFrequency,
		float64(timeSec)*0.5,
	)
	return geom.FromAngle(dir.Angle() + float32(n)*strength*maxWobbleRadians)
}

// Package emitter converts declarative emitter configurations into
// time-sliced streams of splat commands for the fluid solver. It owns the
// live emitter set, per-emitter transforms and emission accumulators,
// selection state, and audio-reactivity modulation.
package emitter

import "github.com/artinkavousi/fluidcanvas/geom"

// Falloff selects the radial intensity profile of a splat.
type Falloff uint8

const (
	FalloffSmooth Falloff = iota
	FalloffLinear
	FalloffSharp
	FalloffRing
)

// BlendMode selects how a splat combines with the field it writes.
type BlendMode uint8

const (
	BlendAdd BlendMode = iota
	BlendMax
	BlendReplace
)

// Color is an unclamped linear RGB triple. Values above 1 are legitimate and
// read as emissive intensity by the compositor.
type Color struct {
	R, G, B float32
}

// Splat is one immutable impulse command: an injection of velocity, dye and
// optionally heat at a point. Splats are produced fresh every tick and
// consumed immediately; they are never mutated or persisted.
type Splat struct {
	Pos     geom.Vec2 // normalized world space, y-down
	Vel     geom.Vec2 // velocity delta
	Color   Color
	Radius  float32 // world-space, typically well below 1
	Opacity float32

	// Per-splat multipliers applied by the solver on top of its globals.
	VelocityScale float32
	DyeScale      float32
	RadiusScale   float32
	ColorBoost    float32

	// Shape of the injection kernel.
	Softness  float32
	Falloff   Falloff
	BlendMode BlendMode

	// Heat injected into the temperature field. Zero is neutral.
	Temperature float32

	// FlipDY tells the consumer to invert the y-velocity sign convention
	// (y-down emitter space vs. y-up field space).
	FlipDY bool
}

// Overrides carries optional per-emitter splat field overrides. Nil pointer
// fields leave the generated value untouched.
type Overrides struct {
	VelocityScale *float32 `yaml:"velocity_scale,omitempty"`
	DyeScale      *float32 `yaml:"dye_scale,omitempty"`
	RadiusScale   *float32 `yaml:"radius_scale,omitempty"`
	ColorBoost    *float32 `yaml:"color_boost,omitempty"`
	Softness      *float32 `yaml:"softness,omitempty"`
	Falloff       *Falloff `yaml:"falloff,omitempty"`
	BlendMode     *BlendMode `yaml:"blend_mode,omitempty"`
}

// apply copies every defined override onto the splat.
func (o *Overrides) apply(s *Splat) {
	if o == nil {
		return
	}
	if o.VelocityScale != nil {
		s.VelocityScale = *o.VelocityScale
	}
	if o.DyeScale != nil {
		s.DyeScale = *o.DyeScale
	}
	if o.RadiusScale != nil {
		s.RadiusScale = *o.RadiusScale
	}
	if o.ColorBoost != nil {
		s.ColorBoost = *o.ColorBoost
	}
	if o.Softness != nil {
		s.Softness = *o.Softness
	}
	if o.Falloff != nil {
		s.Falloff = *o.Falloff
	}
	if o.BlendMode != nil {
		s.BlendMode = *o.BlendMode
	}
}

package emitter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// DirectionMode selects how a splat's initial velocity direction is resolved
// relative to its emitting shape.
type DirectionMode uint8

const (
	DirFixed DirectionMode = iota
	DirNormal
	DirTangent
	DirOutward
	DirInward
	DirRandom
)

var directionModeNames = map[DirectionMode]string{
	DirFixed:   "fixed",
	DirNormal:  "normal",
	DirTangent: "tangent",
	DirOutward: "outward",
	DirInward:  "inward",
	DirRandom:  "random",
}

func (m DirectionMode) String() string {
	if s, ok := directionModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("direction(%d)", uint8(m))
}

// MarshalYAML encodes the mode as its name.
func (m DirectionMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML decodes a mode name.
func (m *DirectionMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for mode, name := range directionModeNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown direction mode %q", s)
}

// ShapeType discriminates the emitter shape union.
type ShapeType uint8

const (
	ShapePoint ShapeType = iota
	ShapeLine
	ShapeCircle
	ShapeCurve
	ShapeText
	ShapeSVG
	ShapeBrush
)

var shapeTypeNames = map[ShapeType]string{
	ShapePoint:  "point",
	ShapeLine:   "line",
	ShapeCircle: "circle",
	ShapeCurve:  "curve",
	ShapeText:   "text",
	ShapeSVG:    "svg",
	ShapeBrush:  "brush",
}

func (t ShapeType) String() string {
	if s, ok := shapeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("shape(%d)", uint8(t))
}

// SamplePoint is one local-space emission point produced by a shape sampler
// for a single burst.
type SamplePoint struct {
	Pos geom.Vec2
	// Dir is the sampler's default direction for this point (perpendicular
	// for lines, radial for circles, tangent for curves and paths). It may
	// be unnormalized; direction resolution normalizes it.
	Dir geom.Vec2

	// Optional per-point color (line gradients, brush stroke colors).
	Color    Color
	HasColor bool

	// RadiusScale multiplies the splat radius. Zero means 1.
	RadiusScale float32

	// Optional per-point softness override (brush hardness).
	Softness    float32
	HasSoftness bool
}

// Shape is the shape-specific half of an emitter. Implementations are pure
// samplers: given a burst time they produce the local-space points one burst
// originates from.
type Shape interface {
	Type() ShapeType
	// AppendSamples appends one burst's sample points to dst and returns it.
	AppendSamples(dst []SamplePoint, timeSec float32) []SamplePoint
	// Clone returns a deep copy, so duplicated emitters share no slices.
	Clone() Shape
}

// AudioBandConfig maps an audio level onto one emission parameter.
type AudioBandConfig struct {
	Enabled bool    `yaml:"enabled"`
	Min     float32 `yaml:"min"`
	Max     float32 `yaml:"max"`
}

// AudioConfig configures audio-reactive modulation for an emitter.
type AudioConfig struct {
	Enabled     bool            `yaml:"enabled"`
	Band        int             `yaml:"band"`
	Sensitivity float32         `yaml:"sensitivity"`
	Force       AudioBandConfig `yaml:"force"`
	Radius      AudioBandConfig `yaml:"radius"`
	Emission    AudioBandConfig `yaml:"emission"`
}

// Emitter is one configured splat source. The manager owns the id; callers
// never assign it except when restoring a previously assigned one.
type Emitter struct {
	ID   string
	Name string

	Active  bool
	Visible bool
	Locked  bool

	// Transform. The manager maintains the derived Transform2D; these are
	// the declarative values.
	Position geom.Vec2
	Rotation float32 // degrees
	Scale    geom.Vec2

	// Emission parameters.
	Force        float32
	ForceScale   float32
	Radius       float32
	RadiusScale  float32
	Color        Color
	Opacity      float32
	EmissionRate float32 // bursts per second

	DirectionMode  DirectionMode
	FixedDirection geom.Vec2
	Spread         float32 // degrees

	// Turbulence adds a noise-driven wobble to the resolved direction.
	// Zero disables it.
	Turbulence float32

	AudioReactive bool
	Audio         *AudioConfig

	SplatOverrides *Overrides

	// Temperature injected per splat. Zero is neutral.
	Temperature float32

	Shape Shape
}

// clone deep-copies the emitter, including its shape.
func (e *Emitter) clone() *Emitter {
	c := *e
	if e.Audio != nil {
		a := *e.Audio
		c.Audio = &a
	}
	if e.SplatOverrides != nil {
		o := *e.SplatOverrides
		c.SplatOverrides = &o
	}
	if e.Shape != nil {
		c.Shape = e.Shape.Clone()
	}
	return &c
}

// applyDefaults fills zero-valued scalar parameters that have a meaningful
// non-zero default, so sparsely specified emitters behave sensibly.
func (e *Emitter) applyDefaults() {
	if e.Scale == (geom.Vec2{}) {
		e.Scale = geom.Vec2{X: 1, Y: 1}
	}
	if e.ForceScale == 0 {
		e.ForceScale = 1
	}
	if e.RadiusScale == 0 {
		e.RadiusScale = 1
	}
	if e.Opacity == 0 {
		e.Opacity = 1
	}
	if e.Shape == nil {
		e.Shape = PointShape{}
	}
}

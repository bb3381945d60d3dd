package emitter

import (
	"math"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// CircleShape emits along a circular arc around the local origin.
type CircleShape struct {
	// InnerRadius is carried for configuration compatibility; sampling
	// places points on OuterRadius.
	InnerRadius float32 `yaml:"inner_radius"`
	OuterRadius float32 `yaml:"outer_radius"`

	// Arc span in degrees. A zero-valued span means a full circle.
	ArcStart float32 `yaml:"arc_start"`
	ArcEnd   float32 `yaml:"arc_end"`

	Points int  `yaml:"points"`
	Inward bool `yaml:"inward"`
}

func (s CircleShape) Type() ShapeType { return ShapeCircle }

// AppendSamples produces Points angular samples over [ArcStart, ArcEnd).
// The t=i/Points convention excludes the arc end itself, so a full circle
// does not double up its seam point. The default direction is radial,
// flipped when Inward is set.
func (s CircleShape) AppendSamples(dst []SamplePoint, _ float32) []SamplePoint {
	points := s.Points
	if points < 1 {
		points = 1
	}
	arcStart := s.ArcStart
	arcEnd := s.ArcEnd
	if arcStart == 0 && arcEnd == 0 {
		arcEnd = 360
	}

	for i := 0; i < points; i++ {
		t := float32(i) / float32(points)
		deg := arcStart + (arcEnd-arcStart)*t
		rad := float64(deg) * math.Pi / 180
		radial := geom.Vec2{
			X: float32(math.Cos(rad)),
			Y: float32(math.Sin(rad)),
		}
		dir := radial
		if s.Inward {
			dir = dir.Scale(-1)
		}
		dst = append(dst, SamplePoint{
			Pos: radial.Scale(s.OuterRadius),
			Dir: dir,
		})
	}
	return dst
}

func (s CircleShape) Clone() Shape { return s }

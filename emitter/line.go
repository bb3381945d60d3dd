package emitter

import "github.com/artinkavousi/fluidcanvas/geom"

// PointShape emits from the local origin. The sampler supplies no default
// direction; non-fixed modes fall back to the defined default.
type PointShape struct{}

func (PointShape) Type() ShapeType { return ShapePoint }

func (PointShape) AppendSamples(dst []SamplePoint, _ float32) []SamplePoint {
	return append(dst, SamplePoint{})
}

func (s PointShape) Clone() Shape { return s }

// LineShape emits along a segment from Start to End.
type LineShape struct {
	Start    geom.Vec2 `yaml:"start,flow"`
	End      geom.Vec2 `yaml:"end,flow"`
	Segments int       `yaml:"segments"`

	// Optional color gradient lerped along the segment.
	Gradient      bool  `yaml:"gradient"`
	GradientStart Color `yaml:"gradient_start,flow"`
	GradientEnd   Color `yaml:"gradient_end,flow"`
}

func (s LineShape) Type() ShapeType { return ShapeLine }

// AppendSamples produces Segments+1 evenly spaced points. The default
// direction is the segment direction rotated 90 degrees (the line normal),
// shared by every point.
func (s LineShape) AppendSamples(dst []SamplePoint, _ float32) []SamplePoint {
	segments := s.Segments
	if segments < 1 {
		segments = 1
	}
	normal := s.End.Sub(s.Start).Normalized().Perp()

	for i := 0; i <= segments; i++ {
		t := float32(i) / float32(segments)
		sp := SamplePoint{
			Pos: geom.Lerp(s.Start, s.End, t),
			Dir: normal,
		}
		if s.Gradient {
			sp.HasColor = true
			sp.Color = Color{
				R: geom.LerpScalar(s.GradientStart.R, s.GradientEnd.R, t),
				G: geom.LerpScalar(s.GradientStart.G, s.GradientEnd.G, t),
				B: geom.LerpScalar(s.GradientStart.B, s.GradientEnd.B, t),
			}
		}
		dst = append(dst, sp)
	}
	return dst
}

func (s LineShape) Clone() Shape { return s }

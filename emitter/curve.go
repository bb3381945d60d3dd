package emitter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// CurveType selects the parametric curve family for CurveShape.
type CurveType uint8

const (
	CurveLinear CurveType = iota
	CurveQuadratic
	CurveCubic
	CurveCatmullRom
)

var curveTypeNames = map[CurveType]string{
	CurveLinear:     "linear",
	CurveQuadratic:  "quadratic",
	CurveCubic:      "cubic",
	CurveCatmullRom: "catmullrom",
}

func (c CurveType) String() string {
	if s, ok := curveTypeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("curve(%d)", uint8(c))
}

// MarshalYAML encodes the curve type as its name.
func (c CurveType) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML decodes a curve type name.
func (c *CurveType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for ct, name := range curveTypeNames {
		if name == s {
			*c = ct
			return nil
		}
	}
	return fmt.Errorf("unknown curve type %q", s)
}

// tangentEpsilon is the half-width of the symmetric finite difference used
// to estimate curve tangents.
const tangentEpsilon = 0.001

// CurveShape emits along a parametric curve through ControlPoints.
type CurveShape struct {
	CurveType     CurveType   `yaml:"curve_type"`
	ControlPoints []geom.Vec2 `yaml:"control_points,flow"`
	Samples       int         `yaml:"samples"`
	// AnimationSpeed > 0 slides the sampled parameter along the curve over
	// time, turning the static distribution into a moving emission point.
	AnimationSpeed float32 `yaml:"animation_speed"`
}

func (s CurveShape) Type() ShapeType { return ShapeCurve }

// AppendSamples evaluates the curve at Samples+1 parameter values. The
// default direction is the curve tangent, estimated by symmetric finite
// difference with the parameter clamped to [0,1].
func (s CurveShape) AppendSamples(dst []SamplePoint, timeSec float32) []SamplePoint {
	if len(s.ControlPoints) < 2 {
		return dst
	}
	samples := s.Samples
	if samples < 1 {
		samples = 1
	}

	for i := 0; i <= samples; i++ {
		u := float32(i) / float32(samples)
		if s.AnimationSpeed > 0 {
			u = frac(u + timeSec*s.AnimationSpeed)
		}
		dst = append(dst, SamplePoint{
			Pos: s.eval(u),
			Dir: s.tangent(u),
		})
	}
	return dst
}

func (s CurveShape) Clone() Shape {
	c := s
	c.ControlPoints = append([]geom.Vec2(nil), s.ControlPoints...)
	return c
}

// eval evaluates the curve at parameter u in [0,1]. Curve families that do
// not have enough control points fall back to piecewise-linear evaluation.
func (s CurveShape) eval(u float32) geom.Vec2 {
	cp := s.ControlPoints
	switch s.CurveType {
	case CurveQuadratic:
		if len(cp) >= 3 {
			return evalQuadratic(cp[0], cp[1], cp[2], u)
		}
	case CurveCubic:
		if len(cp) >= 4 {
			return evalCubic(cp[0], cp[1], cp[2], cp[3], u)
		}
	case CurveCatmullRom:
		if len(cp) >= 4 {
			return evalCatmullRom(cp, u)
		}
	}
	return evalPolyline(cp, u)
}

// tangent estimates the curve direction at u.
func (s CurveShape) tangent(u float32) geom.Vec2 {
	lo := clamp01(u - tangentEpsilon)
	hi := clamp01(u + tangentEpsilon)
	return s.eval(hi).Sub(s.eval(lo))
}

// evalQuadratic evaluates a quadratic Bezier at t.
func evalQuadratic(p0, p1, p2 geom.Vec2, t float32) geom.Vec2 {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return geom.Vec2{
		X: a*p0.X + b*p1.X + c*p2.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y,
	}
}

// evalCubic evaluates a cubic Bezier at t.
func evalCubic(p0, p1, p2, p3 geom.Vec2, t float32) geom.Vec2 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return geom.Vec2{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// evalCatmullRom evaluates a Catmull-Rom spline through cp at global
// parameter u in [0,1], using the standard four-point window around u.
func evalCatmullRom(cp []geom.Vec2, u float32) geom.Vec2 {
	segments := len(cp) - 3
	f := u * float32(segments)
	seg := int(f)
	if seg >= segments {
		seg = segments - 1
	}
	if seg < 0 {
		seg = 0
	}
	t := f - float32(seg)

	p0, p1, p2, p3 := cp[seg], cp[seg+1], cp[seg+2], cp[seg+3]
	t2 := t * t
	t3 := t2 * t
	return geom.Vec2{
		X: 0.5 * (2*p1.X + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * (2*p1.Y + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}

// evalPolyline evaluates piecewise-linear interpolation through cp at u.
func evalPolyline(cp []geom.Vec2, u float32) geom.Vec2 {
	if len(cp) == 1 {
		return cp[0]
	}
	f := u * float32(len(cp)-1)
	i := int(f)
	if i >= len(cp)-1 {
		i = len(cp) - 2
	}
	if i < 0 {
		i = 0
	}
	return geom.Lerp(cp[i], cp[i+1], f-float32(i))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func frac(v float32) float32 {
	return v - float32(int(v))
}

package emitter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// normalizedHalfSpan is the half-extent the bounding box of a normalized SVG
// path is scaled into: the path fits within +-0.2 local units (a 0.4 span).
// This is a fixed visual-size convention, not user-configurable.
const normalizedHalfSpan = 0.2

// SVGShape emits along the outline of an SVG path string.
type SVGShape struct {
	// Path holds M/L/H/V/Q/C/Z commands, absolute or relative.
	Path    string `yaml:"path"`
	Samples int    `yaml:"samples"`
	// NormalizeSize recenters the sampled points and uniformly scales them
	// so the bounding box fits the fixed normalized span.
	NormalizeSize bool `yaml:"normalize_size"`
}

func (s SVGShape) Type() ShapeType { return ShapeSVG }

// AppendSamples parses the path into line/quadratic/cubic segments, samples
// each segment, then subsamples by constant stride down to Samples points.
// The stride subsample is an accepted approximation: it does not guarantee
// exactly Samples output points at the boundary. Malformed paths yield an
// empty burst.
func (s SVGShape) AppendSamples(dst []SamplePoint, _ float32) []SamplePoint {
	segs, err := parseSVGPath(s.Path)
	if err != nil || len(segs) == 0 {
		return dst
	}
	samples := s.Samples
	if samples < 1 {
		samples = 1
	}

	perSeg := int(math.Ceil(float64(samples) / float64(len(segs))))
	if perSeg < 2 {
		perSeg = 2
	}

	pts := make([]SamplePoint, 0, perSeg*len(segs))
	for _, seg := range segs {
		for j := 0; j < perSeg; j++ {
			t := float32(j) / float32(perSeg-1)
			pts = append(pts, SamplePoint{
				Pos: seg.eval(t),
				Dir: seg.tangent(t),
			})
		}
	}

	if s.NormalizeSize {
		normalizePoints(pts)
	}
	return appendStrided(dst, pts, samples)
}

func (s SVGShape) Clone() Shape { return s }

// normalizePoints recenters pts on their bounding-box center and uniformly
// scales them so the larger bounding-box extent spans the normalized window.
func normalizePoints(pts []SamplePoint) {
	if len(pts) == 0 {
		return
	}
	minX, minY := pts[0].Pos.X, pts[0].Pos.Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.Pos.X)
		minY = min(minY, p.Pos.Y)
		maxX = max(maxX, p.Pos.X)
		maxY = max(maxY, p.Pos.Y)
	}
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	extent := max(maxX-minX, maxY-minY)
	scale := float32(1)
	if extent > 1e-12 {
		scale = 2 * normalizedHalfSpan / extent
	}
	for i := range pts {
		pts[i].Pos.X = (pts[i].Pos.X - cx) * scale
		pts[i].Pos.Y = (pts[i].Pos.Y - cy) * scale
	}
}

// appendStrided appends pts to dst, subsampled by constant stride when there
// are more points than requested.
func appendStrided(dst, pts []SamplePoint, samples int) []SamplePoint {
	if len(pts) <= samples {
		return append(dst, pts...)
	}
	for i := 0; i < samples; i++ {
		idx := i * len(pts) / samples
		dst = append(dst, pts[idx])
	}
	return dst
}

// pathSegment is one parsed segment of an SVG path.
type pathSegment struct {
	kind segmentKind
	p0   geom.Vec2
	p1   geom.Vec2 // quad/cubic control, line end
	p2   geom.Vec2 // quad end, cubic control
	p3   geom.Vec2 // cubic end
}

type segmentKind uint8

const (
	segLine segmentKind = iota
	segQuad
	segCubic
)

func (s pathSegment) eval(t float32) geom.Vec2 {
	switch s.kind {
	case segQuad:
		return evalQuadratic(s.p0, s.p1, s.p2, t)
	case segCubic:
		return evalCubic(s.p0, s.p1, s.p2, s.p3, t)
	default:
		return geom.Lerp(s.p0, s.p1, t)
	}
}

func (s pathSegment) tangent(t float32) geom.Vec2 {
	lo := clamp01(t - tangentEpsilon)
	hi := clamp01(t + tangentEpsilon)
	return s.eval(hi).Sub(s.eval(lo))
}

// parseSVGPath parses the supported command set (M, L, H, V, Q, C, Z and
// their relative forms) into segments. Extra coordinate groups after a
// command repeat it, with the usual SVG exception that coordinates after a
// moveto are implicit linetos.
func parseSVGPath(path string) ([]pathSegment, error) {
	p := &svgParser{src: path}
	var segs []pathSegment

	var cur, start geom.Vec2
	started := false

	for {
		p.skipSeparators()
		if p.done() {
			return segs, nil
		}

		cmd := p.src[p.pos]
		if !isPathCommand(cmd) {
			return nil, fmt.Errorf("svg path: unexpected %q at %d", cmd, p.pos)
		}
		p.pos++
		rel := cmd >= 'a'
		upper := cmd &^ 0x20

		switch upper {
		case 'M':
			first := true
			for first || p.hasNumber() {
				x, y, err := p.coordPair()
				if err != nil {
					return nil, err
				}
				pt := geom.Vec2{X: x, Y: y}
				if rel && started {
					pt = cur.Add(pt)
				}
				if first {
					cur, start = pt, pt
					started = true
				} else {
					segs = append(segs, pathSegment{kind: segLine, p0: cur, p1: pt})
					cur = pt
				}
				first = false
			}

		case 'L':
			for first := true; first || p.hasNumber(); first = false {
				x, y, err := p.coordPair()
				if err != nil {
					return nil, err
				}
				pt := geom.Vec2{X: x, Y: y}
				if rel {
					pt = cur.Add(pt)
				}
				segs = append(segs, pathSegment{kind: segLine, p0: cur, p1: pt})
				cur = pt
			}

		case 'H':
			for first := true; first || p.hasNumber(); first = false {
				x, err := p.number()
				if err != nil {
					return nil, err
				}
				pt := geom.Vec2{X: x, Y: cur.Y}
				if rel {
					pt.X = cur.X + x
				}
				segs = append(segs, pathSegment{kind: segLine, p0: cur, p1: pt})
				cur = pt
			}

		case 'V':
			for first := true; first || p.hasNumber(); first = false {
				y, err := p.number()
				if err != nil {
					return nil, err
				}
				pt := geom.Vec2{X: cur.X, Y: y}
				if rel {
					pt.Y = cur.Y + y
				}
				segs = append(segs, pathSegment{kind: segLine, p0: cur, p1: pt})
				cur = pt
			}

		case 'Q':
			for first := true; first || p.hasNumber(); first = false {
				cx, cy, err := p.coordPair()
				if err != nil {
					return nil, err
				}
				x, y, err := p.coordPair()
				if err != nil {
					return nil, err
				}
				ctrl := geom.Vec2{X: cx, Y: cy}
				end := geom.Vec2{X: x, Y: y}
				if rel {
					ctrl = cur.Add(ctrl)
					end = cur.Add(end)
				}
				segs = append(segs, pathSegment{kind: segQuad, p0: cur, p1: ctrl, p2: end})
				cur = end
			}

		case 'C':
			for first := true; first || p.hasNumber(); first = false {
				c1x, c1y, err := p.coordPair()
				if err != nil {
					return nil, err
				}
				c2x, c2y, err := p.coordPair()
				if err != nil {
					return nil, err
				}
				x, y, err := p.coordPair()
				if err != nil {
					return nil, err
				}
				c1 := geom.Vec2{X: c1x, Y: c1y}
				c2 := geom.Vec2{X: c2x, Y: c2y}
				end := geom.Vec2{X: x, Y: y}
				if rel {
					c1 = cur.Add(c1)
					c2 = cur.Add(c2)
					end = cur.Add(end)
				}
				segs = append(segs, pathSegment{kind: segCubic, p0: cur, p1: c1, p2: c2, p3: end})
				cur = end
			}

		case 'Z':
			if started && cur != start {
				segs = append(segs, pathSegment{kind: segLine, p0: cur, p1: start})
			}
			cur = start

		default:
			return nil, fmt.Errorf("svg path: unsupported command %q", cmd)
		}
	}
}

func isPathCommand(c byte) bool {
	switch c &^ 0x20 {
	case 'M', 'L', 'H', 'V', 'Q', 'C', 'Z':
		return true
	}
	return false
}

// svgParser is a minimal scanner over an SVG path string.
type svgParser struct {
	src string
	pos int
}

func (p *svgParser) done() bool { return p.pos >= len(p.src) }

func (p *svgParser) skipSeparators() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		return
	}
}

// hasNumber reports whether the next token is a number rather than a command.
func (p *svgParser) hasNumber() bool {
	p.skipSeparators()
	if p.done() {
		return false
	}
	c := p.src[p.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (p *svgParser) number() (float32, error) {
	p.skipSeparators()
	startPos := p.pos
	if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
		p.pos++
	}
	seenDot := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		if c == 'e' || c == 'E' {
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
				p.pos++
			}
			continue
		}
		break
	}
	if p.pos == startPos {
		return 0, fmt.Errorf("svg path: expected number at %d", startPos)
	}
	v, err := strconv.ParseFloat(p.src[startPos:p.pos], 32)
	if err != nil {
		return 0, fmt.Errorf("svg path: bad number %q: %w", p.src[startPos:p.pos], err)
	}
	return float32(v), nil
}

func (p *svgParser) coordPair() (float32, float32, error) {
	x, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	y, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

package emitter

import "testing"

// TestParseSVGPathSquare verifies absolute move/line/close parsing.
func TestParseSVGPathSquare(t *testing.T) {
	segs, err := parseSVGPath("M 0 0 L 1 0 L 1 1 L 0 1 Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 4 {
		t.Fatalf("segment count = %d, want 4", len(segs))
	}
	// Z closes back to the start.
	last := segs[3]
	if last.p1 != (segs[0].p0) {
		t.Errorf("close segment ends at %v, want %v", last.p1, segs[0].p0)
	}
}

// TestParseSVGPathRelative verifies relative commands accumulate from the
// current point.
func TestParseSVGPathRelative(t *testing.T) {
	segs, err := parseSVGPath("M 1 1 l 1 0 v 2 h -1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("segment count = %d, want 3", len(segs))
	}
	if segs[0].p1.X != 2 || segs[0].p1.Y != 1 {
		t.Errorf("l end = %v, want (2,1)", segs[0].p1)
	}
	if segs[1].p1.X != 2 || segs[1].p1.Y != 3 {
		t.Errorf("v end = %v, want (2,3)", segs[1].p1)
	}
	if segs[2].p1.X != 1 || segs[2].p1.Y != 3 {
		t.Errorf("h end = %v, want (1,3)", segs[2].p1)
	}
}

// TestParseSVGPathCurves verifies quadratic and cubic segment parsing.
func TestParseSVGPathCurves(t *testing.T) {
	segs, err := parseSVGPath("M0,0 Q 1,2 2,0 C 3,1 4,-1 5,0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("segment count = %d, want 2", len(segs))
	}
	if segs[0].kind != segQuad {
		t.Errorf("first segment kind = %d, want quad", segs[0].kind)
	}
	if segs[1].kind != segCubic {
		t.Errorf("second segment kind = %d, want cubic", segs[1].kind)
	}
	mid := segs[0].eval(0.5)
	if !approx(mid.X, 1, 1e-5) || !approx(mid.Y, 1, 1e-5) {
		t.Errorf("quad midpoint = %v, want (1,1)", mid)
	}
}

// TestParseSVGPathMalformed verifies malformed input errors instead of
// producing garbage segments.
func TestParseSVGPathMalformed(t *testing.T) {
	tests := []string{
		"X 0 0",
		"M 0",
		"M 0 0 L one two",
		"M 0 0 A 1 1 0 0 0 2 2", // arcs unsupported
	}
	for _, path := range tests {
		if _, err := parseSVGPath(path); err == nil {
			t.Errorf("parseSVGPath(%q) succeeded, want error", path)
		}
	}
}

// TestSVGSamplerNormalize verifies normalization recenters the points and
// scales them into the fixed +-0.2 window.
func TestSVGSamplerNormalize(t *testing.T) {
	s := SVGShape{
		Path:          "M 10 10 L 30 10 L 30 30 L 10 30 Z",
		Samples:       16,
		NormalizeSize: true,
	}
	pts := s.AppendSamples(nil, 0)
	if len(pts) == 0 {
		t.Fatal("no points sampled")
	}

	var minX, minY, maxX, maxY float32 = 1e9, 1e9, -1e9, -1e9
	for _, p := range pts {
		minX = min(minX, p.Pos.X)
		minY = min(minY, p.Pos.Y)
		maxX = max(maxX, p.Pos.X)
		maxY = max(maxY, p.Pos.Y)
	}
	if !approx(minX, -0.2, 1e-4) || !approx(maxX, 0.2, 1e-4) {
		t.Errorf("x range = [%v,%v], want [-0.2,0.2]", minX, maxX)
	}
	if !approx(minY+maxY, 0, 1e-4) {
		t.Errorf("y range [%v,%v] not centered", minY, maxY)
	}
}

// TestSVGSamplerStride verifies oversampled paths are cut down by constant
// stride to the requested count.
func TestSVGSamplerStride(t *testing.T) {
	s := SVGShape{Path: "M 0 0 L 1 0 L 1 1 L 0 1 Z", Samples: 6}
	pts := s.AppendSamples(nil, 0)
	// 4 segments at >=2 points each exceed 6, so the stride subsample
	// applies and yields exactly Samples points for this divisible case.
	if len(pts) != 6 {
		t.Errorf("point count = %d, want 6", len(pts))
	}
}

// TestSVGSamplerMalformedYieldsEmpty verifies runtime sampling degrades to
// an empty burst on bad paths.
func TestSVGSamplerMalformedYieldsEmpty(t *testing.T) {
	s := SVGShape{Path: "not a path", Samples: 8}
	if pts := s.AppendSamples(nil, 0); len(pts) != 0 {
		t.Errorf("malformed path produced %d points", len(pts))
	}
}

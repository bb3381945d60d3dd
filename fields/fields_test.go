package fields

import "testing"

// GPU allocation needs a window, so these tests exercise the bookkeeping
// directly on hand-built fields.

func testRegistry(names ...string) *Registry {
	r := &Registry{width: 256, height: 256, fields: make(map[string]*Field)}
	for _, n := range names {
		r.fields[n] = &Field{name: n, width: 256, height: 256}
		r.order = append(r.order, n)
	}
	return r
}

// TestGetUnknownField verifies unknown names surface as errors rather than
// nil fields.
func TestGetUnknownField(t *testing.T) {
	r := testRegistry("velocity", "dye")

	if _, err := r.Get("velocity"); err != nil {
		t.Errorf("Get(velocity) = %v, want nil error", err)
	}
	if _, err := r.Get("pressure"); err == nil {
		t.Error("Get(pressure) succeeded, want error")
	}
}

// TestPingPongSwap verifies read and write targets alternate.
func TestPingPongSwap(t *testing.T) {
	f := &Field{name: "velocity"}
	f.ping.ID = 1
	f.pong.ID = 2

	if f.Read().ID != 1 || f.Write().ID != 2 {
		t.Fatalf("initial read/write = %d/%d, want 1/2", f.Read().ID, f.Write().ID)
	}
	f.Swap()
	if f.Read().ID != 2 || f.Write().ID != 1 {
		t.Errorf("swapped read/write = %d/%d, want 2/1", f.Read().ID, f.Write().ID)
	}
	f.Swap()
	if f.Read().ID != 1 {
		t.Errorf("double swap read = %d, want 1", f.Read().ID)
	}
}

// TestSingleBufferSwapNoop verifies single-buffer fields ignore Swap.
func TestSingleBufferSwapNoop(t *testing.T) {
	f := &Field{name: "divergence", singular: true}
	f.ping.ID = 1

	f.Swap()
	if f.Read().ID != 1 || f.Write().ID != 1 {
		t.Errorf("single-buffer read/write = %d/%d, want 1/1", f.Read().ID, f.Write().ID)
	}
}

// TestSamplerClamp verifies out-of-range coordinates clamp to the edge.
func TestSamplerClamp(t *testing.T) {
	s := &Sampler{width: 2, height: 2, data: []float32{
		0.1, 0.2, 0.3, 0.4,
		0.5, 0.6, 0.7, 0.8,
	}}

	x, y := s.Sample(-1, -1)
	if x != 0.1 || y != 0.2 {
		t.Errorf("clamped low sample = %v,%v, want 0.1,0.2", x, y)
	}
	x, y = s.Sample(2, 2)
	if x != 0.7 || y != 0.8 {
		t.Errorf("clamped high sample = %v,%v, want 0.7,0.8", x, y)
	}
}

// TestSamplerEmpty verifies sampling before any readback yields zero.
func TestSamplerEmpty(t *testing.T) {
	s := NewSampler()
	if x, y := s.Sample(0.5, 0.5); x != 0 || y != 0 {
		t.Errorf("empty sample = %v,%v, want 0,0", x, y)
	}
}

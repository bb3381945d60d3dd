package tracer

import (
	"testing"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/geom"
)

func testSplat() emitter.Splat {
	return emitter.Splat{
		Pos:         geom.Vec2{X: 0.5, Y: 0.5},
		Vel:         geom.Vec2{X: 0.1, Y: 0},
		Color:       emitter.Color{R: 1},
		Radius:      0.05,
		RadiusScale: 1,
	}
}

// TestSpawnFromSplats verifies spawn count follows the per-splat setting.
func TestSpawnFromSplats(t *testing.T) {
	config.MustInit("")
	s := NewSystem(1)

	s.SpawnFromSplats([]emitter.Splat{testSplat(), testSplat()})

	want := 2 * config.Cfg().Tracer.SpawnPerSplat
	if s.Count() != want {
		t.Errorf("count = %d, want %d", s.Count(), want)
	}
}

// TestSpawnRespectsBudget verifies the particle cap holds under a flood of
// splats.
func TestSpawnRespectsBudget(t *testing.T) {
	config.MustInit("")
	s := NewSystem(1)

	splats := make([]emitter.Splat, 100000)
	for i := range splats {
		splats[i] = testSplat()
	}
	s.SpawnFromSplats(splats)

	if budget := config.Cfg().Tracer.MaxParticles; s.Count() > budget {
		t.Errorf("count = %d exceeds budget %d", s.Count(), budget)
	}
}

// TestParticlesExpire verifies aged-out particles are removed.
func TestParticlesExpire(t *testing.T) {
	config.MustInit("")
	s := NewSystem(1)

	s.SpawnFromSplats([]emitter.Splat{testSplat()})
	if s.Count() == 0 {
		t.Fatal("no particles spawned")
	}

	// Max lifetime jitter is 1.3x the configured lifetime.
	lifetime := float32(config.Cfg().Tracer.Lifetime)
	for i := 0; i < 4; i++ {
		s.Update(lifetime/2, nil)
	}

	if s.Count() != 0 {
		t.Errorf("count = %d after lifetime elapsed, want 0", s.Count())
	}
}

// TestClear verifies Clear drops everything.
func TestClear(t *testing.T) {
	config.MustInit("")
	s := NewSystem(1)

	s.SpawnFromSplats([]emitter.Splat{testSplat(), testSplat(), testSplat()})
	s.Clear()

	if s.Count() != 0 {
		t.Errorf("count = %d after clear, want 0", s.Count())
	}
}

// TestUpdateWithoutField verifies headless updates with no velocity field
// still age particles without panicking.
func TestUpdateWithoutField(t *testing.T) {
	config.MustInit("")
	s := NewSystem(1)

	s.SpawnFromSplats([]emitter.Splat{testSplat()})
	before := s.Count()
	s.Update(0.016, nil)

	if s.Count() != before {
		t.Errorf("count changed on first short update: %d -> %d", before, s.Count())
	}
}

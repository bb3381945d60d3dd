// Package tracer maintains dye tracer particles: lightweight sprites spawned
// at splat sites and carried by a CPU copy of the velocity field. They ride
// on top of the GPU dye, giving the flow visible grain.
package tracer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/fields"
)

// Position is a particle's location in normalized [0,1] canvas space.
type Position struct {
	X, Y float32
}

// Velocity is the particle's last sampled flow vector.
type Velocity struct {
	X, Y float32
}

// Particle holds the visual state of one tracer.
type Particle struct {
	Age      float32
	Lifetime float32
	Color    emitter.Color
	Size     float32
}

// velocityGain converts the field's encoded [-0.5,0.5] range into canvas
// motion that reads well at tracer scale.
const velocityGain = 2.0

// System owns the tracer entities and their advection.
type System struct {
	world  *ecs.World
	mapper *ecs.Map3[Position, Velocity, Particle]
	filter *ecs.Filter3[Position, Velocity, Particle]

	sampler *fields.Sampler
	rng     *rand.Rand

	count int
	frame int
}

// NewSystem creates an empty tracer system.
func NewSystem(seed int64) *System {
	world := ecs.NewWorld()
	return &System{
		world:   world,
		mapper:  ecs.NewMap3[Position, Velocity, Particle](world),
		filter:  ecs.NewFilter3[Position, Velocity, Particle](world),
		sampler: fields.NewSampler(),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// SpawnFromSplats seeds tracers at this frame's splat sites, up to the
// configured particle budget.
func (s *System) SpawnFromSplats(splats []emitter.Splat) {
	cfg := config.Cfg().Tracer
	if !cfg.Enabled || cfg.SpawnPerSplat <= 0 {
		return
	}

	for i := range splats {
		sp := &splats[i]
		for j := 0; j < cfg.SpawnPerSplat; j++ {
			if s.count >= cfg.MaxParticles {
				return
			}

			// Jitter inside the splat radius.
			ang := s.rng.Float64() * 2 * math.Pi
			r := float32(s.rng.Float64()) * sp.Radius * sp.RadiusScale
			pos := Position{
				X: sp.Pos.X + r*float32(math.Cos(ang)),
				Y: sp.Pos.Y + r*float32(math.Sin(ang)),
			}
			vel := Velocity{X: sp.Vel.X, Y: sp.Vel.Y}
			p := Particle{
				Lifetime: float32(cfg.Lifetime) * (0.7 + 0.6*s.rng.Float32()),
				Color:    sp.Color,
				Size:     1 + 2*s.rng.Float32(),
			}

			s.mapper.NewEntity(&pos, &vel, &p)
			s.count++
		}
	}
}

// Update advects and ages every tracer. The velocity field is read back to
// the CPU at the configured cadence; a nil field skips readback (headless).
func (s *System) Update(dt float32, velocity *fields.Field) {
	cfg := config.Cfg().Tracer
	if !cfg.Enabled {
		return
	}

	s.frame++
	interval := cfg.ReadbackInterval
	if interval < 1 {
		interval = 1
	}
	if velocity != nil && s.frame%interval == 0 {
		s.sampler.Readback(velocity)
	}

	// First pass: integrate and collect expired entities. Removal waits
	// until iteration is done.
	var dead []ecs.Entity

	query := s.filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()

		vx, vy := s.sampler.Sample(pos.X, pos.Y)
		vel.X = vx * velocityGain
		vel.Y = vy * velocityGain
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		p.Age += dt
		expired := p.Age >= p.Lifetime ||
			pos.X < 0 || pos.X > 1 || pos.Y < 0 || pos.Y > 1
		if expired {
			dead = append(dead, query.Entity())
		}
	}

	for _, e := range dead {
		s.mapper.Remove(e)
		s.count--
	}
}

// Draw renders the tracers scaled to the screen, fading with age.
func (s *System) Draw(screenW, screenH float32) {
	query := s.filter.Query()
	for query.Next() {
		pos, _, p := query.Get()

		fade := 1 - p.Age/p.Lifetime
		if fade <= 0 {
			continue
		}
		c := rl.NewColor(
			colorByte(p.Color.R),
			colorByte(p.Color.G),
			colorByte(p.Color.B),
			uint8(fade*200),
		)
		rl.DrawCircleV(rl.NewVector2(pos.X*screenW, pos.Y*screenH), p.Size, c)
	}
}

// Count returns the live particle count.
func (s *System) Count() int {
	return s.count
}

// Clear removes every tracer.
func (s *System) Clear() {
	var all []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		s.mapper.Remove(e)
	}
	s.count = 0
}

func colorByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Package solver runs the GPU fluid simulation: splat injection followed by
// the advection/projection pass chain over the field registry.
package solver

import (
	"embed"
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/fields"
	"github.com/artinkavousi/fluidcanvas/passgraph"
)

//go:embed shaders/*.fs
var shaderFS embed.FS

// Field names the solver registers.
const (
	FieldVelocity    = "velocity"
	FieldDye         = "dye"
	FieldPressure    = "pressure"
	FieldDivergence  = "divergence"
	FieldTemperature = "temperature"
)

// groupPressure keeps the Jacobi pass out of the main frame order; it only
// runs inside the pressure loop's RunSubset.
const groupPressure = "pressure"

// mainGroups are the pass groups the frame loop executes directly.
var mainGroups = []string{"sim", "visual"}

// ShaderPass is the compute payload the renderer dispatches: one fragment
// shader over a fullscreen quad, sampling Source's read texture into
// Output's write texture, then swapping.
type ShaderPass struct {
	Shader rl.Shader
	Source *fields.Field // bound as texture0; nil means Output
	Output *fields.Field

	// Bind sets extra texture uniforms just before the draw.
	Bind func()
}

// Run executes the pass once.
func (sp *ShaderPass) Run() {
	src := sp.Source
	if src == nil {
		src = sp.Output
	}
	outW, outH := sp.Output.Size()

	rl.BeginTextureMode(sp.Output.Write())
	rl.BeginShaderMode(sp.Shader)
	if sp.Bind != nil {
		sp.Bind()
	}
	tex := src.Read().Texture
	rl.DrawTexturePro(tex,
		rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height)),
		rl.NewRectangle(0, 0, float32(outW), float32(outH)),
		rl.NewVector2(0, 0), 0, rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()

	sp.Output.Swap()
}

// Renderer dispatches ShaderPass computes. Passes with custom Execute hooks
// never reach it.
type Renderer struct{}

func (Renderer) Dispatch(p *passgraph.Pass, dt float32) {
	if sp, ok := p.Compute.(*ShaderPass); ok {
		sp.Run()
	}
}

// Solver owns the shader programs and the registered pass chain.
type Solver struct {
	registry *fields.Registry
	graph    *passgraph.Graph
	renderer Renderer

	velocity    *fields.Field
	dye         *fields.Field
	pressure    *fields.Field
	divergence  *fields.Field
	temperature *fields.Field

	shaders map[string]rl.Shader
	locs    map[string]map[string]int32

	jacobiIDs []string
	queue     []emitter.Splat
}

// New allocates the solver fields, loads the shaders, and registers the pass
// chain into the graph. Shader or field setup failures are configuration
// errors and abort startup.
func New(registry *fields.Registry, graph *passgraph.Graph) (*Solver, error) {
	s := &Solver{
		registry: registry,
		graph:    graph,
		shaders:  make(map[string]rl.Shader),
		locs:     make(map[string]map[string]int32),
	}

	// The registry is sized for the dye; the sim fields run at the coarser
	// sim resolution.
	cfg := config.Cfg()
	scale := int32(1)
	if cfg.Sim.SimResolution > 0 && cfg.Sim.DyeResolution > cfg.Sim.SimResolution {
		scale = int32(cfg.Sim.DyeResolution / cfg.Sim.SimResolution)
	}
	err := registry.CreateAll(
		fields.Spec{Name: FieldVelocity, Format: fields.FormatRGBA16F, Scale: scale},
		fields.Spec{Name: FieldDye, Format: fields.FormatRGBA8},
		fields.Spec{Name: FieldPressure, Format: fields.FormatRGBA16F, Scale: scale},
		fields.Spec{Name: FieldDivergence, Format: fields.FormatRGBA16F, Single: true, Scale: scale},
		fields.Spec{Name: FieldTemperature, Format: fields.FormatRGBA8, Scale: scale},
	)
	if err != nil {
		return nil, fmt.Errorf("creating solver fields: %w", err)
	}
	s.velocity = registry.MustGet(FieldVelocity)
	s.dye = registry.MustGet(FieldDye)
	s.pressure = registry.MustGet(FieldPressure)
	s.divergence = registry.MustGet(FieldDivergence)
	s.temperature = registry.MustGet(FieldTemperature)

	// Velocity fields start at the encoded zero.
	zero := rl.NewColor(127, 127, 127, 255)
	s.velocity.Clear(zero)
	s.pressure.Clear(zero)
	s.divergence.Clear(zero)
	s.temperature.Clear(rl.Black)
	s.dye.Clear(rl.Black)

	names := []string{"splat", "advect", "divergence", "jacobi", "gradient", "vorticity", "buoyancy"}
	for _, name := range names {
		if err := s.loadShader(name); err != nil {
			return nil, err
		}
	}

	s.registerPasses()
	return s, nil
}

func (s *Solver) loadShader(name string) error {
	code, err := shaderFS.ReadFile("shaders/" + name + ".fs")
	if err != nil {
		return fmt.Errorf("reading shader %s: %w", name, err)
	}
	sh := rl.LoadShaderFromMemory("", string(code))
	if sh.ID == 0 {
		return fmt.Errorf("compiling shader %s", name)
	}
	s.shaders[name] = sh
	s.locs[name] = make(map[string]int32)
	return nil
}

func (s *Solver) loc(shader, uniform string) int32 {
	m := s.locs[shader]
	if l, ok := m[uniform]; ok {
		return l
	}
	l := rl.GetShaderLocation(s.shaders[shader], uniform)
	m[uniform] = l
	return l
}

func (s *Solver) setFloat(shader, uniform string, v float32) {
	rl.SetShaderValue(s.shaders[shader], s.loc(shader, uniform), []float32{v}, rl.ShaderUniformFloat)
}

func (s *Solver) setVec2(shader, uniform string, x, y float32) {
	rl.SetShaderValue(s.shaders[shader], s.loc(shader, uniform), []float32{x, y}, rl.ShaderUniformVec2)
}

func (s *Solver) setVec3(shader, uniform string, x, y, z float32) {
	rl.SetShaderValue(s.shaders[shader], s.loc(shader, uniform), []float32{x, y, z}, rl.ShaderUniformVec3)
}

func (s *Solver) setInt(shader, uniform string, v int32) {
	rl.SetShaderValue(s.shaders[shader], s.loc(shader, uniform), unsafe.Slice((*float32)(unsafe.Pointer(&v)), 1), rl.ShaderUniformInt)
}

func (s *Solver) bindTexture(shader, uniform string, f *fields.Field) {
	rl.SetShaderValueTexture(s.shaders[shader], s.loc(shader, uniform), f.Read().Texture)
}

// texelSize returns 1/width, 1/height for a field.
func texelSize(f *fields.Field) (float32, float32) {
	w, h := f.Size()
	return 1 / float32(w), 1 / float32(h)
}

func (s *Solver) registerPasses() {
	cfg := config.Cfg().Solver
	tx, ty := texelSize(s.velocity)

	s.jacobiIDs = make([]string, cfg.PressureIterations)
	for i := range s.jacobiIDs {
		s.jacobiIDs[i] = "jacobi"
	}

	s.graph.RegisterAll(
		&passgraph.Pass{
			ID:      "splat",
			Label:   "Splat Injection",
			Enabled: true,
			Outputs: []string{FieldVelocity, FieldDye, FieldTemperature},
			Execute: func(r passgraph.Renderer, dt float32) {
				s.injectQueued()
			},
		},
		&passgraph.Pass{
			ID:      "advect_velocity",
			Label:   "Advect Velocity",
			Enabled: true,
			After:   []string{"splat"},
			Inputs:  []string{FieldVelocity},
			Outputs: []string{FieldVelocity},
			Compute: &ShaderPass{
				Shader: s.shaders["advect"],
				Output: s.velocity,
				Bind: func() {
					s.bindTexture("advect", "velocityTex", s.velocity)
				},
			},
			Prepare: func(dt, timeSec float32) {
				s.setFloat("advect", "dt", dt)
				s.setFloat("advect", "dissipation", float32(config.Cfg().Solver.VelocityDissipation))
				s.setFloat("advect", "offset", 0.5)
			},
		},
		&passgraph.Pass{
			ID:      "buoyancy",
			Label:   "Buoyancy",
			Enabled: true,
			After:   []string{"advect_velocity"},
			Inputs:  []string{FieldVelocity, FieldTemperature},
			Outputs: []string{FieldVelocity},
			Compute: &ShaderPass{
				Shader: s.shaders["buoyancy"],
				Output: s.velocity,
				Bind: func() {
					s.bindTexture("buoyancy", "temperatureTex", s.temperature)
				},
			},
			Prepare: func(dt, timeSec float32) {
				cfg := config.Cfg().Solver
				s.setFloat("buoyancy", "dt", dt)
				s.setFloat("buoyancy", "buoyancy", float32(cfg.Buoyancy))
				s.setFloat("buoyancy", "ambient", float32(cfg.AmbientTemperature))
			},
		},
		&passgraph.Pass{
			ID:      "vorticity",
			Label:   "Vorticity Confinement",
			Enabled: true,
			After:   []string{"buoyancy"},
			Inputs:  []string{FieldVelocity},
			Outputs: []string{FieldVelocity},
			Compute: &ShaderPass{
				Shader: s.shaders["vorticity"],
				Output: s.velocity,
			},
			Prepare: func(dt, timeSec float32) {
				s.setFloat("vorticity", "dt", dt)
				s.setFloat("vorticity", "curlStrength", float32(config.Cfg().Solver.Curl))
				s.setVec2("vorticity", "texelSize", tx, ty)
			},
		},
		&passgraph.Pass{
			ID:      "divergence",
			Label:   "Divergence",
			Enabled: true,
			After:   []string{"vorticity"},
			Inputs:  []string{FieldVelocity},
			Outputs: []string{FieldDivergence},
			Compute: &ShaderPass{
				Shader: s.shaders["divergence"],
				Source: s.velocity,
				Output: s.divergence,
			},
			Prepare: func(dt, timeSec float32) {
				s.setVec2("divergence", "texelSize", tx, ty)
			},
		},
		&passgraph.Pass{
			ID:      "jacobi",
			Label:   "Jacobi Iteration",
			Enabled: true,
			Group:   groupPressure,
			Inputs:  []string{FieldPressure, FieldDivergence},
			Outputs: []string{FieldPressure},
			Compute: &ShaderPass{
				Shader: s.shaders["jacobi"],
				Output: s.pressure,
				Bind: func() {
					s.bindTexture("jacobi", "divergenceTex", s.divergence)
				},
			},
		},
		&passgraph.Pass{
			ID:      "pressure",
			Label:   "Pressure Solve",
			Enabled: true,
			After:   []string{"divergence"},
			Inputs:  []string{FieldDivergence},
			Outputs: []string{FieldPressure},
			Execute: func(r passgraph.Renderer, dt float32) {
				s.pressure.Clear(rl.NewColor(127, 127, 127, 255))
				s.setVec2("jacobi", "texelSize", tx, ty)
				s.graph.RunSubset(s.jacobiIDs, r, dt, 0, passgraph.RunOptions{})
			},
		},
		&passgraph.Pass{
			ID:      "gradient",
			Label:   "Gradient Subtract",
			Enabled: true,
			After:   []string{"pressure"},
			Inputs:  []string{FieldVelocity, FieldPressure},
			Outputs: []string{FieldVelocity},
			Compute: &ShaderPass{
				Shader: s.shaders["gradient"],
				Output: s.velocity,
				Bind: func() {
					s.bindTexture("gradient", "pressureTex", s.pressure)
				},
			},
			Prepare: func(dt, timeSec float32) {
				s.setVec2("gradient", "texelSize", tx, ty)
			},
		},
		&passgraph.Pass{
			ID:      "advect_dye",
			Label:   "Advect Dye",
			Enabled: true,
			After:   []string{"gradient"},
			Inputs:  []string{FieldVelocity, FieldDye},
			Outputs: []string{FieldDye},
			Compute: &ShaderPass{
				Shader: s.shaders["advect"],
				Output: s.dye,
				Bind: func() {
					s.bindTexture("advect", "velocityTex", s.velocity)
				},
			},
			Prepare: func(dt, timeSec float32) {
				s.setFloat("advect", "dt", dt)
				s.setFloat("advect", "dissipation", float32(config.Cfg().Solver.DyeDissipation))
				s.setFloat("advect", "offset", 0)
			},
		},
		&passgraph.Pass{
			ID:      "advect_temperature",
			Label:   "Advect Temperature",
			Enabled: true,
			After:   []string{"gradient"},
			Inputs:  []string{FieldVelocity, FieldTemperature},
			Outputs: []string{FieldTemperature},
			Compute: &ShaderPass{
				Shader: s.shaders["advect"],
				Output: s.temperature,
				Bind: func() {
					s.bindTexture("advect", "velocityTex", s.velocity)
				},
			},
			Prepare: func(dt, timeSec float32) {
				s.setFloat("advect", "dt", dt)
				s.setFloat("advect", "dissipation", float32(config.Cfg().Solver.TemperatureDecay))
				s.setFloat("advect", "offset", 0)
			},
		},
	)
}

// InjectSplats queues this frame's splats for the injection pass.
func (s *Solver) InjectSplats(splats []emitter.Splat) {
	s.queue = append(s.queue[:0], splats...)
}

// Step runs one simulation frame through the pass graph.
func (s *Solver) Step(dt, timeSec float32) {
	opts := passgraph.RunOptions{
		Groups:        mainGroups,
		FrameBudgetMs: config.Cfg().Sim.FrameBudgetMs,
	}
	s.graph.Run(s.renderer, dt, timeSec, opts)
}

// DyeTexture returns the texture the compositor draws.
func (s *Solver) DyeTexture() rl.Texture2D {
	return s.dye.Read().Texture
}

// Velocity returns the velocity field, for CPU readback by the tracer.
func (s *Solver) Velocity() *fields.Field {
	return s.velocity
}

// Graph returns the pass graph, for UI toggles and the perf overlay.
func (s *Solver) Graph() *passgraph.Graph {
	return s.graph
}

// injectQueued draws every queued splat into its target fields.
func (s *Solver) injectQueued() {
	if len(s.queue) == 0 {
		return
	}
	w, h := s.velocity.Size()
	aspect := float32(w) / float32(h)

	for i := range s.queue {
		sp := &s.queue[i]

		dy := sp.Vel.Y
		if sp.FlipDY {
			dy = -dy
		}
		radius := sp.Radius * sp.RadiusScale
		falloff := int32(sp.Falloff)
		blend := int32(sp.BlendMode)

		// Velocity impulse: signed delta around the encoded bias.
		s.applySplat(s.velocity, sp, aspect,
			sp.Vel.X*sp.VelocityScale, dy*sp.VelocityScale, 0,
			radius, 0.5, falloff, blend)

		// Dye deposit.
		boost := sp.ColorBoost * sp.DyeScale * sp.Opacity
		s.applySplat(s.dye, sp, aspect,
			sp.Color.R*boost, sp.Color.G*boost, sp.Color.B*boost,
			radius, 0, falloff, blend)

		if sp.Temperature != 0 {
			s.applySplat(s.temperature, sp, aspect,
				sp.Temperature, 0, 0,
				radius, 0, falloff, blend)
		}
	}
	s.queue = s.queue[:0]
}

func (s *Solver) applySplat(target *fields.Field, sp *emitter.Splat, aspect float32, vx, vy, vz, radius, offset float32, falloff, blend int32) {
	s.setVec2("splat", "point", sp.Pos.X, sp.Pos.Y)
	s.setVec3("splat", "value", vx, vy, vz)
	s.setFloat("splat", "radius", radius)
	s.setFloat("splat", "softness", sp.Softness)
	s.setFloat("splat", "offset", offset)
	s.setFloat("splat", "aspect", aspect)
	s.setInt("splat", "falloffMode", falloff)
	s.setInt("splat", "blendMode", blend)

	pass := ShaderPass{Shader: s.shaders["splat"], Output: target}
	pass.Run()
}

// Reset clears every field back to rest.
func (s *Solver) Reset() {
	zero := rl.NewColor(127, 127, 127, 255)
	s.velocity.Clear(zero)
	s.pressure.Clear(zero)
	s.divergence.Clear(zero)
	s.temperature.Clear(rl.Black)
	s.dye.Clear(rl.Black)
}

// Unload releases the shader programs. Field textures belong to the registry.
func (s *Solver) Unload() {
	for _, sh := range s.shaders {
		rl.UnloadShader(sh)
	}
}

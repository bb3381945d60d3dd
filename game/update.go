package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/fields"
	"github.com/artinkavousi/fluidcanvas/telemetry"
)

// Update advances one interactive frame: input, emission, injection, solve,
// tracers. Draw closes the frame's perf sample.
func (a *App) Update() {
	a.perf.StartFrame()

	cfg := config.Cfg()
	dt := rl.GetFrameTime()
	if dt > cfg.Derived.MaxDT32 {
		dt = cfg.Derived.MaxDT32
	}

	a.handleInput()

	if !a.paused {
		a.step(dt)
	}
}

// UpdateHeadless advances one frame at a fixed timestep with no raylib
// input and no GPU passes.
func (a *App) UpdateHeadless() {
	a.perf.StartFrame()
	a.step(1.0 / 60.0)
	a.endFrame()
}

// step runs the simulation phases under the perf collector.
func (a *App) step(dt float32) {
	a.timeSec += dt
	a.frame++

	var levels []float32
	if a.analyzer != nil {
		a.analyzer.Update(float64(a.timeSec), float64(dt))
		levels = a.analyzer.Current()
	}

	a.perf.StartPhase(telemetry.PhaseEmit)
	splats := a.manager.GenerateSplats(a.timeSec, dt, levels)
	a.lastSplats = len(splats)

	a.perf.StartPhase(telemetry.PhaseInject)
	if a.fluid != nil {
		a.fluid.InjectSplats(splats)
	}
	a.tracers.SpawnFromSplats(splats)

	a.perf.StartPhase(telemetry.PhasePasses)
	if a.fluid != nil {
		a.fluid.Step(dt, a.timeSec)
		a.perf.RecordPasses(a.graph.Timings())
	}

	a.perf.StartPhase(telemetry.PhaseTracer)
	a.tracers.Update(dt, a.velocityField())
}

// endFrame closes the perf sample and periodically logs and exports a
// stats window.
func (a *App) endFrame() {
	a.perf.EndFrame()

	window := int64(config.Cfg().Telemetry.WindowSize)
	if window <= 0 || a.frame == 0 || a.frame%window != 0 || a.frame == a.lastExport {
		return
	}
	a.lastExport = a.frame

	stats := a.perf.Stats()
	stats.LogStats()
	if err := a.output.WritePerf(stats, a.frame); err != nil {
		slog.Error("writing perf csv", "error", err)
	}
}

// velocityField returns the solver's velocity field, or nil when headless.
func (a *App) velocityField() *fields.Field {
	if a.fluid == nil {
		return nil
	}
	return a.fluid.Velocity()
}

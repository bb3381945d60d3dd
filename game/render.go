package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/telemetry"
	"github.com/artinkavousi/fluidcanvas/ui"
)

// Draw renders the dye, the tracers, emitter gizmos and the UI.
func (a *App) Draw() {
	if a.fluid == nil {
		return
	}

	cfg := config.Cfg()
	screenW := cfg.Derived.ScreenW32
	screenH := cfg.Derived.ScreenH32

	a.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	// Render textures are y-flipped; the negative source height corrects it.
	dye := a.fluid.DyeTexture()
	rl.DrawTexturePro(
		dye,
		rl.Rectangle{Width: float32(dye.Width), Height: -float32(dye.Height)},
		rl.Rectangle{Width: screenW, Height: screenH},
		rl.Vector2{}, 0, rl.White,
	)

	a.tracers.Draw(screenW, screenH)
	a.drawGizmos(screenW, screenH)

	a.perf.StartPhase(telemetry.PhaseUI)
	a.drawUI()

	rl.EndDrawing()

	a.endFrame()
}

// drawGizmos marks emitter positions, highlighting the selection.
func (a *App) drawGizmos(screenW, screenH float32) {
	primary, _ := a.manager.Selection()
	for _, e := range a.manager.AllEmitters() {
		if !e.Visible {
			continue
		}
		center := rl.NewVector2(e.Position.X*screenW, e.Position.Y*screenH)
		color := rl.Gray
		if e.ID == primary {
			color = rl.Yellow
		}
		rl.DrawCircleLinesV(center, 8, color)
		if !e.Active {
			rl.DrawLineV(
				rl.NewVector2(center.X-6, center.Y-6),
				rl.NewVector2(center.X+6, center.Y+6),
				color,
			)
		}
	}
}

// drawUI renders the HUD, controls panel and perf overlay.
func (a *App) drawUI() {
	cfg := config.Cfg()

	a.hud.Draw(ui.HUDData{
		Title:        "fluidcanvas",
		EmitterCount: a.manager.Count(),
		SplatCount:   a.lastSplats,
		TracerCount:  a.tracers.Count(),
		FPS:          rl.GetFPS(),
		Paused:       a.paused,
	})
	a.hud.DrawControls(int32(cfg.Screen.Height),
		"LMB paint | RMB select/drag | Tab panel | F3 perf | Space pause | R reset | Ctrl+S save scene")

	a.controls.Draw(a.manager, a.graph)

	var levels []float32
	if a.analyzer != nil {
		levels = a.analyzer.Current()
	}
	a.overlay.Draw(ui.PerfOverlayData{
		Stats:   a.perf.Stats(),
		PassMs:  a.graph.Timings(),
		TotalMs: a.graph.TotalMs(),
		Levels:  levels,
	})
}

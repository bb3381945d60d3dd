package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/geom"
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	if rl.IsKeyPressed(rl.KeyTab) && a.controls != nil {
		a.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) && a.overlay != nil {
		a.overlay.Toggle()
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if a.fluid != nil {
			a.fluid.Reset()
		}
		a.tracers.Clear()
	}

	if rl.IsKeyPressed(rl.KeyS) && rl.IsKeyDown(rl.KeyLeftControl) {
		if err := emitter.SaveScene(a.manager, "session", "scene.yaml"); err != nil {
			slog.Error("saving scene", "error", err)
		} else {
			slog.Info("scene saved", "path", "scene.yaml")
		}
	}

	if rl.IsKeyPressed(rl.KeyDelete) {
		if primary, _ := a.manager.Selection(); primary != "" {
			a.manager.RemoveEmitter(primary)
		}
	}

	a.handleMouse()
}

// handleMouse paints brush strokes with the left button and selects or drags
// emitters with the right button.
func (a *App) handleMouse() {
	mouse := rl.GetMousePosition()
	if a.overControls(mouse) {
		return
	}

	cfg := config.Cfg()
	p := geom.Vec2{
		X: mouse.X / cfg.Derived.ScreenW32,
		Y: mouse.Y / cfg.Derived.ScreenH32,
	}

	// Left drag records a brush stroke into the live painting emitter.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if e, ok := a.paintBrush(); ok {
			if brush, ok := e.Shape.(*emitter.BrushShape); ok {
				brush.BeginStroke(e.Color, a.timeSec)
				brush.AppendStrokePoint(p, 1)
			}
		}
	} else if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		if e, ok := a.manager.GetEmitter(a.brushID); ok {
			if brush, ok := e.Shape.(*emitter.BrushShape); ok {
				brush.AppendStrokePoint(p, 1)
			}
		}
	}

	// Right button selects the nearest emitter, then drags it.
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		if id, e := a.emitterAt(p); id != "" {
			a.manager.Select(id)
			a.dragID = id
			a.dragOffsetX = e.Position.X - p.X
			a.dragOffsetY = e.Position.Y - p.Y
		}
	} else if rl.IsMouseButtonDown(rl.MouseButtonRight) && a.dragID != "" {
		a.manager.SetEmitterPosition(a.dragID, geom.Vec2{
			X: p.X + a.dragOffsetX,
			Y: p.Y + a.dragOffsetY,
		})
	} else if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		a.dragID = ""
	}
}

// overControls reports whether the mouse is over the controls panel, so
// canvas input does not fight panel widgets.
func (a *App) overControls(mouse rl.Vector2) bool {
	if a.controls == nil || !a.controls.IsVisible() {
		return false
	}
	return rl.CheckCollisionPointRec(mouse, a.controls.Bounds())
}

// emitterAt returns the unlocked emitter closest to p within pick range.
func (a *App) emitterAt(p geom.Vec2) (string, *emitter.Emitter) {
	const pickRadius = 0.05

	var bestID string
	var best *emitter.Emitter
	bestDist := float32(pickRadius)

	for _, e := range a.manager.AllEmitters() {
		if e.Locked {
			continue
		}
		d := e.Position.Sub(p).Length()
		if d < bestDist {
			bestDist = d
			bestID = e.ID
			best = e
		}
	}
	return bestID, best
}

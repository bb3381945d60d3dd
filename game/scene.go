package game

import (
	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/geom"
)

// defaultScene populates the manager with a starter layout: a warm fountain
// rising from the bottom and a cool ring pulsing outward from the center.
func (a *App) defaultScene() {
	fountain := &emitter.Emitter{
		Name:     "fountain",
		Active:   true,
		Visible:  true,
		Position: geom.Vec2{X: 0.5, Y: 0.92},
		Force:    0.8,
		Radius:   0.03,
		Color:    emitter.Color{R: 1.0, G: 0.45, B: 0.1},
		EmissionRate:   45,
		DirectionMode:  emitter.DirFixed,
		FixedDirection: geom.Vec2{X: 0, Y: -1},
		Spread:         18,
		Turbulence:     0.25,
		Temperature:    0.6,
		Shape: emitter.LineShape{
			Start:    geom.Vec2{X: -0.08, Y: 0},
			End:      geom.Vec2{X: 0.08, Y: 0},
			Segments: 5,
		},
	}

	ring := &emitter.Emitter{
		Name:     "ring",
		Active:   true,
		Visible:  true,
		Position: geom.Vec2{X: 0.5, Y: 0.4},
		Force:    0.35,
		Radius:   0.02,
		Color:    emitter.Color{R: 0.15, G: 0.5, B: 1.0},
		EmissionRate:  20,
		DirectionMode: emitter.DirOutward,
		Spread:        8,
		Shape: emitter.CircleShape{
			OuterRadius: 0.12,
			Points:      12,
		},
	}

	a.manager.AddEmitter(fountain)
	id := a.manager.AddEmitter(ring)
	a.manager.Select(id)
}

// paintBrush returns the live painting emitter, creating it on first use.
func (a *App) paintBrush() (*emitter.Emitter, bool) {
	if a.brushID != "" {
		if e, ok := a.manager.GetEmitter(a.brushID); ok {
			return e, true
		}
		a.brushID = ""
	}

	e := &emitter.Emitter{
		Name:    "brush",
		Active:  true,
		Visible: true,
		Force:        0.6,
		Radius:       0.025,
		Color:        emitter.Color{R: 0.9, G: 0.85, B: 0.3},
		EmissionRate: 60,
		DirectionMode: emitter.DirTangent,
		Shape: &emitter.BrushShape{
			BrushSize:     1,
			BrushHardness: 0.4,
			PlaybackMode:  emitter.PlaybackLoop,
			PlaybackSpeed: 1,
		},
	}
	a.brushID = a.manager.AddEmitter(e)
	return e, true
}

package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/artinkavousi/fluidcanvas/telemetry"
)

// HUDData holds the always-on status line data.
type HUDData struct {
	Title        string
	EmitterCount int
	SplatCount   int
	TracerCount  int
	FPS          int32
	Paused       bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Emitters: %d | Splats: %d | Tracers: %d | FPS: %d",
			data.EmitterCount, data.SplatCount, data.TracerCount, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfOverlayData holds everything the performance overlay shows.
type PerfOverlayData struct {
	Stats   telemetry.PerfStats
	PassMs  map[string]float64 // last-run per-pass times from the graph
	TotalMs float64
	Levels  []float32 // audio band levels, optional
}

// PerfOverlay renders frame timing, phase breakdown and per-pass times.
type PerfOverlay struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewPerfOverlay creates the overlay at the given anchor.
func NewPerfOverlay(x, y, width int32) *PerfOverlay {
	return &PerfOverlay{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the overlay.
func (p *PerfOverlay) SetVisible(visible bool) {
	p.visible = visible
}

// Toggle switches overlay visibility.
func (p *PerfOverlay) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the overlay is shown.
func (p *PerfOverlay) IsVisible() bool {
	return p.visible
}

// Draw renders the overlay.
func (p *PerfOverlay) Draw(data PerfOverlayData) {
	if !p.visible {
		return
	}

	r := p.renderer
	padding := r.Theme.Padding
	x := p.x + padding
	y := p.y + padding

	passes := sortedPassNames(data.PassMs)

	height := r.Theme.LineHeight*int32(9+len(passes)+len(data.Levels)) + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	s := data.Stats
	y = r.DrawLabelValue(x, y, "frame", fmt.Sprintf("%s (%.0f fps)",
		s.AvgFrame.Round(10*time.Microsecond), s.FPS))
	y = r.DrawLabelValue(x, y, "p50/p95/p99", fmt.Sprintf("%.1f / %.1f / %.1f ms",
		s.P50Ms, s.P95Ms, s.P99Ms))
	y = r.DrawLabelValue(x, y, "passes total", fmt.Sprintf("%.2f ms", data.TotalMs))

	y = r.DrawSectionHeader(x, y+4, "Phases")
	for _, phase := range []string{
		telemetry.PhaseEmit, telemetry.PhaseInject, telemetry.PhasePasses,
		telemetry.PhaseTracer, telemetry.PhaseDraw, telemetry.PhaseUI,
	} {
		pct, ok := s.PhasePct[phase]
		if !ok {
			continue
		}
		y = r.DrawBar(x, y, phase, float32(pct)/100, p.width-padding*2, 0.5)
	}

	y = r.DrawSectionHeader(x, y+4, "Passes")
	for _, name := range passes {
		ms := data.PassMs[name]
		color := r.Theme.ValueColor
		if data.TotalMs > 0 && ms/data.TotalMs > 0.25 {
			color = r.Theme.BarFillHot
		}
		rl.DrawText(fmt.Sprintf("%-18s %6.2f ms", name, ms), x, y, r.Theme.FontSize, color)
		y += r.Theme.LineHeight
	}

	if len(data.Levels) > 0 {
		y = r.DrawSectionHeader(x, y+4, "Audio")
		for i, level := range data.Levels {
			y = r.DrawBar(x, y, fmt.Sprintf("band %d", i), level, p.width-padding*2, 0.9)
		}
	}
}

// sortedPassNames orders passes slowest first so the expensive ones surface.
func sortedPassNames(passMs map[string]float64) []string {
	names := make([]string, 0, len(passMs))
	for name := range passMs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if passMs[names[i]] != passMs[names[j]] {
			return passMs[names[i]] > passMs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

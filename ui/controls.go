package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/passgraph"
)

// ControlsPanel renders the right-side panel: parameters of the selected
// emitter and per-pass enable toggles. Edits go back through the manager so
// change listeners fire.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Bounds returns the panel rectangle from the last Draw, for input hit tests.
func (c *ControlsPanel) Bounds() rl.Rectangle {
	if !c.visible {
		return rl.Rectangle{}
	}
	return rl.Rectangle{
		X:      float32(c.x),
		Y:      float32(c.y),
		Width:  float32(c.width),
		Height: 600,
	}
}

// Draw renders the panel and applies any edits the user made this frame.
func (c *ControlsPanel) Draw(m *emitter.Manager, g *passgraph.Graph) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, 600)

	y := c.y + padding
	x := c.x + padding

	rl.DrawText("Controls", x, y, 16, rl.White)
	y += lineHeight + 4

	y = c.drawEmitterSection(x, y, m)
	y += 6
	c.drawPassSection(x, y, g)
}

// drawEmitterSection renders sliders for the primary selected emitter.
func (c *ControlsPanel) drawEmitterSection(x, y int32, m *emitter.Manager) int32 {
	r := c.renderer

	primary, _ := m.Selection()
	e, ok := m.GetEmitter(primary)
	if !ok {
		y = r.DrawSectionHeader(x, y, "Emitter")
		r.DrawLabel(x, y, "none selected")
		return y + r.Theme.LineHeight
	}

	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Emitter: %s", e.Name))
	y = r.DrawLabelValue(x, y, "Shape", e.Shape.Type().String())
	y = r.DrawColorSwatch(x, y, "Color", toRLColor(e.Color))

	force := c.slider(x, &y, "Force", e.Force, 0, 2)
	radius := c.slider(x, &y, "Radius", e.Radius, 0.005, 0.3)
	rate := c.slider(x, &y, "Rate", e.EmissionRate, 0, 120)
	spread := c.slider(x, &y, "Spread", e.Spread, 0, 180)
	opacity := c.slider(x, &y, "Opacity", e.Opacity, 0, 1)
	turb := c.slider(x, &y, "Turbulence", e.Turbulence, 0, 1)
	temp := c.slider(x, &y, "Heat", e.Temperature, -1, 1)

	active := gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14},
		"Active", e.Active,
	)
	y += r.Theme.LineHeight + 2

	modeRect := rl.Rectangle{
		X: float32(x), Y: float32(y),
		Width: float32(c.width) - float32(r.Theme.Padding)*2, Height: 20,
	}
	cycleMode := gui.Button(modeRect, fmt.Sprintf("Direction: %s", e.DirectionMode))
	y += 26

	changed := force != e.Force || radius != e.Radius || rate != e.EmissionRate ||
		spread != e.Spread || opacity != e.Opacity || turb != e.Turbulence ||
		temp != e.Temperature || active != e.Active || cycleMode
	if changed {
		m.UpdateEmitter(e.ID, func(e *emitter.Emitter) {
			e.Force = force
			e.Radius = radius
			e.EmissionRate = rate
			e.Spread = spread
			e.Opacity = opacity
			e.Turbulence = turb
			e.Temperature = temp
			e.Active = active
			if cycleMode {
				e.DirectionMode = (e.DirectionMode + 1) % 6
			}
		})
	}

	return y
}

// drawPassSection renders a checkbox per solver pass. The pressure loop's
// inner passes are hidden; they only run through the pressure pass itself.
func (c *ControlsPanel) drawPassSection(x, y int32, g *passgraph.Graph) int32 {
	r := c.renderer

	y = r.DrawSectionHeader(x, y, "Passes")

	for _, id := range g.PassIDs() {
		p, ok := g.Get(id)
		if !ok || p.Group == "pressure" {
			continue
		}

		label := p.Label
		if label == "" {
			label = id
		}
		enabled := gui.CheckBox(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: 12, Height: 12},
			label, p.Enabled,
		)
		if enabled != p.Enabled {
			g.SetEnabled(id, enabled)
		}
		y += r.Theme.LineHeight
	}

	return y
}

// slider draws one labeled slider row and returns the (possibly edited) value.
func (c *ControlsPanel) slider(x int32, y *int32, label string, value, min, max float32) float32 {
	r := c.renderer

	rl.DrawText(label, x, *y+3, r.Theme.FontSize, r.Theme.LabelColor)

	barX := x + r.Theme.LabelWidth
	barWidth := c.width - r.Theme.LabelWidth - r.Theme.Padding*2 - 44
	out := gui.SliderBar(
		rl.Rectangle{X: float32(barX), Y: float32(*y), Width: float32(barWidth), Height: 16},
		"", "", value, min, max,
	)
	rl.DrawText(fmt.Sprintf("%.2f", out), barX+barWidth+5, *y+3, r.Theme.FontSize, r.Theme.ValueColor)

	*y += r.Theme.LineHeight + 4
	return out
}

func toRLColor(c emitter.Color) rl.Color {
	return rl.NewColor(floatByte(c.R), floatByte(c.G), floatByte(c.B), 255)
}

func floatByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

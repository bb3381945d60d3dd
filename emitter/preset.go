package emitter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// ScenePreset is a declarative emitter scene, loadable from YAML.
type ScenePreset struct {
	Name     string          `yaml:"name"`
	Emitters []EmitterPreset `yaml:"emitters"`
}

// EmitterPreset is the serialized form of one emitter. Exactly one of the
// shape sections should match Type; the others stay nil.
type EmitterPreset struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`

	Active  *bool `yaml:"active,omitempty"`
	Visible *bool `yaml:"visible,omitempty"`
	Locked  bool  `yaml:"locked,omitempty"`

	Position geom.Vec2  `yaml:"position,flow"`
	Rotation float32    `yaml:"rotation,omitempty"`
	Scale    *geom.Vec2 `yaml:"scale,omitempty,flow"`

	Force        float32 `yaml:"force"`
	ForceScale   float32 `yaml:"force_scale,omitempty"`
	Radius       float32 `yaml:"radius"`
	RadiusScale  float32 `yaml:"radius_scale,omitempty"`
	Color        Color   `yaml:"color,flow"`
	Opacity      float32 `yaml:"opacity,omitempty"`
	EmissionRate float32 `yaml:"emission_rate"`

	DirectionMode  DirectionMode `yaml:"direction_mode"`
	FixedDirection geom.Vec2     `yaml:"fixed_direction,omitempty,flow"`
	Spread         float32       `yaml:"spread,omitempty"`
	Turbulence     float32       `yaml:"turbulence,omitempty"`

	AudioReactive bool         `yaml:"audio_reactive,omitempty"`
	Audio         *AudioConfig `yaml:"audio,omitempty"`

	SplatOverrides *Overrides `yaml:"splat_overrides,omitempty"`
	Temperature    float32    `yaml:"temperature,omitempty"`

	Line   *LineShape   `yaml:"line,omitempty"`
	Circle *CircleShape `yaml:"circle,omitempty"`
	Curve  *CurveShape  `yaml:"curve,omitempty"`
	Text   *TextShape   `yaml:"text_shape,omitempty"`
	SVG    *SVGShape    `yaml:"svg,omitempty"`
	Brush  *BrushShape  `yaml:"brush,omitempty"`
}

// ToEmitter builds a live emitter from the preset. This is configuration
// time: malformed presets are surfaced as errors, not degraded silently.
func (p *EmitterPreset) ToEmitter() (*Emitter, error) {
	shape, err := p.shape()
	if err != nil {
		return nil, err
	}

	e := &Emitter{
		Name:           p.Name,
		Active:         true,
		Visible:        true,
		Locked:         p.Locked,
		Position:       p.Position,
		Rotation:       p.Rotation,
		Force:          p.Force,
		ForceScale:     p.ForceScale,
		Radius:         p.Radius,
		RadiusScale:    p.RadiusScale,
		Color:          p.Color,
		Opacity:        p.Opacity,
		EmissionRate:   p.EmissionRate,
		DirectionMode:  p.DirectionMode,
		FixedDirection: p.FixedDirection,
		Spread:         p.Spread,
		Turbulence:     p.Turbulence,
		AudioReactive:  p.AudioReactive,
		Audio:          p.Audio,
		SplatOverrides: p.SplatOverrides,
		Temperature:    p.Temperature,
		Shape:          shape,
	}
	if p.Active != nil {
		e.Active = *p.Active
	}
	if p.Visible != nil {
		e.Visible = *p.Visible
	}
	if p.Scale != nil {
		e.Scale = *p.Scale
	}
	e.applyDefaults()
	return e, nil
}

func (p *EmitterPreset) shape() (Shape, error) {
	switch p.Type {
	case "point", "":
		return PointShape{}, nil
	case "line":
		if p.Line == nil {
			return nil, fmt.Errorf("emitter %q: line preset missing line section", p.Name)
		}
		return *p.Line, nil
	case "circle":
		if p.Circle == nil {
			return nil, fmt.Errorf("emitter %q: circle preset missing circle section", p.Name)
		}
		return *p.Circle, nil
	case "curve":
		if p.Curve == nil {
			return nil, fmt.Errorf("emitter %q: curve preset missing curve section", p.Name)
		}
		return p.Curve.Clone(), nil
	case "text":
		if p.Text == nil {
			return nil, fmt.Errorf("emitter %q: text preset missing text_shape section", p.Name)
		}
		return p.Text.Clone(), nil
	case "svg":
		if p.SVG == nil {
			return nil, fmt.Errorf("emitter %q: svg preset missing svg section", p.Name)
		}
		return *p.SVG, nil
	case "brush":
		if p.Brush == nil {
			return nil, fmt.Errorf("emitter %q: brush preset missing brush section", p.Name)
		}
		return p.Brush.Clone(), nil
	default:
		return nil, fmt.Errorf("emitter %q: unknown type %q", p.Name, p.Type)
	}
}

// FromEmitter serializes a live emitter back into preset form.
func FromEmitter(e *Emitter) EmitterPreset {
	scale := e.Scale
	active := e.Active
	visible := e.Visible
	p := EmitterPreset{
		Type:           e.Shape.Type().String(),
		Name:           e.Name,
		Active:         &active,
		Visible:        &visible,
		Locked:         e.Locked,
		Position:       e.Position,
		Rotation:       e.Rotation,
		Scale:          &scale,
		Force:          e.Force,
		ForceScale:     e.ForceScale,
		Radius:         e.Radius,
		RadiusScale:    e.RadiusScale,
		Color:          e.Color,
		Opacity:        e.Opacity,
		EmissionRate:   e.EmissionRate,
		DirectionMode:  e.DirectionMode,
		FixedDirection: e.FixedDirection,
		Spread:         e.Spread,
		Turbulence:     e.Turbulence,
		AudioReactive:  e.AudioReactive,
		Audio:          e.Audio,
		SplatOverrides: e.SplatOverrides,
		Temperature:    e.Temperature,
	}
	switch s := e.Shape.(type) {
	case LineShape:
		p.Line = &s
	case CircleShape:
		p.Circle = &s
	case CurveShape:
		p.Curve = &s
	case *TextShape:
		c := *s
		p.Text = &c
	case SVGShape:
		p.SVG = &s
	case *BrushShape:
		c := s.Clone().(*BrushShape)
		p.Brush = c
	}
	return p
}

// LoadScene parses a scene preset file.
func LoadScene(path string) (*ScenePreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene preset: %w", err)
	}
	var scene ScenePreset
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parsing scene preset: %w", err)
	}
	return &scene, nil
}

// ApplyScene adds every emitter in the scene to the manager and returns the
// assigned ids.
func ApplyScene(m *Manager, scene *ScenePreset) ([]string, error) {
	ids := make([]string, 0, len(scene.Emitters))
	for i := range scene.Emitters {
		e, err := scene.Emitters[i].ToEmitter()
		if err != nil {
			return ids, err
		}
		ids = append(ids, m.AddEmitter(e))
	}
	return ids, nil
}

// SaveScene writes the manager's current emitters as a scene preset file.
func SaveScene(m *Manager, name, path string) error {
	scene := ScenePreset{Name: name}
	for _, e := range m.AllEmitters() {
		scene.Emitters = append(scene.Emitters, FromEmitter(e))
	}
	data, err := yaml.Marshal(&scene)
	if err != nil {
		return fmt.Errorf("marshaling scene preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing scene preset: %w", err)
	}
	return nil
}

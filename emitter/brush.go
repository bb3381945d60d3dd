package emitter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// PlaybackMode selects how recorded brush strokes replay over time.
type PlaybackMode uint8

const (
	PlaybackOnce PlaybackMode = iota
	PlaybackLoop
	PlaybackPingPong
)

var playbackModeNames = map[PlaybackMode]string{
	PlaybackOnce:     "once",
	PlaybackLoop:     "loop",
	PlaybackPingPong: "pingpong",
}

func (m PlaybackMode) String() string {
	if s, ok := playbackModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("playback(%d)", uint8(m))
}

// MarshalYAML encodes the mode as its name.
func (m PlaybackMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML decodes a mode name.
func (m *PlaybackMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for mode, name := range playbackModeNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown playback mode %q", s)
}

// strokePointInterval is the assumed spacing between recorded stroke points.
// Recordings do not store per-point timestamps, so stroke duration is
// approximated as pointCount * this interval (a ~60Hz recording rate). The
// formula must be preserved for compatibility with existing recordings.
const strokePointInterval = 0.016

// StrokePoint is one recorded brush sample.
type StrokePoint struct {
	Pos      geom.Vec2 `yaml:"pos,flow"`
	Pressure float32   `yaml:"pressure"`
}

// Stroke is one recorded brush stroke: an ordered point list with a color
// and the stroke's start time within the recording.
type Stroke struct {
	Points    []StrokePoint `yaml:"points"`
	Color     Color         `yaml:"color"`
	Timestamp float32       `yaml:"timestamp"`
}

// Duration approximates the stroke's playback length from its point count.
func (s *Stroke) Duration() float32 {
	return float32(len(s.Points)) * strokePointInterval
}

// BrushShape replays recorded strokes as a moving emission point.
type BrushShape struct {
	Strokes       []Stroke     `yaml:"strokes"`
	BrushSize     float32      `yaml:"brush_size"`
	BrushHardness float32      `yaml:"brush_hardness"` // 0 soft .. 1 hard
	PlaybackMode  PlaybackMode `yaml:"playback_mode"`
	PlaybackSpeed float32      `yaml:"playback_speed"`
}

func (s *BrushShape) Type() ShapeType { return ShapeBrush }

// AppendSamples finds the stroke(s) whose playback window contains the
// current playback time, interpolates the recorded point, and derives the
// emission direction from the point-to-next-point movement vector.
func (s *BrushShape) AppendSamples(dst []SamplePoint, timeSec float32) []SamplePoint {
	if len(s.Strokes) == 0 {
		return dst
	}
	total := s.totalDuration()
	if total <= 0 {
		return dst
	}

	speed := s.PlaybackSpeed
	if speed <= 0 {
		speed = 1
	}
	pt, playing := playbackTime(timeSec*speed, total, s.PlaybackMode)
	if !playing {
		return dst
	}

	for i := range s.Strokes {
		stroke := &s.Strokes[i]
		dur := stroke.Duration()
		if dur <= 0 {
			continue
		}
		if pt < stroke.Timestamp || pt >= stroke.Timestamp+dur {
			continue
		}
		dst = append(dst, s.sampleStroke(stroke, pt-stroke.Timestamp))
	}
	return dst
}

func (s *BrushShape) Clone() Shape {
	c := *s
	c.Strokes = make([]Stroke, len(s.Strokes))
	for i, st := range s.Strokes {
		c.Strokes[i] = st
		c.Strokes[i].Points = append([]StrokePoint(nil), st.Points...)
	}
	return &c
}

// totalDuration is the end of the latest stroke window.
func (s *BrushShape) totalDuration() float32 {
	var total float32
	for i := range s.Strokes {
		end := s.Strokes[i].Timestamp + s.Strokes[i].Duration()
		if end > total {
			total = end
		}
	}
	return total
}

// playbackTime maps an absolute time onto the recording timeline. The
// second result is false when playback has finished (once mode only).
func playbackTime(t, total float32, mode PlaybackMode) (float32, bool) {
	switch mode {
	case PlaybackLoop:
		m := t - float32(int(t/total))*total
		if m < 0 {
			m += total
		}
		return m, true
	case PlaybackPingPong:
		period := 2 * total
		m := t - float32(int(t/period))*period
		if m < 0 {
			m += period
		}
		if m > total {
			m = period - m
		}
		return m, true
	default: // once
		if t >= total {
			return 0, false
		}
		return t, true
	}
}

// sampleStroke interpolates the recorded point at local time within the
// stroke and derives the movement direction.
func (s *BrushShape) sampleStroke(stroke *Stroke, local float32) SamplePoint {
	f := local / strokePointInterval
	i := int(f)
	if i >= len(stroke.Points)-1 {
		i = len(stroke.Points) - 2
	}
	if i < 0 {
		i = 0
	}

	var sp SamplePoint
	if len(stroke.Points) == 1 {
		sp.Pos = stroke.Points[0].Pos
		sp.RadiusScale = s.radiusScale(stroke.Points[0].Pressure)
	} else {
		frac := f - float32(i)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		a, b := stroke.Points[i], stroke.Points[i+1]
		sp.Pos = geom.Lerp(a.Pos, b.Pos, frac)
		sp.Dir = b.Pos.Sub(a.Pos)
		sp.RadiusScale = s.radiusScale(geom.LerpScalar(a.Pressure, b.Pressure, frac))
	}

	sp.Color = stroke.Color
	sp.HasColor = true
	sp.Softness = 1 - s.BrushHardness
	sp.HasSoftness = true
	return sp
}

func (s *BrushShape) radiusScale(pressure float32) float32 {
	size := s.BrushSize
	if size <= 0 {
		size = 1
	}
	if pressure <= 0 {
		pressure = 1
	}
	return size * pressure
}

// AppendStrokePoint records a point into the last stroke. Used by the
// interactive brush capture path.
func (s *BrushShape) AppendStrokePoint(p geom.Vec2, pressure float32) {
	if len(s.Strokes) == 0 {
		return
	}
	last := &s.Strokes[len(s.Strokes)-1]
	last.Points = append(last.Points, StrokePoint{Pos: p, Pressure: pressure})
}

// BeginStroke starts a new stroke at the given recording timestamp.
func (s *BrushShape) BeginStroke(color Color, timestamp float32) {
	s.Strokes = append(s.Strokes, Stroke{Color: color, Timestamp: timestamp})
}

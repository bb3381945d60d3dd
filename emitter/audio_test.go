package emitter

import "testing"

func reactiveEmitter(cfg *AudioConfig) *Emitter {
	e := newTestEmitter(PointShape{})
	e.AudioReactive = true
	e.Audio = cfg
	return e
}

// TestAudioMultipliersNeutral verifies every opt-out path yields neutral
// multipliers.
func TestAudioMultipliersNeutral(t *testing.T) {
	enabled := &AudioConfig{Enabled: true, Sensitivity: 1, Force: AudioBandConfig{Enabled: true, Min: 0, Max: 2}}

	tests := []struct {
		name   string
		e      *Emitter
		levels []float32
	}{
		{"not reactive", newTestEmitter(PointShape{}), []float32{1}},
		{"nil config", func() *Emitter { e := newTestEmitter(PointShape{}); e.AudioReactive = true; return e }(), []float32{1}},
		{"config disabled", reactiveEmitter(&AudioConfig{Enabled: false}), []float32{1}},
		{"no levels", reactiveEmitter(enabled), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := computeAudioMultipliers(tc.e, tc.levels)
			if m != neutralAudio {
				t.Errorf("multipliers = %+v, want neutral", m)
			}
		})
	}
}

// TestAudioMultipliersLerp verifies each enabled target lerps its range by
// the scaled band level and disabled targets stay at 1.
func TestAudioMultipliersLerp(t *testing.T) {
	e := reactiveEmitter(&AudioConfig{
		Enabled:     true,
		Band:        1,
		Sensitivity: 2,
		Force:       AudioBandConfig{Enabled: true, Min: 1, Max: 3},
		Emission:    AudioBandConfig{Enabled: true, Min: 0, Max: 10},
	})
	// Band 1 level 0.25, sensitivity 2 -> scaled level 0.5.
	m := computeAudioMultipliers(e, []float32{0.9, 0.25, 0.1})

	if !approx(m.force, 2, 1e-5) {
		t.Errorf("force = %v, want 2", m.force)
	}
	if !approx(m.emission, 5, 1e-5) {
		t.Errorf("emission = %v, want 5", m.emission)
	}
	if m.radius != 1 {
		t.Errorf("radius = %v, want untouched 1", m.radius)
	}
}

// TestAudioBandClamped verifies an out-of-range band index clamps to the
// last available band.
func TestAudioBandClamped(t *testing.T) {
	e := reactiveEmitter(&AudioConfig{
		Enabled:     true,
		Band:        99,
		Sensitivity: 1,
		Radius:      AudioBandConfig{Enabled: true, Min: 0, Max: 1},
	})
	m := computeAudioMultipliers(e, []float32{0, 0, 0.75})
	if !approx(m.radius, 0.75, 1e-5) {
		t.Errorf("radius = %v, want 0.75 from last band", m.radius)
	}
}

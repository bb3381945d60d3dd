package emitter

import "github.com/artinkavousi/fluidcanvas/geom"

// audioMultipliers are the per-tick modulation factors derived from the
// analyzer's band levels. All factors default to 1.
type audioMultipliers struct {
	force    float32
	radius   float32
	emission float32
}

var neutralAudio = audioMultipliers{force: 1, radius: 1, emission: 1}

// computeAudioMultipliers maps the configured frequency band's level onto the
// enabled targets. The band index is clamped to the available bands; each
// enabled target lerps between its configured range by the scaled level.
func computeAudioMultipliers(e *Emitter, levels []float32) audioMultipliers {
	if !e.AudioReactive || e.Audio == nil || !e.Audio.Enabled || len(levels) == 0 {
		return neutralAudio
	}
	cfg := e.Audio

	band := cfg.Band
	if band < 0 {
		band = 0
	}
	if band > len(levels)-1 {
		band = len(levels) - 1
	}
	level := levels[band] * cfg.Sensitivity

	m := neutralAudio
	if cfg.Force.Enabled {
		m.force = geom.LerpScalar(cfg.Force.Min, cfg.Force.Max, level)
	}
	if cfg.Radius.Enabled {
		m.radius = geom.LerpScalar(cfg.Radius.Min, cfg.Radius.Max, level)
	}
	if cfg.Emission.Enabled {
		m.emission = geom.LerpScalar(cfg.Emission.Min, cfg.Emission.Max, level)
	}
	return m
}

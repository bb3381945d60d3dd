package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the frame loop.
const (
	PhaseEmit   = "emit"
	PhaseInject = "inject"
	PhasePasses = "passes"
	PhaseTracer = "tracer"
	PhaseDraw   = "draw"
	PhaseUI     = "ui"
)

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
	PassMs        map[string]float64 // per-pass GPU dispatch times
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	currentPasses map[string]float64
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to aggregate over (e.g., 240 for 4 seconds at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 240
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.currentPasses = nil
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// RecordPasses attaches the pass graph's per-pass timings to the current frame.
func (p *PerfCollector) RecordPasses(passMs map[string]float64) {
	p.currentPasses = passMs
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
		PassMs:        p.currentPasses,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrame time.Duration
	MinFrame time.Duration
	MaxFrame time.Duration

	// Frame-time percentiles in ms over the window.
	P50Ms float64
	P95Ms float64
	P99Ms float64

	// Phase breakdown (average durations and share of frame time)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Per-pass average dispatch time in ms
	PassAvgMs map[string]float64

	FPS float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:  make(map[string]time.Duration),
			PhasePct:  make(map[string]float64),
			PassAvgMs: make(map[string]float64),
		}
	}

	var totalFrame time.Duration
	var minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)
	passSum := make(map[string]float64)
	passCount := make(map[string]int)
	frameMs := make([]float64, 0, p.sampleCount)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalFrame += s.FrameDuration
		frameMs = append(frameMs, float64(s.FrameDuration)/float64(time.Millisecond))

		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
		for pass, ms := range s.PassMs {
			passSum[pass] += ms
			passCount[pass]++
		}
	}

	avgFrame := totalFrame / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgFrame > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgFrame) * 100
		}
	}

	passAvg := make(map[string]float64)
	for pass, sum := range passSum {
		passAvg[pass] = sum / float64(passCount[pass])
	}

	sort.Float64s(frameMs)
	var fps float64
	if avgFrame > 0 {
		fps = float64(time.Second) / float64(avgFrame)
	}

	return PerfStats{
		AvgFrame:  avgFrame,
		MinFrame:  minFrame,
		MaxFrame:  maxFrame,
		P50Ms:     stat.Quantile(0.50, stat.Empirical, frameMs, nil),
		P95Ms:     stat.Quantile(0.95, stat.Empirical, frameMs, nil),
		P99Ms:     stat.Quantile(0.99, stat.Empirical, frameMs, nil),
		PhaseAvg:  phaseAvg,
		PhasePct:  phasePct,
		PassAvgMs: passAvg,
		FPS:       fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"min_frame_us", s.MinFrame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"p95_ms", s.P95Ms,
		"fps", int(s.FPS),
	}

	phases := []string{
		PhaseEmit, PhaseInject, PhasePasses, PhaseTracer, PhaseDraw, PhaseUI,
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("p50_ms", s.P50Ms),
		slog.Float64("p95_ms", s.P95Ms),
		slog.Float64("p99_ms", s.P99Ms),
		slog.Float64("fps", s.FPS),
	}
	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd  int64   `csv:"window_end_frame"`
	AvgFrameUS int64   `csv:"avg_frame_us"`
	MinFrameUS int64   `csv:"min_frame_us"`
	MaxFrameUS int64   `csv:"max_frame_us"`
	P50Ms      float64 `csv:"p50_ms"`
	P95Ms      float64 `csv:"p95_ms"`
	P99Ms      float64 `csv:"p99_ms"`
	FPS        float64 `csv:"fps"`
	EmitPct    float64 `csv:"emit_pct"`
	InjectPct  float64 `csv:"inject_pct"`
	PassesPct  float64 `csv:"passes_pct"`
	TracerPct  float64 `csv:"tracer_pct"`
	DrawPct    float64 `csv:"draw_pct"`
	UIPct      float64 `csv:"ui_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:  windowEnd,
		AvgFrameUS: s.AvgFrame.Microseconds(),
		MinFrameUS: s.MinFrame.Microseconds(),
		MaxFrameUS: s.MaxFrame.Microseconds(),
		P50Ms:      s.P50Ms,
		P95Ms:      s.P95Ms,
		P99Ms:      s.P99Ms,
		FPS:        s.FPS,
		EmitPct:    s.PhasePct[PhaseEmit],
		InjectPct:  s.PhasePct[PhaseInject],
		PassesPct:  s.PhasePct[PhasePasses],
		TracerPct:  s.PhasePct[PhaseTracer],
		DrawPct:    s.PhasePct[PhaseDraw],
		UIPct:      s.PhasePct[PhaseUI],
	}
}

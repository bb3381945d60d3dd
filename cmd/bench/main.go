// Benchmark tool: runs emitter generation and pass graph scheduling without
// a GPU and reports timing statistics.
//
// Usage: go run ./cmd/bench -frames 5000 -emitters 20
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/geom"
	"github.com/artinkavousi/fluidcanvas/passgraph"
	"github.com/artinkavousi/fluidcanvas/telemetry"
	"github.com/artinkavousi/fluidcanvas/tracer"
)

// nopRenderer satisfies the graph without dispatching any GPU work.
type nopRenderer struct{}

func (nopRenderer) Dispatch(p *passgraph.Pass, dt float32) {}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", 5000, "Frames to simulate")
	emitters := flag.Int("emitters", 20, "Emitter count")
	scenePath := flag.String("scene", "", "Scene preset instead of generated emitters")
	csvPath := flag.String("csv", "", "Perf CSV output path (empty = stdout summary only)")
	seed := flag.Int64("seed", 42, "RNG seed")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	manager := emitter.NewManager(*seed)
	if *scenePath != "" {
		scene, err := emitter.LoadScene(*scenePath)
		if err != nil {
			slog.Error("loading scene", "error", err)
			os.Exit(1)
		}
		if _, err := emitter.ApplyScene(manager, scene); err != nil {
			slog.Error("applying scene", "error", err)
			os.Exit(1)
		}
	} else {
		seedEmitters(manager, *emitters)
	}

	graph := benchGraph()
	tracers := tracer.NewSystem(*seed)
	perf := telemetry.NewPerfCollector(config.Cfg().Telemetry.WindowSize)

	output, err := telemetry.NewOutputManager(*csvPath)
	if err != nil {
		slog.Error("opening csv", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	const dt = float32(1.0 / 60.0)
	var timeSec float32
	var totalSplats int

	for frame := 1; frame <= *frames; frame++ {
		timeSec += dt
		perf.StartFrame()

		perf.StartPhase(telemetry.PhaseEmit)
		splats := manager.GenerateSplats(timeSec, dt, nil)
		totalSplats += len(splats)

		perf.StartPhase(telemetry.PhaseInject)
		tracers.SpawnFromSplats(splats)

		perf.StartPhase(telemetry.PhasePasses)
		graph.Run(nopRenderer{}, dt, timeSec, passgraph.RunOptions{})
		perf.RecordPasses(graph.Timings())

		perf.StartPhase(telemetry.PhaseTracer)
		tracers.Update(dt, nil)

		perf.EndFrame()

		if window := config.Cfg().Telemetry.WindowSize; window > 0 && frame%window == 0 {
			stats := perf.Stats()
			if err := output.WritePerf(stats, int64(frame)); err != nil {
				slog.Error("writing perf csv", "error", err)
			}
		}
	}

	stats := perf.Stats()
	stats.LogStats()

	fmt.Printf("frames: %d\n", *frames)
	fmt.Printf("emitters: %d\n", manager.Count())
	fmt.Printf("splats: %d (%.1f/frame)\n", totalSplats, float64(totalSplats)/float64(*frames))
	fmt.Printf("tracers: %d live\n", tracers.Count())
	fmt.Printf("avg frame: %s (p95 %.2f ms)\n", stats.AvgFrame, stats.P95Ms)
	if path := output.Path(); path != "" {
		fmt.Printf("perf csv: %s\n", path)
	}
}

// seedEmitters adds a spread of active emitters covering every shape the
// generator has fast paths for.
func seedEmitters(m *emitter.Manager, n int) {
	for i := 0; i < n; i++ {
		t := float32(i) / float32(n)
		e := &emitter.Emitter{
			Name:          fmt.Sprintf("bench-%d", i),
			Active:        true,
			Visible:       true,
			Position:      geom.Vec2{X: 0.1 + 0.8*t, Y: 0.5},
			Force:         0.5,
			Radius:        0.02,
			Color:         emitter.Color{R: t, G: 0.5, B: 1 - t},
			EmissionRate:  30,
			DirectionMode: emitter.DirOutward,
			Spread:        15,
			Turbulence:    0.2,
		}
		switch i % 3 {
		case 0:
			e.Shape = emitter.CircleShape{OuterRadius: 0.05, Points: 8}
		case 1:
			e.Shape = emitter.LineShape{
				Start:    geom.Vec2{X: -0.05, Y: 0},
				End:      geom.Vec2{X: 0.05, Y: 0},
				Segments: 4,
			}
		default:
			e.Shape = emitter.PointShape{}
		}
		m.AddEmitter(e)
	}
}

// benchGraph registers a chain shaped like the solver's, with no work
// attached, so scheduling overhead is what gets measured.
func benchGraph() *passgraph.Graph {
	g := passgraph.NewGraph()
	chain := []string{
		"splat", "advect_velocity", "buoyancy", "vorticity",
		"divergence", "pressure", "gradient", "advect_dye",
	}
	prev := ""
	for _, id := range chain {
		p := &passgraph.Pass{ID: id, Enabled: true}
		if prev != "" {
			p.After = []string{prev}
		}
		g.Register(p)
		prev = id
	}
	return g
}

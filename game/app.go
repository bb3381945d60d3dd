// Package game wires the subsystems into the interactive application: the
// emitter manager feeds the solver, the solver feeds the tracers and the
// screen, and the UI edits everything live.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/artinkavousi/fluidcanvas/audioin"
	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/emitter"
	"github.com/artinkavousi/fluidcanvas/fields"
	"github.com/artinkavousi/fluidcanvas/passgraph"
	"github.com/artinkavousi/fluidcanvas/solver"
	"github.com/artinkavousi/fluidcanvas/telemetry"
	"github.com/artinkavousi/fluidcanvas/tracer"
	"github.com/artinkavousi/fluidcanvas/ui"
)

// Options configures application startup.
type Options struct {
	Seed      int64
	ScenePath string // emitter scene preset, empty = built-in scene
	AudioPath string // wav file for audio reactivity, empty = disabled
	OutputDir string // CSV perf export directory, empty = disabled
	Headless  bool
}

// App holds the complete application state.
type App struct {
	manager  *emitter.Manager
	registry *fields.Registry
	graph    *passgraph.Graph
	fluid    *solver.Solver
	tracers  *tracer.System
	analyzer *audioin.Analyzer

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	controls *ui.ControlsPanel
	overlay  *ui.PerfOverlay
	hud      *ui.HUD

	timeSec    float32
	frame      int64
	lastExport int64
	paused     bool
	lastSplats int

	// Live painting state. brushID is set while the left button drags a
	// stroke into a brush emitter.
	brushID     string
	dragID      string
	dragOffsetX float32
	dragOffsetY float32
}

// New builds the application. GPU resources are only touched when not
// headless; headless apps schedule the same graph against a no-op renderer.
func New(opts Options) (*App, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		manager: emitter.NewManager(seed),
		graph:   passgraph.NewGraph(),
		tracers: tracer.NewSystem(seed + 1),
		perf:    telemetry.NewPerfCollector(cfg.Telemetry.WindowSize),
		paused:  cfg.Sim.Paused,
	}
	a.manager.SetFlipDY(cfg.Sim.FlipDY)

	if !opts.Headless {
		res := int32(cfg.Sim.DyeResolution)
		a.registry = fields.NewRegistry(res, res)

		var err error
		a.fluid, err = solver.New(a.registry, a.graph)
		if err != nil {
			return nil, fmt.Errorf("initializing solver: %w", err)
		}

		panelWidth := int32(260)
		a.controls = ui.NewControlsPanel(int32(cfg.Screen.Width)-panelWidth-10, 10, panelWidth)
		a.controls.SetVisible(cfg.UI.ShowPanel)
		a.overlay = ui.NewPerfOverlay(10, 100, 300)
		a.overlay.SetVisible(cfg.UI.ShowOverlay)
		a.hud = ui.NewHUD()
	}

	scenePath := opts.ScenePath
	if scenePath == "" {
		scenePath = cfg.Emitters.Scene
	}
	if err := a.loadScene(scenePath); err != nil {
		return nil, err
	}

	audioPath := opts.AudioPath
	if audioPath == "" && cfg.Audio.Enabled {
		audioPath = cfg.Audio.File
	}
	if audioPath != "" {
		analyzer, err := audioin.Load(audioPath)
		if err != nil {
			// Audio is an enhancement, not a requirement.
			slog.Warn("audio analysis disabled", "path", audioPath, "error", err)
		} else {
			a.analyzer = analyzer
			slog.Info("audio loaded",
				"path", audioPath,
				"duration_sec", analyzer.Duration(),
				"bands", analyzer.Bands(),
			)
		}
	}

	if opts.OutputDir != "" {
		out, err := telemetry.NewOutputManager(opts.OutputDir + "/perf.csv")
		if err != nil {
			return nil, fmt.Errorf("initializing perf output: %w", err)
		}
		a.output = out
	} else if cfg.Telemetry.CSVPath != "" {
		out, err := telemetry.NewOutputManager(cfg.Telemetry.CSVPath)
		if err != nil {
			return nil, fmt.Errorf("initializing perf output: %w", err)
		}
		a.output = out
	}

	slog.Info("app ready",
		"emitters", a.manager.Count(),
		"passes", len(a.graph.PassIDs()),
		"headless", opts.Headless,
	)
	return a, nil
}

// loadScene populates the manager from a preset file, or the built-in scene
// when path is empty.
func (a *App) loadScene(path string) error {
	if path == "" {
		a.defaultScene()
		return nil
	}
	scene, err := emitter.LoadScene(path)
	if err != nil {
		return err
	}
	ids, err := emitter.ApplyScene(a.manager, scene)
	if err != nil {
		return fmt.Errorf("applying scene: %w", err)
	}
	slog.Info("scene loaded", "path", path, "name", scene.Name, "emitters", len(ids))
	return nil
}

// Frame returns the frame counter.
func (a *App) Frame() int64 {
	return a.frame
}

// Manager exposes the emitter manager, mainly for tests and tooling.
func (a *App) Manager() *emitter.Manager {
	return a.manager
}

// Graph exposes the pass graph.
func (a *App) Graph() *passgraph.Graph {
	return a.graph
}

// Unload releases GPU resources and closes outputs.
func (a *App) Unload() {
	if a.fluid != nil {
		a.fluid.Unload()
	}
	if a.registry != nil {
		a.registry.Unload()
	}
	if a.output != nil {
		if err := a.output.Close(); err != nil {
			slog.Error("closing perf output", "error", err)
		}
	}
}

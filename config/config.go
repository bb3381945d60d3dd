// Package config provides configuration loading and access for the canvas.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Solver    SolverConfig    `yaml:"solver"`
	Emitters  EmittersConfig  `yaml:"emitters"`
	Audio     AudioConfig     `yaml:"audio"`
	Tracer    TracerConfig    `yaml:"tracer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	UI        UIConfig        `yaml:"ui"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds the per-frame tick parameters.
type SimConfig struct {
	SimResolution int     `yaml:"sim_resolution"` // velocity/pressure texture size
	DyeResolution int     `yaml:"dye_resolution"` // dye texture size, 0 = sim resolution
	MaxDT         float64 `yaml:"max_dt"`         // dt clamp in seconds
	FrameBudgetMs float64 `yaml:"frame_budget_ms"`
	Paused        bool    `yaml:"paused"`
	FlipDY        bool    `yaml:"flip_dy"` // invert splat y-velocity for GL-style targets
}

// SolverConfig holds the fluid solver parameters.
type SolverConfig struct {
	PressureIterations  int     `yaml:"pressure_iterations"`
	VelocityDissipation float64 `yaml:"velocity_dissipation"` // retain factor per second
	DyeDissipation      float64 `yaml:"dye_dissipation"`
	Curl                float64 `yaml:"curl"` // vorticity confinement strength
	Buoyancy            float64 `yaml:"buoyancy"`
	AmbientTemperature  float64 `yaml:"ambient_temperature"`
	TemperatureDecay    float64 `yaml:"temperature_decay"`
}

// EmittersConfig holds emitter manager settings.
type EmittersConfig struct {
	Seed  int64  `yaml:"seed"`  // 0 = seed from the clock
	Scene string `yaml:"scene"` // optional scene preset path loaded at startup
}

// AudioConfig holds offline audio analysis settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	File    string  `yaml:"file"` // WAV path analyzed at startup
	FFTSize int     `yaml:"fft_size"`
	Bands   int     `yaml:"bands"`
	Attack  float64 `yaml:"attack"` // smoothing per second, rising
	Decay   float64 `yaml:"decay"`  // smoothing per second, falling
	Gain    float64 `yaml:"gain"`
}

// TracerConfig holds dye tracer particle settings.
type TracerConfig struct {
	Enabled          bool    `yaml:"enabled"`
	MaxParticles     int     `yaml:"max_particles"`
	Lifetime         float64 `yaml:"lifetime"` // seconds
	SpawnPerSplat    int     `yaml:"spawn_per_splat"`
	ReadbackInterval int     `yaml:"readback_interval"` // frames between velocity readbacks
}

// TelemetryConfig holds performance collection parameters.
type TelemetryConfig struct {
	WindowSize int    `yaml:"window_size"` // samples per rolling window
	CSVPath    string `yaml:"csv_path"`    // empty disables export
}

// UIConfig holds control panel settings.
type UIConfig struct {
	ShowPanel   bool `yaml:"show_panel"`
	ShowOverlay bool `yaml:"show_overlay"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	MaxDT32   float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.MaxDT32 = float32(c.Sim.MaxDT)

	if c.Sim.DyeResolution == 0 {
		c.Sim.DyeResolution = c.Sim.SimResolution
	}
	if c.Solver.PressureIterations <= 0 {
		c.Solver.PressureIterations = 20
	}
	if c.Audio.Bands <= 0 {
		c.Audio.Bands = 8
	}
	if c.Audio.FFTSize <= 0 {
		c.Audio.FFTSize = 1024
	}
}

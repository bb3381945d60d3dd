package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults verifies the embedded defaults parse and derived values
// are computed.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Errorf("screen = %dx%d, want positive", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Derived.ScreenW32 != float32(cfg.Screen.Width) {
		t.Errorf("derived width = %v, want %d", cfg.Derived.ScreenW32, cfg.Screen.Width)
	}
	if cfg.Sim.SimResolution <= 0 {
		t.Errorf("sim resolution = %d, want positive", cfg.Sim.SimResolution)
	}
	if cfg.Solver.PressureIterations <= 0 {
		t.Errorf("pressure iterations = %d, want positive", cfg.Solver.PressureIterations)
	}
}

// TestLoadOverride verifies a user file overrides only the fields it names.
func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := "solver:\n  curl: 30\nsim:\n  sim_resolution: 128\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.Curl != 30 {
		t.Errorf("curl = %v, want 30", cfg.Solver.Curl)
	}
	if cfg.Sim.SimResolution != 128 {
		t.Errorf("sim resolution = %d, want 128", cfg.Sim.SimResolution)
	}
	// Untouched fields keep their defaults.
	if cfg.Screen.TargetFPS == 0 {
		t.Error("target fps lost its default")
	}
}

// TestDyeResolutionFallsBack verifies a zero dye resolution inherits the sim
// resolution.
func TestDyeResolutionFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dye.yaml")
	if err := os.WriteFile(path, []byte("sim:\n  sim_resolution: 64\n  dye_resolution: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sim.DyeResolution != 64 {
		t.Errorf("dye resolution = %d, want 64", cfg.Sim.DyeResolution)
	}
}

// TestLoadMissingFile verifies a bad path surfaces an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load succeeded on missing file, want error")
	}
}

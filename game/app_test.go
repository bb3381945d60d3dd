package game

import (
	"testing"

	"github.com/artinkavousi/fluidcanvas/config"
)

// TestHeadlessFrames runs the headless loop and verifies the built-in scene
// emits and the frame counter advances.
func TestHeadlessFrames(t *testing.T) {
	config.MustInit("")

	a, err := New(Options{Seed: 1, Headless: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Unload()

	if a.Manager().Count() == 0 {
		t.Fatal("default scene added no emitters")
	}

	for i := 0; i < 30; i++ {
		a.UpdateHeadless()
	}

	if a.Frame() != 30 {
		t.Errorf("frame = %d, want 30", a.Frame())
	}
	if a.lastSplats == 0 {
		t.Error("no splats generated after 30 frames")
	}
}

// TestSceneFileMissing verifies a bad scene path fails startup.
func TestSceneFileMissing(t *testing.T) {
	config.MustInit("")

	_, err := New(Options{Seed: 1, Headless: true, ScenePath: "does-not-exist.yaml"})
	if err == nil {
		t.Fatal("expected error for missing scene file")
	}
}

package emitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// TestSceneRoundTrip saves a manager's emitters and loads them back.
func TestSceneRoundTrip(t *testing.T) {
	m := NewManager(1)
	m.AddEmitter(&Emitter{
		Name:          "ring",
		Active:        true,
		Position:      geom.Vec2{X: 0.5, Y: 0.4},
		Force:         0.35,
		Radius:        0.02,
		Color:         Color{R: 0.2, G: 0.5, B: 1},
		EmissionRate:  20,
		DirectionMode: DirOutward,
		Shape:         CircleShape{OuterRadius: 0.12, Points: 12},
	})
	m.AddEmitter(&Emitter{
		Name:         "wash",
		Active:       false,
		Force:        0.1,
		Radius:       0.05,
		EmissionRate: 5,
		Shape: LineShape{
			Start:    geom.Vec2{X: 0, Y: 0.9},
			End:      geom.Vec2{X: 1, Y: 0.9},
			Segments: 8,
		},
	})

	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := SaveScene(m, "roundtrip", path); err != nil {
		t.Fatalf("SaveScene: %v", err)
	}

	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if scene.Name != "roundtrip" {
		t.Errorf("scene name = %q", scene.Name)
	}

	loaded := NewManager(1)
	ids, err := ApplyScene(loaded, scene)
	if err != nil {
		t.Fatalf("ApplyScene: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("applied %d emitters, want 2", len(ids))
	}

	ring, ok := loaded.GetEmitter(ids[0])
	if !ok {
		t.Fatal("ring emitter missing after load")
	}
	if ring.Name != "ring" || !ring.Active {
		t.Errorf("ring = %+v", ring)
	}
	circle, ok := ring.Shape.(CircleShape)
	if !ok {
		t.Fatalf("ring shape is %T, want CircleShape", ring.Shape)
	}
	if circle.OuterRadius != 0.12 || circle.Points != 12 {
		t.Errorf("circle = %+v", circle)
	}

	wash, ok := loaded.GetEmitter(ids[1])
	if !ok {
		t.Fatal("wash emitter missing after load")
	}
	if wash.Active {
		t.Error("wash should stay inactive through the round trip")
	}
}

// TestLoadSceneErrors covers missing files and malformed presets.
func TestLoadSceneErrors(t *testing.T) {
	if _, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("emitters: {not: a list}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScene(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

// TestApplySceneUnknownShape verifies a bad type surfaces as an error.
func TestApplySceneUnknownShape(t *testing.T) {
	scene := &ScenePreset{
		Emitters: []EmitterPreset{{Type: "blob", Name: "x"}},
	}
	m := NewManager(1)
	if _, err := ApplyScene(m, scene); err == nil {
		t.Error("expected error for unknown shape type")
	}
}

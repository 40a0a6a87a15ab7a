package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/physim/internal/physics"
	"github.com/san-kum/physim/internal/scenario"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario.Kind != scenario.KindCollision {
		t.Errorf("expected collision scenario, got %s", cfg.Scenario.Kind)
	}
	if cfg.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if got := cfg.SimConfig().Timestep(); got != DefaultTimeRes/DefaultFPS {
		t.Errorf("timestep = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"zero width", func(c *Config) { c.Arena.Width = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, physics.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := `
name: corner
arena: {width: 300, height: 200}
boundaries: {top: true, bottom: true, left: false, right: false}
dt: 0.005
steps: 50
bodies:
  - {x: 50, y: 50, vx: 10, vy: 0, mass: 2, radius: 5}
  - {x: 80, y: 50, vx: -10, vy: 0, mass: 1, radius: 5}
walls:
  - {x: 150, y: 100, width: 10, height: 80}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Arena.Width != 300 || cfg.Steps != 50 || cfg.Dt != 0.005 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.FPS != DefaultFPS {
		t.Errorf("fps default lost: %v", cfg.FPS)
	}
	if cfg.Boundaries.Left || !cfg.Boundaries.Top {
		t.Errorf("boundaries %+v", cfg.Boundaries)
	}

	sim, err := cfg.NewSimulator(cfg.Seed)
	if err != nil {
		t.Fatal(err)
	}
	if sim.Len() != 2 || len(sim.Walls()) != 1 || len(sim.Borders()) != 2 {
		t.Errorf("got %d bodies, %d walls, %d borders", sim.Len(), len(sim.Walls()), len(sim.Borders()))
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("arena: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	want := GetPreset(scenario.KindGas, "dilute")
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Scenario != want.Scenario || got.Arena != want.Arena || got.Steps != want.Steps {
		t.Errorf("round trip changed config: %+v vs %+v", got, want)
	}
}

func TestBuild_InvalidBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{{X: 10, Y: 10, Mass: 1, Radius: 1}, {X: 20, Y: 20, Mass: 0, Radius: 1}}

	_, err := cfg.Build(1)
	var cerr *physics.ConfigError
	if !errors.As(err, &cerr) || cerr.Field != "mass" {
		t.Errorf("expected mass ConfigError, got %v", err)
	}
}

func TestBuild_ScenarioPlusWalls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Walls = []WallConfig{{X: 100, Y: 100, Width: 5, Height: 5}}
	sc, err := cfg.Build(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Walls) != 3 {
		t.Errorf("got %d walls, want 2 from the scenario plus 1", len(sc.Walls))
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(scenario.KindGas, "default")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scenario.N != 150 {
		t.Errorf("expected 150 bodies, got %d", cfg.Scenario.N)
	}

	cfg.Steps = 1
	if GetPreset(scenario.KindGas, "default").Steps == 1 {
		t.Error("GetPreset returned the shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset(scenario.KindGas, "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "default"); cfg != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets(scenario.KindWave); len(presets) != 2 || presets[0] != "default" {
		t.Errorf("wave presets %v", presets)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestPresetsBuild(t *testing.T) {
	for kind, group := range Presets {
		for name, cfg := range group {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", kind, name, err)
				continue
			}
			if _, err := cfg.NewSimulator(cfg.Seed); err != nil {
				t.Errorf("%s/%s: %v", kind, name, err)
			}
		}
	}
}

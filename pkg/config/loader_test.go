package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "evac-svc" {
		t.Errorf("expected app name 'evac-svc', got %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected HTTP port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Building.WalkingSpeed != 1.2 {
		t.Errorf("expected walking speed 1.2, got %g", cfg.Building.WalkingSpeed)
	}
	if cfg.Building.StairPenalty != 6.0 {
		t.Errorf("expected stair penalty 6.0, got %g", cfg.Building.StairPenalty)
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: custom-evac
  version: 2.0.0
  environment: staging
http:
  port: 8085
log:
  level: debug
building:
  walking_speed: 1.5
scenarios:
  - name: baseline
  - name: west-wing-closed
    disruptions:
      - from: A
        to: B
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader(WithConfigPaths(configPath))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-evac" {
		t.Errorf("expected app name 'custom-evac', got %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 8085 {
		t.Errorf("expected port 8085, got %d", cfg.HTTP.Port)
	}
	if cfg.Building.WalkingSpeed != 1.5 {
		t.Errorf("expected walking speed 1.5, got %g", cfg.Building.WalkingSpeed)
	}
	if len(cfg.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(cfg.Scenarios))
	}
	if len(cfg.Scenarios[1].Disruptions) != 1 || cfg.Scenarios[1].Disruptions[0].From != "A" {
		t.Errorf("unexpected disruptions: %+v", cfg.Scenarios[1].Disruptions)
	}
}

func TestLoader_LoadFromEnv(t *testing.T) {
	os.Setenv("EVAC_APP_NAME", "env-evac")
	os.Setenv("EVAC_HTTP_PORT", "8090")
	defer func() {
		os.Unsetenv("EVAC_APP_NAME")
		os.Unsetenv("EVAC_HTTP_PORT")
	}()

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-evac" {
		t.Errorf("expected app name 'env-evac', got %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 8090 {
		t.Errorf("expected port 8090, got %d", cfg.HTTP.Port)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: file-evac
http:
  port: 8086
`
	os.WriteFile(configPath, []byte(configContent), 0644)

	os.Setenv("EVAC_APP_NAME", "env-override")
	defer os.Unsetenv("EVAC_APP_NAME")

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-override" {
		t.Errorf("expected env override, got %s", cfg.App.Name)
	}
	if cfg.HTTP.Port != 8086 {
		t.Errorf("expected port from file 8086, got %d", cfg.HTTP.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	cfg.Building.WalkingSpeed = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero walking speed")
	}

	cfg.Building.WalkingSpeed = 1.2
	cfg.Report.Format = "docx"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown report format")
	}

	cfg.Report.Format = "csv"
	cfg.Scenarios = []ScenarioConfig{{Name: "a"}, {Name: "a"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for duplicate scenario names")
	}
}

func TestBuildingConfig_ToGraph(t *testing.T) {
	b := BuildingConfig{
		Name:         "office-2f",
		WalkingSpeed: 1.2,
		StairPenalty: 6.0,
	}

	g, err := b.ToGraph()
	if err != nil {
		t.Fatalf("failed to build default graph: %v", err)
	}
	if g.NodeCount() != 8 {
		t.Errorf("expected 8 nodes in default building, got %d", g.NodeCount())
	}

	b.Nodes = []NodeConfig{
		{ID: "in", Role: "entrance"},
		{ID: "out", Role: "exit"},
	}
	b.Corridors = []CorridorConfig{
		{From: "in", To: "out", Capacity: 10, Length: 5, Kind: "stairs"},
	}
	g, err = b.ToGraph()
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}
	c, ok := g.Corridor("in", "out")
	if !ok {
		t.Fatal("corridor in->out not found")
	}
	// Length/speed plus the stair penalty; compared with a tolerance
	// because the runtime computation rounds per operation
	assert.InDelta(t, 5.0/1.2+6.0, c.TravelTime, 1e-9)

	b.Corridors[0].Kind = "elevator"
	if _, err := b.ToGraph(); err == nil {
		t.Error("expected error for unknown corridor kind")
	}
}

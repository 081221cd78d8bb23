package glimmer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig: %v", err)
	}
	if cfg.Grid.Width != 64 || cfg.Grid.Height != 64 {
		t.Errorf("grid = %dx%d, want 64x64", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Sand.AccelY != -80 || !cfg.Sand.Bounce || cfg.Sand.Loss != 2 {
		t.Errorf("sand defaults = %+v", cfg.Sand)
	}
	if cfg.Life.FadeSteps != 8 || cfg.Life.Pattern != "random" {
		t.Errorf("life defaults = %+v", cfg.Life)
	}
	if cfg.Balls.Count != 12 || cfg.Balls.Mode != "bounce" {
		t.Errorf("balls defaults = %+v", cfg.Balls)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glimmer.yaml")
	override := []byte("grid:\n  width: 32\nsand:\n  shake: 10\n")
	if err := os.WriteFile(path, override, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Grid.Width != 32 {
		t.Errorf("overridden width = %d, want 32", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 64 {
		t.Errorf("untouched height = %d, want the default 64", cfg.Grid.Height)
	}
	if cfg.Sand.Shake != 10 {
		t.Errorf("overridden shake = %d, want 10", cfg.Sand.Shake)
	}
	if cfg.Sand.AccelY != -80 {
		t.Errorf("untouched accel_y = %d, want the default -80", cfg.Sand.AccelY)
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\"): %v", err)
	}
	def, _ := DefaultConfig()
	if *cfg != *def {
		t.Errorf("LoadConfig(\"\") = %+v, want the defaults", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig should fail on a missing file")
	}
}

func TestStartPatternNames(t *testing.T) {
	tests := []struct {
		name string
		want Pattern
	}{
		{"", PatternRandom},
		{"random", PatternRandom},
		{"noise", PatternNoise},
		{"oscillators", PatternOscillators},
		{"gliders", PatternGliders},
		{"spaceships", PatternSpaceships},
	}
	for _, tt := range tests {
		got, err := LifeConfig{Pattern: tt.name}.StartPattern()
		if err != nil {
			t.Errorf("StartPattern(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StartPattern(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := (LifeConfig{Pattern: "plasma"}).StartPattern(); err == nil {
		t.Error("unknown pattern name should be an error")
	}
}

func TestBallModeNames(t *testing.T) {
	if m, err := (BallsConfig{Mode: "repel"}).BallMode(); err != nil || m != BallModeRepel {
		t.Errorf("BallMode(repel) = %v, %v", m, err)
	}
	if m, err := (BallsConfig{}).BallMode(); err != nil || m != BallModeBounce {
		t.Errorf("BallMode(empty) = %v, %v", m, err)
	}
	if _, err := (BallsConfig{Mode: "orbit"}).BallMode(); err == nil {
		t.Error("unknown mode name should be an error")
	}
}

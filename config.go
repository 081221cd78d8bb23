package glimmer

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds tuning parameters for the animators. The zero value is
// not useful; start from [DefaultConfig] or [LoadConfig].
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Sand    SandConfig    `yaml:"sand"`
	Life    LifeConfig    `yaml:"life"`
	Crawler CrawlerConfig `yaml:"crawler"`
	Balls   BallsConfig   `yaml:"balls"`
}

// GridConfig sets the pixel grid dimensions for backends that are free to
// choose them (windows, streams; terminals use their own size).
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SandConfig tunes the [Sand] engine.
type SandConfig struct {
	Shake  int     `yaml:"shake"`
	AccelX int     `yaml:"accel_x"`
	AccelY int     `yaml:"accel_y"`
	Grains int     `yaml:"grains"`
	Bounce bool    `yaml:"bounce"`
	Loss   float32 `yaml:"loss"`
}

// LifeConfig tunes the [Life] animator. Pattern is one of "random",
// "noise", "oscillators", "gliders", "spaceships".
type LifeConfig struct {
	FadeSteps int    `yaml:"fade_steps"`
	Pattern   string `yaml:"pattern"`
	RepeatX   int    `yaml:"repeat_x"`
	RepeatY   int    `yaml:"repeat_y"`
}

// StartPattern maps the configured pattern name to a [Pattern].
func (c LifeConfig) StartPattern() (Pattern, error) {
	switch c.Pattern {
	case "", "random":
		return PatternRandom, nil
	case "noise":
		return PatternNoise, nil
	case "oscillators":
		return PatternOscillators, nil
	case "gliders":
		return PatternGliders, nil
	case "spaceships":
		return PatternSpaceships, nil
	}
	return 0, fmt.Errorf("glimmer: unknown life pattern %q", c.Pattern)
}

// CrawlerConfig tunes the [Crawler] animator.
type CrawlerConfig struct {
	ColorLife int `yaml:"color_life"`
}

// BallsConfig tunes the [Balls] animator. Mode is "bounce" or "repel".
type BallsConfig struct {
	Count      int     `yaml:"count"`
	MaxRadius  int     `yaml:"max_radius"`
	Mode       string  `yaml:"mode"`
	ForcePower float64 `yaml:"force_power"`
}

// BallMode maps the configured mode name to a [BallMode].
func (c BallsConfig) BallMode() (BallMode, error) {
	switch c.Mode {
	case "", "bounce":
		return BallModeBounce, nil
	case "repel":
		return BallModeRepel, nil
	}
	return 0, fmt.Errorf("glimmer: unknown ball mode %q", c.Mode)
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/kinematics"
	"github.com/san-kum/orrery/internal/timescale"
)

const (
	DefaultFrameInterval = 1.0 / 60
	DefaultMaxStep       = 0.25
	DefaultSunRadius     = 15.0
	DefaultStars         = 6000
	DefaultStarExtent    = 800.0
	DefaultTheme         = "cyberpunk"
)

//go:embed bodies.yaml
var defaultBodies []byte

type Config struct {
	FrameInterval float64                 `yaml:"frame_interval"`
	FixedStep     bool                    `yaml:"fixed_step"`
	MaxStep       float64                 `yaml:"max_step"`
	TimeScale     string                  `yaml:"time_scale"`
	Seed          int64                   `yaml:"seed"`
	Theme         string                  `yaml:"theme"`
	Assets        string                  `yaml:"assets"`
	Sun           SunConfig               `yaml:"sun"`
	Stars         StarConfig              `yaml:"stars"`
	Bodies        []kinematics.Descriptor `yaml:"bodies"`
}

type SunConfig struct {
	Radius  float64 `yaml:"radius"`
	Texture string  `yaml:"texture"`
	Color   string  `yaml:"color"`
}

type StarConfig struct {
	Count  int     `yaml:"count"`
	Extent float64 `yaml:"extent"`
}

// DefaultBodies returns the built-in planet table.
func DefaultBodies() []kinematics.Descriptor {
	var bodies []kinematics.Descriptor
	if err := yaml.Unmarshal(defaultBodies, &bodies); err != nil {
		panic(fmt.Sprintf("config: embedded bodies.yaml: %v", err))
	}
	return bodies
}

func DefaultConfig() *Config {
	return &Config{
		FrameInterval: DefaultFrameInterval,
		MaxStep:       DefaultMaxStep,
		TimeScale:     timescale.Default,
		Theme:         DefaultTheme,
		Assets:        "assets",
		Sun: SunConfig{
			Radius:  DefaultSunRadius,
			Texture: "sun.jpeg",
			Color:   "#fdb813",
		},
		Stars: StarConfig{
			Count:  DefaultStars,
			Extent: DefaultStarExtent,
		},
		Bodies: DefaultBodies(),
	}
}

// Load reads a YAML file over the defaults. A file without a bodies list
// keeps the built-in planets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything the frame loop relies on, including every
// body's periods.
func (c *Config) Validate() error {
	if !(c.FrameInterval > 0) {
		return fmt.Errorf("frame_interval must be positive, got %g", c.FrameInterval)
	}
	if !(c.MaxStep > 0) {
		return fmt.Errorf("max_step must be positive, got %g", c.MaxStep)
	}
	if _, ok := timescale.Lookup(c.TimeScale); !ok {
		return fmt.Errorf("time_scale: %w: %q", timescale.ErrUnknownPreset, c.TimeScale)
	}
	if c.Stars.Count < 0 {
		return fmt.Errorf("stars.count must not be negative, got %d", c.Stars.Count)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("no bodies configured")
	}
	if _, err := kinematics.NewBodies(c.Bodies); err != nil {
		return err
	}
	return nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

const (
	DefaultCount = 5000
	DefaultTicks = 100
	DefaultDt    = 0.01
	DefaultMode  = dynamo.ModeParallel
)

type Config struct {
	Count   int           `yaml:"count"`
	Mode    string        `yaml:"mode"`
	Ticks   int           `yaml:"ticks"`
	Dt      float64       `yaml:"dt"`
	Seed    int64         `yaml:"seed"`
	Workers int           `yaml:"workers"`
	Physics PhysicsConfig `yaml:"physics"`
}

type PhysicsConfig struct {
	G           float64 `yaml:"g"`
	Softening   float64 `yaml:"softening"`
	CentralMass float64 `yaml:"central_mass"`
	MinRadius   float64 `yaml:"min_radius"`
	MaxRadius   float64 `yaml:"max_radius"`
	MinMass     float64 `yaml:"min_mass"`
	MaxMass     float64 `yaml:"max_mass"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Count: DefaultCount,
		Mode:  string(DefaultMode),
		Ticks: DefaultTicks,
		Dt:    DefaultDt,
		Physics: PhysicsConfig{
			G:           p.G,
			Softening:   p.Softening,
			CentralMass: p.CentralMass,
			MinRadius:   p.MinRadius,
			MaxRadius:   p.MaxRadius,
			MinMass:     p.MinMass,
			MaxMass:     p.MaxMass,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("%w, got %d", dynamo.ErrInvalidCount, c.Count)
	}
	if _, err := dynamo.ParseMode(c.Mode); err != nil {
		return err
	}
	if err := c.RunConfig().Validate(); err != nil {
		return err
	}
	if c.Physics.Softening <= 0 {
		return fmt.Errorf("softening must be positive, got %g", c.Physics.Softening)
	}
	if c.Physics.CentralMass <= 0 || c.Physics.MinMass <= 0 {
		return fmt.Errorf("masses must be positive")
	}
	if c.Physics.MinMass > c.Physics.MaxMass {
		return fmt.Errorf("min_mass %g exceeds max_mass %g", c.Physics.MinMass, c.Physics.MaxMass)
	}
	if c.Physics.MinRadius <= 0 || c.Physics.MinRadius > c.Physics.MaxRadius {
		return fmt.Errorf("radius range [%g, %g) is invalid", c.Physics.MinRadius, c.Physics.MaxRadius)
	}
	return nil
}

// ExecMode returns the parsed mode, falling back to DefaultMode.
func (c *Config) ExecMode() dynamo.Mode {
	m, err := dynamo.ParseMode(c.Mode)
	if err != nil {
		return DefaultMode
	}
	return m
}

func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Ticks: c.Ticks,
		Dt:    c.Dt,
	}
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		G:           c.Physics.G,
		Softening:   c.Physics.Softening,
		CentralMass: c.Physics.CentralMass,
		MinRadius:   c.Physics.MinRadius,
		MaxRadius:   c.Physics.MaxRadius,
		MinMass:     c.Physics.MinMass,
		MaxMass:     c.Physics.MaxMass,
	}
}

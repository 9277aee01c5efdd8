package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/glsim/internal/geometry"
	"github.com/san-kum/glsim/internal/physics"
)

const (
	DefaultFrames     = 600
	DefaultFrameDt    = 1.0 / 60.0
	DefaultSpheres    = 100
	DefaultAddBatch   = 10
	DefaultGridSize   = 10
	DefaultGridFill   = 0.5
	DefaultGridRate   = 0.5
	DefaultDepth      = 5
	DefaultMeshSource = "teapot_0.obj"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Demo        string          `yaml:"demo"`
	Seed        int64           `yaml:"seed"`
	Frames      int             `yaml:"frames"`
	FrameDt     float64         `yaml:"frame_dt"`
	SampleEvery int             `yaml:"sample_every"`
	Spheres     SpheresConfig   `yaml:"spheres"`
	Grid        GridConfig      `yaml:"grid"`
	Icosphere   IcosphereConfig `yaml:"icosphere"`
	Mesh        MeshConfig      `yaml:"mesh"`
}

type SpheresConfig struct {
	Count       int     `yaml:"count"`
	AddBatch    int     `yaml:"add_batch"`
	Dt          float64 `yaml:"dt"`
	Gravity     float64 `yaml:"gravity"`
	BaseDrag    float64 `yaml:"base_drag"`
	Restitution float64 `yaml:"restitution"`
	RestSpeed   float64 `yaml:"rest_speed"`
	MinRadius   float64 `yaml:"min_radius"`
	MaxRadius   float64 `yaml:"max_radius"`
	MaxSpeed    float64 `yaml:"max_speed"`
}

type GridConfig struct {
	Size int     `yaml:"size"`
	Fill float64 `yaml:"fill"`
	Rate float64 `yaml:"rate"`
}

type IcosphereConfig struct {
	Depth int `yaml:"depth"`
}

type MeshConfig struct {
	Source string `yaml:"source"`
	Watch  bool   `yaml:"watch"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Demo:    "spheres",
		Seed:    1,
		Frames:  DefaultFrames,
		FrameDt: DefaultFrameDt,
		Spheres: SpheresConfig{
			Count:       DefaultSpheres,
			AddBatch:    DefaultAddBatch,
			Dt:          p.Dt,
			Gravity:     p.Gravity,
			BaseDrag:    p.BaseDrag,
			Restitution: p.Restitution,
			RestSpeed:   p.RestSpeed,
			MinRadius:   p.MinRadius,
			MaxRadius:   p.MaxRadius,
			MaxSpeed:    p.MaxSpeed,
		},
		Grid: GridConfig{
			Size: DefaultGridSize,
			Fill: DefaultGridFill,
			Rate: DefaultGridRate,
		},
		Icosphere: IcosphereConfig{Depth: DefaultDepth},
		Mesh:      MeshConfig{Source: DefaultMeshSource},
	}
}

// Load overlays the YAML file at path onto DefaultConfig.
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

// Params converts the sphere section into engine parameters.
func (s SpheresConfig) Params() physics.Params {
	return physics.Params{
		Dt:          s.Dt,
		Gravity:     s.Gravity,
		BaseDrag:    s.BaseDrag,
		Restitution: s.Restitution,
		RestSpeed:   s.RestSpeed,
		MinRadius:   s.MinRadius,
		MaxRadius:   s.MaxRadius,
		MaxSpeed:    s.MaxSpeed,
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Frames <= 0:
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalid, c.Frames)
	case c.FrameDt <= 0:
		return fmt.Errorf("%w: frame_dt must be positive, got %f", ErrInvalid, c.FrameDt)
	case c.SampleEvery < 0:
		return fmt.Errorf("%w: sample_every must not be negative", ErrInvalid)
	case c.Spheres.Count < 0:
		return fmt.Errorf("%w: spheres.count must not be negative", ErrInvalid)
	case c.Spheres.Dt <= 0:
		return fmt.Errorf("%w: spheres.dt must be positive, got %f", ErrInvalid, c.Spheres.Dt)
	case c.Spheres.BaseDrag <= 0 || c.Spheres.BaseDrag > 1:
		return fmt.Errorf("%w: spheres.base_drag must be in (0,1], got %f", ErrInvalid, c.Spheres.BaseDrag)
	case c.Spheres.MinRadius <= 0 || c.Spheres.MaxRadius < c.Spheres.MinRadius || c.Spheres.MaxRadius >= 1:
		return fmt.Errorf("%w: sphere radii must satisfy 0 < min <= max < 1", ErrInvalid)
	case c.Grid.Size <= 0:
		return fmt.Errorf("%w: grid.size must be positive, got %d", ErrInvalid, c.Grid.Size)
	case c.Grid.Fill < 0 || c.Grid.Fill > 1:
		return fmt.Errorf("%w: grid.fill must be in [0,1], got %f", ErrInvalid, c.Grid.Fill)
	case c.Grid.Rate <= 0:
		return fmt.Errorf("%w: grid.rate must be positive, got %f", ErrInvalid, c.Grid.Rate)
	case c.Icosphere.Depth < 0 || c.Icosphere.Depth > geometry.MaxDepth:
		return fmt.Errorf("%w: icosphere.depth must be in [0,%d], got %d", ErrInvalid, geometry.MaxDepth, c.Icosphere.Depth)
	}
	return nil
}

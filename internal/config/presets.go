package config

import "sort"

func preset(demo string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Demo = demo
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"spheres": {
		"classic": preset("spheres", func(c *Config) {}),
		"crowd": preset("spheres", func(c *Config) {
			c.Spheres.Count = 1000
			c.Frames = 1200
		}),
		"moon": preset("spheres", func(c *Config) {
			c.Spheres.Gravity = -0.8
			c.Frames = 1800
		}),
		"superball": preset("spheres", func(c *Config) {
			c.Spheres.Restitution = 0.95
			c.Spheres.RestSpeed = 0.2
			c.Spheres.BaseDrag = 0.9
		}),
		"marbles": preset("spheres", func(c *Config) {
			c.Spheres.Count = 300
			c.Spheres.MinRadius = 0.02
			c.Spheres.MaxRadius = 0.05
		}),
	},
	"grid": {
		"classic": preset("grid", func(c *Config) {}),
		"sparse": preset("grid", func(c *Config) {
			c.Grid.Size = 16
			c.Grid.Fill = 0.15
		}),
		"crowded": preset("grid", func(c *Config) {
			c.Grid.Size = 12
			c.Grid.Fill = 0.85
		}),
		"fast": preset("grid", func(c *Config) {
			c.Grid.Rate = 2
			c.Frames = 1200
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(demo, name string) *Config {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	cfg, ok := demoPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(demo string) []string {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(demoPresets))
	for name := range demoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

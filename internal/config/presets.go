package config

import "sort"

// Presets are named starting points. Fields not set here come from
// DefaultConfig.
var Presets = map[string]func(*Config){
	"sun": func(c *Config) {
		c.Simulation.Bodies = 5
	},
	"binary": func(c *Config) {
		c.Simulation.Bodies = 2
		c.Simulation.MassLevels = []float64{8, 8}
	},
	"swarm": func(c *Config) {
		c.Simulation.Bodies = 12
		c.Simulation.MassLevels = []float64{10}
		c.Trail.Max = 40
	},
	"equal": func(c *Config) {
		c.Simulation.Bodies = 6
		c.Simulation.MassLevels = []float64{5, 5, 5, 5, 5, 5}
	},
	"heavy": func(c *Config) {
		c.Simulation.Bodies = 4
		c.Simulation.MassLevels = []float64{10, 9, 9, 9}
		c.Physics.Floor = 80
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

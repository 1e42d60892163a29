package config

import "sort"

var Presets = map[string]func() *Config{
	// the reference benchmark: 5000 bodies, 100 ticks
	"galaxy": DefaultConfig,
	"small": func() *Config {
		c := DefaultConfig()
		c.Count = 100
		c.Ticks = 1000
		return c
	},
	"binary": func() *Config {
		c := DefaultConfig()
		c.Count = 2
		c.Ticks = 10000
		c.Mode = "serial"
		return c
	},
	"stress": func() *Config {
		c := DefaultConfig()
		c.Count = 20000
		c.Ticks = 10
		return c
	},
	"tight": func() *Config {
		c := DefaultConfig()
		c.Count = 1000
		c.Physics.MinRadius = 10
		c.Physics.MaxRadius = 50
		c.Dt = 0.001
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

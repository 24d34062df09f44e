package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
)

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"lagrange": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = []BodyConfig{
			{X: 483, Y: 349, VY: -100, Radius: 50, Mass: 20, Color: "#00ffdc"},
			{X: 883, Y: 349, VY: 100, Radius: 50, Mass: 20, Color: "#1eff00"},
		}
		return cfg
	},
	"pair": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = []BodyConfig{
			{X: 670, Y: 348, Radius: 5, Mass: 1, Color: "#00ffdc"},
			{X: 695, Y: 348, Radius: 5, Mass: 1, Color: "#ff001e"},
		}
		return cfg
	},
	"empty": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = nil
		cfg.DrawTrails = true
		return cfg
	},
}

func GetPreset(name string) (*Config, error) {
	build, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%s (available: %v): %w", name, ListPresets(), dynamo.ErrUnknownPreset)
	}
	return build(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

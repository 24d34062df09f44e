package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// ProbeColor marks the body WithProbe adds.
const ProbeColor = "#ffffff"

var params = map[string]func(c *Config, v float64){
	"gravity":  func(c *Config, v float64) { c.Gravity = v },
	"timestep": func(c *Config, v float64) { c.Timestep = int(v) },
	"x":        func(c *Config, v float64) { c.Spawn.X = v },
	"y":        func(c *Config, v float64) { c.Spawn.Y = v },
	"vx":       func(c *Config, v float64) { c.Spawn.VX = v },
	"vy":       func(c *Config, v float64) { c.Spawn.VY = v },
	"radius":   func(c *Config, v float64) { c.Spawn.Radius = v },
	"mass":     func(c *Config, v float64) { c.Spawn.Mass = v },
}

// SetParam sets a tunable value by name: gravity, timestep, or one of the
// spawn fields x, y, vx, vy, radius, mass.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q (want one of %v): %w", name, ParamNames(), dynamo.ErrInvalidConfig)
	}
	set(c, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}

// WithProbe returns a copy of c with a white body added at the spawn
// position, as if Create Planet had been pressed before the first frame.
func (c *Config) WithProbe() *Config {
	out := c.Clone()
	out.Bodies = append(out.Bodies, BodyConfig{
		X:      c.Spawn.X,
		Y:      c.Spawn.Y,
		VX:     c.Spawn.VX,
		VY:     c.Spawn.VY,
		Radius: c.Spawn.Radius,
		Mass:   c.Spawn.Mass,
		Color:  ProbeColor,
	})
	return out
}

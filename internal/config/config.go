package config

import (
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle   = "Gravity Simulation"
	DefaultWidth   = 1366
	DefaultHeight  = 697
	DefaultFPS     = 60
	DefaultGravity = 1000.0
	DefaultRadius  = 25.0
	DefaultMass    = 10.0
	DefaultSpawnXY = 100.0
)

type Config struct {
	Window     WindowConfig `yaml:"window"`
	Gravity    float64      `yaml:"gravity"`
	Timestep   int          `yaml:"timestep"`
	DrawTrails bool         `yaml:"draw_trails"`
	Spawn      SpawnConfig  `yaml:"spawn"`
	Bodies     []BodyConfig `yaml:"bodies"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	MSAA   bool   `yaml:"msaa"`
}

// SpawnConfig holds the initial control panel values for new bodies.
type SpawnConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

type BodyConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	Color  string  `yaml:"color"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  DefaultTitle,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			MSAA:   true,
		},
		Gravity:  DefaultGravity,
		Timestep: 1,
		Spawn: SpawnConfig{
			X:      DefaultSpawnXY,
			Y:      DefaultSpawnXY,
			Radius: DefaultRadius,
			Mass:   DefaultMass,
		},
		Bodies: []BodyConfig{
			{X: 83, Y: 400, VY: -250, Radius: 20, Mass: 1, Color: "#00ffdc"},
			{X: 283, Y: 400, VX: 50, Radius: 50, Mass: 20, Color: "#1eff00"},
			{X: 13, Y: 349, VY: -150, Radius: 10, Mass: 0.1, Color: "#ff001e"},
		},
	}
}

// Load reads a YAML scenario. Fields missing from the file keep their defaults;
// a bodies list in the file replaces the default bodies.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, dynamo.ErrInvalidConfig)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("fps %d: %w", c.Window.FPS, dynamo.ErrInvalidConfig)
	}
	if c.Timestep < 0 || c.Timestep > physics.MaxTimestep {
		return fmt.Errorf("timestep %d outside [0,%d]: %w", c.Timestep, physics.MaxTimestep, dynamo.ErrInvalidConfig)
	}
	for i, b := range c.Bodies {
		if _, err := ParseColor(b.Color); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}

// NewSolver builds a solver holding the configured bodies and parameters.
func (c *Config) NewSolver() (*physics.Solver, error) {
	s := physics.NewSolver(c.Gravity)
	s.SetTimestep(c.Timestep)
	s.SetDrawTrails(c.DrawTrails)
	for i, b := range c.Bodies {
		col, err := ParseColor(b.Color)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		s.AddBody(dynamo.V(b.X, b.Y), b.Radius, b.Mass, col, dynamo.V(b.VX, b.VY))
	}
	return s, nil
}

// SpawnInput returns the control panel state a fresh session starts with.
func (c *Config) SpawnInput() dynamo.Input {
	return dynamo.Input{
		SpawnPosition: dynamo.V(c.Spawn.X, c.Spawn.Y),
		SpawnVelocity: dynamo.V(c.Spawn.VX, c.Spawn.VY),
		SpawnRadius:   c.Spawn.Radius,
		SpawnMass:     c.Spawn.Mass,
		Timestep:      c.Timestep,
		DrawTrails:    c.DrawTrails,
	}
}

// ParseColor accepts "#rrggbb" hex colors. An empty string is white.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return physics.White, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, dynamo.ErrInvalidConfig)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func FormatColor(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

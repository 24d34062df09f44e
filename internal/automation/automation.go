package automation

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// Script is a scripted sequence of control panel actions for headless runs.
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Events      []Event `yaml:"events"`
}

// Event changes the control panel on a given frame (frames start at 1).
// Nil fields leave the current value alone.
type Event struct {
	Frame    int         `yaml:"frame"`
	Timestep *int        `yaml:"timestep,omitempty"`
	Trails   *bool       `yaml:"trails,omitempty"`
	Reverse  bool        `yaml:"reverse,omitempty"`
	Spawn    *SpawnEvent `yaml:"spawn,omitempty"`
	Create   bool        `yaml:"create,omitempty"`
}

// SpawnEvent moves the spawn sliders.
type SpawnEvent struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}

	return &script, nil
}

func (s *Script) Validate() error {
	for i, ev := range s.Events {
		if ev.Frame < 1 {
			return fmt.Errorf("event %d: frame %d must be >= 1: %w", i, ev.Frame, dynamo.ErrInvalidConfig)
		}
	}
	return nil
}

// Player replays a script as an input source. Slider values persist between
// events; Reverse and Create fire only on their event's frame.
type Player struct {
	state  dynamo.Input
	events map[int][]Event
	last   int
}

func NewPlayer(script *Script, initial dynamo.Input) *Player {
	p := &Player{
		state:  initial,
		events: make(map[int][]Event),
	}
	p.state.Reverse, p.state.Create = false, false

	for _, ev := range script.Events {
		p.events[ev.Frame] = append(p.events[ev.Frame], ev)
		if ev.Frame > p.last {
			p.last = ev.Frame
		}
	}
	return p
}

// LastFrame is the frame of the final scripted event.
func (p *Player) LastFrame() int { return p.last }

func (p *Player) Poll(frame int) dynamo.Input {
	p.state.Reverse, p.state.Create = false, false

	for _, ev := range p.events[frame] {
		if ev.Timestep != nil {
			p.state.Timestep = *ev.Timestep
		}
		if ev.Trails != nil {
			p.state.DrawTrails = *ev.Trails
		}
		if ev.Spawn != nil {
			p.state.SpawnPosition = dynamo.V(ev.Spawn.X, ev.Spawn.Y)
			p.state.SpawnVelocity = dynamo.V(ev.Spawn.VX, ev.Spawn.VY)
			p.state.SpawnRadius = ev.Spawn.Radius
			p.state.SpawnMass = ev.Spawn.Mass
		}
		// two reverses on one frame cancel out
		p.state.Reverse = p.state.Reverse != ev.Reverse
		p.state.Create = p.state.Create || ev.Create
	}

	return p.state
}

// Frames returns the scripted frame numbers in order.
func (p *Player) Frames() []int {
	frames := make([]int, 0, len(p.events))
	for f := range p.events {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

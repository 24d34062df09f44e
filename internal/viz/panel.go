package viz

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Panel is the keyboard-driven control panel of the terminal view. It holds
// the slider values and latches button presses until the next Poll.
type Panel struct {
	in dynamo.Input
}

func NewPanel(initial dynamo.Input) *Panel {
	initial.Reverse, initial.Create = false, false
	return &Panel{in: initial}
}

// Poll returns the current snapshot and clears the button edges.
func (p *Panel) Poll(frame int) dynamo.Input {
	in := p.in
	p.in.Reverse, p.in.Create = false, false
	return in
}

func (p *Panel) Input() dynamo.Input { return p.in }

func (p *Panel) AdjustTimestep(delta int) {
	p.in.Timestep = max(0, min(p.in.Timestep+delta, physics.MaxTimestep))
}

func (p *Panel) ToggleTrails() { p.in.DrawTrails = !p.in.DrawTrails }
func (p *Panel) PressReverse() { p.in.Reverse = true }
func (p *Panel) PressCreate()  { p.in.Create = true }

// Nudge moves the spawn position by d.
func (p *Panel) Nudge(d dynamo.Vec2) {
	p.in.SpawnPosition = p.in.SpawnPosition.Add(d)
}

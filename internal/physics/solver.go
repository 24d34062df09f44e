package physics

import (
	"fmt"
	"image/color"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	// DistanceScale divides every separation before the inverse-square law.
	DistanceScale = 25.0
	MaxTimestep   = 10
)

// BodyID addresses a body in the solver's arena. IDs are creation indices
// and stay valid for the solver's lifetime.
type BodyID int

// Solver owns the bodies and integrates them once per frame with a
// semi-implicit Euler step. It is not safe for concurrent use.
type Solver struct {
	G float64

	bodies     []Body
	timestep   int
	direction  int
	drawTrails bool
}

func NewSolver(g float64) *Solver {
	return &Solver{
		G:         g,
		bodies:    make([]Body, 0, 8),
		timestep:  1,
		direction: 1,
	}
}

// AddBody appends a body. Mass and radius are not validated.
func (s *Solver) AddBody(position dynamo.Vec2, radius, mass float64, c color.RGBA, velocity dynamo.Vec2) BodyID {
	s.bodies = append(s.bodies, Body{
		Position: position,
		Velocity: velocity,
		Radius:   radius,
		Mass:     mass,
		Color:    c,
	})
	return BodyID(len(s.bodies) - 1)
}

func (s *Solver) Len() int { return len(s.bodies) }

func (s *Solver) Timestep() int    { return s.timestep }
func (s *Solver) Direction() int   { return s.direction }
func (s *Solver) DrawTrails() bool { return s.drawTrails }

// SetTimestep sets the frame multiplier, clamped to [0, MaxTimestep].
func (s *Solver) SetTimestep(n int) {
	if n < 0 {
		n = 0
	}
	if n > MaxTimestep {
		n = MaxTimestep
	}
	s.timestep = n
}

// Reverse flips the direction of time for subsequent updates.
func (s *Solver) Reverse() { s.direction = -s.direction }

func (s *Solver) SetDrawTrails(on bool) { s.drawTrails = on }

func (s *Solver) Body(id BodyID) (dynamo.BodyState, error) {
	if id < 0 || int(id) >= len(s.bodies) {
		return dynamo.BodyState{}, fmt.Errorf("body %d: %w", id, dynamo.ErrBodyNotFound)
	}
	return s.bodies[id].State(int(id)), nil
}

// Trail returns a copy of the body's position history, oldest first.
func (s *Solver) Trail(id BodyID) ([]dynamo.Vec2, error) {
	if id < 0 || int(id) >= len(s.bodies) {
		return nil, fmt.Errorf("body %d: %w", id, dynamo.ErrBodyNotFound)
	}
	return s.bodies[id].Trail.Points(), nil
}

// Displace moves a body by offset without touching its velocity or trail.
func (s *Solver) Displace(id BodyID, offset dynamo.Vec2) error {
	if id < 0 || int(id) >= len(s.bodies) {
		return fmt.Errorf("body %d: %w", id, dynamo.ErrBodyNotFound)
	}
	s.bodies[id].Position = s.bodies[id].Position.Add(offset)
	return nil
}

// Bodies returns a snapshot of every body in creation order.
func (s *Solver) Bodies() []dynamo.BodyState {
	out := make([]dynamo.BodyState, len(s.bodies))
	for i := range s.bodies {
		out[i] = s.bodies[i].State(i)
	}
	return out
}

// Update runs one frame: gravity, positions, trail record, then draw.
// A nil sink skips drawing.
func (s *Solver) Update(dt float64, sink dynamo.RenderSink) {
	s.Step(dt)
	if sink != nil {
		s.Draw(sink)
	}
}

// Step advances the simulation by one frame without drawing. The gravity
// pass only reads positions, so all forces use the previous frame's layout.
func (s *Solver) Step(dt float64) {
	scaled := dt * float64(s.timestep)
	s.UpdateGravity(scaled)
	s.UpdatePositions(scaled)
	s.RecordTrails()
}

func (s *Solver) UpdateGravity(dt float64) {
	sign := float64(s.direction)
	for i := range s.bodies {
		bi := &s.bodies[i]
		for j := range s.bodies {
			if j == i {
				continue
			}
			bj := &s.bodies[j]

			toOther := bj.Position.Sub(bi.Position)
			dist := toOther.Magnitude() / DistanceScale
			force := toOther.Normalized().Scale(s.G * bi.Mass * bj.Mass / (dist * dist))
			acc := force.Div(bi.Mass)
			bi.Velocity = bi.Velocity.Add(acc.Scale(sign * dt))
		}
	}
}

func (s *Solver) UpdatePositions(dt float64) {
	sign := float64(s.direction)
	for i := range s.bodies {
		b := &s.bodies[i]
		b.Position = b.Position.Add(b.Velocity.Scale(sign * dt))
	}
}

// RecordTrails appends every body's current position to its trail,
// whether or not trails are being drawn.
func (s *Solver) RecordTrails() {
	for i := range s.bodies {
		s.bodies[i].Record(s.bodies[i].Position)
	}
}

// ClearTrails empties every trail. Positions and velocities are untouched.
func (s *Solver) ClearTrails() {
	for i := range s.bodies {
		s.bodies[i].Trail.Reset()
	}
}

func (s *Solver) Draw(sink dynamo.RenderSink) {
	for i := range s.bodies {
		s.bodies[i].Draw(sink, s.drawTrails)
	}
}

// Apply mutates solver parameters from a control panel snapshot and spawns
// a white body when Create is set.
func (s *Solver) Apply(in dynamo.Input) (BodyID, bool) {
	s.SetTimestep(in.Timestep)
	if in.Reverse {
		s.Reverse()
	}
	s.SetDrawTrails(in.DrawTrails)
	if !in.Create {
		return 0, false
	}
	id := s.AddBody(in.SpawnPosition, in.SpawnRadius, in.SpawnMass, White, in.SpawnVelocity)
	return id, true
}

var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

package storage

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Replay rebuilds the solver a run started from: the bodies of its first
// frame with the recorded gravity, timestep and direction. Scripted runs are
// refused because their input events are not stored with the run.
func (m *RunMetadata) Replay(initial dynamo.Frame) (*physics.Solver, error) {
	if m.Script != "" {
		return nil, fmt.Errorf("run %s was driven by script %q, its events cannot be replayed: %w", m.ID, m.Script, dynamo.ErrInvalidConfig)
	}

	s := physics.NewSolver(m.Gravity)
	s.SetTimestep(m.Timestep)
	if initial.Direction < 0 {
		s.Reverse()
	}
	for _, b := range initial.Bodies {
		s.AddBody(b.Position, b.Radius, b.Mass, b.Color, b.Velocity)
	}
	return s, nil
}

package dynamo

import (
	"fmt"
	"image/color"
)

// RenderSink draws filled circles. The GUI and terminal views implement it.
type RenderSink interface {
	DrawCircle(center Vec2, radius float64, c color.RGBA)
}

// Input is the per-frame snapshot of the control panel.
// Reverse and Create are edge-triggered: true only on the frame the
// corresponding button was pressed.
type Input struct {
	SpawnPosition Vec2
	SpawnVelocity Vec2
	SpawnRadius   float64
	SpawnMass     float64
	Timestep      int
	Reverse       bool
	DrawTrails    bool
	Create        bool
}

type InputSource interface {
	Poll(frame int) Input
}

// Clock reports elapsed seconds since the previous frame.
type Clock interface {
	Tick() float64
}

// BodyState is a read-only copy of a body's physical state.
type BodyState struct {
	ID       int
	Position Vec2
	Velocity Vec2
	Radius   float64
	Mass     float64
	Color    color.RGBA
}

// Frame is one recorded simulation frame.
type Frame struct {
	Index     int
	Time      float64
	Dt        float64
	Direction int
	Bodies    []BodyState
}

// Valid reports whether every body position and velocity is finite.
func (f Frame) Valid() bool {
	for _, b := range f.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return false
		}
	}
	return true
}

type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	FramesTaken int
	Errors      []error
}

type SimError struct {
	Time    float64
	Frame   int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

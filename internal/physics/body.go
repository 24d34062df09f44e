package physics

import (
	"image/color"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// TrailRadius is the radius of each drawn trail dot.
const TrailRadius = 2.5

// Body is a point mass with a bounded position history.
type Body struct {
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Radius   float64
	Mass     float64
	Color    color.RGBA
	Trail    Trail
}

// Record appends position to the trail. The trail never affects physics.
func (b *Body) Record(position dynamo.Vec2) {
	b.Trail.Push(position)
}

// Draw emits the trail dots (when enabled, oldest first) and then the body itself.
func (b *Body) Draw(sink dynamo.RenderSink, drawTrails bool) {
	if drawTrails {
		for i := 0; i < b.Trail.Len(); i++ {
			sink.DrawCircle(b.Trail.At(i), TrailRadius, b.Color)
		}
	}
	sink.DrawCircle(b.Position, b.Radius, b.Color)
}

func (b *Body) State(id int) dynamo.BodyState {
	return dynamo.BodyState{
		ID:       id,
		Position: b.Position,
		Velocity: b.Velocity,
		Radius:   b.Radius,
		Mass:     b.Mass,
		Color:    b.Color,
	}
}

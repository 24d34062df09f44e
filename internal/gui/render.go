package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// circleSink paints solver circles straight into the current raylib frame.
type circleSink struct{}

func (circleSink) DrawCircle(center dynamo.Vec2, radius float64, c color.RGBA) {
	rl.DrawCircleV(rl.NewVector2(float32(center.X), float32(center.Y)), float32(radius), c)
}

// frameClock reports the duration of the last rendered frame.
type frameClock struct{}

func (frameClock) Tick() float64 { return float64(rl.GetFrameTime()) }

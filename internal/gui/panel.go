package gui

import (
	"fmt"
	"math"

	rg "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

const (
	panelWidth  = 300
	panelHeight = 360
	rowHeight   = 26
	maxVelocity = 1000
	maxRadius   = 1000
	maxMass     = 100000
)

// ControlPanel is the raygui settings window. Widget values are read while
// drawing and handed to the simulation on the next Poll; button presses are
// latched until then.
type ControlPanel struct {
	in dynamo.Input
}

func NewControlPanel(cfg *config.Config) *ControlPanel {
	return &ControlPanel{in: cfg.SpawnInput()}
}

func (p *ControlPanel) Poll(frame int) dynamo.Input {
	in := p.in
	p.in.Reverse, p.in.Create = false, false
	return in
}

func (p *ControlPanel) SetSpawnPosition(x, y float64) {
	p.in.SpawnPosition = dynamo.V(x, y)
}

// widgets is what the panel read back from raygui in one frame.
type widgets struct {
	x, y, vx, vy   float32
	radius, mass   float32
	timestep       float32
	reverse        bool
	trails, create bool
}

func (p *ControlPanel) apply(w widgets) {
	p.in.SpawnPosition = dynamo.V(float64(w.x), float64(w.y))
	p.in.SpawnVelocity = dynamo.V(float64(w.vx), float64(w.vy))
	p.in.SpawnRadius = float64(w.radius)
	p.in.SpawnMass = float64(w.mass)
	p.in.Timestep = int(math.Round(float64(w.timestep)))
	p.in.DrawTrails = w.trails
	p.in.Reverse = p.in.Reverse || w.reverse
	p.in.Create = p.in.Create || w.create
}

// Draw lays out the settings window in the top right corner of a window
// screenWidth pixels wide.
func (p *ControlPanel) Draw(screenWidth int) {
	x := float32(screenWidth - panelWidth - 10)
	y := float32(10)
	rg.Panel(rl.NewRectangle(x, y, panelWidth, panelHeight), "Settings")

	labelW := float32(70)
	sliderW := float32(panelWidth) - labelW - 70
	row := y + 30
	next := func() rl.Rectangle {
		r := rl.NewRectangle(x+labelW, row, sliderW, rowHeight-6)
		row += rowHeight
		return r
	}
	slider := func(label string, v, lo, hi float32) float32 {
		return rg.Slider(next(), label, fmt.Sprintf("%.0f", v), v, lo, hi)
	}

	span := float32(screenWidth)
	in := p.in
	w := widgets{
		x:      slider("Pos X", float32(in.SpawnPosition.X), 0, span),
		y:      slider("Pos Y", float32(in.SpawnPosition.Y), 0, span),
		vx:     slider("Vel X", float32(in.SpawnVelocity.X), 0, maxVelocity),
		vy:     slider("Vel Y", float32(in.SpawnVelocity.Y), 0, maxVelocity),
		radius: slider("Radius", float32(in.SpawnRadius), 0, maxRadius),
		mass:   slider("Mass", float32(in.SpawnMass), 0, maxMass),
	}
	w.timestep = slider("Timestep", float32(in.Timestep), 0, physics.MaxTimestep)

	w.reverse = rg.Button(rl.NewRectangle(x+10, row, panelWidth-20, rowHeight), "Reverse")
	row += rowHeight + 6
	w.trails = rg.CheckBox(rl.NewRectangle(x+10, row, 20, 20), "Draw Trails", in.DrawTrails)
	row += rowHeight + 6
	w.create = rg.Button(rl.NewRectangle(x+10, row, panelWidth-20, 50), "Create Planet")

	p.apply(w)
}

package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// ControlEffort measures how hard the control panel pushed the clock: the mean
// absolute simulated time advanced per frame relative to the frame dt, i.e.
// the average effective timestep multiplier.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
	last    float64
	started bool
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(f dynamo.Frame) {
	if !c.started {
		c.last, c.started = f.Time, true
		return
	}
	if f.Dt > 0 {
		c.sum += math.Abs(f.Time-c.last) / f.Dt
		c.samples++
	}
	c.last = f.Time
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
	c.started = false
}

// Reversals counts how often the direction of time flipped.
type Reversals struct {
	count   int
	last    int
	started bool
}

func NewReversals() *Reversals { return &Reversals{} }

func (r *Reversals) Name() string { return "reversals" }

func (r *Reversals) Observe(f dynamo.Frame) {
	if r.started && f.Direction != r.last {
		r.count++
	}
	r.last, r.started = f.Direction, true
}

func (r *Reversals) Value() float64 { return float64(r.count) }

func (r *Reversals) Reset() {
	r.count = 0
	r.started = false
}

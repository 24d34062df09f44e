package physics

import "github.com/san-kum/gravsim/internal/dynamo"

// TrailCapacity bounds the position history kept per body.
const TrailCapacity = 200

// Trail is a fixed-capacity ring buffer of recent positions, oldest first.
type Trail struct {
	points [TrailCapacity]dynamo.Vec2
	head   int
	n      int
}

// Push appends p, evicting the oldest point when the trail is full.
func (t *Trail) Push(p dynamo.Vec2) {
	if t.n < TrailCapacity {
		t.points[(t.head+t.n)%TrailCapacity] = p
		t.n++
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % TrailCapacity
}

func (t *Trail) Len() int { return t.n }

// At returns the i-th point, 0 being the oldest. It panics if i is out of range.
func (t *Trail) At(i int) dynamo.Vec2 {
	if i < 0 || i >= t.n {
		panic("physics: trail index out of range")
	}
	return t.points[(t.head+i)%TrailCapacity]
}

// Points returns a copy of the trail, oldest first.
func (t *Trail) Points() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, t.n)
	for i := range out {
		out[i] = t.points[(t.head+i)%TrailCapacity]
	}
	return out
}

func (t *Trail) Reset() {
	t.head, t.n = 0, 0
}

package physics

import "github.com/san-kum/gravsim/internal/dynamo"

// Energy returns kinetic plus potential energy under the scaled force law
// F = G*m1*m2/(r/DistanceScale)^2, whose potential is -G*m1*m2*DistanceScale^2/r.
func (s *Solver) Energy() float64 {
	return Energy(s.Bodies(), s.G)
}

func Energy(bodies []dynamo.BodyState, g float64) float64 {
	ke, pe := 0.0, 0.0
	k := g * DistanceScale * DistanceScale

	for i := range bodies {
		v := bodies[i].Velocity
		ke += 0.5 * bodies[i].Mass * (v.X*v.X + v.Y*v.Y)

		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].Position.Sub(bodies[i].Position).Magnitude()
			pe -= k * bodies[i].Mass * bodies[j].Mass / r
		}
	}

	return ke + pe
}

func (s *Solver) Momentum() dynamo.Vec2 {
	return Momentum(s.Bodies())
}

func Momentum(bodies []dynamo.BodyState) dynamo.Vec2 {
	var p dynamo.Vec2
	for _, b := range bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

func AngularMomentum(bodies []dynamo.BodyState) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.Mass * (b.Position.X*b.Velocity.Y - b.Position.Y*b.Velocity.X)
	}
	return L
}

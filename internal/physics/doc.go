// Package physics implements the gravity core: bodies, their trails and the
// [Solver] that integrates them once per frame.
//
// Each frame the solver runs two strictly ordered passes:
//
//   - [Solver.UpdateGravity]: accumulate pairwise accelerations into velocities
//   - [Solver.UpdatePositions]: move every body by its velocity
//
// followed by a trail record and an optional draw through a
// [dynamo.RenderSink]. Both passes scale dt by the timestep multiplier and the
// direction sign, so reversing direction runs the system backwards.
//
// # Force Law
//
// Separations are divided by [DistanceScale] before the inverse-square law,
// so two unit masses 25 pixels apart feel a force of G. There is no
// softening: coincident bodies produce NaN velocities.
//
//	s := physics.NewSolver(1000)
//	s.AddBody(dynamo.V(0, 0), 10, 1, physics.White, dynamo.Vec2{})
//	s.AddBody(dynamo.V(25, 0), 10, 1, physics.White, dynamo.Vec2{})
//	s.Step(1) // velocities (1000,0) and (-1000,0)
package physics

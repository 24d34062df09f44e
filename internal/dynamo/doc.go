// Package dynamo provides the primitives shared by the gravity core and its
// collaborators.
//
// The package defines the value types and the capability contracts between
// the physics core and the outside world:
//
//   - [Vec2]: 2D vector value type
//   - [RenderSink]: "draw a filled circle" capability consumed by the core
//   - [Input] / [InputSource]: per-frame control panel snapshot
//   - [Clock]: per-frame elapsed time
//   - [Frame] / [BodyState]: recorded simulation output
//
// # Example
//
//	s := physics.NewSolver(1000)
//	s.AddBody(dynamo.V(83, 400), 20, 1, cyan, dynamo.V(0, -250))
//	s.Update(clock.Tick(), sink)
//
// # Numeric Boundaries
//
// [Vec2.Normalized] of the zero vector and [Vec2.Div] by zero are not
// trapped; they produce NaN and Inf components. Use [Frame.Valid] or
// [ErrInvalidState] to detect them after the fact.
package dynamo

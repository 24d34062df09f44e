// Package viz provides the terminal view of the gravity simulation.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps the simulation every tick and renders the stats panel
//   - [Canvas]: Braille-based pixel canvas, colored per cell
//   - [Sink]: draws solver circles onto a canvas through a [Viewport]
//   - [Panel]: keyboard control panel acting as the simulation input
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Reverse time
//	T       - Toggle trails
//	+/-     - Timestep multiplier
//	N       - Spawn a body at the spawn position
//	Arrows  - Move the spawn position
//	C       - Cycle color themes
//	?       - Show help overlay
package viz

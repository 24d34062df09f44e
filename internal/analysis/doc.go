// Package analysis characterizes recorded orbits.
//
//   - [DominantPeriod]: strongest oscillation period of a coordinate, via FFT
//   - [LyapunovExponent]: finite-time divergence of two nearby layouts
//   - [PhasePortrait]: 2D plot of one recorded series against another
//   - [Crossings]: upward threshold crossings, one per orbit for a clean cycle
//
// A body on a closed orbit shows a sharp spectral peak:
//
//	xs, _ := storage.Series(frames, 0, "x")
//	period, err := analysis.DominantPeriod(xs, meta.Dt)
package analysis

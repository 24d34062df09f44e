package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// LyapunovExponent estimates the finite-time Lyapunov exponent of a layout by
// running it twice, once with body displaced along x by perturbation, and
// measuring how fast the two runs separate. A positive value means nearby
// layouts diverge exponentially.
//
// build must return a fresh solver with the same layout on every call.
// The separation of every frame is returned alongside the estimate.
func LyapunovExponent(
	build func() (*physics.Solver, error),
	body physics.BodyID,
	perturbation, dt float64,
	frames int,
) (float64, []float64, error) {
	if perturbation <= 0 || dt <= 0 || frames <= 0 {
		return 0, nil, fmt.Errorf("perturbation, dt and frames must be positive: %w", dynamo.ErrInvalidConfig)
	}

	a, err := build()
	if err != nil {
		return 0, nil, err
	}
	b, err := build()
	if err != nil {
		return 0, nil, err
	}
	if err := b.Displace(body, dynamo.V(perturbation, 0)); err != nil {
		return 0, nil, err
	}

	seps := make([]float64, 0, frames)
	for i := 0; i < frames; i++ {
		a.Step(dt)
		b.Step(dt)
		seps = append(seps, separation(a.Bodies(), b.Bodies()))
	}

	last := seps[len(seps)-1]
	elapsed := float64(frames) * dt * float64(a.Timestep())
	if last <= 0 || elapsed == 0 || math.IsNaN(last) || math.IsInf(last, 0) {
		return 0, seps, fmt.Errorf("separation degenerate after %d frames: %w", frames, dynamo.ErrInvalidState)
	}

	return math.Log(last/perturbation) / elapsed, seps, nil
}

func separation(a, b []dynamo.BodyState) float64 {
	sum := 0.0
	for i := range a {
		d := b[i].Position.Sub(a[i].Position).Magnitude()
		sum += d * d
	}
	return math.Sqrt(sum)
}

package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a body position or velocity went NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a scenario or run configuration out of range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownPreset indicates a preset name with no registered scenario.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrBodyNotFound indicates a body index outside the solver's arena.
	ErrBodyNotFound = errors.New("dynamo: body not found")

	// ErrNoData indicates a stored run with no recorded frames.
	ErrNoData = errors.New("dynamo: no recorded data")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

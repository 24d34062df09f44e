package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Simulator drives the per-frame loop: poll input, apply it to the solver,
// step the physics and hand the result to the render sink.
type Simulator struct {
	solver    *physics.Solver
	input     dynamo.InputSource
	sink      dynamo.RenderSink
	metrics   []Metric
	observers []Observer
	logger    *log.Logger

	frame   int
	time    float64
	invalid bool
}

// New returns a simulator over solver. A nil input leaves solver parameters untouched.
func New(solver *physics.Solver, input dynamo.InputSource) *Simulator {
	return &Simulator{
		solver:    solver,
		input:     input,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetSink(sink dynamo.RenderSink) { s.sink = sink }
func (s *Simulator) SetLogger(l *log.Logger)        { s.logger = l }

func (s *Simulator) Solver() *physics.Solver { return s.solver }
func (s *Simulator) Time() float64           { return s.time }
func (s *Simulator) FrameIndex() int         { return s.frame }

// Step runs one frame with the given dt and returns the resulting state.
// Frames are numbered from 1; frame 0 is the initial layout.
func (s *Simulator) Step(dt float64) dynamo.Frame {
	s.frame++
	if s.input != nil {
		in := s.input.Poll(s.frame)
		if id, ok := s.solver.Apply(in); ok {
			s.logger.Debug("body created", "id", id, "pos", in.SpawnPosition, "mass", in.SpawnMass)
		}
		if in.Reverse {
			s.logger.Debug("direction reversed", "direction", s.solver.Direction())
		}
	}

	s.solver.Update(dt, s.sink)
	s.time += dt * float64(s.solver.Timestep()*s.solver.Direction())

	f := dynamo.Frame{
		Index:     s.frame,
		Time:      s.time,
		Dt:        dt,
		Direction: s.solver.Direction(),
		Bodies:    s.solver.Bodies(),
	}

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnFrame(f)
	}

	if !s.invalid && !f.Valid() {
		s.invalid = true
		s.logger.Warn("simulation state went non-finite", "frame", f.Index, "t", f.Time)
	}

	return f
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, cfg.Frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if cfg.Record {
		result.Frames = append(result.Frames, s.snapshot())
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		f := s.Step(cfg.Dt)
		result.FramesTaken++

		if cfg.Record {
			result.Frames = append(result.Frames, f)
		}

		if cfg.ValidateState && !f.Valid() {
			result.Errors = append(result.Errors, dynamo.SimError{Time: f.Time, Frame: f.Index, Message: "invalid state (NaN/Inf)"})
			s.collect(result)
			return result, &dynamo.SimulationError{Frame: f.Index, Time: f.Time, Wrapped: dynamo.ErrInvalidState}
		}
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback steps with dt taken from clock until the callback returns
// false or ctx is done. frames <= 0 runs without a frame limit.
func (s *Simulator) RunWithCallback(ctx context.Context, clock dynamo.Clock, frames int, callback func(dynamo.Frame) bool) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.Step(clock.Tick())) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) snapshot() dynamo.Frame {
	return dynamo.Frame{
		Index:     s.frame,
		Time:      s.time,
		Direction: s.solver.Direction(),
		Bodies:    s.solver.Bodies(),
	}
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt < 0 {
		return fmt.Errorf("dt must be non-negative, got %f: %w", cfg.Dt, dynamo.ErrInvalidConfig)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d: %w", cfg.Frames, dynamo.ErrInvalidConfig)
	}
	return nil
}

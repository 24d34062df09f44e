package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// Config describes one headless run.
type Config struct {
	Preset   string
	Scenario *config.Config
	Script   *automation.Script
	Dt       float64
	Frames   int
	Record   bool
	Validate bool
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the solver from the scenario and attaches metrics. A script,
// when present, drives the control panel; otherwise the scenario's settings
// hold for the whole run.
func (e *Experiment) Setup(metrics []sim.Metric, logger *log.Logger) error {
	if e.cfg.Scenario == nil {
		return fmt.Errorf("experiment has no scenario: %w", dynamo.ErrInvalidConfig)
	}

	solver, err := e.cfg.Scenario.NewSolver()
	if err != nil {
		return err
	}

	var input dynamo.InputSource
	if e.cfg.Script != nil {
		input = automation.NewPlayer(e.cfg.Script, e.cfg.Scenario.SpawnInput())
	}

	e.simulator = sim.New(solver, input)
	if logger != nil {
		e.simulator.SetLogger(logger)
	}
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Dt:            e.cfg.Dt,
		Frames:        e.cfg.Frames,
		Record:        e.cfg.Record,
		ValidateState: e.cfg.Validate,
	}

	return e.simulator.Run(ctx, simCfg)
}

// GetSimulator returns the underlying simulator, for attaching observers
// before Run.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() Config { return e.cfg }

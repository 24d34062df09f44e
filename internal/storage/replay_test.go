package storage

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/physics"
)

func runScenario(t *testing.T, cfg *config.Config, validate bool) (*dynamo.Result, error) {
	t.Helper()
	exp := experiment.New(experiment.Config{
		Preset:   "test",
		Scenario: cfg,
		Dt:       1.0 / 60,
		Frames:   40,
		Record:   true,
		Validate: validate,
	})
	if err := exp.Setup(experiment.NewRegistry().DefaultMetrics(cfg.Gravity), nil); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return exp.Run(context.Background())
}

func TestSaveNonFiniteRun(t *testing.T) {
	cfg := &config.Config{
		Gravity:  1000,
		Timestep: 1,
		Bodies: []config.BodyConfig{
			{X: 100, Y: 100, Radius: 10, Mass: 1},
			{X: 100, Y: 100, Radius: 10, Mass: 1},
		},
	}

	result, runErr := runScenario(t, cfg, true)
	if !errors.Is(runErr, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", runErr)
	}

	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Preset: "coincident", Gravity: cfg.Gravity, Timestep: 1, Dt: 1.0 / 60}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(meta.Metrics) != len(result.Metrics) {
		t.Fatalf("expected %d metrics, got %v", len(result.Metrics), meta.Metrics)
	}
	for name, want := range result.Metrics {
		got := meta.Metrics[name]
		if math.IsNaN(want) != math.IsNaN(got) || (!math.IsNaN(want) && got != want) {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != len(result.Frames) {
		t.Fatalf("expected %d frames, got %d", len(result.Frames), len(frames))
	}
	if frames[len(frames)-1].Valid() {
		t.Error("expected last frame to keep its NaN state")
	}

	runs, err := st.List()
	if err != nil || len(runs) != 1 {
		t.Errorf("expected the run to be listed, got %v %v", runs, err)
	}
}

func TestMetricsJSON(t *testing.T) {
	m := Metrics{"a": 1.5, "b": math.NaN(), "c": math.Inf(1), "d": math.Inf(-1)}
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Metrics
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["a"] != 1.5 || !math.IsNaN(back["b"]) || !math.IsInf(back["c"], 1) || !math.IsInf(back["d"], -1) {
		t.Errorf("unexpected metrics: %v", back)
	}
}

func TestReplayKeepsTimestep(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timestep = 5

	result, err := runScenario(t, cfg, false)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Preset: "default", Gravity: cfg.Gravity, Timestep: cfg.Timestep, Dt: 1.0 / 60}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if meta.Timestep != 5 {
		t.Fatalf("expected timestep 5 in metadata, got %d", meta.Timestep)
	}

	replay := func() (*physics.Solver, error) { return meta.Replay(frames[0]) }

	s, err := replay()
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if s.Timestep() != 5 {
		t.Errorf("expected replay timestep 5, got %d", s.Timestep())
	}
	for i := 0; i < 10; i++ {
		s.Step(meta.Dt)
	}
	for i, b := range s.Bodies() {
		want := frames[10].Bodies[i].Position
		if b.Position.Sub(want).Magnitude() > 1e-9 {
			t.Errorf("body %d: replay at %v, recorded %v", i, b.Position, want)
		}
	}

	got, _, err := analysis.LyapunovExponent(replay, 0, 1e-3, meta.Dt, 20)
	if err != nil {
		t.Fatalf("lyapunov on replay: %v", err)
	}
	want, _, err := analysis.LyapunovExponent(cfg.NewSolver, 0, 1e-3, meta.Dt, 20)
	if err != nil {
		t.Fatalf("lyapunov on scenario: %v", err)
	}
	if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
		t.Errorf("replay estimate %v differs from scenario estimate %v", got, want)
	}
}

func TestReplayRefusesScriptedRun(t *testing.T) {
	meta := &RunMetadata{ID: "scripted_1", Script: "spawn.yaml", Gravity: 1000, Timestep: 1}
	if _, err := meta.Replay(dynamo.Frame{}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestReplayReversedStart(t *testing.T) {
	meta := &RunMetadata{Gravity: 1000, Timestep: 2}
	s, err := meta.Replay(dynamo.Frame{Direction: -1})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if s.Direction() != -1 || s.Timestep() != 2 {
		t.Errorf("expected reversed timestep 2 solver, got %d %d", s.Direction(), s.Timestep())
	}
}

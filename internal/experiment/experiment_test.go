package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestExperimentRun(t *testing.T) {
	cfg := Config{
		Preset:   "default",
		Scenario: config.DefaultConfig(),
		Dt:       0.01,
		Frames:   20,
		Record:   true,
	}

	exp := New(cfg)
	reg := NewRegistry()
	if err := exp.Setup(reg.DefaultMetrics(cfg.Scenario.Gravity), nil); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.FramesTaken != 20 || len(result.Frames) != 21 {
		t.Errorf("unexpected frame counts: taken=%d recorded=%d", result.FramesTaken, len(result.Frames))
	}
	for _, name := range reg.ListMetrics() {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if exp.GetSimulator().FrameIndex() != 20 {
		t.Errorf("expected simulator at frame 20, got %d", exp.GetSimulator().FrameIndex())
	}
}

type frameLog struct{ indices []int }

func (l *frameLog) OnFrame(f dynamo.Frame) { l.indices = append(l.indices, f.Index) }

func TestExperimentObserver(t *testing.T) {
	exp := New(Config{Preset: "pair", Scenario: config.DefaultConfig(), Dt: 0.01, Frames: 5})
	if err := exp.Setup(nil, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}

	var seen frameLog
	exp.GetSimulator().AddObserver(&seen)
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen.indices) != 5 || seen.indices[0] != 1 || seen.indices[4] != 5 {
		t.Errorf("unexpected observed frames %v", seen.indices)
	}
}

func TestExperimentWithScript(t *testing.T) {
	script := &automation.Script{Events: []automation.Event{{Frame: 2, Create: true}}}
	exp := New(Config{Scenario: config.DefaultConfig(), Script: script, Dt: 0.01, Frames: 3})
	if err := exp.Setup(nil, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := exp.GetSimulator().Solver().Len(); n != 4 {
		t.Errorf("expected scripted spawn to add a body, got %d", n)
	}
}

func TestExperimentNotSetup(t *testing.T) {
	if _, err := New(Config{}).Run(context.Background()); err == nil {
		t.Error("expected error for run before setup")
	}
	if err := New(Config{}).Setup(nil, nil); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	ms, err := reg.GetMetrics([]string{"max_speed", "reversals"}, 1000)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	if len(ms) != 2 || ms[0].Name() != "max_speed" || ms[1].Name() != "reversals" {
		t.Errorf("unexpected metrics %v", ms)
	}

	if _, err := reg.GetMetric("nope", 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	all, _ := reg.GetMetrics(nil, 1)
	if len(all) != len(reg.ListMetrics()) {
		t.Errorf("expected every metric, got %d", len(all))
	}
}

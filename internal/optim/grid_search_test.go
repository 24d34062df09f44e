package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// probe builds a single-body run whose max speed equals the spawn speed.
func probe(params map[string]float64) (*experiment.Experiment, error) {
	scenario := config.DefaultConfig()
	scenario.Bodies = nil
	for k, v := range params {
		if err := scenario.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	exp := experiment.New(experiment.Config{Scenario: scenario.WithProbe(), Dt: 0.01, Frames: 5})
	if err := exp.Setup([]sim.Metric{metrics.NewMaxSpeed()}, nil); err != nil {
		return nil, err
	}
	return exp, nil
}

func TestGridSearch(t *testing.T) {
	g := NewGridSearch([]string{"vx", "vy"}, [][]float64{{3, -1, 2}, {4, 0}})

	best, val, err := g.Search(context.Background(), probe, "max_speed")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if best["vx"] != -1 || best["vy"] != 0 {
		t.Errorf("unexpected best params %v", best)
	}
	if math.Abs(val-1) > 1e-9 {
		t.Errorf("expected best speed 1, got %f", val)
	}
	if len(g.Trials()) != 6 {
		t.Errorf("expected 6 trials, got %d", len(g.Trials()))
	}
}

func TestGridSearchAllFail(t *testing.T) {
	g := NewGridSearch([]string{"spin"}, [][]float64{{1, 2}})
	_, _, err := g.Search(context.Background(), probe, "max_speed")
	if !errors.Is(err, dynamo.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	for _, tr := range g.Trials() {
		if tr.Err == nil {
			t.Error("expected failed trial")
		}
	}
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"vx"}, [][]float64{{1}})
	if _, _, err := g.Search(ctx, probe, "max_speed"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		want    []float64
		wantErr bool
	}{
		{"vy=0:100:3", "vy", []float64{0, 50, 100}, false},
		{"mass=5", "mass", []float64{5}, false},
		{"vy=1:2", "", nil, true},
		{"vy=a:b:3", "", nil, true},
		{"=1:2:3", "", nil, true},
		{"vy=0:1:0", "", nil, true},
		{"vy=0:1:2.5", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, vals, err := ParseRange(tt.in)
			if tt.wantErr {
				if !errors.Is(err, dynamo.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.name || len(vals) != len(tt.want) {
				t.Fatalf("got %s %v", name, vals)
			}
			for i := range vals {
				if vals[i] != tt.want[i] {
					t.Errorf("got %v, want %v", vals, tt.want)
				}
			}
		})
	}
}

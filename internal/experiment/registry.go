package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// StabilityRadius is the distance from the origin beyond which a body counts
// as escaped.
const StabilityRadius = 1e5

type Registry struct {
	metrics map[string]func(g float64) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(g float64) sim.Metric),
	}

	r.metrics["energy_drift"] = func(g float64) sim.Metric { return metrics.NewEnergyDrift(g) }
	r.metrics["momentum_drift"] = func(g float64) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["angular_momentum_drift"] = func(g float64) sim.Metric { return metrics.NewAngularMomentumDrift() }
	r.metrics["max_speed"] = func(g float64) sim.Metric { return metrics.NewMaxSpeed() }
	r.metrics["stability"] = func(g float64) sim.Metric { return metrics.NewStability(StabilityRadius) }
	r.metrics["control_effort"] = func(g float64) sim.Metric { return metrics.NewControlEffort() }
	r.metrics["reversals"] = func(g float64) sim.Metric { return metrics.NewReversals() }

	return r
}

func (r *Registry) GetMetric(name string, g float64) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %s (available: %v): %w", name, r.ListMetrics(), dynamo.ErrInvalidConfig)
	}
	return fn(g), nil
}

// GetMetrics resolves names in order. No names means every metric.
func (r *Registry) GetMetrics(names []string, g float64) ([]sim.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(g), nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, g)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(g float64) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](g))
	}
	return out
}

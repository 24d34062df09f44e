package sim

import "github.com/san-kum/gravsim/internal/dynamo"

type Metric interface {
	Name() string
	Observe(f dynamo.Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f dynamo.Frame)
}

type Config struct {
	Dt            float64
	Frames        int
	Record        bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Frames:        600,
		Record:        true,
		ValidateState: true,
	}
}

// FixedClock ticks a constant dt, for headless and reproducible runs.
type FixedClock float64

func (c FixedClock) Tick() float64 { return float64(c) }

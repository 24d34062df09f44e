package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the first n/2 frequency bins of data
// after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the strongest oscillation period of samples taken
// every dt seconds. The DC bin is ignored.
func DominantPeriod(samples []float64, dt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, fmt.Errorf("need at least 4 samples, got %d: %w", len(samples), dynamo.ErrNoData)
	}
	if dt <= 0 {
		return 0, fmt.Errorf("dt must be positive, got %f: %w", dt, dynamo.ErrInvalidConfig)
	}

	ps := PowerSpectrum(samples)
	best, bestMag := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("signal has no oscillating component: %w", dynamo.ErrNoData)
	}

	return float64(len(samples)) * dt / float64(best), nil
}

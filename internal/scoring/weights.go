package scoring

import (
	"fmt"

	"github.com/procurehub/balance/internal/store"
)

// Fixed weights for the two factors that are not operator-tunable.
const (
	AvailabilityWeight  = 1.0
	ComplexityFitWeight = 1.1
)

// WeightSet defines the relative importance of each officer-scoring factor.
// The total score is the weighted sum divided by Sum(), so weights need not
// be normalized.
type WeightSet struct {
	Workload      float64
	Performance   float64
	Specialty     float64
	Availability  float64
	ComplexityFit float64
}

// WeightsFromSettings combines the operator-tunable weights with the fixed
// availability and complexity-fit weights.
func WeightsFromSettings(w store.StrategyWeights) WeightSet {
	return WeightSet{
		Workload:      w.Workload,
		Performance:   w.Performance,
		Specialty:     w.Specialty,
		Availability:  AvailabilityWeight,
		ComplexityFit: ComplexityFitWeight,
	}
}

// DefaultWeights mirrors store.DefaultSettings().Weights.
func DefaultWeights() WeightSet {
	return WeightsFromSettings(store.DefaultSettings().Weights)
}

func (w WeightSet) Sum() float64 {
	return w.Workload + w.Performance + w.Specialty + w.Availability + w.ComplexityFit
}

func (w WeightSet) Validate() error {
	for _, v := range []float64{w.Workload, w.Performance, w.Specialty, w.Availability, w.ComplexityFit} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("weights sum to %.4f, must be positive", w.Sum())
	}
	return nil
}

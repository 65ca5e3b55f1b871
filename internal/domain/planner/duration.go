package planner

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// durationThreshold is the fraction of the transit depth, measured down from
// the out-of-transit level, below which a sample counts as in transit.
const durationThreshold = 0.01

// TransitDuration estimates the transit duration from a densely sampled light
// curve: the span between the first and last sample whose flux lies more than
// 1% of the depth below the maximum. It returns zero when no sample does.
func TransitDuration(times, fluxes []float64) (float64, error) {
	if len(times) != len(fluxes) {
		return 0, fmt.Errorf("%w: %d times, %d fluxes", ErrLengthMismatch, len(times), len(fluxes))
	}
	if len(fluxes) == 0 {
		return 0, nil
	}

	hi, lo := floats.Max(fluxes), floats.Min(fluxes)
	threshold := hi - durationThreshold*(hi-lo)

	first, last := math.Inf(1), math.Inf(-1)
	for i, f := range fluxes {
		if f < threshold {
			first = math.Min(first, times[i])
			last = math.Max(last, times[i])
		}
	}
	if math.IsInf(first, 1) {
		return 0, nil
	}
	return last - first, nil
}

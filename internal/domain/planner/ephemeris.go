package planner

import (
	"fmt"
	"math"
)

// maxEpochCorrections bounds the stepping done after the initial epoch guess.
// The guess is off by at most one cycle; the extra steps absorb rounding.
const maxEpochCorrections = 4

// LastTransitBeforeCutoff returns the largest mid-transit time of the form
// refMid + k*period that is strictly less than cutoff.
func LastTransitBeforeCutoff(refMid, period, cutoff float64) (float64, error) {
	if !(period > 0) || math.IsInf(period, 0) {
		return 0, fmt.Errorf("%w: period %v must be positive and finite", ErrInvalidEphemeris, period)
	}
	if !isFinite(refMid) || !isFinite(cutoff) {
		return 0, fmt.Errorf("%w: mid-time %v and cutoff %v must be finite", ErrInvalidEphemeris, refMid, cutoff)
	}

	epoch := func(k float64) float64 { return refMid + k*period }

	k := math.Floor((cutoff - refMid) / period)
	for i := 0; i < maxEpochCorrections && epoch(k+1) < cutoff; i++ {
		k++
	}
	for i := 0; i < maxEpochCorrections && epoch(k) >= cutoff; i++ {
		k--
	}

	mid := epoch(k)
	if mid >= cutoff {
		return 0, fmt.Errorf("%w: period %v is below the time resolution at %v", ErrInvalidEphemeris, period, cutoff)
	}
	return mid, nil
}

// ElapsedOrbits returns the number of planet orbits between refMid and mid,
// rounded half to even. period must be positive.
func ElapsedOrbits(mid, refMid, period float64) int {
	return int(math.RoundToEven(math.Abs(mid-refMid) / period))
}

// PropagateUncertainty projects the ephemeris uncertainty forward by
// orbits cycles, assuming errors accumulate linearly and uncorrelated terms
// are ignored.
func PropagateUncertainty(midTimeUnc, periodUnc float64, orbits int) float64 {
	return midTimeUnc + float64(orbits)*periodUnc
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

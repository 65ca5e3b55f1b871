package planner

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// minPointsPerOrbit is the smallest density that still spans a window.
const minPointsPerOrbit = 2

// BuildSampleGrids lays out pointsPerOrbit evenly spaced timestamps over the
// visibility window of each of orbits HST orbits starting at start. The
// worst-case grid is the nominal grid shifted by slack.
func BuildSampleGrids(start, slack, orbitPeriod, visibility float64, orbits, pointsPerOrbit int) (nominal, worst []float64, err error) {
	if pointsPerOrbit < minPointsPerOrbit {
		return nil, nil, fmt.Errorf("%w: %d points per orbit, need at least %d", ErrInvalidSampleDensity, pointsPerOrbit, minPointsPerOrbit)
	}
	if orbits < 1 {
		return nil, nil, fmt.Errorf("%w: %d orbits", ErrInvalidObserving, orbits)
	}

	nominal = make([]float64, orbits*pointsPerOrbit)
	for i := 0; i < orbits; i++ {
		lo := start + float64(i)*orbitPeriod
		floats.Span(nominal[i*pointsPerOrbit:(i+1)*pointsPerOrbit], lo, lo+visibility)
	}

	worst = make([]float64, len(nominal))
	copy(worst, nominal)
	floats.AddConst(slack, worst)

	return nominal, worst, nil
}

// ToOrbitalPhase maps timestamps to orbital phase relative to mid, where the
// transit at mid sits at phase 1.
func ToOrbitalPhase(times []float64, mid, period float64) []float64 {
	phases := make([]float64, len(times))
	for i, t := range times {
		phases[i] = 1 + (t-mid)/period
	}
	return phases
}

// FromOrbitalPhase is the inverse of ToOrbitalPhase.
func FromOrbitalPhase(phases []float64, mid, period float64) []float64 {
	times := make([]float64, len(phases))
	for i, ph := range phases {
		times[i] = mid + period*(ph-1)
	}
	return times
}

package model

import "math"

// SampleGrid is a set of timestamps laid out orbit-major, ascending within
// each orbit, together with the matching orbital phases.
type SampleGrid struct {
	Times          []float64
	Phases         []float64
	Orbits         int
	PointsPerOrbit int
}

// Len returns the number of samples in the grid.
func (g SampleGrid) Len() int { return len(g.Times) }

// Orbit returns the timestamps of the i-th (0-based) HST orbit.
func (g SampleGrid) Orbit(i int) []float64 {
	if i < 0 || i >= g.Orbits {
		return nil
	}
	return g.Times[i*g.PointsPerOrbit : (i+1)*g.PointsPerOrbit]
}

// Plan holds the result of one planner call: the inputs it was computed from
// and every derived quantity.
type Plan struct {
	ID string

	Ephemeris   Ephemeris
	Uncertainty Uncertainty
	Window      PhaseWindow
	Exposure    ExposureSpec
	Observing   ObservingConstants
	Cutoff      float64

	MidTime           float64 // last transit before Cutoff
	ElapsedOrbits     int
	TimingUncertainty float64 // days, at MidTime
	PhaseLow          float64
	PhaseUpp          float64
	Start             float64 // earliest feasible start
	Slack             float64 // days between earliest and latest start

	Nominal   SampleGrid
	WorstCase SampleGrid
}

// WindowMinutes returns the width of the specified phase window in whole
// minutes, rounded up.
func (p Plan) WindowMinutes() int {
	return int(math.Ceil(MinutesPerDay * p.Ephemeris.Period * p.Window.Width()))
}

// Curve is a light curve sampled at Times.
type Curve struct {
	Times  []float64
	Phases []float64
	Fluxes []float64
}

// Coverage bundles a plan with the light curves evaluated on its grids.
type Coverage struct {
	Plan      Plan
	Full      Curve
	Nominal   Curve
	WorstCase Curve

	TransitDuration float64 // days
}

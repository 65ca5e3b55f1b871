// Package model contains the value types passed between the planner, the
// light-curve model and the presentation layer.
package model

import "fmt"

// Exposure anchors. An anchor names which edge of the HST visibility window
// the phase constraint applies to.
const (
	AnchorFirst Anchor = "first"
	AnchorLast  Anchor = "last"
)

// MinutesPerDay converts between the day-based ephemeris and minute-based
// observing constants.
const MinutesPerDay = 24 * 60

// DefaultHSTOrbitPeriod is the HST orbital period in days (96.36 minutes).
const DefaultHSTOrbitPeriod = 96.36 / MinutesPerDay

// Ephemeris is the linear transit ephemeris of the planet.
type Ephemeris struct {
	MidTime float64 // reference mid-transit epoch, days
	Period  float64 // orbital period, days
}

// Uncertainty holds the 1-sigma uncertainties on an Ephemeris.
type Uncertainty struct {
	MidTime float64 // days
	Period  float64 // days
}

// SystemParams describes the planetary system. Only Ephemeris is used by the
// planner; the geometry is consumed by the light-curve model.
type SystemParams struct {
	Ephemeris

	RadiusRatio   float64 // Rp/Rs
	SemiMajorAxis float64 // a/Rs
	Inclination   float64 // degrees
	Eccentricity  float64
	Periastron    float64 // argument of periastron, degrees
}

// PhaseWindow is the targeted orbital-phase range. Bounds may be negative for
// windows straddling phase zero.
type PhaseWindow struct {
	Lower float64
	Upper float64
}

// Width returns the phase span covered by the window.
func (w PhaseWindow) Width() float64 { return w.Upper - w.Lower }

// Normalized maps negative bounds into [0, 1) by adding one.
func (w PhaseWindow) Normalized() PhaseWindow {
	n := w
	if n.Lower < 0 {
		n.Lower++
	}
	if n.Upper < 0 {
		n.Upper++
	}
	return n
}

// Anchor selects the exposure a phase constraint is tied to.
type Anchor string

// ExposureSpec ties the phase constraint to an exposure of a given HST orbit.
type ExposureSpec struct {
	Anchor Anchor
	Orbit  int // 1-based
}

func (e ExposureSpec) String() string {
	return fmt.Sprintf("%s exposure of orbit %d", e.Anchor, e.Orbit)
}

// ObservingConstants are the telescope timing constants of a visit.
type ObservingConstants struct {
	OrbitPeriod       float64 // days
	VisibilityMinutes float64
	Orbits            int
	PointsPerOrbit    int
	Sigma             float64
}

// Visibility returns the per-orbit visibility duration in days.
func (o ObservingConstants) Visibility() float64 {
	return o.VisibilityMinutes / MinutesPerDay
}

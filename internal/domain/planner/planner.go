// Package planner projects a transit ephemeris to an HST visit and derives
// the phase coverage of that visit.
//
// The pipeline is deterministic and runs once per call:
//  1. find the last transit before the cutoff epoch,
//  2. propagate the ephemeris uncertainty to that transit,
//  3. widen the target phase window by sigma uncertainties,
//  4. derive the earliest start and the start slack,
//  5. lay out nominal and worst-case sampling grids.
package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/thommevans/hst-prep/internal/domain/model"
)

// Request carries everything a single planning call needs.
type Request struct {
	Ephemeris   model.Ephemeris
	Uncertainty model.Uncertainty
	Window      model.PhaseWindow
	Exposure    model.ExposureSpec
	Observing   model.ObservingConstants
	Cutoff      float64 // epoch the visit must precede, days
}

// Validate reports the first invalid field of r.
func (r Request) Validate() error {
	e, u := r.Ephemeris, r.Uncertainty
	switch {
	case !(e.Period > 0) || !isFinite(e.Period):
		return fmt.Errorf("%w: period %v must be positive and finite", ErrInvalidEphemeris, e.Period)
	case !isFinite(e.MidTime):
		return fmt.Errorf("%w: reference mid-time %v", ErrInvalidEphemeris, e.MidTime)
	case !isFinite(r.Cutoff):
		return fmt.Errorf("%w: cutoff %v", ErrInvalidEphemeris, r.Cutoff)
	case !(u.MidTime >= 0) || !(u.Period >= 0) || !isFinite(u.MidTime) || !isFinite(u.Period):
		return fmt.Errorf("%w: uncertainties (%v, %v) must be non-negative", ErrInvalidEphemeris, u.MidTime, u.Period)
	}

	w := r.Window
	switch {
	case !isFinite(w.Lower) || !isFinite(w.Upper):
		return fmt.Errorf("%w: bounds (%v, %v) must be finite", ErrInvalidPhaseWindow, w.Lower, w.Upper)
	case w.Lower >= w.Upper:
		return fmt.Errorf("%w: lower %v must be below upper %v", ErrInvalidPhaseWindow, w.Lower, w.Upper)
	case w.Lower < -1 || w.Upper >= 1:
		return fmt.Errorf("%w: bounds (%v, %v) fall outside [-1, 1)", ErrInvalidPhaseWindow, w.Lower, w.Upper)
	case w.Width() >= 1:
		return fmt.Errorf("%w: width %v spans a full orbit", ErrInvalidPhaseWindow, w.Width())
	}

	switch r.Exposure.Anchor {
	case model.AnchorFirst, model.AnchorLast:
	default:
		return fmt.Errorf("%w: unknown anchor %q", ErrInvalidExposureSpec, r.Exposure.Anchor)
	}
	if r.Exposure.Orbit < 1 || r.Exposure.Orbit > r.Observing.Orbits {
		return fmt.Errorf("%w: orbit %d outside 1..%d", ErrInvalidExposureSpec, r.Exposure.Orbit, r.Observing.Orbits)
	}

	o := r.Observing
	switch {
	case o.PointsPerOrbit < minPointsPerOrbit:
		return fmt.Errorf("%w: %d points per orbit, need at least %d", ErrInvalidSampleDensity, o.PointsPerOrbit, minPointsPerOrbit)
	case !(o.OrbitPeriod > 0) || !isFinite(o.OrbitPeriod):
		return fmt.Errorf("%w: HST orbit period %v", ErrInvalidObserving, o.OrbitPeriod)
	case !(o.VisibilityMinutes > 0) || !isFinite(o.VisibilityMinutes):
		return fmt.Errorf("%w: visibility %v minutes", ErrInvalidObserving, o.VisibilityMinutes)
	case o.Orbits < 1:
		return fmt.Errorf("%w: %d orbits", ErrInvalidObserving, o.Orbits)
	case !(o.Sigma >= 0) || !isFinite(o.Sigma):
		return fmt.Errorf("%w: sigma %v must be non-negative", ErrInvalidObserving, o.Sigma)
	}
	return nil
}

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithIDFunc sets the generator used for plan identifiers.
func WithIDFunc(fn func() string) Option {
	return func(p *Planner) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// Planner computes phase coverage plans. It holds no state between calls.
type Planner struct {
	newID func() string
}

// New creates a Planner with the given options.
func New(opts ...Option) *Planner {
	p := &Planner{
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Plan validates req and runs the planning pipeline.
func (p *Planner) Plan(ctx context.Context, req Request) (model.Plan, error) {
	if err := ctx.Err(); err != nil {
		return model.Plan{}, fmt.Errorf("context cancelled: %w", err)
	}
	if err := req.Validate(); err != nil {
		return model.Plan{}, err
	}

	eph, unc, obs := req.Ephemeris, req.Uncertainty, req.Observing

	mid, err := LastTransitBeforeCutoff(eph.MidTime, eph.Period, req.Cutoff)
	if err != nil {
		return model.Plan{}, err
	}
	n := ElapsedOrbits(mid, eph.MidTime, eph.Period)
	timingUnc := PropagateUncertainty(unc.MidTime, unc.Period, n)

	low, upp := PhaseBounds(req.Window, obs.Sigma, timingUnc, eph.Period)
	start, err := EarliestStart(mid, eph.Period, low, req.Exposure, obs.OrbitPeriod, obs.VisibilityMinutes)
	if err != nil {
		return model.Plan{}, err
	}
	slack := StartSlack(eph.Period, req.Window, obs.Sigma, timingUnc)

	nominal, worst, err := BuildSampleGrids(start, slack, obs.OrbitPeriod, obs.Visibility(), obs.Orbits, obs.PointsPerOrbit)
	if err != nil {
		return model.Plan{}, err
	}

	return model.Plan{
		ID:                p.newID(),
		Ephemeris:         eph,
		Uncertainty:       unc,
		Window:            req.Window,
		Exposure:          req.Exposure,
		Observing:         obs,
		Cutoff:            req.Cutoff,
		MidTime:           mid,
		ElapsedOrbits:     n,
		TimingUncertainty: timingUnc,
		PhaseLow:          low,
		PhaseUpp:          upp,
		Start:             start,
		Slack:             slack,
		Nominal: model.SampleGrid{
			Times:          nominal,
			Phases:         ToOrbitalPhase(nominal, mid, eph.Period),
			Orbits:         obs.Orbits,
			PointsPerOrbit: obs.PointsPerOrbit,
		},
		WorstCase: model.SampleGrid{
			Times:          worst,
			Phases:         ToOrbitalPhase(worst, mid, eph.Period),
			Orbits:         obs.Orbits,
			PointsPerOrbit: obs.PointsPerOrbit,
		},
	}, nil
}

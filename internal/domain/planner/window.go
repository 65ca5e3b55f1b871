package planner

import (
	"fmt"

	"github.com/thommevans/hst-prep/internal/domain/model"
)

// PhaseBounds widens window on both sides by sigma timing uncertainties
// expressed in phase units.
func PhaseBounds(window model.PhaseWindow, sigma, timingUnc, period float64) (low, upp float64) {
	margin := sigma * timingUnc / period
	return window.Lower - margin, window.Upper + margin
}

// EarliestStart returns the earliest feasible start of the visit: the epoch
// of phaseLow before mid, moved back to the first exposure of the first HST
// orbit according to exposure.
func EarliestStart(mid, period, phaseLow float64, exposure model.ExposureSpec, orbitPeriod, visibilityMinutes float64) (float64, error) {
	if exposure.Orbit < 1 {
		return 0, fmt.Errorf("%w: orbit %d must be 1 or greater", ErrInvalidExposureSpec, exposure.Orbit)
	}

	atPhaseLow := mid - period*(1-phaseLow)
	offset := float64(exposure.Orbit-1) * orbitPeriod

	switch exposure.Anchor {
	case model.AnchorFirst:
		return atPhaseLow - offset, nil
	case model.AnchorLast:
		return atPhaseLow - visibilityMinutes/model.MinutesPerDay - offset, nil
	default:
		return 0, fmt.Errorf("%w: unknown anchor %q", ErrInvalidExposureSpec, exposure.Anchor)
	}
}

// StartSlack returns the span between the earliest and the latest plausible
// start times consistent with the widened phase window.
func StartSlack(period float64, window model.PhaseWindow, sigma, timingUnc float64) float64 {
	return period*window.Width() + 2*sigma*timingUnc
}

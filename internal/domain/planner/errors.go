package planner

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidEphemeris     = errors.New("invalid ephemeris")
	ErrInvalidExposureSpec  = errors.New("invalid exposure spec")
	ErrInvalidPhaseWindow   = errors.New("invalid phase window")
	ErrInvalidSampleDensity = errors.New("invalid sample density")
	ErrInvalidObserving     = errors.New("invalid observing constants")
	ErrLengthMismatch       = errors.New("length mismatch")
)

// Kind returns a short, stable label for err suitable for metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEphemeris):
		return "invalid_ephemeris"
	case errors.Is(err, ErrInvalidExposureSpec):
		return "invalid_exposure_spec"
	case errors.Is(err, ErrInvalidPhaseWindow):
		return "invalid_phase_window"
	case errors.Is(err, ErrInvalidSampleDensity):
		return "invalid_sample_density"
	case errors.Is(err, ErrInvalidObserving):
		return "invalid_observing"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	default:
		return "other"
	}
}

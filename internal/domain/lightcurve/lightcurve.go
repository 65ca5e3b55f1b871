// Package lightcurve defines the contract for evaluating primary-transit
// light curves and ships a uniform-source implementation.
package lightcurve

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/thommevans/hst-prep/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidParams = errors.New("invalid transit parameters")
	ErrNoConvergence = errors.New("kepler solver did not converge")
)

// Model evaluates the relative flux of a primary transit at each timestamp.
// The result has the same length as times.
type Model interface {
	LightCurve(ctx context.Context, times []float64, params model.SystemParams) ([]float64, error)
}

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc func(ctx context.Context, times []float64, params model.SystemParams) ([]float64, error)

// LightCurve calls f.
func (f ModelFunc) LightCurve(ctx context.Context, times []float64, params model.SystemParams) ([]float64, error) {
	return f(ctx, times, params)
}

// Validate checks the parameters a transit model needs.
func Validate(p model.SystemParams) error {
	switch {
	case !(p.Period > 0):
		return fmt.Errorf("%w: period %v", ErrInvalidParams, p.Period)
	case !(p.RadiusRatio > 0):
		return fmt.Errorf("%w: radius ratio %v", ErrInvalidParams, p.RadiusRatio)
	case !(p.SemiMajorAxis > 0):
		return fmt.Errorf("%w: semi-major axis %v", ErrInvalidParams, p.SemiMajorAxis)
	case !(p.Eccentricity >= 0 && p.Eccentricity < 1):
		return fmt.Errorf("%w: eccentricity %v outside [0, 1)", ErrInvalidParams, p.Eccentricity)
	case math.IsNaN(p.Inclination) || math.IsNaN(p.Periastron) || math.IsNaN(p.MidTime):
		return fmt.Errorf("%w: NaN geometry", ErrInvalidParams)
	}
	return nil
}

package lightcurve

import (
	"context"
	"fmt"
	"math"

	"github.com/thommevans/hst-prep/internal/domain/model"
)

// Default solver configuration constants.
const (
	defaultKeplerTolerance = 1e-10
	defaultMaxIterations   = 50
	cancelCheckEvery       = 1024
	degToRad               = math.Pi / 180
)

// Option applies a configuration option to the Uniform model.
type Option func(*Uniform)

// WithKeplerTolerance sets the convergence tolerance of the Kepler solver.
func WithKeplerTolerance(tol float64) Option {
	return func(u *Uniform) {
		if tol > 0 {
			u.tolerance = tol
		}
	}
}

// WithMaxIterations caps the Newton iterations of the Kepler solver.
func WithMaxIterations(n int) Option {
	return func(u *Uniform) {
		if n > 0 {
			u.maxIterations = n
		}
	}
}

// Uniform implements Model for a uniformly bright stellar disk, i.e. with
// limb darkening switched off.
type Uniform struct {
	tolerance     float64
	maxIterations int
}

// NewUniform creates a uniform-source transit model.
func NewUniform(opts ...Option) *Uniform {
	u := &Uniform{
		tolerance:     defaultKeplerTolerance,
		maxIterations: defaultMaxIterations,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// LightCurve evaluates the primary-transit flux at each timestamp. Points
// where the planet is behind the star report an unocculted flux of 1.
func (u *Uniform) LightCurve(ctx context.Context, times []float64, p model.SystemParams) ([]float64, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	sinInc := math.Sin(p.Inclination * degToRad)
	omega := p.Periastron * degToRad
	ecc := p.Eccentricity
	tPeri := periastronTime(p.MidTime, p.Period, ecc, omega)

	flux := make([]float64, len(times))
	for i, t := range times {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("context cancelled: %w", err)
			}
		}

		meanAnomaly := 2 * math.Pi * (t - tPeri) / p.Period
		f, err := u.trueAnomaly(meanAnomaly, ecc)
		if err != nil {
			return nil, fmt.Errorf("t=%v: %w", t, err)
		}

		r := p.SemiMajorAxis * (1 - ecc*ecc) / (1 + ecc*math.Cos(f))
		sinWF := math.Sin(omega + f)
		if sinWF*sinInc <= 0 {
			flux[i] = 1
			continue
		}
		z := r * math.Sqrt(math.Max(0, 1-sinWF*sinWF*sinInc*sinInc))
		flux[i] = 1 - occultedFraction(z, p.RadiusRatio)
	}
	return flux, nil
}

// trueAnomaly solves Kepler's equation for the eccentric anomaly and converts
// it to the true anomaly.
func (u *Uniform) trueAnomaly(meanAnomaly, ecc float64) (float64, error) {
	if ecc == 0 {
		return meanAnomaly, nil
	}

	m := math.Remainder(meanAnomaly, 2*math.Pi)
	e := m
	if ecc > 0.8 {
		e = math.Pi * math.Copysign(1, m)
	}
	for i := 0; ; i++ {
		if i == u.maxIterations {
			return 0, fmt.Errorf("%w: M=%v e=%v", ErrNoConvergence, meanAnomaly, ecc)
		}
		delta := (e - ecc*math.Sin(e) - m) / (1 - ecc*math.Cos(e))
		e -= delta
		if math.Abs(delta) < u.tolerance {
			break
		}
	}

	return 2 * math.Atan2(math.Sqrt(1+ecc)*math.Sin(e/2), math.Sqrt(1-ecc)*math.Cos(e/2)), nil
}

// periastronTime returns the periastron epoch implied by a mid-transit at
// midTime, where the true anomaly is pi/2 - omega.
func periastronTime(midTime, period, ecc, omega float64) float64 {
	f := math.Pi/2 - omega
	e := 2 * math.Atan2(math.Sqrt(1-ecc)*math.Sin(f/2), math.Sqrt(1+ecc)*math.Cos(f/2))
	m := e - ecc*math.Sin(e)
	return midTime - period*m/(2*math.Pi)
}

// occultedFraction is the fraction of a uniform stellar disk of unit radius
// covered by a planet of radius p at projected separation z.
func occultedFraction(z, p float64) float64 {
	switch {
	case z >= 1+p:
		return 0
	case z <= p-1:
		return 1
	case z <= 1-p:
		return p * p
	}

	k0 := math.Acos(clamp((p*p+z*z-1)/(2*p*z), -1, 1))
	k1 := math.Acos(clamp((1-p*p+z*z)/(2*z), -1, 1))
	chord := math.Sqrt(math.Max(0, 4*z*z-math.Pow(1+z*z-p*p, 2)))
	return (p*p*k0 + k1 - chord/2) / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

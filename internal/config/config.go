// Package config defines the planner configuration and its loading hooks.
//
// Conventions:
// - Defaults live in `default` struct tags and are applied by New.
// - Constraints live in `validate` struct tags and are checked by Validate.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"math"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/thommevans/hst-prep/internal/domain/model"
	"github.com/thommevans/hst-prep/pkg/astrotime"
)

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Config contains process configuration. The defaults describe the
// WASP-121b visit planned before the end of HST Cycle 23.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" default:"info" validate:"oneof=debug info warn warning error"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format" default:"text" validate:"oneof=text json"`

	// Output is the path of the rendered figure. The extension picks the format.
	Output string `koanf:"output" default:"phase_coverage.png" validate:"required"`

	// MetricsFile, when set, receives the run metrics in Prometheus text format.
	MetricsFile string `koanf:"metrics_file"`

	// CutoffJD is the Julian Date the visit must precede.
	CutoffJD float64 `koanf:"cutoff_jd" default:"2457662.5" validate:"gt=0"`

	// CutoffDate overrides CutoffJD when set, e.g. "2016-10-01".
	CutoffDate string `koanf:"cutoff_date"`

	// FullSpanPoints is the number of samples in the dense reference curve.
	FullSpanPoints int `koanf:"full_span_points" default:"1000" validate:"gte=2"`

	System      SystemConfig      `koanf:"system"`
	Uncertainty UncertaintyConfig `koanf:"uncertainty"`
	Window      WindowConfig      `koanf:"window"`
	Exposure    ExposureConfig    `koanf:"exposure"`
	Observing   ObservingConfig   `koanf:"observing"`
}

// SystemConfig describes the planet and its host star.
type SystemConfig struct {
	Name          string  `koanf:"name" default:"WASP-121b"`
	MidTime       float64 `koanf:"mid_time" default:"2456635.70832" validate:"gt=0"`
	Period        float64 `koanf:"period" default:"1.2749255" validate:"gt=0"`
	RadiusRatio   float64 `koanf:"radius_ratio" default:"0.12454" validate:"gt=0,lt=1"`
	SemiMajorAxis float64 `koanf:"semi_major_axis" default:"3.754" validate:"gt=1"`

	// ImpactParameter is used to derive the inclination when Inclination is zero.
	ImpactParameter float64 `koanf:"impact_parameter" default:"0.160" validate:"gte=0"`
	Inclination     float64 `koanf:"inclination" validate:"gte=0,lte=90"` // degrees
	Eccentricity    float64 `koanf:"eccentricity" validate:"gte=0,lt=1"`
	Periastron      float64 `koanf:"periastron" default:"90"` // degrees
}

// UncertaintyConfig holds the 1-sigma ephemeris uncertainties in days.
type UncertaintyConfig struct {
	MidTime float64 `koanf:"mid_time" default:"1.1e-4" validate:"gte=0"`
	Period  float64 `koanf:"period" default:"2.5e-7" validate:"gte=0"`
}

// WindowConfig is the targeted phase window.
type WindowConfig struct {
	Lower float64 `koanf:"lower" default:"0.85" validate:"gte=-1,lt=1,ltfield=Upper"`
	Upper float64 `koanf:"upper" default:"0.86" validate:"gt=-1,lt=1"`
}

// ExposureConfig ties the window to an exposure of one HST orbit.
type ExposureConfig struct {
	Anchor string `koanf:"anchor" default:"first" validate:"oneof=first last"`
	Orbit  int    `koanf:"orbit" default:"1" validate:"gte=1"`
}

// ObservingConfig holds the HST timing constants of the visit.
type ObservingConfig struct {
	OrbitPeriodMinutes float64 `koanf:"orbit_period_minutes" default:"96.36" validate:"gt=0"`
	VisibilityMinutes  float64 `koanf:"visibility_minutes" default:"45" validate:"gt=0"`
	Orbits             int     `koanf:"orbits" default:"5" validate:"gte=1"`
	PointsPerOrbit     int     `koanf:"points_per_orbit" default:"100" validate:"gte=2"`
	Sigma              float64 `koanf:"sigma" default:"3" validate:"gte=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		// Only reachable if a default tag fails to parse.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return c
}

// Validate checks the struct constraints and the cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Exposure.Orbit > c.Observing.Orbits {
		return fmt.Errorf("%w: exposure orbit %d exceeds %d visit orbits", ErrInvalidConfig, c.Exposure.Orbit, c.Observing.Orbits)
	}
	if _, err := c.Cutoff(); err != nil {
		return err
	}
	if _, err := c.InclinationDegrees(); err != nil {
		return err
	}
	return nil
}

// Cutoff returns the cutoff epoch as a Julian Date, preferring CutoffDate.
func (c *Config) Cutoff() (float64, error) {
	if c.CutoffDate == "" {
		return c.CutoffJD, nil
	}
	jd, err := astrotime.Parse(c.CutoffDate)
	if err != nil {
		return 0, fmt.Errorf("%w: cutoff_date: %v", ErrInvalidConfig, err)
	}
	return jd, nil
}

// InclinationDegrees returns the orbital inclination, deriving it from the
// impact parameter when none is configured.
func (c *Config) InclinationDegrees() (float64, error) {
	s := c.System
	if s.Inclination != 0 {
		return s.Inclination, nil
	}
	if s.ImpactParameter > s.SemiMajorAxis {
		return 0, fmt.Errorf("%w: impact parameter %v exceeds a/Rs %v", ErrInvalidConfig, s.ImpactParameter, s.SemiMajorAxis)
	}
	return math.Acos(s.ImpactParameter/s.SemiMajorAxis) * 180 / math.Pi, nil
}

// SystemParams converts the system section into model parameters.
func (c *Config) SystemParams() (model.SystemParams, error) {
	inc, err := c.InclinationDegrees()
	if err != nil {
		return model.SystemParams{}, err
	}
	s := c.System
	return model.SystemParams{
		Ephemeris:     model.Ephemeris{MidTime: s.MidTime, Period: s.Period},
		RadiusRatio:   s.RadiusRatio,
		SemiMajorAxis: s.SemiMajorAxis,
		Inclination:   inc,
		Eccentricity:  s.Eccentricity,
		Periastron:    s.Periastron,
	}, nil
}

// ObservingConstants converts the observing section into model constants.
func (c *Config) ObservingConstants() model.ObservingConstants {
	o := c.Observing
	return model.ObservingConstants{
		OrbitPeriod:       o.OrbitPeriodMinutes / model.MinutesPerDay,
		VisibilityMinutes: o.VisibilityMinutes,
		Orbits:            o.Orbits,
		PointsPerOrbit:    o.PointsPerOrbit,
		Sigma:             o.Sigma,
	}
}

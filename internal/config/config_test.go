package config_test

import (
	"errors"
	"math"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/thommevans/hst-prep/internal/config"
	"github.com/thommevans/hst-prep/internal/domain/model"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should describe the WASP-121b visit", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Output, convey.ShouldEqual, "phase_coverage.png")
			convey.So(cfg.CutoffJD, convey.ShouldEqual, 2457662.5)
			convey.So(cfg.FullSpanPoints, convey.ShouldEqual, 1000)
			convey.So(cfg.System.Period, convey.ShouldEqual, 1.2749255)
			convey.So(cfg.System.MidTime, convey.ShouldEqual, 2456635.70832)
			convey.So(cfg.System.RadiusRatio, convey.ShouldEqual, 0.12454)
			convey.So(cfg.System.Periastron, convey.ShouldEqual, 90)
			convey.So(cfg.Uncertainty.MidTime, convey.ShouldEqual, 1.1e-4)
			convey.So(cfg.Uncertainty.Period, convey.ShouldEqual, 2.5e-7)
			convey.So(cfg.Window.Lower, convey.ShouldEqual, 0.85)
			convey.So(cfg.Window.Upper, convey.ShouldEqual, 0.86)
			convey.So(cfg.Exposure.Anchor, convey.ShouldEqual, "first")
			convey.So(cfg.Exposure.Orbit, convey.ShouldEqual, 1)
			convey.So(cfg.Observing.Orbits, convey.ShouldEqual, 5)
			convey.So(cfg.Observing.PointsPerOrbit, convey.ShouldEqual, 100)
			convey.So(cfg.Observing.Sigma, convey.ShouldEqual, 3)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the inclination is derived from the impact parameter", func() {
			inc, err := cfg.InclinationDegrees()
			convey.So(err, convey.ShouldBeNil)
			convey.So(inc, convey.ShouldAlmostEqual, 87.557, 1e-3)
		})

		convey.Convey("Then the observing constants are in days", func() {
			obs := cfg.ObservingConstants()
			convey.So(obs.OrbitPeriod, convey.ShouldAlmostEqual, model.DefaultHSTOrbitPeriod, 1e-15)
			convey.So(obs.VisibilityMinutes, convey.ShouldEqual, 45)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs violating one rule each", t, func() {
		cases := map[string]func(c *config.Config){
			"unknown log level":    func(c *config.Config) { c.LogLevel = "loud" },
			"unknown format":       func(c *config.Config) { c.LogFormat = "xml" },
			"zero period":          func(c *config.Config) { c.System.Period = 0 },
			"radius ratio above 1": func(c *config.Config) { c.System.RadiusRatio = 1.2 },
			"inverted window":      func(c *config.Config) { c.Window.Lower, c.Window.Upper = 0.9, 0.8 },
			"unknown anchor":       func(c *config.Config) { c.Exposure.Anchor = "middle" },
			"orbit beyond visit":   func(c *config.Config) { c.Exposure.Orbit = 6 },
			"single point":         func(c *config.Config) { c.Observing.PointsPerOrbit = 1 },
			"negative sigma":       func(c *config.Config) { c.Observing.Sigma = -1 },
			"bad cutoff date":      func(c *config.Config) { c.CutoffDate = "end of cycle" },
			"grazing geometry":     func(c *config.Config) { c.System.ImpactParameter = 5 },
		}

		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given a window straddling phase zero", t, func() {
		cfg := config.New()
		cfg.Window.Lower, cfg.Window.Upper = -0.05, 0.05

		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}

func TestConfig_Conversions(t *testing.T) {
	convey.Convey("Given a config with a calendar cutoff", t, func() {
		cfg := config.New()
		cfg.CutoffDate = "2016-10-01"

		convey.Convey("Then the date overrides the Julian Date", func() {
			jd, err := cfg.Cutoff()
			convey.So(err, convey.ShouldBeNil)
			convey.So(jd, convey.ShouldAlmostEqual, 2457662.5, 1e-9)
		})
	})

	convey.Convey("Given an explicit inclination", t, func() {
		cfg := config.New()
		cfg.System.Inclination = 89

		convey.Convey("Then it takes precedence over the impact parameter", func() {
			p, err := cfg.SystemParams()
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Inclination, convey.ShouldEqual, 89)
			convey.So(p.Period, convey.ShouldEqual, cfg.System.Period)
			convey.So(p.MidTime, convey.ShouldEqual, cfg.System.MidTime)
		})
	})

	convey.Convey("Given a zero impact parameter", t, func() {
		cfg := config.New()
		cfg.System.ImpactParameter = 0

		convey.Convey("Then the orbit is edge-on", func() {
			inc, err := cfg.InclinationDegrees()
			convey.So(err, convey.ShouldBeNil)
			convey.So(math.Abs(inc-90), convey.ShouldBeLessThan, 1e-12)
		})
	})
}

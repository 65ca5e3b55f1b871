package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/thommevans/hst-prep/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.System.Period, convey.ShouldEqual, 1.2749255)
				convey.So(cfg.Observing.Orbits, convey.ShouldEqual, 5)
				convey.So(cfg.Output, convey.ShouldEqual, "phase_coverage.png")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HSTPREP_LOG_LEVEL", "debug")
			_ = os.Setenv("HSTPREP_SYSTEM__PERIOD", "2.5")
			_ = os.Setenv("HSTPREP_EXPOSURE__ANCHOR", "last")
			_ = os.Setenv("HSTPREP_OBSERVING__ORBITS", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.System.Period, convey.ShouldEqual, 2.5)
				convey.So(cfg.Exposure.Anchor, convey.ShouldEqual, "last")
				convey.So(cfg.Observing.Orbits, convey.ShouldEqual, 4)
				convey.So(cfg.System.RadiusRatio, convey.ShouldEqual, 0.12454) // From defaults
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
output: visit.svg
cutoff_date: "2017-09-30"
system:
  name: HAT-P-1b
  period: 4.4652968
  mid_time: 2454363.94656
window:
  lower: -0.05
  upper: 0.05
exposure:
  anchor: last
  orbit: 2
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("HSTPREP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Output, convey.ShouldEqual, "visit.svg")
				convey.So(cfg.System.Name, convey.ShouldEqual, "HAT-P-1b")
				convey.So(cfg.System.Period, convey.ShouldEqual, 4.4652968)
				convey.So(cfg.Window.Lower, convey.ShouldEqual, -0.05)
				convey.So(cfg.Exposure.Orbit, convey.ShouldEqual, 2)
				convey.So(cfg.Observing.Sigma, convey.ShouldEqual, 3) // From defaults

				jd, err := cfg.Cutoff()
				convey.So(err, convey.ShouldBeNil)
				convey.So(jd, convey.ShouldAlmostEqual, 2458026.5, 1e-9)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "system:\n  period: 3.0\n  radius_ratio: 0.1\n")
			_ = os.Setenv("HSTPREP_CONFIG", tmpFile)
			_ = os.Setenv("HSTPREP_SYSTEM__PERIOD", "3.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.System.Period, convey.ShouldEqual, 3.5)      // Overridden by env
				convey.So(cfg.System.RadiusRatio, convey.ShouldEqual, 0.1) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("HSTPREP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("HSTPREP_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When an env var breaks a constraint", func() {
			_ = os.Setenv("HSTPREP_OBSERVING__POINTS_PER_ORBIT", "1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := config.Load(cctx)

			convey.Convey("Then loading is refused", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// createTempConfigFile writes content to a YAML file that is removed with the test.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hstprep.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// clearConfigEnvVars removes every variable the tests set.
func clearConfigEnvVars() {
	for _, name := range []string{
		"HSTPREP_CONFIG",
		"HSTPREP_LOG_LEVEL",
		"HSTPREP_SYSTEM__PERIOD",
		"HSTPREP_EXPOSURE__ANCHOR",
		"HSTPREP_OBSERVING__ORBITS",
		"HSTPREP_OBSERVING__POINTS_PER_ORBIT",
	} {
		_ = os.Unsetenv(name)
	}
}

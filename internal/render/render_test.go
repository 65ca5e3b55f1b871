package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/thommevans/hst-prep/internal/domain/model"
	"github.com/thommevans/hst-prep/internal/render"
)

func wasp121Plan() model.Plan {
	return model.Plan{
		Ephemeris: model.Ephemeris{MidTime: 2456635.70832, Period: 1.2749255},
		Window:    model.PhaseWindow{Lower: 0.85, Upper: 0.86},
		Exposure:  model.ExposureSpec{Anchor: model.AnchorFirst, Orbit: 1},
		Observing: model.ObservingConstants{
			OrbitPeriod:       model.DefaultHSTOrbitPeriod,
			VisibilityMinutes: 45,
			Orbits:            5,
			PointsPerOrbit:    100,
			Sigma:             3,
		},
		PhaseLow: 0.8492676042639354,
		PhaseUpp: 0.8607323957360645,
	}
}

func coverage() model.Coverage {
	return model.Coverage{
		Plan: wasp121Plan(),
		Full: model.Curve{
			Phases: []float64{0.84, 0.9, 0.95, 1.0, 1.05, 1.1},
			Fluxes: []float64{1, 1, 0.99, 0.985, 0.99, 1},
		},
		Nominal: model.Curve{
			Phases: []float64{0.85, 0.95, 1.0, 1.05},
			Fluxes: []float64{1, 0.99, 0.985, 0.99},
		},
		WorstCase: model.Curve{
			Phases: []float64{0.86, 0.96, 1.01, 1.1},
			Fluxes: []float64{1, 0.987, 0.985, 1},
		},
	}
}

func TestAnnotation(t *testing.T) {
	Convey("Given the WASP-121b plan", t, func() {
		text := render.Annotation(wasp121Plan())

		Convey("Then the assumptions are listed", func() {
			So(text, ShouldStartWith, " Assuming:\n  HST period = 96.36 minutes\n  Visibility = 45.00 minutes")
			So(text, ShouldContainSubstring, "  P = 1.27492550 days\n  T0 = 2456635.70832000")
		})

		Convey("Then the specified window is described", func() {
			So(text, ShouldContainSubstring, "Specified phase range applied\nto first exposure of orbit 1:\n  Lower = 0.85000\n  Upper = 0.86000")
			So(text, ShouldContainSubstring, "\n(19 minute window)")
		})

		Convey("Then the widened range closes the text", func() {
			So(text, ShouldEndWith, "3-sigma plausible range:\n  Phase lower = 0.84927\n  Phase upper = 0.86073")
		})
	})

	Convey("Given a window straddling phase zero", t, func() {
		p := wasp121Plan()
		p.Window = model.PhaseWindow{Lower: -0.02, Upper: 0.02}
		p.Exposure = model.ExposureSpec{Anchor: model.AnchorLast, Orbit: 3}

		text := render.Annotation(p)

		Convey("Then the negative bound is shown normalized", func() {
			So(text, ShouldContainSubstring, "to last exposure of orbit 3:\n  Lower = 0.98000\n  Upper = 0.02000")
			So(strings.Count(text, "minute window"), ShouldEqual, 1)
		})
	})
}

func TestLimits(t *testing.T) {
	Convey("Given a coverage", t, func() {
		xmin, xmax, ymin, ymax := render.Limits(coverage())

		Convey("Then phases span both grids padded by ten percent", func() {
			So(xmin, ShouldAlmostEqual, 0.85-0.025, 1e-12)
			So(xmax, ShouldAlmostEqual, 1.1+0.025, 1e-12)
		})

		Convey("Then flux spans the nominal samples only", func() {
			So(ymin, ShouldAlmostEqual, 0.985-0.0015, 1e-12)
			So(ymax, ShouldAlmostEqual, 1+0.0015, 1e-12)
		})
	})

	Convey("Given flat nominal coverage", t, func() {
		cov := coverage()
		cov.Nominal.Fluxes = []float64{1, 1, 1, 1}
		_, _, ymin, ymax := render.Limits(cov)

		So(ymax, ShouldBeGreaterThan, ymin)
	})
}

func TestPlotRenderer(t *testing.T) {
	Convey("Given a renderer writing into a temp dir", t, func() {
		dir := t.TempDir()
		ctx := context.Background()

		Convey("When rendering a PNG", func() {
			path := filepath.Join(dir, "coverage.png")
			r := render.NewPlotRenderer(path, render.WithSize(0, 0), render.WithFontSize(10), render.WithMarkerRadius(3))
			err := r.Render(ctx, coverage())

			Convey("Then the file is written", func() {
				So(err, ShouldBeNil)
				So(r.Path(), ShouldEqual, path)
				info, err := os.Stat(path)
				So(err, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When building the figure", func() {
			p, err := render.NewPlotRenderer(filepath.Join(dir, "x.svg")).Figure(coverage())

			Convey("Then the axes carry the labels and limits", func() {
				So(err, ShouldBeNil)
				So(p.X.Label.Text, ShouldEqual, "Planet orbital phase")
				So(p.Y.Label.Text, ShouldEqual, "Relative flux")
				xmin, xmax, ymin, ymax := render.Limits(coverage())
				So(p.X.Min, ShouldEqual, xmin)
				So(p.X.Max, ShouldEqual, xmax)
				So(p.Y.Min, ShouldEqual, ymin)
				So(p.Y.Max, ShouldEqual, ymax)
			})
		})

		Convey("When the nominal curve is empty", func() {
			cov := coverage()
			cov.Nominal = model.Curve{}
			err := render.NewPlotRenderer(filepath.Join(dir, "x.png")).Render(ctx, cov)

			Convey("Then ErrRender is returned", func() {
				So(errors.Is(err, render.ErrRender), ShouldBeTrue)
			})
		})

		Convey("When the format is unknown", func() {
			err := render.NewPlotRenderer(filepath.Join(dir, "x.unknown")).Render(ctx, coverage())

			Convey("Then ErrRender is returned", func() {
				So(errors.Is(err, render.ErrRender), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			path := filepath.Join(dir, "never.png")
			err := render.NewPlotRenderer(path).Render(cctx, coverage())

			Convey("Then nothing is written", func() {
				So(errors.Is(err, render.ErrRender), ShouldBeTrue)
				_, statErr := os.Stat(path)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})
}

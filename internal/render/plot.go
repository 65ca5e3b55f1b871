// Package render draws the phase-coverage figure of a planned visit.
package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/thommevans/hst-prep/internal/domain/model"
)

// ErrRender is returned when the figure cannot be built or written.
var ErrRender = errors.New("render failed")

// Figure defaults, in the units gonum/plot expects.
const (
	defaultWidth    = 14 * vg.Inch
	defaultHeight   = 6 * vg.Inch
	defaultFontSize = 14
	defaultMarker   = 4

	axisPadding = 0.1
	textX       = 0.03
	textY       = 0.8
)

// Colours of the figure elements.
var (
	curveColor   = color.Black
	nominalColor = color.RGBA{R: 0, G: 191, B: 191, A: 255}
	worstColor   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Option configures a PlotRenderer.
type Option func(*PlotRenderer)

// WithSize sets the figure size.
func WithSize(width, height vg.Length) Option {
	return func(r *PlotRenderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithFontSize sets the annotation font size in points.
func WithFontSize(points float64) Option {
	return func(r *PlotRenderer) {
		if points > 0 {
			r.fontSize = vg.Points(points)
		}
	}
}

// WithMarkerRadius sets the radius of the nominal sample markers. Worst-case
// markers are drawn at half this radius.
func WithMarkerRadius(points float64) Option {
	return func(r *PlotRenderer) {
		if points > 0 {
			r.marker = vg.Points(points)
		}
	}
}

// PlotRenderer writes coverage figures to a file. The file extension selects
// the image format (png, svg, pdf, ...).
type PlotRenderer struct {
	path     string
	width    vg.Length
	height   vg.Length
	fontSize vg.Length
	marker   vg.Length
}

// NewPlotRenderer returns a renderer writing to path.
func NewPlotRenderer(path string, opts ...Option) *PlotRenderer {
	r := &PlotRenderer{
		path:     path,
		width:    defaultWidth,
		height:   defaultHeight,
		fontSize: vg.Points(defaultFontSize),
		marker:   vg.Points(defaultMarker),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the output file of the renderer.
func (r *PlotRenderer) Path() string { return r.path }

// Render draws cov and saves it to the renderer's path.
func (r *PlotRenderer) Render(ctx context.Context, cov model.Coverage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	p, err := r.Figure(cov)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := p.Save(r.width, r.height, r.path); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrRender, r.path, err)
	}
	return nil
}

// Figure builds the coverage plot: the dense model curve, nominal samples and
// worst-case samples against orbital phase, with the plan annotation.
func (r *PlotRenderer) Figure(cov model.Coverage) (*plot.Plot, error) {
	if len(cov.Nominal.Phases) == 0 || len(cov.Nominal.Phases) != len(cov.Nominal.Fluxes) {
		return nil, fmt.Errorf("%w: nominal curve has %d phases and %d fluxes", ErrRender, len(cov.Nominal.Phases), len(cov.Nominal.Fluxes))
	}
	if len(cov.WorstCase.Phases) != len(cov.WorstCase.Fluxes) || len(cov.Full.Phases) != len(cov.Full.Fluxes) {
		return nil, fmt.Errorf("%w: curve lengths differ", ErrRender)
	}

	p := plot.New()
	p.X.Label.Text = "Planet orbital phase"
	p.Y.Label.Text = "Relative flux"

	if len(cov.Full.Phases) > 0 {
		line, err := plotter.NewLine(xys(cov.Full))
		if err != nil {
			return nil, fmt.Errorf("%w: model curve: %v", ErrRender, err)
		}
		line.LineStyle.Color = curveColor
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
	}

	nominal, err := r.scatter(cov.Nominal, nominalColor, r.marker)
	if err != nil {
		return nil, err
	}
	p.Add(nominal)

	if len(cov.WorstCase.Phases) > 0 {
		worst, err := r.scatter(cov.WorstCase, worstColor, r.marker/2)
		if err != nil {
			return nil, err
		}
		p.Add(worst)
	}

	xmin, xmax, ymin, ymax := Limits(cov)

	text, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: xmin + textX*(xmax-xmin), Y: ymin + textY*(ymax-ymin)}},
		Labels: []string{Annotation(cov.Plan)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: annotation: %v", ErrRender, err)
	}
	text.TextStyle[0].Font.Size = r.fontSize
	text.TextStyle[0].XAlign = draw.XLeft
	text.TextStyle[0].YAlign = draw.YTop
	p.Add(text)

	// Axis limits are set last so the plotters above cannot widen them.
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax

	return p, nil
}

func (r *PlotRenderer) scatter(c model.Curve, col color.Color, radius vg.Length) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys(c))
	if err != nil {
		return nil, fmt.Errorf("%w: samples: %v", ErrRender, err)
	}
	s.GlyphStyle = draw.GlyphStyle{Color: col, Radius: radius, Shape: draw.CircleGlyph{}}
	return s, nil
}

// Limits returns the axis limits of the figure. The phase axis spans both
// sample grids and the flux axis spans the nominal samples, each padded by
// ten percent of its range. All zeros are returned for an empty nominal curve.
func Limits(cov model.Coverage) (xmin, xmax, ymin, ymax float64) {
	phases := cov.Nominal.Phases
	if len(phases) == 0 || len(cov.Nominal.Fluxes) == 0 {
		return 0, 0, 0, 0
	}
	xmin, xmax = floats.Min(phases), floats.Max(phases)
	if len(cov.WorstCase.Phases) > 0 {
		xmin = min(xmin, floats.Min(cov.WorstCase.Phases))
		xmax = max(xmax, floats.Max(cov.WorstCase.Phases))
	}
	dx := xmax - xmin

	ymin, ymax = floats.Min(cov.Nominal.Fluxes), floats.Max(cov.Nominal.Fluxes)
	dy := ymax - ymin
	if dy == 0 {
		// Flat out-of-transit coverage.
		dy = 1e-3
	}
	return xmin - axisPadding*dx, xmax + axisPadding*dx, ymin - axisPadding*dy, ymax + axisPadding*dy
}

func xys(c model.Curve) plotter.XYs {
	pts := make(plotter.XYs, len(c.Phases))
	for i := range c.Phases {
		pts[i].X = c.Phases[i]
		pts[i].Y = c.Fluxes[i]
	}
	return pts
}

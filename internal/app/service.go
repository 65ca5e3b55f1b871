// Package service wires the planner, the light-curve model and the figure
// renderer into a single visit-planning run.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/thommevans/hst-prep/internal/domain/lightcurve"
	"github.com/thommevans/hst-prep/internal/domain/model"
	"github.com/thommevans/hst-prep/internal/domain/planner"
	"github.com/thommevans/hst-prep/pkg/logger"
	"github.com/thommevans/hst-prep/pkg/metrics"
)

const (
	defaultFullSpanPoints = 1000

	// errKindModel labels light-curve failures in the error metrics.
	errKindModel = "light_curve"
)

// ErrModel wraps failures of the light-curve model.
var ErrModel = errors.New("light curve evaluation failed")

// Renderer presents a computed coverage, e.g. as a figure on disk.
type Renderer interface {
	Render(ctx context.Context, cov model.Coverage) error
}

// Request carries the inputs of one run.
type Request struct {
	System      model.SystemParams
	Uncertainty model.Uncertainty
	Window      model.PhaseWindow
	Exposure    model.ExposureSpec
	Observing   model.ObservingConstants
	Cutoff      float64
}

// Service runs the planning pipeline end to end.
type Service struct {
	mu sync.Mutex

	planner  *planner.Planner
	model    lightcurve.Model
	renderer Renderer
	metrics  *metrics.Manager

	fullSpanPoints int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPlanner replaces the default planner.
func WithPlanner(p *planner.Planner) Option {
	return func(s *Service) {
		if p != nil {
			s.planner = p
		}
	}
}

// WithModel replaces the default uniform-source light-curve model.
func WithModel(m lightcurve.Model) Option {
	return func(s *Service) {
		if m != nil {
			s.model = m
		}
	}
}

// WithRenderer sets the renderer. Without one, Run skips presentation.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithMetrics records run metrics on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithFullSpanPoints sets the number of samples in the dense reference curve.
func WithFullSpanPoints(n int) Option {
	return func(s *Service) {
		if n >= 2 {
			s.fullSpanPoints = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		planner:        planner.New(),
		model:          lightcurve.NewUniform(),
		metrics:        metrics.Default(),
		fullSpanPoints: defaultFullSpanPoints,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) log() logger.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s.logger
}

// Run plans the visit, evaluates the light curve on the sample grids and a
// dense span covering both, estimates the transit duration and renders the
// result when a renderer is configured. The coverage is returned even when
// only rendering fails.
func (s *Service) Run(ctx context.Context, req Request) (model.Coverage, error) {
	log := s.log()

	started := time.Now()
	plan, err := s.planner.Plan(ctx, planner.Request{
		Ephemeris:   req.System.Ephemeris,
		Uncertainty: req.Uncertainty,
		Window:      req.Window,
		Exposure:    req.Exposure,
		Observing:   req.Observing,
		Cutoff:      req.Cutoff,
	})
	if err != nil {
		s.metrics.RecordPlanError(planner.Kind(err))
		log.Error(ctx, "planning failed", logger.Error(err), logger.String("kind", planner.Kind(err)))
		return model.Coverage{}, fmt.Errorf("plan visit: %w", err)
	}
	s.metrics.RecordPlan(
		float64(time.Since(started).Microseconds())/1000,
		plan.Nominal.Len()+plan.WorstCase.Len(),
		plan.ElapsedOrbits,
		plan.TimingUncertainty*model.MinutesPerDay,
		plan.Slack*model.MinutesPerDay,
	)

	log = log.With(logger.String("plan_id", plan.ID))
	log.Info(ctx, "planned visit",
		logger.Float64("mid_time", plan.MidTime),
		logger.Int("elapsed_orbits", plan.ElapsedOrbits),
		logger.Float64("phase_low", plan.PhaseLow),
		logger.Float64("phase_upp", plan.PhaseUpp),
		logger.Float64("start", plan.Start),
		logger.Float64("slack_minutes", plan.Slack*model.MinutesPerDay),
	)

	cov, err := s.evaluate(ctx, plan, req.System)
	if err != nil {
		s.metrics.RecordPlanError(errKindModel)
		log.Error(ctx, "light curve evaluation failed", logger.Error(err))
		return model.Coverage{}, err
	}

	dur, err := planner.TransitDuration(cov.Full.Times, cov.Full.Fluxes)
	if err != nil {
		return model.Coverage{}, fmt.Errorf("transit duration: %w", err)
	}
	cov.TransitDuration = dur
	s.metrics.UpdateTransitDuration(dur * model.MinutesPerDay)
	log.Info(ctx, fmt.Sprintf("Transit duration = %.2f days = %.0f minutes", dur, dur*model.MinutesPerDay))

	if s.renderer == nil {
		return cov, nil
	}
	started = time.Now()
	err = s.renderer.Render(ctx, cov)
	s.metrics.RecordRender(float64(time.Since(started).Microseconds())/1000, err == nil)
	if err != nil {
		log.Error(ctx, "render failed", logger.Error(err))
		return cov, fmt.Errorf("render coverage: %w", err)
	}
	log.Debug(ctx, "rendered coverage")
	return cov, nil
}

// evaluate computes the nominal, worst-case and dense model curves
// concurrently.
func (s *Service) evaluate(ctx context.Context, plan model.Plan, sys model.SystemParams) (model.Coverage, error) {
	full := make([]float64, s.fullSpanPoints)
	floats.Span(full, floats.Min(plan.Nominal.Times), floats.Max(plan.WorstCase.Times))

	cov := model.Coverage{
		Plan:      plan,
		Full:      model.Curve{Times: full, Phases: planner.ToOrbitalPhase(full, plan.MidTime, plan.Ephemeris.Period)},
		Nominal:   model.Curve{Times: plan.Nominal.Times, Phases: plan.Nominal.Phases},
		WorstCase: model.Curve{Times: plan.WorstCase.Times, Phases: plan.WorstCase.Phases},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range []*model.Curve{&cov.Full, &cov.Nominal, &cov.WorstCase} {
		c := c
		g.Go(func() error {
			fluxes, err := s.model.LightCurve(gctx, c.Times, sys)
			if err != nil {
				return err
			}
			if len(fluxes) != len(c.Times) {
				return fmt.Errorf("%w: %d fluxes for %d times", planner.ErrLengthMismatch, len(fluxes), len(c.Times))
			}
			c.Fluxes = fluxes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Coverage{}, fmt.Errorf("%w: %w", ErrModel, err)
	}
	s.metrics.RecordModelEvaluation(len(cov.Full.Times) + len(cov.Nominal.Times) + len(cov.WorstCase.Times))

	return cov, nil
}

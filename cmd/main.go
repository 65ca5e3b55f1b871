package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	app "github.com/thommevans/hst-prep/internal/app"
	"github.com/thommevans/hst-prep/internal/config"
	"github.com/thommevans/hst-prep/internal/domain/model"
	"github.com/thommevans/hst-prep/internal/render"
	"github.com/thommevans/hst-prep/pkg/astrotime"
	"github.com/thommevans/hst-prep/pkg/logger"
	"github.com/thommevans/hst-prep/pkg/metrics"
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := run(ctx)
	_ = logger.Sync()
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to set log format: " + err.Error() + "\n")
		return 1
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	req, err := buildRequest(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "invalid configuration", logger.Error(err))
		return 1
	}

	mm := metrics.Default()
	if cfg.System.Name != "" {
		mm = metrics.NewManager(metrics.WithConstLabels(map[string]string{"target": cfg.System.Name}))
	}

	svc := app.New(
		app.WithLogger(loggerInstance.Named("service")),
		app.WithRenderer(render.NewPlotRenderer(cfg.Output)),
		app.WithMetrics(mm),
		app.WithFullSpanPoints(cfg.FullSpanPoints),
	)

	loggerInstance.Info(ctx, "planning visit",
		logger.String("target", cfg.System.Name),
		logger.Float64("cutoff_jd", req.Cutoff),
		logger.String("cutoff", astrotime.Time(req.Cutoff).Format("2006-01-02 15:04:05")),
		logger.String("output", cfg.Output),
	)

	cov, runErr := svc.Run(ctx, req)

	if cfg.MetricsFile != "" {
		if err := mm.WriteTextfile(cfg.MetricsFile); err != nil {
			loggerInstance.Warn(ctx, "failed to export metrics", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}

	if runErr != nil {
		loggerInstance.Error(ctx, "run failed", logger.Error(runErr))
		return 1
	}

	fmt.Println(render.Annotation(cov.Plan))
	fmt.Printf("\nTransit duration = %.2f days = %.0f minutes\n", cov.TransitDuration, cov.TransitDuration*model.MinutesPerDay)
	fmt.Printf("Earliest start = %.5f (%s)\n", cov.Plan.Start, astrotime.Time(cov.Plan.Start).Format("2006-01-02 15:04:05"))
	fmt.Printf("Figure written to %s\n", cfg.Output)
	return 0
}

// buildRequest converts the loaded configuration into a service request.
func buildRequest(cfg *config.Config) (app.Request, error) {
	sys, err := cfg.SystemParams()
	if err != nil {
		return app.Request{}, err
	}
	cutoff, err := cfg.Cutoff()
	if err != nil {
		return app.Request{}, err
	}
	return app.Request{
		System:      sys,
		Uncertainty: model.Uncertainty{MidTime: cfg.Uncertainty.MidTime, Period: cfg.Uncertainty.Period},
		Window:      model.PhaseWindow{Lower: cfg.Window.Lower, Upper: cfg.Window.Upper},
		Exposure:    model.ExposureSpec{Anchor: model.Anchor(cfg.Exposure.Anchor), Orbit: cfg.Exposure.Orbit},
		Observing:   cfg.ObservingConstants(),
		Cutoff:      cutoff,
	}, nil
}

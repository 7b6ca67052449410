package app

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/common"
	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/handlers"
	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/interfaces"
	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/services/scheduler"
	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/services/substances"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Services
	SubstanceService interfaces.SubstanceService
	SchedulerService *scheduler.Service

	// Handlers
	SubstanceHandler *handlers.SubstanceHandler
	APIHandler       *handlers.APIHandler
}

// New wires up services and handlers from the loaded configuration.
func New(ctx context.Context, config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	substanceService := substances.NewService(config, logger)
	a.SubstanceService = substanceService

	a.SubstanceHandler = handlers.NewSubstanceHandler(a.SubstanceService, logger)
	a.APIHandler = handlers.NewAPIHandler()

	// Initial warm so the first request doesn't pay the index build. A
	// failure here is logged, not fatal: the content directory may appear
	// after deployment, and every query retries the rebuild anyway.
	if err := a.SubstanceService.Warm(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial substance cache warm failed")
	} else {
		stats := a.SubstanceService.Stats()
		logger.Info().
			Int("documents", stats.DocumentCount).
			Str("dir", config.Content.SubstancesDir).
			Msg("Substance corpus loaded")
	}

	if config.Scheduler.Enabled {
		a.SchedulerService = scheduler.NewService(a.SubstanceService, logger)
		if err := a.SchedulerService.Start(config.Scheduler.Schedule); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Close stops background services.
func (a *App) Close() {
	if a.SchedulerService != nil {
		a.SchedulerService.Stop()
	}
}

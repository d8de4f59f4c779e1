package main

import (
	"fmt"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/amaumene/streamfr/internal/api"
	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/controllers"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/scheduler"
	"github.com/amaumene/streamfr/internal/services/streaming"
	"github.com/amaumene/streamfr/internal/services/tmdb"
	"github.com/amaumene/streamfr/internal/utils"
)

// App holds the wired components used by the commands
type App struct {
	Config       *config.Config
	Database     *models.Database
	Streaming    *streaming.Client
	TMDB         *tmdb.Client
	Availability *controllers.AvailabilityController
	Cache        *controllers.CacheController
	Scheduler    *scheduler.Scheduler
	Server       *api.Server
}

var providerSet = wire.NewSet(
	provideDatabase,
	provideAllowList,
	streaming.NewClient,
	streaming.NewAdapter,
	tmdb.NewClient,
	tmdb.NewAdapter,
	provideAvailabilityController,
	provideCacheController,
	provideScheduler,
	api.NewServer,
	wire.Struct(new(App), "*"),
)

func provideDatabase(cfg *config.Config, logger zerolog.Logger) (*models.Database, func(), error) {
	db, err := models.NewDatabase(cfg.DatabaseFile, cfg.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Debug().Str("path", cfg.DatabaseFile).Msg("Database initialized")

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
	return db, cleanup, nil
}

// provideAllowList falls back to the built-in rules when the file is unreadable
func provideAllowList(cfg *config.Config, logger zerolog.Logger) *utils.AllowList {
	allowList, err := utils.LoadAllowList(cfg.AddonListFile)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.AddonListFile).Msg("Failed to load addon allow-list, using defaults")
		return utils.NewAllowList(utils.DefaultAddonRules)
	}
	logger.Debug().Int("rules", allowList.Len()).Msg("Addon allow-list loaded")
	return allowList
}

func provideAvailabilityController(cfg *config.Config, db *models.Database, primary *streaming.Adapter, secondary *tmdb.Adapter, logger zerolog.Logger) *controllers.AvailabilityController {
	return controllers.NewAvailabilityController(db, primary, secondary, cfg.AdapterTimeout, logger)
}

func provideCacheController(db *models.Database, logger zerolog.Logger) *controllers.CacheController {
	return controllers.NewCacheController(db, logger)
}

func provideScheduler(cfg *config.Config, cacheCtrl *controllers.CacheController, logger zerolog.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(cacheCtrl, cfg.StatsSchedule, logger)
}

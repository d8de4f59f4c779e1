package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amaumene/streamfr/internal/api/handlers"
	"github.com/amaumene/streamfr/internal/api/middleware"
	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/controllers"
	"github.com/amaumene/streamfr/internal/services/tmdb"
)

// Server represents the HTTP server
type Server struct {
	app              *fiber.App
	addr             string
	availabilityCtrl *controllers.AvailabilityController
	cacheCtrl        *controllers.CacheController
	tmdbClient       *tmdb.Client
	logger           zerolog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, availabilityCtrl *controllers.AvailabilityController, cacheCtrl *controllers.CacheController, tmdbClient *tmdb.Client, logger zerolog.Logger) *Server {
	s := &Server{
		addr:             ":" + cfg.ServerPort,
		availabilityCtrl: availabilityCtrl,
		cacheCtrl:        cacheCtrl,
		tmdbClient:       tmdbClient,
		logger:           logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "streamfr",
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
	})
	s.app.Use(recover.New())
	s.app.Use(middleware.Logging(logger))

	s.setupRoutes(cfg)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg *config.Config) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	s.app.Get("/health", healthHandler.Handle)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.cacheCtrl, cfg.CacheTTL, s.logger)
	s.app.Get("/status", statusHandler.Handle)

	// Prometheus metrics
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes := s.app.Group("/api")

	// Availability lookups
	var metadata handlers.MetadataProvider
	if s.tmdbClient != nil {
		metadata = s.tmdbClient
	}
	availabilityHandler := handlers.NewAvailabilityHandler(s.availabilityCtrl, metadata, s.logger)
	routes.Get("/availability/:mediaType/:titleId", availabilityHandler.Handle)

	// Cache administration
	cacheHandler := handlers.NewCacheHandler(s.cacheCtrl, s.logger)
	routes.Delete("/cache", cacheHandler.ClearAll)
	routes.Delete("/cache/:titleId", cacheHandler.ClearTitle)
}

// App exposes the fiber application, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server and blocks until ctx is done
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("port", s.addr).Msg("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}

package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/amaumene/streamfr/internal/models"
)

// StatsProvider returns cache statistics
type StatsProvider interface {
	Stats(ctx context.Context) (*models.CacheStats, error)
}

// StatusHandler handles status requests
type StatusHandler struct {
	stats     StatsProvider
	freshness time.Duration
	logger    zerolog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(stats StatsProvider, freshness time.Duration, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		stats:     stats,
		freshness: freshness,
		logger:    logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Records       int64      `json:"records"`
	Groups        int        `json:"groups"`
	StaleGroups   int        `json:"stale_groups"`
	FreshnessDays float64    `json:"freshness_days"`
	Oldest        *time.Time `json:"oldest,omitempty"`
	Newest        *time.Time `json:"newest,omitempty"`
}

// Handle serves the status endpoint
func (h *StatusHandler) Handle(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute cache statistics")
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(StatusResponse{
		Records:       stats.Records,
		Groups:        stats.Groups,
		StaleGroups:   stats.StaleGroups,
		FreshnessDays: h.freshness.Hours() / 24,
		Oldest:        stats.Oldest,
		Newest:        stats.Newest,
	})
}

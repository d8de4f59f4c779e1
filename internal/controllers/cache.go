package controllers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/amaumene/streamfr/internal/metrics"
	"github.com/amaumene/streamfr/internal/models"
)

// CacheStore is the administrative side of the availability cache
type CacheStore interface {
	ClearAll(ctx context.Context) (int64, error)
	ClearGroup(ctx context.Context, titleID int) (int64, error)
	Stats(ctx context.Context) (*models.CacheStats, error)
}

// CacheController handles administrative cache operations
type CacheController struct {
	store  CacheStore
	logger zerolog.Logger
}

// NewCacheController creates a new cache controller
func NewCacheController(store CacheStore, logger zerolog.Logger) *CacheController {
	return &CacheController{
		store:  store,
		logger: logger,
	}
}

// ClearAll removes every cached record
func (c *CacheController) ClearAll(ctx context.Context) (int64, error) {
	c.logger.Info().Msg("Clearing availability cache")

	deleted, err := c.store.ClearAll(ctx)
	if err != nil {
		return 0, err
	}

	c.logger.Info().Int64("deleted", deleted).Msg("Availability cache cleared")
	c.refreshGauges(ctx)
	return deleted, nil
}

// ClearGroup removes the cached records of one title, movie and tv alike
func (c *CacheController) ClearGroup(ctx context.Context, titleID int) (int64, error) {
	if titleID <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTitleID, titleID)
	}

	deleted, err := c.store.ClearGroup(ctx, titleID)
	if err != nil {
		return 0, err
	}

	c.logger.Info().Int("title_id", titleID).Int64("deleted", deleted).Msg("Cleared cached title")
	c.refreshGauges(ctx)
	return deleted, nil
}

// Stats returns the cache statistics
func (c *CacheController) Stats(ctx context.Context) (*models.CacheStats, error) {
	return c.store.Stats(ctx)
}

// RefreshGauges recomputes the cache statistics and publishes them as metrics
func (c *CacheController) RefreshGauges(ctx context.Context) error {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute cache stats: %w", err)
	}

	metrics.CacheRecords.Set(float64(stats.Records))
	metrics.CacheGroups.Set(float64(stats.Groups))
	metrics.CacheStaleGroups.Set(float64(stats.StaleGroups))

	c.logger.Debug().
		Int64("records", stats.Records).
		Int("groups", stats.Groups).
		Int("stale_groups", stats.StaleGroups).
		Msg("Cache statistics refreshed")
	return nil
}

func (c *CacheController) refreshGauges(ctx context.Context) {
	if err := c.RefreshGauges(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to refresh cache statistics")
	}
}

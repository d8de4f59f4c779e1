package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CacheAdmin clears cached availabilities
type CacheAdmin interface {
	ClearAll(ctx context.Context) (int64, error)
	ClearGroup(ctx context.Context, titleID int) (int64, error)
}

// CacheHandler handles cache administration requests
type CacheHandler struct {
	admin  CacheAdmin
	logger zerolog.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(admin CacheAdmin, logger zerolog.Logger) *CacheHandler {
	return &CacheHandler{
		admin:  admin,
		logger: logger,
	}
}

// ClearAll serves DELETE /api/cache
func (h *CacheHandler) ClearAll(c *fiber.Ctx) error {
	deleted, err := h.admin.ClearAll(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear cache")
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// ClearTitle serves DELETE /api/cache/:titleId
func (h *CacheHandler) ClearTitle(c *fiber.Ctx) error {
	titleID, err := strconv.Atoi(c.Params("titleId"))
	if err != nil || titleID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid title id: "+c.Params("titleId"))
	}

	deleted, err := h.admin.ClearGroup(c.UserContext(), titleID)
	if err != nil {
		h.logger.Error().Err(err).Int("title_id", titleID).Msg("Failed to clear cached title")
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

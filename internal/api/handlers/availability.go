package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/amaumene/streamfr/internal/controllers"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/services/tmdb"
)

// AvailabilityService answers availability lookups
type AvailabilityService interface {
	GetAvailability(ctx context.Context, titleID int, mediaType models.MediaType, countries []string, force bool) (*controllers.AvailabilityResult, error)
}

// MetadataProvider returns display metadata for a title
type MetadataProvider interface {
	GetTitleDetails(ctx context.Context, titleID int, mediaType models.MediaType) (*tmdb.TitleDetails, error)
}

// AvailabilityHandler handles availability lookups
type AvailabilityHandler struct {
	service  AvailabilityService
	metadata MetadataProvider
	logger   zerolog.Logger
}

// NewAvailabilityHandler creates a new availability handler. metadata may be nil.
func NewAvailabilityHandler(service AvailabilityService, metadata MetadataProvider, logger zerolog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service:  service,
		metadata: metadata,
		logger:   logger,
	}
}

// AvailabilityResponse is the body of a successful lookup
type AvailabilityResponse struct {
	TitleID        int                   `json:"title_id"`
	MediaType      models.MediaType      `json:"media_type"`
	Cached         bool                  `json:"cached"`
	Count          int                   `json:"count"`
	Metadata       *tmdb.TitleDetails    `json:"metadata,omitempty"`
	Availabilities []models.Availability `json:"availabilities"`
}

// Handle serves GET /api/availability/:mediaType/:titleId
func (h *AvailabilityHandler) Handle(c *fiber.Ctx) error {
	mediaType, err := models.ParseMediaType(c.Params("mediaType"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	titleID, err := strconv.Atoi(c.Params("titleId"))
	if err != nil || titleID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, controllers.ErrInvalidTitleID.Error()+": "+c.Params("titleId"))
	}

	countries := ParseCountries(c.Query("countries"))
	force := c.QueryBool("refresh", false)

	ctx := c.UserContext()
	result, err := h.service.GetAvailability(ctx, titleID, mediaType, countries, force)
	if err != nil {
		if errors.Is(err, controllers.ErrInvalidTitleID) || errors.Is(err, models.ErrInvalidMediaType) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Int("title_id", titleID).Str("media_type", string(mediaType)).Msg("Availability lookup failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	response := AvailabilityResponse{
		TitleID:        titleID,
		MediaType:      mediaType,
		Cached:         result.Cached,
		Count:          len(result.Availabilities),
		Availabilities: result.Availabilities,
	}
	if response.Availabilities == nil {
		response.Availabilities = []models.Availability{}
	}

	if h.metadata != nil {
		details, err := h.metadata.GetTitleDetails(ctx, titleID, mediaType)
		if err != nil {
			h.logger.Debug().Err(err).Int("title_id", titleID).Msg("Metadata unavailable")
		} else {
			response.Metadata = details
		}
	}

	return c.JSON(response)
}

// ParseCountries splits a comma separated country list, dropping blanks
func ParseCountries(raw string) []string {
	var countries []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			countries = append(countries, part)
		}
	}
	return countries
}

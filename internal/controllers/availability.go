package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/amaumene/streamfr/internal/metrics"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/reference"
	"github.com/amaumene/streamfr/internal/utils"
)

// ErrInvalidTitleID is returned for title ids that are not positive
var ErrInvalidTitleID = errors.New("invalid title id")

// DefaultAdapterTimeout bounds each source fetch when none is configured
const DefaultAdapterTimeout = 8 * time.Second

// Lookup origins
const (
	originCache   = "cache"
	originRefresh = "refresh"
	originShared  = "shared"
)

var tracer = otel.Tracer("github.com/amaumene/streamfr/internal/controllers")

// AvailabilitySource is an upstream adapter. Records never fails: an
// unreachable or unknown title yields no records.
type AvailabilitySource interface {
	Source() models.Source
	Records(ctx context.Context, titleID int, mediaType models.MediaType) []models.Availability
}

// AvailabilityStore is the cache the controller reads and refreshes
type AvailabilityStore interface {
	GetFreshness(ctx context.Context, titleID int, mediaType models.MediaType) (time.Time, bool, error)
	IsFresh(updatedAt time.Time) bool
	GetAvailabilities(ctx context.Context, titleID int, mediaType models.MediaType, countries []string) ([]models.Availability, error)
	ReplaceAll(ctx context.Context, titleID int, mediaType models.MediaType, records []models.Availability) error
}

// AvailabilityResult is returned to callers
type AvailabilityResult struct {
	Availabilities []models.Availability
	Cached         bool
}

// AvailabilityController serves availability lookups from the cache and
// refreshes stale groups from the upstream sources
type AvailabilityController struct {
	store     AvailabilityStore
	primary   AvailabilitySource
	secondary AvailabilitySource
	timeout   time.Duration
	inflight  singleflight.Group
	logger    zerolog.Logger
}

// NewAvailabilityController creates a new availability controller. primary
// wins over secondary when both report the same offer.
func NewAvailabilityController(store AvailabilityStore, primary, secondary AvailabilitySource, timeout time.Duration, logger zerolog.Logger) *AvailabilityController {
	if timeout <= 0 {
		timeout = DefaultAdapterTimeout
	}
	return &AvailabilityController{
		store:     store,
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		logger:    logger,
	}
}

// GetAvailability returns the sorted availabilities of a title, optionally
// restricted to countries. The cache is used while fresh unless force is set.
func (c *AvailabilityController) GetAvailability(ctx context.Context, titleID int, mediaType models.MediaType, countries []string, force bool) (*AvailabilityResult, error) {
	if titleID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTitleID, titleID)
	}
	if _, err := models.ParseMediaType(string(mediaType)); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "availability.Get")
	defer span.End()
	span.SetAttributes(
		attribute.Int("title_id", titleID),
		attribute.String("media_type", string(mediaType)),
		attribute.Bool("force", force),
	)

	logger := utils.TraceLogger(ctx, c.logger).With().
		Int("title_id", titleID).
		Str("media_type", string(mediaType)).
		Logger()

	if !force {
		if records, ok := c.readFresh(ctx, logger, titleID, mediaType, countries); ok {
			metrics.Lookups.WithLabelValues(originCache).Inc()
			span.SetAttributes(attribute.Bool("cached", true))
			return &AvailabilityResult{Availabilities: SortAvailabilities(records), Cached: true}, nil
		}
	}

	key := fmt.Sprintf("%s:%d", mediaType, titleID)
	// The refresh outlives a caller that gives up so that waiting callers
	// and the cache still get its result.
	ch := c.inflight.DoChan(key, func() (interface{}, error) {
		return c.refresh(context.WithoutCancel(ctx), logger, titleID, mediaType), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	origin := originRefresh
	if res.Shared {
		origin = originShared
	}
	metrics.Lookups.WithLabelValues(origin).Inc()
	span.SetAttributes(attribute.Bool("cached", false), attribute.Bool("shared", res.Shared))

	records := filterCountries(res.Val.([]models.Availability), countries)
	return &AvailabilityResult{Availabilities: SortAvailabilities(records), Cached: false}, nil
}

// readFresh returns the cached group when it exists and is fresh. Store
// errors are logged and treated as a miss.
func (c *AvailabilityController) readFresh(ctx context.Context, logger zerolog.Logger, titleID int, mediaType models.MediaType, countries []string) ([]models.Availability, bool) {
	updatedAt, found, err := c.store.GetFreshness(ctx, titleID, mediaType)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read cache freshness")
		return nil, false
	}
	if !found || !c.store.IsFresh(updatedAt) {
		logger.Debug().Bool("found", found).Time("updated_at", updatedAt).Msg("Cache miss")
		return nil, false
	}

	records, err := c.store.GetAvailabilities(ctx, titleID, mediaType, countries)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read cached availabilities")
		return nil, false
	}
	return records, true
}

// refresh fetches both sources, merges them and replaces the cached group.
// It returns the merged records even when the cache write fails.
func (c *AvailabilityController) refresh(ctx context.Context, logger zerolog.Logger, titleID int, mediaType models.MediaType) []models.Availability {
	ctx, span := tracer.Start(ctx, "availability.Refresh")
	defer span.End()

	start := time.Now()
	primary, secondary := c.fetchAll(ctx, titleID, mediaType)
	merged := Merge(primary, secondary)

	// an empty refresh usually means both upstreams are down; keep what is cached
	if len(merged) == 0 {
		logger.Warn().Dur("duration", time.Since(start)).Msg("No availabilities from any source, cache left untouched")
		return merged
	}

	if err := c.store.ReplaceAll(ctx, titleID, mediaType, merged); err != nil {
		metrics.CacheWriteFailures.Inc()
		span.RecordError(err)
		logger.Error().Err(err).Int("records", len(merged)).Msg("Failed to cache availabilities")
		return merged
	}

	logger.Info().
		Int("primary", len(primary)).
		Int("secondary", len(secondary)).
		Int("merged", len(merged)).
		Dur("duration", time.Since(start)).
		Msg("Refreshed availabilities")

	stored, err := c.store.GetAvailabilities(ctx, titleID, mediaType, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read back cached availabilities")
		return merged
	}
	return stored
}

// fetchAll queries both sources concurrently, each within its own timeout
func (c *AvailabilityController) fetchAll(ctx context.Context, titleID int, mediaType models.MediaType) ([]models.Availability, []models.Availability) {
	sources := []AvailabilitySource{c.primary, c.secondary}
	results := make([][]models.Availability, len(sources))

	var g errgroup.Group
	for i, source := range sources {
		i, source := i, source
		if source == nil {
			continue
		}
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			results[i] = source.Records(fetchCtx, titleID, mediaType)
			return nil
		})
	}
	_ = g.Wait()

	return results[0], results[1]
}

func filterCountries(records []models.Availability, countries []string) []models.Availability {
	if len(countries) == 0 {
		return records
	}

	wanted := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		if code := reference.NormalizeCode(c); code != "" {
			wanted[code] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return records
	}

	filtered := make([]models.Availability, 0, len(records))
	for _, r := range records {
		if _, ok := wanted[reference.NormalizeCode(r.CountryCode)]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/metrics"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/utils"
)

// ErrNotFound is returned when TMDB does not know the title
var ErrNotFound = errors.New("title not found on TMDB")

const (
	sourceName       = string(models.SourceTMDB)
	metadataLanguage = "fr-FR"
	imageBaseURL     = "https://image.tmdb.org/t/p/"
)

var tracer = otel.Tracer("github.com/amaumene/streamfr/internal/services/tmdb")

// Client handles communication with the TMDB API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metadata   *cache.Cache
	logger     zerolog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	ttl := cfg.MetadataTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.TMDBBaseURL, "/"),
		apiKey:     cfg.TMDBAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		metadata:   cache.New(ttl, 2*ttl),
		logger:     logger.With().Str("source", sourceName).Logger(),
	}
}

// usesBearer reports whether the key is a v4 read access token
func (c *Client) usesBearer() bool {
	return strings.HasPrefix(c.apiKey, "eyJ")
}

// doRequest performs an authenticated GET against the TMDB API
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	if !c.usesBearer() {
		params.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	c.logger.Debug().Str("path", path).Msg("Making TMDB API request")

	return utils.Retry(ctx, c.logger, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if c.usesBearer() {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &utils.StatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
		}

		// decode errors are final, so result is never decoded into twice
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	})
}

func notFound(err error) bool {
	var statusErr *utils.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// TitleDetails is the display metadata of a title
type TitleDetails struct {
	TitleID       int              `json:"title_id"`
	MediaType     models.MediaType `json:"media_type"`
	Title         string           `json:"title"`
	OriginalTitle string           `json:"original_title,omitempty"`
	Year          int              `json:"year,omitempty"`
	Overview      string           `json:"overview,omitempty"`
	PosterURL     string           `json:"poster_url,omitempty"`
	BackdropURL   string           `json:"backdrop_url,omitempty"`
}

// detailsResponse covers both movie and tv detail payloads
type detailsResponse struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Name          string `json:"name"`
	OriginalTitle string `json:"original_title"`
	OriginalName  string `json:"original_name"`
	ReleaseDate   string `json:"release_date"`
	FirstAirDate  string `json:"first_air_date"`
	Overview      string `json:"overview"`
	PosterPath    string `json:"poster_path"`
	BackdropPath  string `json:"backdrop_path"`
}

// GetTitleDetails returns the French metadata of a title. Results are kept in
// memory for the configured metadata TTL.
func (c *Client) GetTitleDetails(ctx context.Context, titleID int, mediaType models.MediaType) (*TitleDetails, error) {
	key := fmt.Sprintf("%s:%d", mediaType, titleID)
	if cached, found := c.metadata.Get(key); found {
		return cached.(*TitleDetails), nil
	}

	ctx, span := tracer.Start(ctx, "tmdb.TitleDetails")
	defer span.End()
	span.SetAttributes(attribute.Int("title_id", titleID), attribute.String("media_type", string(mediaType)))

	params := url.Values{}
	params.Set("language", metadataLanguage)

	var resp detailsResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/%s/%d", mediaType, titleID), params, &resp); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get title details: %w", err)
	}

	details := &TitleDetails{
		TitleID:       titleID,
		MediaType:     mediaType,
		Title:         firstNonEmpty(resp.Title, resp.Name),
		OriginalTitle: firstNonEmpty(resp.OriginalTitle, resp.OriginalName),
		Year:          parseYear(firstNonEmpty(resp.ReleaseDate, resp.FirstAirDate)),
		Overview:      resp.Overview,
		PosterURL:     imageURL(resp.PosterPath, "w500"),
		BackdropURL:   imageURL(resp.BackdropPath, "w1280"),
	}

	c.metadata.SetDefault(key, details)
	return details, nil
}

// WatchProvider is one provider entry of a country
type WatchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
	Priority     int    `json:"display_priority"`
}

// CountryProviders lists the providers of one country by access model
type CountryProviders struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
	Rent     []WatchProvider `json:"rent"`
	Buy      []WatchProvider `json:"buy"`
	Free     []WatchProvider `json:"free"`
	Ads      []WatchProvider `json:"ads"`
}

// WatchProvidersResponse is the watch/providers payload, keyed by country code
type WatchProvidersResponse struct {
	ID      int                         `json:"id"`
	Results map[string]CountryProviders `json:"results"`
}

// GetWatchProviders calls the watch/providers endpoint
func (c *Client) GetWatchProviders(ctx context.Context, titleID int, mediaType models.MediaType) (*WatchProvidersResponse, error) {
	var resp WatchProvidersResponse
	err := c.doRequest(ctx, fmt.Sprintf("/%s/%d/watch/providers", mediaType, titleID), nil, &resp)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get watch providers: %w", err)
	}
	if resp.Results == nil {
		resp.Results = map[string]CountryProviders{}
	}
	return &resp, nil
}

// WatchProviders never fails: not-found and errors yield an empty payload
func (c *Client) WatchProviders(ctx context.Context, titleID int, mediaType models.MediaType) *WatchProvidersResponse {
	ctx, span := tracer.Start(ctx, "tmdb.WatchProviders")
	defer span.End()
	span.SetAttributes(attribute.Int("title_id", titleID), attribute.String("media_type", string(mediaType)))

	start := time.Now()
	resp, err := c.GetWatchProviders(ctx, titleID, mediaType)
	metrics.UpstreamDuration.WithLabelValues(sourceName).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrNotFound):
		metrics.UpstreamRequests.WithLabelValues(sourceName, metrics.OutcomeNotFound).Inc()
		c.logger.Debug().Int("title_id", titleID).Str("media_type", string(mediaType)).Msg("Title unknown to TMDB")
	case err != nil:
		metrics.UpstreamRequests.WithLabelValues(sourceName, metrics.OutcomeError).Inc()
		span.RecordError(err)
		c.logger.Warn().Err(err).Int("title_id", titleID).Str("media_type", string(mediaType)).Msg("TMDB watch providers request failed")
	default:
		metrics.UpstreamRequests.WithLabelValues(sourceName, metrics.OutcomeOK).Inc()
		return resp
	}

	return &WatchProvidersResponse{ID: titleID, Results: map[string]CountryProviders{}}
}

func imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + size + path
}

func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

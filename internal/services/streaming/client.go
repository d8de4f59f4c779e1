package streaming

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
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/metrics"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/utils"
)

// ErrNotFound is returned when the service does not know the title
var ErrNotFound = errors.New("title not found in streaming availability")

const sourceName = string(models.SourceStreaming)

var tracer = otel.Tracer("github.com/amaumene/streamfr/internal/services/streaming")

// Show represents the streaming availability payload for one title
type Show struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	ShowType         string             `json:"showType"`
	StreamingOptions map[string][]Offer `json:"streamingOptions"`
	StreamingInfo    map[string][]Offer `json:"streamingInfo"` // older payload shape
	Seasons          []Season           `json:"seasons"`
}

// Season carries per-season streaming options for TV titles
type Season struct {
	Title            string             `json:"title"`
	SeasonNumber     int                `json:"seasonNumber"`
	StreamingOptions map[string][]Offer `json:"streamingOptions"`
}

// Offer is one way to watch the title in a country
type Offer struct {
	Service       Service       `json:"service"`
	Type          string        `json:"type"`
	StreamingType string        `json:"streamingType"` // older payload shape
	Addon         *Addon        `json:"addon"`
	AddOn         string        `json:"addOn"` // older payload shape
	Link          string        `json:"link"`
	VideoLink     string        `json:"videoLink"`
	Quality       string        `json:"quality"`
	Audios        []LanguageTag `json:"audios"`
	Subtitles     []LanguageTag `json:"subtitles"`
	Seasons       []int         `json:"seasons"`
}

// Service identifies the streaming service. The API sends either an object
// or a bare id string.
type Service struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both "netflix" and {"id": "netflix", "name": "Netflix"}
func (s *Service) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		s.ID = id
		return nil
	}
	type plain Service
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Service(p)
	return nil
}

// Addon is a channel bundled inside the parent service. Like Service it
// arrives either as an object or as a bare string.
type Addon struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both "MyCanal" and {"id": "mycanal", "name": "MyCanal"}
func (a *Addon) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		a.ID = label
		a.Name = label
		return nil
	}
	type plain Addon
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Addon(p)
	return nil
}

// LanguageTag is an audio or subtitle track. Sources put the language either
// directly on the tag or under locale.
type LanguageTag struct {
	Language string  `json:"language"`
	Locale   *Locale `json:"locale,omitempty"`
}

// Locale is the nested language form
type Locale struct {
	Language string `json:"language"`
	Region   string `json:"region"`
}

// Client wraps direct streaming availability API HTTP calls
type Client struct {
	baseURL    string
	apiKey     string
	host       string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new streaming availability client. A client without an
// API key is disabled and never issues requests.
func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.RapidAPIBaseURL,
		apiKey:  cfg.RapidAPIKey,
		host:    cfg.RapidAPIHost,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("source", sourceName).Logger(),
	}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Fetch retrieves the payload of a title. Not-found and failures both return
// nil; failures are logged.
func (c *Client) Fetch(ctx context.Context, titleID int, mediaType models.MediaType) *Show {
	if !c.Enabled() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "streaming.Fetch")
	defer span.End()
	span.SetAttributes(attribute.Int("title_id", titleID), attribute.String("media_type", string(mediaType)))

	start := time.Now()
	show, err := c.GetShow(ctx, titleID, mediaType)
	metrics.UpstreamDuration.WithLabelValues(sourceName).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrNotFound):
		metrics.UpstreamRequests.WithLabelValues(sourceName, metrics.OutcomeNotFound).Inc()
		c.logger.Debug().Int("title_id", titleID).Str("media_type", string(mediaType)).Msg("Title unknown to streaming availability")
		return nil
	case err != nil:
		metrics.UpstreamRequests.WithLabelValues(sourceName, metrics.OutcomeError).Inc()
		span.RecordError(err)
		c.logger.Warn().Err(err).Int("title_id", titleID).Str("media_type", string(mediaType)).Msg("Streaming availability request failed")
		return nil
	}

	metrics.UpstreamRequests.WithLabelValues(sourceName, metrics.OutcomeOK).Inc()
	return show
}

// GetShow performs the API call, with retries on transient failures
func (c *Client) GetShow(ctx context.Context, titleID int, mediaType models.MediaType) (*Show, error) {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid streaming availability URL: %w", err)
	}
	apiURL.Path = strings.TrimRight(apiURL.Path, "/") + fmt.Sprintf("/shows/%s/%d", mediaType, titleID)

	params := url.Values{}
	params.Set("output_language", "en")
	if mediaType == models.MediaTypeTV {
		params.Set("series_granularity", "season")
	}
	apiURL.RawQuery = params.Encode()
	finalURL := apiURL.String()

	c.logger.Debug().Str("url", finalURL).Int("title_id", titleID).Msg("Performing streaming availability lookup")

	var show Show
	err = utils.Retry(ctx, c.logger, func() error {
		show = Show{}
		return c.get(ctx, finalURL, &show)
	})
	if err != nil {
		var statusErr *utils.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &show, nil
}

func (c *Client) get(ctx context.Context, finalURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "streamfr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("streaming availability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &utils.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// a malformed payload fails the same way on every attempt
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

// seasonNumber returns the explicit season number, or the 1-based position
func (s Season) seasonNumber(index int) int {
	if s.SeasonNumber > 0 {
		return s.SeasonNumber
	}
	if n := parseSeasonTitle(s.Title); n > 0 {
		return n
	}
	return index + 1
}

// parseSeasonTitle reads the trailing number of titles like "Season 3"
func parseSeasonTitle(title string) int {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return n
}

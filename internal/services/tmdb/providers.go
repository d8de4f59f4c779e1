package tmdb

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/amaumene/streamfr/internal/metrics"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/platforms"
	"github.com/amaumene/streamfr/internal/reference"
)

// Adapter turns TMDB watch providers into availability records
type Adapter struct {
	client *Client
	logger zerolog.Logger
}

// NewAdapter creates the catalog watch-provider source adapter
func NewAdapter(client *Client, logger zerolog.Logger) *Adapter {
	return &Adapter{
		client: client,
		logger: logger.With().Str("source", sourceName).Logger(),
	}
}

// Source identifies the adapter
func (a *Adapter) Source() models.Source {
	return models.SourceTMDB
}

// Records fetches and converts the watch providers of a title
func (a *Adapter) Records(ctx context.Context, titleID int, mediaType models.MediaType) []models.Availability {
	records := ToRecords(a.client.WatchProviders(ctx, titleID, mediaType), titleID, mediaType)
	metrics.AdapterRecords.WithLabelValues(sourceName).Add(float64(len(records)))
	return records
}

// ToRecords converts a watch providers payload. TMDB has no language data,
// so French flags follow the country alone.
func ToRecords(resp *WatchProvidersResponse, titleID int, mediaType models.MediaType) []models.Availability {
	if resp == nil {
		return nil
	}

	countries := make([]string, 0, len(resp.Results))
	for country := range resp.Results {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	var records []models.Availability
	for _, country := range countries {
		code := reference.NormalizeCode(country)
		providers := resp.Results[country]
		french := reference.IsFrenchSpeaking(code)

		lists := []struct {
			access  models.AccessType
			entries []WatchProvider
		}{
			{models.AccessSubscription, providers.Flatrate},
			{models.AccessRent, providers.Rent},
			{models.AccessBuy, providers.Buy},
			{models.AccessFree, providers.Free},
			{models.AccessFree, providers.Ads},
		}

		for _, list := range lists {
			for _, p := range list.entries {
				records = append(records, models.Availability{
					TitleID:            titleID,
					MediaType:          mediaType,
					Platform:           platforms.ProviderName(p.ProviderID, p.ProviderName),
					CountryCode:        code,
					CountryName:        reference.CountryName(code),
					AccessType:         list.access,
					Quality:            models.QualityHD,
					HasFrenchAudio:     french,
					HasFrenchSubtitles: french,
					StreamingURL:       providers.Link,
					Source:             models.SourceTMDB,
				})
			}
		}
	}

	return records
}

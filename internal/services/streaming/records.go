package streaming

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/metrics"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/platforms"
	"github.com/amaumene/streamfr/internal/reference"
	"github.com/amaumene/streamfr/internal/utils"
)

// frenchCodes are the language tags treated as French
var frenchCodes = map[string]struct{}{
	"fra": {}, "fr": {}, "fre": {}, "french": {},
}

// Adapter turns streaming availability payloads into availability records
type Adapter struct {
	client        *Client
	allowList     *utils.AllowList
	promoteAddons bool
	logger        zerolog.Logger
}

// NewAdapter creates the streaming-options source adapter
func NewAdapter(client *Client, allowList *utils.AllowList, cfg *config.Config, logger zerolog.Logger) *Adapter {
	return &Adapter{
		client:        client,
		allowList:     allowList,
		promoteAddons: cfg.AddonAccessPolicy != config.AddonPolicyAddon,
		logger:        logger.With().Str("source", sourceName).Logger(),
	}
}

// Source identifies the adapter
func (a *Adapter) Source() models.Source {
	return models.SourceStreaming
}

// Records fetches a title and converts it. Failures yield no records.
func (a *Adapter) Records(ctx context.Context, titleID int, mediaType models.MediaType) []models.Availability {
	show := a.client.Fetch(ctx, titleID, mediaType)
	if show == nil {
		return nil
	}
	records := a.ToRecords(show, titleID, mediaType)
	metrics.AdapterRecords.WithLabelValues(sourceName).Add(float64(len(records)))
	return records
}

// ToRecords converts a payload: countries, then offers per country, with
// addon filtering and French detection applied to every offer.
func (a *Adapter) ToRecords(show *Show, titleID int, mediaType models.MediaType) []models.Availability {
	if show == nil {
		return nil
	}

	var records []models.Availability

	if mediaType == models.MediaTypeTV && hasSeasonOptions(show.Seasons) {
		for i, season := range show.Seasons {
			number := season.seasonNumber(i)
			records = a.appendCountries(records, season.StreamingOptions, titleID, mediaType, &number)
		}
		return records
	}

	options := show.StreamingOptions
	if len(options) == 0 {
		options = show.StreamingInfo
	}
	return a.appendCountries(records, options, titleID, mediaType, nil)
}

func (a *Adapter) appendCountries(records []models.Availability, options map[string][]Offer, titleID int, mediaType models.MediaType, season *int) []models.Availability {
	countries := make([]string, 0, len(options))
	for country := range options {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	for _, country := range countries {
		code := reference.NormalizeCode(country)
		for _, offer := range options[country] {
			record, ok := a.convertOffer(offer, code)
			if !ok {
				continue
			}
			record.TitleID = titleID
			record.MediaType = mediaType

			switch {
			case mediaType == models.MediaTypeMovie:
				records = append(records, record)
			case season != nil:
				record.SeasonNumber = models.IntPtr(*season)
				records = append(records, record)
			case len(offer.Seasons) > 0:
				for _, n := range offer.Seasons {
					r := record
					r.SeasonNumber = models.IntPtr(n)
					records = append(records, r)
				}
			default:
				records = append(records, record)
			}
		}
	}

	return records
}

// convertOffer applies the addon allow-list and the French filter to one offer
func (a *Adapter) convertOffer(offer Offer, country string) (models.Availability, bool) {
	accessType := models.ParseAccessType(firstNonEmpty(offer.Type, offer.StreamingType))
	platform := platforms.ServiceName(offer.Service.ID, offer.Service.Name)
	addonLabel := ""

	if accessType == models.AccessAddon {
		label, addonID := offer.addonLabel()
		rule, ok := a.allowList.Match(label)
		if !ok {
			rule, ok = a.allowList.Match(addonID)
		}
		if !ok {
			a.logger.Debug().
				Str("country", country).
				Str("service", offer.Service.ID).
				Str("addon", label).
				Msg("Dropping addon outside allow-list")
			return models.Availability{}, false
		}

		platform = rule.Platform
		if platform == "" {
			platform = platforms.ServiceName(firstNonEmpty(addonID, label), label)
		}
		if a.promoteAddons {
			accessType = models.AccessSubscription
		} else {
			addonLabel = firstNonEmpty(label, addonID)
		}
	}

	hasAudio := hasFrench(offer.Audios)
	hasSubtitles := hasFrench(offer.Subtitles)

	if reference.IsFrenchSpeaking(country) {
		// French audio is assumed in francophone markets
		hasAudio = true
	} else if !hasAudio && !hasSubtitles {
		return models.Availability{}, false
	}

	return models.Availability{
		Platform:           platform,
		CountryCode:        country,
		CountryName:        reference.CountryName(country),
		AccessType:         accessType,
		AddonLabel:         addonLabel,
		Quality:            utils.DetermineQuality(offer.Quality),
		HasFrenchAudio:     hasAudio,
		HasFrenchSubtitles: hasSubtitles,
		StreamingURL:       firstNonEmpty(offer.Link, offer.VideoLink),
		Source:             models.SourceStreaming,
	}, true
}

// addonLabel returns the display label and id of the offer's addon
func (o Offer) addonLabel() (string, string) {
	if o.Addon != nil {
		return firstNonEmpty(o.Addon.Name, o.Addon.ID), o.Addon.ID
	}
	return o.AddOn, o.AddOn
}

// hasFrench checks both the direct and the nested locale language fields
func hasFrench(tags []LanguageTag) bool {
	for _, tag := range tags {
		if isFrenchCode(tag.Language) {
			return true
		}
		if tag.Locale != nil && isFrenchCode(tag.Locale.Language) {
			return true
		}
	}
	return false
}

func isFrenchCode(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	_, ok := frenchCodes[code]
	return ok
}

func hasSeasonOptions(seasons []Season) bool {
	for _, s := range seasons {
		if len(s.StreamingOptions) > 0 {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

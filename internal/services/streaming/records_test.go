package streaming

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/utils"
)

func newTestAdapter(policy string) *Adapter {
	cfg := &config.Config{AddonAccessPolicy: policy}
	return NewAdapter(NewClient(cfg, zerolog.Nop()), utils.NewAllowList(utils.DefaultAddonRules), cfg, zerolog.Nop())
}

func movieShow(country string, offers ...Offer) *Show {
	return &Show{StreamingOptions: map[string][]Offer{country: offers}}
}

func TestFrenchFilterOutsideFrancophoneCountries(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)

	show := movieShow("us",
		Offer{Service: Service{ID: "netflix"}, Type: "subscription"},
		Offer{Service: Service{ID: "hulu"}, Type: "subscription", Subtitles: []LanguageTag{{Language: "FRE"}}},
		Offer{Service: Service{ID: "prime"}, Type: "rent", Audios: []LanguageTag{{Locale: &Locale{Language: "fr", Region: "CAN"}}}},
	)

	records := adapter.ToRecords(show, 27205, models.MediaTypeMovie)
	require.Len(t, records, 2)

	assert.Equal(t, "Hulu", records[0].Platform)
	assert.False(t, records[0].HasFrenchAudio)
	assert.True(t, records[0].HasFrenchSubtitles)

	assert.Equal(t, "Amazon Prime Video", records[1].Platform)
	assert.Equal(t, models.AccessRent, records[1].AccessType)
	assert.True(t, records[1].HasFrenchAudio)
	assert.False(t, records[1].HasFrenchSubtitles)

	for _, r := range records {
		assert.Equal(t, "US", r.CountryCode)
		assert.Nil(t, r.SeasonNumber)
	}
}

func TestFrancophoneCountryDefaultsToFrenchAudio(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)

	records := adapter.ToRecords(movieShow("fr", Offer{Service: Service{ID: "netflix"}}), 1, models.MediaTypeMovie)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "Netflix", r.Platform)
	assert.Equal(t, "FR", r.CountryCode)
	assert.Equal(t, "France", r.CountryName)
	assert.Equal(t, models.AccessSubscription, r.AccessType, "missing type defaults to subscription")
	assert.True(t, r.HasFrenchAudio)
	assert.False(t, r.HasFrenchSubtitles)
	assert.Equal(t, models.QualityHD, r.Quality)
	assert.Equal(t, models.SourceStreaming, r.Source)
}

func TestAddonAllowList(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)

	show := movieShow("fr",
		Offer{Service: Service{ID: "prime"}, Type: "addon", Addon: &Addon{ID: "paramountplusfr", Name: "Paramount Plus Addon"}},
		Offer{Service: Service{ID: "prime"}, Type: "addon", Addon: &Addon{ID: "regionalsports", Name: "Some Regional Sports Bundle"}},
	)

	records := adapter.ToRecords(show, 1, models.MediaTypeMovie)
	require.Len(t, records, 1)
	assert.Equal(t, "Paramount+", records[0].Platform)
	assert.Equal(t, models.AccessSubscription, records[0].AccessType)
	assert.Empty(t, records[0].AddonLabel)
}

func TestAddonAllowListShortTermsMatchWholeWords(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)

	show := movieShow("fr",
		Offer{Service: Service{ID: "prime"}, Type: "addon", Addon: &Addon{ID: "cinemax", Name: "Cinemax"}},
		Offer{Service: Service{ID: "prime"}, Type: "addon", Addon: &Addon{ID: "showmax", Name: "Showmax"}},
		Offer{Service: Service{ID: "prime"}, Type: "addon", Addon: &Addon{ID: "docsville", Name: "Docsville"}},
		Offer{Service: Service{ID: "prime"}, Type: "addon", Addon: &Addon{ID: "ocsfr", Name: "OCS"}},
	)

	records := adapter.ToRecords(show, 1, models.MediaTypeMovie)
	require.Len(t, records, 1)
	assert.Equal(t, "OCS", records[0].Platform)
	assert.Equal(t, models.AccessSubscription, records[0].AccessType)
}

func TestAddonPolicyKeepsAddonAccess(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicyAddon)

	show := movieShow("fr", Offer{Service: Service{ID: "prime"}, Type: "addon", AddOn: "starzplay"})

	records := adapter.ToRecords(show, 1, models.MediaTypeMovie)
	require.Len(t, records, 1)
	assert.Equal(t, "Starz", records[0].Platform)
	assert.Equal(t, models.AccessAddon, records[0].AccessType)
	assert.Equal(t, "starzplay", records[0].AddonLabel)
}

func TestCanalAddonEndToEnd(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)

	show := movieShow("fr", Offer{
		Service: Service{ID: "canal"},
		Type:    "addon",
		Addon:   &Addon{Name: "MyCanal"},
		Link:    "https://www.canalplus.com/cinema/inception",
	})

	records := adapter.ToRecords(show, 27205, models.MediaTypeMovie)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 27205, r.TitleID)
	assert.Equal(t, models.MediaTypeMovie, r.MediaType)
	assert.Equal(t, "Canal+", r.Platform)
	assert.Equal(t, "FR", r.CountryCode)
	assert.Equal(t, models.AccessSubscription, r.AccessType)
	assert.True(t, r.HasFrenchAudio)
	assert.False(t, r.HasFrenchSubtitles)
	assert.Equal(t, "https://www.canalplus.com/cinema/inception", r.StreamingURL)
}

func TestPerSeasonRecords(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)

	show := &Show{
		Seasons: []Season{
			{Title: "Season 1", StreamingOptions: map[string][]Offer{"fr": {{Service: Service{ID: "hbo"}}}}},
			{Title: "Season 2", StreamingOptions: map[string][]Offer{"fr": {{Service: Service{ID: "hbo"}}}}},
		},
	}

	records := adapter.ToRecords(show, 1399, models.MediaTypeTV)
	require.Len(t, records, 2)
	for i, r := range records {
		require.NotNil(t, r.SeasonNumber)
		assert.Equal(t, i+1, *r.SeasonNumber)
		assert.Equal(t, "Max", r.Platform)
	}
}

func TestOfferSeasonList(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)

	show := &Show{StreamingInfo: map[string][]Offer{
		"be": {{Service: Service{ID: "netflix"}, StreamingType: "subscription", Seasons: []int{1, 3}}},
	}}

	records := adapter.ToRecords(show, 1399, models.MediaTypeTV)
	require.Len(t, records, 2)
	assert.Equal(t, 1, *records[0].SeasonNumber)
	assert.Equal(t, 3, *records[1].SeasonNumber)

	movie := adapter.ToRecords(show, 1399, models.MediaTypeMovie)
	require.Len(t, movie, 1)
	assert.Nil(t, movie[0].SeasonNumber)
}

func TestToRecordsNilShow(t *testing.T) {
	adapter := newTestAdapter(config.AddonPolicySubscription)
	assert.Empty(t, adapter.ToRecords(nil, 1, models.MediaTypeMovie))
}

package tmdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/streamfr/internal/models"
)

func TestToRecords(t *testing.T) {
	resp := &WatchProvidersResponse{
		ID: 27205,
		Results: map[string]CountryProviders{
			"FR": {
				Link:     "https://www.themoviedb.org/movie/27205/watch?locale=FR",
				Flatrate: []WatchProvider{{ProviderID: 381, ProviderName: "Canal+"}},
				Rent:     []WatchProvider{{ProviderID: 2, ProviderName: "Apple TV"}},
			},
			"US": {
				Buy:  []WatchProvider{{ProviderID: 10, ProviderName: "Amazon Video"}},
				Free: []WatchProvider{{ProviderID: 999999, ProviderName: "kinopoisk film"}},
				Ads:  []WatchProvider{{ProviderID: 8, ProviderName: "Netflix"}},
			},
		},
	}

	records := ToRecords(resp, 27205, models.MediaTypeMovie)
	require.Len(t, records, 5)

	fr := records[0]
	assert.Equal(t, "Canal+", fr.Platform)
	assert.Equal(t, "FR", fr.CountryCode)
	assert.Equal(t, models.AccessSubscription, fr.AccessType)
	assert.True(t, fr.HasFrenchAudio)
	assert.True(t, fr.HasFrenchSubtitles)
	assert.Equal(t, "https://www.themoviedb.org/movie/27205/watch?locale=FR", fr.StreamingURL)
	assert.Equal(t, models.SourceTMDB, fr.Source)
	assert.Nil(t, fr.SeasonNumber)

	assert.Equal(t, models.AccessRent, records[1].AccessType)
	assert.Equal(t, "Apple TV", records[1].Platform)

	us := records[2:]
	assert.Equal(t, models.AccessBuy, us[0].AccessType)
	assert.Equal(t, "Amazon Prime Video", us[0].Platform)
	assert.Equal(t, models.AccessFree, us[1].AccessType)
	assert.Equal(t, "Kinopoisk Film", us[1].Platform)
	assert.Equal(t, models.AccessFree, us[2].AccessType)
	for _, r := range us {
		assert.Equal(t, "US", r.CountryCode)
		assert.False(t, r.HasFrenchAudio)
		assert.False(t, r.HasFrenchSubtitles)
	}
}

func TestToRecordsEmpty(t *testing.T) {
	assert.Empty(t, ToRecords(nil, 1, models.MediaTypeMovie))
	assert.Empty(t, ToRecords(&WatchProvidersResponse{}, 1, models.MediaTypeMovie))
}

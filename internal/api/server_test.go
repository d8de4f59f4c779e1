package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/streamfr/internal/api/handlers"
	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/controllers"
	"github.com/amaumene/streamfr/internal/models"
)

type staticSource struct {
	records []models.Availability
}

func (s staticSource) Source() models.Source { return models.SourceTMDB }

func (s staticSource) Records(ctx context.Context, titleID int, mediaType models.MediaType) []models.Availability {
	return s.records
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "api.db"), models.DefaultFreshness)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	source := staticSource{records: []models.Availability{
		{Platform: "Netflix", CountryCode: "US", AccessType: models.AccessSubscription, HasFrenchSubtitles: true},
		{Platform: "Netflix", CountryCode: "FR", AccessType: models.AccessSubscription, HasFrenchAudio: true},
	}}

	cfg := &config.Config{ServerPort: "0", CacheTTL: models.DefaultFreshness}
	availabilityCtrl := controllers.NewAvailabilityController(db, staticSource{}, source, time.Second, zerolog.Nop())
	cacheCtrl := controllers.NewCacheController(db, zerolog.Nop())
	return NewServer(cfg, availabilityCtrl, cacheCtrl, nil, zerolog.Nop())
}

func get(t *testing.T, s *Server, method, target string) (int, string) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t)

	status, body := get(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, body)

	status, body = get(t, s, http.MethodGet, "/api/availability/movie/27205")
	require.Equal(t, http.StatusOK, status, body)

	var resp handlers.AvailabilityResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.False(t, resp.Cached)
	require.Len(t, resp.Availabilities, 2)
	assert.Equal(t, "FR", resp.Availabilities[0].CountryCode)
	assert.Equal(t, "États-Unis", resp.Availabilities[1].CountryName)

	status, body = get(t, s, http.MethodGet, "/api/availability/movie/27205?countries=US")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Cached)
	assert.Equal(t, 1, resp.Count)

	status, body = get(t, s, http.MethodGet, "/status")
	assert.Equal(t, http.StatusOK, status)
	var statusResp handlers.StatusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &statusResp))
	assert.Equal(t, int64(2), statusResp.Records)
	assert.Equal(t, 1, statusResp.Groups)
	assert.Equal(t, float64(7), statusResp.FreshnessDays)

	status, body = get(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(body, "streamfr_availability_lookups_total"))

	status, body = get(t, s, http.MethodDelete, "/api/cache/27205")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":2}`, body)

	status, _ = get(t, s, http.MethodGet, "/api/availability/episode/1")
	assert.Equal(t, http.StatusBadRequest, status)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/streamfr/internal/controllers"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/services/tmdb"
)

type fakeAvailability struct {
	result    *controllers.AvailabilityResult
	err       error
	countries []string
	force     bool
}

func (f *fakeAvailability) GetAvailability(ctx context.Context, titleID int, mediaType models.MediaType, countries []string, force bool) (*controllers.AvailabilityResult, error) {
	f.countries = countries
	f.force = force
	return f.result, f.err
}

type fakeMetadata struct {
	details *tmdb.TitleDetails
	err     error
}

func (f *fakeMetadata) GetTitleDetails(ctx context.Context, titleID int, mediaType models.MediaType) (*tmdb.TitleDetails, error) {
	return f.details, f.err
}

type fakeAdmin struct {
	cleared []int
}

func (f *fakeAdmin) ClearAll(ctx context.Context) (int64, error) { return 12, nil }

func (f *fakeAdmin) ClearGroup(ctx context.Context, titleID int) (int64, error) {
	f.cleared = append(f.cleared, titleID)
	return 3, nil
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}

func doRequest(t *testing.T, app *fiber.App, method, target string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	app := newApp()
	app.Get("/health", NewHealthHandler(zerolog.Nop()).Handle)

	status, body := doRequest(t, app, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, string(body))
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := newApp()
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("open /var/lib/streamfr/cache.db: permission denied")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusConflict, "refresh already running")
	})

	status, body := doRequest(t, app, http.MethodGet, "/internal")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(body))

	status, body = doRequest(t, app, http.MethodGet, "/conflict")
	assert.Equal(t, http.StatusConflict, status)
	assert.JSONEq(t, `{"error":"refresh already running"}`, string(body))
}

func TestAvailabilityHandler(t *testing.T) {
	service := &fakeAvailability{result: &controllers.AvailabilityResult{
		Availabilities: []models.Availability{{
			TitleID:        27205,
			MediaType:      models.MediaTypeMovie,
			Platform:       "Canal+",
			CountryCode:    "FR",
			CountryName:    "France",
			AccessType:     models.AccessSubscription,
			Quality:        models.QualityHD,
			HasFrenchAudio: true,
		}},
		Cached: true,
	}}
	metadata := &fakeMetadata{details: &tmdb.TitleDetails{TitleID: 27205, Title: "Inception", Year: 2010}}

	app := newApp()
	app.Get("/api/availability/:mediaType/:titleId", NewAvailabilityHandler(service, metadata, zerolog.Nop()).Handle)

	status, body := doRequest(t, app, http.MethodGet, "/api/availability/movie/27205?countries=fr,%20be,&refresh=true")
	require.Equal(t, http.StatusOK, status, string(body))

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 27205, resp.TitleID)
	assert.Equal(t, models.MediaTypeMovie, resp.MediaType)
	assert.True(t, resp.Cached)
	assert.Equal(t, 1, resp.Count)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "Inception", resp.Metadata.Title)
	assert.Equal(t, "Canal+", resp.Availabilities[0].Platform)

	assert.Equal(t, []string{"FR", "BE"}, service.countries)
	assert.True(t, service.force)
}

func TestAvailabilityHandlerOmitsFailedMetadata(t *testing.T) {
	service := &fakeAvailability{result: &controllers.AvailabilityResult{}}
	metadata := &fakeMetadata{err: tmdb.ErrNotFound}

	app := newApp()
	app.Get("/api/availability/:mediaType/:titleId", NewAvailabilityHandler(service, metadata, zerolog.Nop()).Handle)

	status, body := doRequest(t, app, http.MethodGet, "/api/availability/tv/1399")
	require.Equal(t, http.StatusOK, status)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.NotContains(t, raw, "metadata")
	assert.JSONEq(t, `[]`, string(raw["availabilities"]))
	assert.JSONEq(t, `0`, string(raw["count"]))
	assert.False(t, service.force)
}

func TestAvailabilityHandlerErrors(t *testing.T) {
	service := &fakeAvailability{err: errors.New("boom")}

	app := newApp()
	app.Get("/api/availability/:mediaType/:titleId", NewAvailabilityHandler(service, nil, zerolog.Nop()).Handle)

	status, body := doRequest(t, app, http.MethodGet, "/api/availability/person/1")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "invalid media type")

	status, _ = doRequest(t, app, http.MethodGet, "/api/availability/movie/abc")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/availability/movie/-1")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doRequest(t, app, http.MethodGet, "/api/availability/movie/1")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(body))
}

func TestCacheHandler(t *testing.T) {
	admin := &fakeAdmin{}
	handler := NewCacheHandler(admin, zerolog.Nop())

	app := newApp()
	app.Delete("/api/cache", handler.ClearAll)
	app.Delete("/api/cache/:titleId", handler.ClearTitle)

	status, body := doRequest(t, app, http.MethodDelete, "/api/cache")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":12}`, string(body))

	status, body = doRequest(t, app, http.MethodDelete, "/api/cache/27205")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":3}`, string(body))
	assert.Equal(t, []int{27205}, admin.cleared)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/cache/zero")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestParseCountries(t *testing.T) {
	assert.Nil(t, ParseCountries(""))
	assert.Equal(t, []string{"FR", "BE", "CH"}, ParseCountries(" fr,be ,,ch"))
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("TMDB_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 8*time.Second, cfg.AdapterTimeout)
	assert.Equal(t, AddonPolicySubscription, cfg.AddonAccessPolicy)
	assert.Equal(t, "https://streaming-availability.p.rapidapi.com", cfg.RapidAPIBaseURL)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Contains(t, cfg.DatabaseFile, "streamfr.db")
}

func TestValidate(t *testing.T) {
	valid := Config{
		TMDBAPIKey:        "k",
		CacheTTL:          time.Hour,
		AdapterTimeout:    time.Second,
		AddonAccessPolicy: AddonPolicyAddon,
	}
	assert.NoError(t, valid.Validate())

	missingKey := valid
	missingKey.TMDBAPIKey = ""
	assert.Error(t, missingKey.Validate())

	badPolicy := valid
	badPolicy.AddonAccessPolicy = "bundle"
	assert.Error(t, badPolicy.Validate())

	noTTL := valid
	noTTL.CacheTTL = 0
	assert.Error(t, noTTL.Validate())
}

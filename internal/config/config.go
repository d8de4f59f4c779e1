package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Addon access policies
const (
	AddonPolicySubscription = "subscription"
	AddonPolicyAddon        = "addon"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey  string // v3 API key or v4 read access token
	TMDBBaseURL string

	// RapidAPI streaming availability
	RapidAPIKey     string // empty disables the streaming-options source
	RapidAPIHost    string
	RapidAPIBaseURL string

	// Cache
	CacheTTL      time.Duration // freshness window (default: 7 days)
	MetadataTTL   time.Duration // in-process TMDB metadata cache (default: 60 minutes)
	StatsSchedule string        // cron schedule of the cache statistics job

	// Upstream
	AdapterTimeout    time.Duration // per-adapter fetch budget (default: 8 seconds)
	AddonAccessPolicy string        // "subscription" or "addon"

	// Server
	ServerPort string

	// Paths
	DatabaseFile  string // $CONFIG_DIR/streamfr.db
	AddonListFile string // $CONFIG_DIR/addons.txt

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("RAPIDAPI_HOST", "streaming-availability.p.rapidapi.com")
	viper.SetDefault("CACHE_TTL_DAYS", 7)
	viper.SetDefault("METADATA_CACHE_MINUTES", 60)
	viper.SetDefault("STATS_CRON", "@every 15m")
	viper.SetDefault("ADAPTER_TIMEOUT_SECONDS", 8)
	viper.SetDefault("ADDON_ACCESS_POLICY", AddonPolicySubscription)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "streamfr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	rapidHost := viper.GetString("RAPIDAPI_HOST")
	rapidBase := viper.GetString("RAPIDAPI_BASE_URL")
	if rapidBase == "" {
		rapidBase = "https://" + rapidHost
	}

	config := &Config{
		// TMDB
		TMDBAPIKey:  viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL: strings.TrimRight(viper.GetString("TMDB_BASE_URL"), "/"),

		// RapidAPI
		RapidAPIKey:     viper.GetString("RAPIDAPI_KEY"),
		RapidAPIHost:    rapidHost,
		RapidAPIBaseURL: strings.TrimRight(rapidBase, "/"),

		// Cache
		CacheTTL:      time.Duration(viper.GetInt("CACHE_TTL_DAYS")) * 24 * time.Hour,
		MetadataTTL:   time.Duration(viper.GetInt("METADATA_CACHE_MINUTES")) * time.Minute,
		StatsSchedule: viper.GetString("STATS_CRON"),

		// Upstream
		AdapterTimeout:    time.Duration(viper.GetInt("ADAPTER_TIMEOUT_SECONDS")) * time.Second,
		AddonAccessPolicy: strings.ToLower(viper.GetString("ADDON_ACCESS_POLICY")),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile:  filepath.Join(configDir, "streamfr.db"),
		AddonListFile: filepath.Join(configDir, "addons.txt"),

		// Logging
		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_DAYS must be positive")
	}
	if c.AdapterTimeout <= 0 {
		return fmt.Errorf("ADAPTER_TIMEOUT_SECONDS must be positive")
	}
	switch c.AddonAccessPolicy {
	case AddonPolicySubscription, AddonPolicyAddon:
	default:
		return fmt.Errorf("ADDON_ACCESS_POLICY must be %q or %q, got %q",
			AddonPolicySubscription, AddonPolicyAddon, c.AddonAccessPolicy)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all console configuration
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Poll     PollConfig
	Geocoder GeocoderConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
	Host string
}

// UpstreamConfig points at the remote dispatch service.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PollConfig carries the reconciliation cadences.
type PollConfig struct {
	OfferInterval       time.Duration
	DriverRidesInterval time.Duration
	RideListInterval    time.Duration
	DriverResync        time.Duration
	OfferWindow         time.Duration
}

type GeocoderConfig struct {
	Enabled  bool
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("DISPATCH_BASE_URL", "http://localhost:9000"),
			Timeout: time.Duration(getEnvAsInt("DISPATCH_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Poll: PollConfig{
			OfferInterval:       time.Duration(getEnvAsInt("POLL_OFFER_INTERVAL_MS", 1000)) * time.Millisecond,
			DriverRidesInterval: time.Duration(getEnvAsInt("POLL_DRIVER_RIDES_INTERVAL_MS", 2000)) * time.Millisecond,
			RideListInterval:    time.Duration(getEnvAsInt("POLL_RIDE_LIST_INTERVAL_MS", 5000)) * time.Millisecond,
			DriverResync:        time.Duration(getEnvAsInt("POLL_DRIVER_RESYNC_INTERVAL_MS", 10000)) * time.Millisecond,
			OfferWindow:         time.Duration(getEnvAsInt("OFFER_WINDOW_SECONDS", 10)) * time.Second,
		},
		Geocoder: GeocoderConfig{
			Enabled:  getEnvAsBool("GEOCODER_ENABLED", true),
			BaseURL:  getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			Timeout:  time.Duration(getEnvAsInt("GEOCODER_TIMEOUT_SECONDS", 5)) * time.Second,
			CacheTTL: time.Duration(getEnvAsInt("GEOCODER_CACHE_TTL_SECONDS", 86400)) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:     getEnvAsBool("REDIS_ENABLED", false),
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 20),
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		},
		NewRelic: NewRelicConfig{
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			AppName:    getEnv("NEW_RELIC_APP_NAME", "Ranyal-DispatchConsole"),
			Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("DISPATCH_BASE_URL is required")
	}
	if c.Poll.OfferInterval <= 0 {
		return fmt.Errorf("POLL_OFFER_INTERVAL_MS must be positive")
	}
	if c.Poll.DriverRidesInterval <= 0 {
		return fmt.Errorf("POLL_DRIVER_RIDES_INTERVAL_MS must be positive")
	}
	if c.Poll.DriverResync <= 0 {
		return fmt.Errorf("POLL_DRIVER_RESYNC_INTERVAL_MS must be positive")
	}
	if c.Poll.OfferWindow <= 0 {
		return fmt.Errorf("OFFER_WINDOW_SECONDS must be positive")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when Redis is enabled")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

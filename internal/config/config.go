package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultAPIKey is the placeholder shipped in place of a real Tomorrow.io key.
const DefaultAPIKey = "putAPIKey"

// Config holds all run settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	OutputPath string

	// Weather API configuration. A zero timeout means none.
	TomorrowAPIKey  string
	TomorrowBaseURL string
	WeatherTimeout  time.Duration

	// Geocoding configuration. Nominatim is used unless Mapbox is enabled.
	NominatimBaseURL string
	MapboxToken      string
	MapboxEnabled    bool
	GeocodeTimeout   time.Duration

	// Optional snapshot publishing and metrics push.
	KafkaBrokers   []string
	KafkaTopic     string
	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parseTimeout("WEATHER_TIMEOUT")
	if err != nil {
		return nil, err
	}

	geocodeTimeout, err := parseTimeout("GEOCODE_TIMEOUT")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		OutputPath: sharedcfg.EnvOrDefault("OUTPUT_PATH", "wind_map.html"),

		TomorrowAPIKey:  sharedcfg.EnvOrDefault("TOMORROW_API_KEY", DefaultAPIKey),
		TomorrowBaseURL: sharedcfg.EnvOrDefault("TOMORROW_BASE_URL", "https://api.tomorrow.io"),
		WeatherTimeout:  weatherTimeout,

		NominatimBaseURL: sharedcfg.EnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		MapboxToken:      mapboxToken,
		MapboxEnabled:    mapboxEnabled,
		GeocodeTimeout:   geocodeTimeout,

		KafkaBrokers:   brokers,
		KafkaTopic:     sharedcfg.EnvOrDefault("KAFKA_TOPIC", "wind-snapshots"),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}

	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether snapshots should be sent to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// parseTimeout reads an optional duration. Unset or "0s" disables the timeout.
func parseTimeout(key string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, "0s")
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Cache holds the snapshot cache configuration.
	Cache CacheConfig `mapstructure:",squash"`

	// Tracking holds freshness and polling tunables.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Shiprocket holds the courier API credentials.
	Shiprocket ShiprocketConfig `mapstructure:",squash"`

	// Storefront holds the backend order API configuration.
	Storefront StorefrontConfig `mapstructure:",squash"`
}

// CacheConfig selects and configures the snapshot cache backend.
type CacheConfig struct {
	// Backend is the cache implementation to use: "memory" or "redis".
	Backend string `mapstructure:"CACHE_BACKEND" default:"memory"`
	// RedisURL is the Redis connection URL, only used when Backend is "redis".
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379"`
	// SnapshotTTLSeconds is how long a cached snapshot is retained before eviction.
	SnapshotTTLSeconds int `mapstructure:"SNAPSHOT_TTL_SECONDS" default:"3600"`
}

// TrackingConfig holds tunables for the tracking orchestrator.
type TrackingConfig struct {
	// FreshnessSeconds is the window during which a cached snapshot is served without a refetch.
	FreshnessSeconds int `mapstructure:"FRESHNESS_SECONDS" default:"60"`
	// PollIntervalSeconds is the default interval between poll ticks for a watched shipment.
	PollIntervalSeconds int `mapstructure:"POLL_INTERVAL_SECONDS" default:"30"`
	// HTTPTimeoutSeconds bounds every courier and storefront HTTP call.
	HTTPTimeoutSeconds int `mapstructure:"HTTP_TIMEOUT_SECONDS" default:"10"`
}

// ShiprocketConfig holds the credentials for the Shiprocket tracking API.
type ShiprocketConfig struct {
	// URL is the base URL of the Shiprocket external API.
	URL string `mapstructure:"SHIPROCKET_URL" default:"https://apiv2.shiprocket.in/v1/external"`
	// Email is the account email used for the token exchange.
	Email string `mapstructure:"SHIPROCKET_EMAIL" required:"true"`
	// Password is the account password used for the token exchange.
	Password string `mapstructure:"SHIPROCKET_PASSWORD" required:"true"`
}

// StorefrontConfig holds the backend order API connection details.
type StorefrontConfig struct {
	// URL is the base URL of the storefront order API.
	URL string `mapstructure:"STOREFRONT_URL" required:"true"`
	// APIKey authenticates this service against the storefront API.
	APIKey string `mapstructure:"STOREFRONT_API_KEY"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

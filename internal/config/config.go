// Package config loads the bot's runtime configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// ErrMissingRequired is wrapped once per missing required variable.
var ErrMissingRequired = errors.New("missing required environment variable")

// Environment variable names.
const (
	EnvLineChannelSecret      = "LINE_CHANNEL_SECRET"
	EnvLineChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvCWAAPIKey              = "CWA_API_KEY"
	EnvMOENVAPIKey            = "MOENV_API_KEY"
)

// Config holds configuration for the bot.
type Config struct {
	Port        string
	Environment string
	LogLevel    zerolog.Level
	LogFormat   string // json or console

	LineChannelSecret      string
	LineChannelAccessToken string
	CWAAPIKey              string
	MOENVAPIKey            string

	UpstreamTimeout    time.Duration
	UpstreamMaxRetries uint64

	// Optional upstream overrides; empty means the client default.
	CWABaseURL                 string
	MOENVBaseURL               string
	RadarImageURL              string
	EarthquakeFallbackImageURL string

	OTelEnabled  bool
	OTLPEndpoint string

	ShutdownTimeout time.Duration
}

// Load reads .env files (default ".env"; a missing file is ignored) without
// overriding variables already set, then builds the Config from the
// environment. The error names every missing or invalid variable.
func Load(files ...string) (Config, error) {
	if err := loadFiles(files); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// LoadConsole is Load for the local console, which never talks to LINE and
// so does not require the channel credentials.
func LoadConsole(files ...string) (Config, error) {
	if err := loadFiles(files); err != nil {
		return Config{}, err
	}
	return fromEnv(false)
}

func loadFiles(files []string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// FromEnv builds the Config from the process environment only.
func FromEnv() (Config, error) {
	return fromEnv(true)
}

func fromEnv(requireLine bool) (Config, error) {
	var errs []error

	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingRequired, key))
		}
		return v
	}
	line := func(key string) string {
		if !requireLine {
			return os.Getenv(key)
		}
		return required(key)
	}

	duration := func(key, def string) time.Duration {
		raw := getEnvOrDefault(key, def)
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s %q: must be a positive duration", key, raw))
		}
		return d
	}

	cfg := Config{
		Port:        getEnvOrDefault("APP_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "json"),

		LineChannelSecret:      line(EnvLineChannelSecret),
		LineChannelAccessToken: line(EnvLineChannelAccessToken),
		CWAAPIKey:              required(EnvCWAAPIKey),
		MOENVAPIKey:            required(EnvMOENVAPIKey),

		UpstreamTimeout: duration("UPSTREAM_TIMEOUT", "5s"),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", "30s"),

		CWABaseURL:                 os.Getenv("CWA_BASE_URL"),
		MOENVBaseURL:               os.Getenv("MOENV_BASE_URL"),
		RadarImageURL:              os.Getenv("RADAR_IMAGE_URL"),
		EarthquakeFallbackImageURL: os.Getenv("EARTHQUAKE_FALLBACK_IMAGE_URL"),

		OTelEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	level, err := zerolog.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: want json or console", cfg.LogFormat))
	}

	retries, err := strconv.ParseUint(getEnvOrDefault("UPSTREAM_MAX_RETRIES", "0"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid UPSTREAM_MAX_RETRIES: %w", err))
	}
	cfg.UpstreamMaxRetries = retries

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// String renders the config with secrets redacted.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Port:%s Environment:%s LogLevel:%s LogFormat:%s LineChannelSecret:%s LineChannelAccessToken:%s "+
			"CWAAPIKey:%s MOENVAPIKey:%s UpstreamTimeout:%s UpstreamMaxRetries:%d CWABaseURL:%s MOENVBaseURL:%s "+
			"RadarImageURL:%s EarthquakeFallbackImageURL:%s OTelEnabled:%t OTLPEndpoint:%s ShutdownTimeout:%s}",
		c.Port, c.Environment, c.LogLevel, c.LogFormat,
		redact(c.LineChannelSecret), redact(c.LineChannelAccessToken), redact(c.CWAAPIKey), redact(c.MOENVAPIKey),
		c.UpstreamTimeout, c.UpstreamMaxRetries, c.CWABaseURL, c.MOENVBaseURL,
		c.RadarImageURL, c.EarthquakeFallbackImageURL, c.OTelEnabled, c.OTLPEndpoint, c.ShutdownTimeout,
	)
}

// MarshalZerologObject logs the non-secret fields.
func (c Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str("port", c.Port).
		Str("environment", c.Environment).
		Str("log_level", c.LogLevel.String()).
		Dur("upstream_timeout", c.UpstreamTimeout).
		Uint64("upstream_max_retries", c.UpstreamMaxRetries).
		Bool("otel_enabled", c.OTelEnabled)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

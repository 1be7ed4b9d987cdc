package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"co2form/internal/common/fsutil"
	"co2form/internal/form"
)

// CORS configures the optional CORS middleware.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled" env:"CO2FORM_CORS_ENABLED"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins" env:"CO2FORM_CORS_ORIGINS" envSeparator:","`
	Methods []string `json:"methods" yaml:"methods" toml:"methods" env:"CO2FORM_CORS_METHODS" envSeparator:","`
	Headers []string `json:"headers" yaml:"headers" toml:"headers" env:"CO2FORM_CORS_HEADERS" envSeparator:","`
}

// Config holds runtime parameters for the service and the CLI.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr" env:"CO2FORM_ADDR"`
	// Root URL of the prediction endpoint; /predict is appended.
	PredictionURL string `json:"prediction_url" yaml:"prediction_url" toml:"prediction_url" env:"CO2FORM_PREDICTION_URL"`
	// Zero leaves the transport defaults in charge.
	PredictionTimeoutSeconds int  `json:"prediction_timeout_seconds" yaml:"prediction_timeout_seconds" toml:"prediction_timeout_seconds" env:"CO2FORM_PREDICTION_TIMEOUT_SECONDS"`
	FetchFuelTypes           bool `json:"fetch_fuel_types" yaml:"fetch_fuel_types" toml:"fetch_fuel_types" env:"CO2FORM_FETCH_FUEL_TYPES"`
	// Optional local catalogue; takes precedence over the built-in list.
	FuelTypesFile string `json:"fuel_types_file" yaml:"fuel_types_file" toml:"fuel_types_file" env:"CO2FORM_FUEL_TYPES_FILE"`
	// Serialise all web submissions through one trigger.
	SingleFlight bool   `json:"single_flight" yaml:"single_flight" toml:"single_flight" env:"CO2FORM_SINGLE_FLIGHT"`
	MaxBodyBytes int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" env:"CO2FORM_MAX_BODY_BYTES"`
	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level" env:"CO2FORM_LOG_LEVEL"`
	// console or json
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" env:"CO2FORM_LOG_FORMAT"`
	// BCP 47 tag used to format numbers on the page.
	Locale string      `json:"locale" yaml:"locale" toml:"locale" env:"CO2FORM_LOCALE"`
	CORS   CORS        `json:"cors" yaml:"cors" toml:"cors"`
	Bounds form.Bounds `json:"bounds" yaml:"bounds" toml:"bounds"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Addr:          ":8080",
		PredictionURL: "http://localhost:5000",
		MaxBodyBytes:  1 << 20,
		LogLevel:      "info",
		LogFormat:     "console",
		Locale:        "en",
		CORS: CORS{
			Origins: []string{"*"},
			Methods: []string{"GET", "POST", "OPTIONS"},
			Headers: []string{"Content-Type", "X-Request-Id"},
		},
		Bounds: form.DefaultBounds(),
	}
}

// Load reads a configuration file based on its extension over the
// defaults. Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	if err := fsutil.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays CO2FORM_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the optional
// file, then the environment. The result is validated.
func Resolve(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration values the service cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.PredictionURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid prediction_url %q", c.PredictionURL)
	}
	if c.PredictionTimeoutSeconds < 0 {
		return fmt.Errorf("prediction_timeout_seconds must be >= 0")
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}
	return nil
}

// PredictionTimeout returns the configured timeout as a duration.
func (c Config) PredictionTimeout() time.Duration {
	return time.Duration(c.PredictionTimeoutSeconds) * time.Second
}

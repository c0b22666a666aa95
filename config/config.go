package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
	"gopkg.in/yaml.v3"
)

// DefaultHide is the value of the hidden "hide" form field. Release builds
// set it with -ldflags "-X saucenao/config.DefaultHide=...".
var DefaultHide = "0"

const (
	DefaultEndpoint         = "https://saucenao.com/search.php"
	DefaultUserAgent        = "saucenao-desktop/1.0"
	DefaultTimeoutSeconds   = 60
	DefaultMaxResponseBytes = 8 << 20
)

// Config holds runtime configuration. Fields are filled from defaults, then
// an optional YAML file, then environment variables.
type Config struct {
	Endpoint         string `yaml:"endpoint" env:"SAUCENAO_ENDPOINT"`
	Hide             string `yaml:"hide" env:"SAUCENAO_HIDE"`
	UserAgent        string `yaml:"user_agent" env:"SAUCENAO_USER_AGENT"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" env:"SAUCENAO_TIMEOUT_SECONDS"`
	MaxResponseBytes int64  `yaml:"max_response_bytes" env:"SAUCENAO_MAX_RESPONSE_BYTES"`
	// MinIntervalMs spaces consecutive searches apart, 0 disables the throttle
	MinIntervalMs int `yaml:"min_interval_ms" env:"SAUCENAO_MIN_INTERVAL_MS"`
	// MaxImageDimension downscales uploads larger than this, 0 keeps them as is
	MaxImageDimension int    `yaml:"max_image_dimension" env:"SAUCENAO_MAX_IMAGE_DIMENSION"`
	DataDir           string `yaml:"data_dir" env:"SAUCENAO_DATA_DIR"`
	LogLevel          string `yaml:"log_level" env:"SAUCENAO_LOG_LEVEL"`
	Debug             bool   `yaml:"debug" env:"SAUCENAO_DEBUG"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Endpoint:         DefaultEndpoint,
		Hide:             DefaultHide,
		UserAgent:        DefaultUserAgent,
		TimeoutSeconds:   DefaultTimeoutSeconds,
		MaxResponseBytes: DefaultMaxResponseBytes,
		DataDir:          defaultDataDir(),
		LogLevel:         "info",
	}
}

// Load builds the configuration. path may be empty, in which case
// SAUCENAO_CONFIG is consulted; a missing file at the default location is
// not an error.
func Load(path string) (*Config, error) {
	// a .env file is optional
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("SAUCENAO_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	if err := loadFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// validate checks values and clamps the numeric ones to safe ranges
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q", cfg.Endpoint)
	}
	if strings.TrimSpace(cfg.Hide) == "" {
		cfg.Hide = DefaultHide
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if cfg.MinIntervalMs < 0 {
		cfg.MinIntervalMs = 0
	}
	if cfg.MaxImageDimension < 0 {
		cfg.MaxImageDimension = 0
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return nil
}

// Timeout returns the request timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MinInterval returns the throttle interval as a duration
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".saucenao")
}

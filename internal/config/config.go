// Package config assembles the client configuration. Sources are layered,
// later ones winning: built-in defaults, environment variables
// (PARTYSYNC_*), a JSON file (-c/-config), command-line flags.
package config

import (
	"strings"
	"time"
)

// Config holds runtime settings for the PartySync CLI.
type Config struct {
	// BackendURL is the base URL of the managed backend project.
	BackendURL string `env:"BACKEND_URL"`
	// AnonKey is the publishable API key used before sign-in.
	AnonKey string `env:"ANON_KEY"`
	// DataDir holds the local sqlite store and the device key file.
	DataDir string `env:"DATA_DIR"`
	// RequestTimeout bounds every backend HTTP call.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	Storage Storage `envPrefix:"STORAGE_"`
}

// Storage configures the S3-compatible avatar bucket. Endpoint and
// PublicURL are derived from BackendURL when left empty.
type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	Region    string `env:"REGION"`
	Bucket    string `env:"BUCKET"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	PublicURL string `env:"PUBLIC_URL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "."
	c.RequestTimeout = 15 * time.Second
	c.Storage.Region = "us-east-1"
	c.Storage.Bucket = "avatars"
}

// applyDerived fills storage fields whose defaults depend on other values.
func (c *Config) applyDerived() {
	base := strings.TrimSuffix(c.BackendURL, "/")
	if c.Storage.Endpoint == "" && base != "" {
		c.Storage.Endpoint = base + "/storage/v1/s3"
	}
	if c.Storage.PublicURL == "" && base != "" {
		c.Storage.PublicURL = base + "/storage/v1/object/public/" + c.Storage.Bucket
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	cfg.applyDerived()
	return cfg
}

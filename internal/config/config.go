// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-driven settings of the client.
type Config struct {
	// APIURL is the base URL of the remote topicwise-MCQ API.
	APIURL string `env:"TOPIQ_API_URL" envDefault:"https://api.topiq.dev"`

	// SiteURL is the public site whose page URLs topic keys are derived
	// from when the user pastes a page link instead of a bare key.
	SiteURL string `env:"TOPIQ_SITE_URL" envDefault:"https://topiq.dev"`

	// HTTPTimeout bounds every API call.
	HTTPTimeout time.Duration `env:"TOPIQ_HTTP_TIMEOUT" envDefault:"15s"`

	// DBPath overrides the default local database location.
	DBPath string `env:"TOPIQ_DB"`

	// LocalHosts extends the hosts treated as local development hosts by
	// the topic key resolver.
	LocalHosts []string `env:"TOPIQ_LOCAL_HOSTS" envSeparator:","`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

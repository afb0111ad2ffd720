package config

import (
	"fmt"

	pkgconfig "github.com/utafrali/OdooGateway/pkg/config"
)

// Config holds all configuration for the gateway. The four ODOO_* variables
// have no defaults; the process refuses to start without them.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// Odoo backend
	OdooURL      string `env:"ODOO_URL"`
	OdooDB       string `env:"ODOO_DB"`
	OdooUsername string `env:"ODOO_USERNAME"`
	OdooAPIKey   string `env:"ODOO_API_KEY"`

	// Matching thresholds. The defaults are the tuned production values;
	// change them only with care, they decide when a match auto-selects.
	MatchMinScore       float64 `env:"MATCH_MIN_SCORE" envDefault:"0.72"`
	MatchMinMargin      float64 `env:"MATCH_MIN_MARGIN" envDefault:"0.10"`
	MatchSubstringBonus float64 `env:"MATCH_SUBSTRING_BONUS" envDefault:"0.15"`
	MatchMaxSuggestions int     `env:"MATCH_MAX_SUGGESTIONS" envDefault:"5"`

	// Per-IP rate limiting; 0 disables.
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint      string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load gateway config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.OdooURL == "" || c.OdooDB == "" || c.OdooUsername == "" || c.OdooAPIKey == "" {
		return fmt.Errorf("missing one of ODOO_URL, ODOO_DB, ODOO_USERNAME, ODOO_API_KEY")
	}
	if c.MatchMinScore < 0 || c.MatchMinScore > 1 {
		return fmt.Errorf("MATCH_MIN_SCORE must be in [0, 1], got %g", c.MatchMinScore)
	}
	if c.MatchMinMargin < 0 || c.MatchMinMargin > 1 {
		return fmt.Errorf("MATCH_MIN_MARGIN must be in [0, 1], got %g", c.MatchMinMargin)
	}
	if c.MatchSubstringBonus < 0 || c.MatchSubstringBonus > 1 {
		return fmt.Errorf("MATCH_SUBSTRING_BONUS must be in [0, 1], got %g", c.MatchSubstringBonus)
	}
	if c.MatchMaxSuggestions < 1 {
		return fmt.Errorf("MATCH_MAX_SUGGESTIONS must be at least 1, got %d", c.MatchMaxSuggestions)
	}
	return nil
}

package orchestrator

import (
	"fmt"
	"os"
	"time"
)

// Config holds connection parameters for the workflow orchestrator.
// StartURL and ReviewURL override the paths derived from BaseURL.
type Config struct {
	BaseURL   string `toml:"base_url" json:"base_url"`
	StartURL  string `toml:"start_url" json:"start_url"`
	ReviewURL string `toml:"review_url" json:"review_url"`
	Timeout   string `toml:"timeout" json:"timeout"`

	BreakerMaxFailures uint32 `toml:"breaker_max_failures" json:"breaker_max_failures"`
	BreakerTimeout     string `toml:"breaker_timeout" json:"breaker_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL   string
	StartURL  string
	ReviewURL string
	Timeout   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.StartURL != "" {
		c.StartURL = overlay.StartURL
	}
	if overlay.ReviewURL != "" {
		c.ReviewURL = overlay.ReviewURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.BreakerMaxFailures != 0 {
		c.BreakerMaxFailures = overlay.BreakerMaxFailures
	}
	if overlay.BreakerTimeout != "" {
		c.BreakerTimeout = overlay.BreakerTimeout
	}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BreakerTimeoutDuration returns BreakerTimeout as a time.Duration.
func (c *Config) BreakerTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.BreakerTimeout)
	return d
}

func (c *Config) startURL() string {
	if c.StartURL != "" {
		return c.StartURL
	}
	return c.BaseURL + "/start"
}

func (c *Config) reviewURL() string {
	if c.ReviewURL != "" {
		return c.ReviewURL
	}
	return c.startURL() + "/review"
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.BreakerMaxFailures == 0 {
		c.BreakerMaxFailures = 5
	}
	if c.BreakerTimeout == "" {
		c.BreakerTimeout = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.StartURL != "" {
		if v := os.Getenv(env.StartURL); v != "" {
			c.StartURL = v
		}
	}
	if env.ReviewURL != "" {
		if v := os.Getenv(env.ReviewURL); v != "" {
			c.ReviewURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" && c.StartURL == "" {
		return fmt.Errorf("base_url or start_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.BreakerTimeout); err != nil {
		return fmt.Errorf("invalid breaker_timeout: %w", err)
	}
	return nil
}

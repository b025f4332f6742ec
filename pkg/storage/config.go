package storage

import (
	"fmt"
	"os"
	"time"
)

// Config holds Azure Blob Storage connection parameters.
// ConnectionString and AccountURL are alternatives: when ConnectionString is
// empty, the client authenticates against AccountURL with the default Azure
// credential chain.
type Config struct {
	ContainerName    string `toml:"container_name" json:"container_name"`
	ConnectionString string `toml:"connection_string" json:"connection_string"`
	AccountURL       string `toml:"account_url" json:"account_url"`
	SignedURLTTL     string `toml:"signed_url_ttl" json:"signed_url_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
	SignedURLTTL     string
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
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.SignedURLTTL != "" {
		c.SignedURLTTL = overlay.SignedURLTTL
	}
}

// SignedURLTTLDuration returns SignedURLTTL as a time.Duration.
func (c *Config) SignedURLTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SignedURLTTL)
	return d
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "docs"
	}
	if c.SignedURLTTL == "" {
		c.SignedURLTTL = "1h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.AccountURL != "" {
		if v := os.Getenv(env.AccountURL); v != "" {
			c.AccountURL = v
		}
	}
	if env.SignedURLTTL != "" {
		if v := os.Getenv(env.SignedURLTTL); v != "" {
			c.SignedURLTTL = v
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	if _, err := time.ParseDuration(c.SignedURLTTL); err != nil {
		return fmt.Errorf("invalid signed_url_ttl: %w", err)
	}
	return nil
}

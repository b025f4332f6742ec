package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gfmozzer/lingua/internal/auth"
	"github.com/gfmozzer/lingua/internal/orchestrator"
	"github.com/gfmozzer/lingua/pkg/database"
	"github.com/gfmozzer/lingua/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLinguaEnv             = "LINGUA_ENV"
	EnvLinguaShutdownTimeout = "LINGUA_SHUTDOWN_TIMEOUT"
	EnvLinguaVersion         = "LINGUA_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "LINGUA_DB_HOST",
	Port:            "LINGUA_DB_PORT",
	Name:            "LINGUA_DB_NAME",
	User:            "LINGUA_DB_USER",
	Password:        "LINGUA_DB_PASSWORD",
	SSLMode:         "LINGUA_DB_SSL_MODE",
	MaxOpenConns:    "LINGUA_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LINGUA_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LINGUA_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LINGUA_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "LINGUA_STORAGE_CONTAINER_NAME",
	ConnectionString: "LINGUA_STORAGE_CONNECTION_STRING",
	AccountURL:       "LINGUA_STORAGE_ACCOUNT_URL",
	SignedURLTTL:     "LINGUA_STORAGE_SIGNED_URL_TTL",
}

var authEnv = &auth.Env{
	Issuer:   "LINGUA_AUTH_ISSUER",
	ClientID: "LINGUA_AUTH_CLIENT_ID",
}

var orchestratorEnv = &orchestrator.Env{
	BaseURL:   "LINGUA_ORCHESTRATOR_BASE_URL",
	StartURL:  "LINGUA_ORCHESTRATOR_START_URL",
	ReviewURL: "LINGUA_ORCHESTRATOR_REVIEW_URL",
	Timeout:   "LINGUA_ORCHESTRATOR_TIMEOUT",
}

// Config is the root configuration for the Lingua service.
type Config struct {
	Server          ServerConfig        `toml:"server"`
	Database        database.Config     `toml:"database"`
	Storage         storage.Config      `toml:"storage"`
	Auth            auth.Config         `toml:"auth"`
	Orchestrator    orchestrator.Config `toml:"orchestrator"`
	API             APIConfig           `toml:"api"`
	ShutdownTimeout string              `toml:"shutdown_timeout"`
	Version         string              `toml:"version"`
}

// Env returns the LINGUA_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLinguaEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Auth.Merge(&overlay.Auth)
	c.Orchestrator.Merge(&overlay.Orchestrator)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Orchestrator.Finalize(orchestratorEnv); err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLinguaShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLinguaVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLinguaEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Data source modes.
const (
	SourceFixture = "fixture"
	SourceRemote  = "remote"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Timeouts TimeoutConfig
	Logging  LoggingConfig
	App      AppConfig
	Source   SourceConfig
	Cache    CacheConfig
	Session  SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	BodyLimit    string        `env:"SERVER_BODY_LIMIT" envDefault:"64K"`
	AllowOrigins []string      `env:"SERVER_ALLOW_ORIGINS" envSeparator:","`
}

// TimeoutConfig holds timeout settings for listing operations.
type TimeoutConfig struct {
	// Fetch bounds a single data source call
	Fetch time.Duration `env:"TIMEOUT_FETCH" envDefault:"5s"`

	// Settle bounds how long a page request waits for its regions
	Settle time.Duration `env:"TIMEOUT_SETTLE" envDefault:"3s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Caller bool   `env:"LOG_CALLER" envDefault:"false"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"SERVICE_NAME" envDefault:"travel-listings"`
}

// SourceConfig selects and tunes the listing data sources.
type SourceConfig struct {
	// Mode is fixture (in-process catalog) or remote (another listings service)
	Mode string `env:"SOURCE_MODE" envDefault:"fixture"`

	// BaseURL is the remote listings service, required in remote mode
	BaseURL string `env:"SOURCE_BASE_URL"`

	// RetryAttempts bounds remote attempts per fetch
	RetryAttempts int `env:"SOURCE_RETRY_ATTEMPTS" envDefault:"3"`

	// Delay simulates fixture latency
	Delay time.Duration `env:"SOURCE_DELAY" envDefault:"0s"`

	// FailureRate is the fixture's injected failure probability in [0, 1]
	FailureRate float64 `env:"SOURCE_FAILURE_RATE" envDefault:"0"`

	// Seed makes fixture failure injection reproducible when non-zero
	Seed int64 `env:"SOURCE_SEED" envDefault:"0"`

	PageSize int `env:"SOURCE_PAGE_SIZE" envDefault:"6"`
}

// CacheConfig holds the redis listing cache settings.
type CacheConfig struct {
	Enabled   bool          `env:"CACHE_ENABLED" envDefault:"false"`
	Addr      string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB" envDefault:"0"`
	TTL       time.Duration `env:"CACHE_TTL" envDefault:"1m"`
	KeyPrefix string        `env:"CACHE_KEY_PREFIX" envDefault:"listings"`

	// OpTimeout bounds each redis read or write so a lost redis degrades to misses
	OpTimeout   time.Duration `env:"CACHE_OP_TIMEOUT" envDefault:"100ms"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"200ms"`
}

// SessionConfig holds page session settings.
type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout},
		{"TIMEOUT_FETCH", cfg.Timeouts.Fetch},
		{"TIMEOUT_SETTLE", cfg.Timeouts.Settle},
		{"SESSION_TTL", cfg.Session.TTL},
		{"SESSION_SWEEP_INTERVAL", cfg.Session.SweepInterval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}

	// A page answer must fit in one server write
	if cfg.Timeouts.Settle >= cfg.Server.WriteTimeout {
		return fmt.Errorf("TIMEOUT_SETTLE (%s) should be less than SERVER_WRITE_TIMEOUT (%s)",
			cfg.Timeouts.Settle, cfg.Server.WriteTimeout)
	}

	if cfg.Session.SweepInterval > cfg.Session.TTL {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL (%s) should not exceed SESSION_TTL (%s)",
			cfg.Session.SweepInterval, cfg.Session.TTL)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	if err := validateSource(&cfg.Source); err != nil {
		return err
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_ENABLED is true")
		}
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("CACHE_TTL must be positive")
		}
		if cfg.Cache.OpTimeout <= 0 {
			return fmt.Errorf("CACHE_OP_TIMEOUT must be positive")
		}
		if cfg.Cache.OpTimeout >= cfg.Timeouts.Fetch {
			return fmt.Errorf("CACHE_OP_TIMEOUT (%s) should be less than TIMEOUT_FETCH (%s)",
				cfg.Cache.OpTimeout, cfg.Timeouts.Fetch)
		}
		if cfg.Cache.DialTimeout <= 0 {
			return fmt.Errorf("REDIS_DIAL_TIMEOUT must be positive")
		}
	}

	return nil
}

func validateSource(src *SourceConfig) error {
	switch src.Mode {
	case SourceFixture:
		if src.FailureRate < 0 || src.FailureRate > 1 {
			return fmt.Errorf("SOURCE_FAILURE_RATE must be between 0 and 1, got %v", src.FailureRate)
		}
		if src.Delay < 0 {
			return fmt.Errorf("SOURCE_DELAY must not be negative")
		}
		if src.PageSize < 1 {
			return fmt.Errorf("SOURCE_PAGE_SIZE must be at least 1, got %d", src.PageSize)
		}
	case SourceRemote:
		if src.BaseURL == "" {
			return fmt.Errorf("SOURCE_BASE_URL is required when SOURCE_MODE is remote")
		}
		u, err := url.Parse(src.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("SOURCE_BASE_URL must be an absolute http(s) URL, got %q", src.BaseURL)
		}
		if src.RetryAttempts < 1 {
			return fmt.Errorf("SOURCE_RETRY_ATTEMPTS must be at least 1, got %d", src.RetryAttempts)
		}
	default:
		return fmt.Errorf("SOURCE_MODE must be one of: fixture, remote; got %q", src.Mode)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

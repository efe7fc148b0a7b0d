package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSupabase = "supabase"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreDriver selects the session store: "supabase" or "sqlite".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/sessions.db"`

	SupabaseURL       string `env:"SUPABASE_URL"`
	SupabaseKey       string `env:"SUPABASE_KEY"`
	SupabaseJWTSecret string `env:"SUPABASE_JWT_SECRET"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// AutosaveDelay is the editor's inactivity window before a draft is saved.
	AutosaveDelay time.Duration `env:"AUTOSAVE_DELAY" envDefault:"5s"`
}

// Load parses the environment into a Config and validates it.
// Call LoadEnv first if a .env file should be considered.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case DriverSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, errors.New("config: SUPABASE_URL and SUPABASE_KEY are required for the supabase store")
		}
	case DriverSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, errors.New("config: SQLITE_PATH must be set")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.SupabaseJWTSecret == "" {
		return nil, errors.New("config: SUPABASE_JWT_SECRET must be set")
	}
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = 5 * time.Second
	}

	return &cfg, nil
}

// IsProduction reports whether detailed error messages must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c != nil && strings.EqualFold(c.Env, "production")
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// ClientConfig configures the sessionctl command line client.
type ClientConfig struct {
	APIURL        string        `env:"SESSIONCTL_API" envDefault:"http://localhost:8080"`
	Token         string        `env:"SESSIONCTL_TOKEN"`
	AutosaveDelay time.Duration `env:"AUTOSAVE_DELAY" envDefault:"5s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"warn"`

	// JWTSecret is only used by the dev-token command.
	JWTSecret string `env:"SUPABASE_JWT_SECRET"`
}

func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return nil, errors.New("config: SESSIONCTL_API must not be empty")
	}
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = 5 * time.Second
	}
	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the concession registry tools.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values; the database
// password must only come from the environment.
type Config struct {
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	// MigrationsPath is the file path of the SQL migration scripts.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Ingest behavior for the import and sync commands
	Ingest IngestConfig `yaml:"ingest"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"portos"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"projeto_portos"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString builds a postgres:// URL from the parts.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// IngestConfig holds settings for the two synchronization strategies.
type IngestConfig struct {
	// StrictBudgetCheck escalates "executed value exceeds budget" findings
	// from warnings to errors.
	StrictBudgetCheck bool `yaml:"strict_budget_check" env:"INGEST_STRICT_BUDGET_CHECK" env-default:"false"`

	// OnDuplicate decides what the additive import does with rows whose
	// natural key already exists: "skip" or "update".
	OnDuplicate string `yaml:"on_duplicate" env:"INGEST_ON_DUPLICATE" env-default:"skip"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is not an error; defaults and the
// environment then supply everything.
func Load() (*Config, error) {
	cfg := &Config{}

	err := cleanenv.ReadConfig("config.yaml", cfg)
	if errors.Is(err, os.ErrNotExist) {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.Ingest.OnDuplicate != "skip" && cfg.Ingest.OnDuplicate != "update" {
		return nil, fmt.Errorf("invalid ingest.on_duplicate %q: must be skip or update", cfg.Ingest.OnDuplicate)
	}

	return cfg, nil
}

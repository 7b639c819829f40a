package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Faculty  FacultyConfig  `yaml:"faculty"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port             int            `yaml:"port"`
	Mode             string         `yaml:"mode"`
	Timezone         string         `yaml:"timezone"`
	Location         *time.Location `yaml:"-"`
	RateLimitPerSec  float64        `yaml:"rate_limit_per_sec"`
	RateLimitBurst   int            `yaml:"rate_limit_burst"`
	CacheTTLSeconds  int            `yaml:"cache_ttl_seconds"`
	CORSAllowOrigins []string       `yaml:"cors_allow_origins"`
}

// StoreConfig selects the attendance record backend.
type StoreConfig struct {
	Driver             string `yaml:"driver"` // csv, sqlite or postgres
	CSVPath            string `yaml:"csv_path"`
	SnapshotTTLSeconds int    `yaml:"snapshot_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration for the
// sqlite and postgres drivers.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// SessionConfig configures the signed cookie that carries the faculty session.
type SessionConfig struct {
	Secret        string `yaml:"secret"`
	CookieName    string `yaml:"cookie_name"`
	MaxAgeSeconds int    `yaml:"max_age_seconds"`
	Secure        bool   `yaml:"secure"`
}

// FacultyConfig holds the faculty credential tables.
type FacultyConfig struct {
	Credentials    map[string]string `yaml:"credentials"`
	PasswordHashes map[string]string `yaml:"password_hashes"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads the configuration from the given path, applies environment
// overrides and fills in defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets deployments override the file without editing it.
func applyEnv(cfg *Config) {
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("invalid HTTP_PORT %q, keeping %d", v, cfg.Server.Port)
		}
	}
	overrideString(&cfg.Server.Mode, "GIN_MODE")
	overrideString(&cfg.Server.Timezone, "TZ_NAME")
	overrideString(&cfg.Store.Driver, "STORE_DRIVER")
	overrideString(&cfg.Store.CSVPath, "STORE_PATH")
	overrideString(&cfg.Database.DSN, "DATABASE_DSN")
	overrideString(&cfg.Session.Secret, "SESSION_SECRET")
	overrideString(&cfg.Log.Level, "LOG_LEVEL")
	overrideString(&cfg.Log.Format, "LOG_FORMAT")
	overrideString(&cfg.Log.Output, "LOG_OUTPUT")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "Local"
	}
	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Server.Timezone, err)
	}
	cfg.Server.Location = loc
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	switch cfg.Store.Driver {
	case "":
		cfg.Store.Driver = "csv"
	case "csv", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if cfg.Store.CSVPath == "" {
		cfg.Store.CSVPath = "lab_login_data.csv"
	}
	if cfg.Store.Driver != "csv" && cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for store driver %q", cfg.Store.Driver)
	}

	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 60
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "lab_session"
	}
	if cfg.Session.MaxAgeSeconds <= 0 {
		cfg.Session.MaxAgeSeconds = 8 * 3600
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	return nil
}

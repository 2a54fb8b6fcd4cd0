// Package config loads musix settings from TOML files and MUSIX_* environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig   `koanf:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `koanf:"database" envPrefix:"DATABASE_"`
	Redis    RedisConfig    `koanf:"redis" envPrefix:"REDIS_"`
	Session  SessionConfig  `koanf:"session" envPrefix:"SESSION_"`
	Cache    CacheConfig    `koanf:"cache" envPrefix:"CACHE_"`
	Log      LogConfig      `koanf:"log" envPrefix:"LOG_"`
	Library  LibraryConfig  `koanf:"library" envPrefix:"LIBRARY_"`
}

type ServerConfig struct {
	Host        string   `koanf:"host" env:"HOST"`
	Port        int      `koanf:"port" env:"PORT"`
	StaticDir   string   `koanf:"static_dir" env:"STATIC_DIR"`
	CORSOrigins []string `koanf:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver" env:"DRIVER"`
	URL      string `koanf:"url" env:"URL"`
	Path     string `koanf:"path" env:"PATH"`
	MaxConns int    `koanf:"max_conns" env:"MAX_CONNS"`
}

// RedisConfig configures the session storage. An empty host keeps sessions in memory.
type RedisConfig struct {
	Host     string `koanf:"host" env:"HOST"`
	Port     int    `koanf:"port" env:"PORT"`
	Username string `koanf:"username" env:"USERNAME"`
	Password string `koanf:"password" env:"PASSWORD"`
	Database int    `koanf:"database" env:"DATABASE"`
}

type SessionConfig struct {
	CookieName   string        `koanf:"cookie_name" env:"COOKIE_NAME"`
	Expiration   time.Duration `koanf:"expiration" env:"EXPIRATION"`
	CookieSecure bool          `koanf:"cookie_secure" env:"COOKIE_SECURE"`
}

type CacheConfig struct {
	StatsTTL time.Duration `koanf:"stats_ttl" env:"STATS_TTL"`
}

type LogConfig struct {
	Level string `koanf:"level" env:"LEVEL"`
}

type LibraryConfig struct {
	PageSize       int `koanf:"page_size" env:"PAGE_SIZE"`
	LoginRateLimit int `koanf:"login_rate_limit" env:"LOGIN_RATE_LIMIT"` // login attempts per IP per minute, 0 disables
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			Path:     "musix.db",
			MaxConns: 10,
		},
		Redis: RedisConfig{Port: 6379},
		Session: SessionConfig{
			CookieName: "session_id",
			Expiration: 24 * time.Hour,
		},
		Log:     LogConfig{Level: "info"},
		Library: LibraryConfig{PageSize: 50, LoginRateLimit: 10},
	}
}

// Load builds the configuration from defaults, then every existing file in
// paths (later files win), then MUSIX_* environment variables.
func Load(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "MUSIX_"}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Library.PageSize < 1 || c.Library.PageSize > 500 {
		return fmt.Errorf("library.page_size must be between 1 and 500")
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("server.cors_origins cannot contain \"*\" since session cookies are sent with credentials")
		}
	}
	if c.Session.Expiration <= 0 {
		return fmt.Errorf("session.expiration must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// HasRedis reports whether sessions should be stored in Redis.
func (c *Config) HasRedis() bool {
	return c.Redis.Host != ""
}

// WriteExample writes the example configuration to path. It refuses to
// overwrite an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const minSessionSecretLen = 32

// Config holds all configuration for the weddingdesk server and CLI.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Access   AccessConfig
	Layout   LayoutConfig
}

type ServerConfig struct {
	Port               int
	Env                string
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// AccessConfig controls vendor access credentials and the sessions they unlock.
type AccessConfig struct {
	CredentialTTL time.Duration
	SessionSecret string
	SessionTTL    time.Duration
}

// LayoutConfig controls where new tables land on the canvas and how long
// table templates stay cached.
type LayoutConfig struct {
	DefaultX         float64
	DefaultY         float64
	TemplateCacheTTL time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               envInt("WEDDINGDESK_PORT", 8080),
			Env:                envString("WEDDINGDESK_ENV", "development"),
			RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
			CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Access: AccessConfig{
			CredentialTTL: envDuration("VENDOR_ACCESS_TTL", 7*24*time.Hour),
			SessionSecret: os.Getenv("VENDOR_SESSION_SECRET"),
			SessionTTL:    envDuration("VENDOR_SESSION_TTL", 12*time.Hour),
		},
		Layout: LayoutConfig{
			DefaultX:         envFloat("LAYOUT_DEFAULT_X", 400),
			DefaultY:         envFloat("LAYOUT_DEFAULT_Y", 300),
			TemplateCacheTTL: envDuration("TEMPLATE_CACHE_TTL", 10*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings. The admin CLI uses it so that
// migrations and key management work without the server's secrets.
func LoadDatabase() (DatabaseConfig, error) {
	db := DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 5),
		MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 1),
		ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
	}
	if db.URL == "" {
		return db, fmt.Errorf("DATABASE_URL is required")
	}
	return db, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Access.SessionSecret == "" {
		return fmt.Errorf("VENDOR_SESSION_SECRET is required")
	}
	if len(c.Access.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("VENDOR_SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}

	if c.Access.CredentialTTL <= 0 {
		return fmt.Errorf("VENDOR_ACCESS_TTL must be positive, got %s", c.Access.CredentialTTL)
	}
	if c.Access.SessionTTL <= 0 {
		return fmt.Errorf("VENDOR_SESSION_TTL must be positive, got %s", c.Access.SessionTTL)
	}

	if c.Layout.TemplateCacheTTL <= 0 {
		return fmt.Errorf("TEMPLATE_CACHE_TTL must be positive, got %s", c.Layout.TemplateCacheTTL)
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.Server.RateLimitPerMinute)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

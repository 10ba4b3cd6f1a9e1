package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Strato servers.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Edge     EdgeConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port int
	Env  string
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

// EdgeConfig configures the edge router. BaseDomain is the apex domain the
// router classifies against ("strato.io"); OriginURL is the single backend
// origin requests are forwarded to.
type EdgeConfig struct {
	Port            int
	BaseDomain      string
	OriginURL       string
	ShowTenantField bool
	SPAFallback     bool
	OriginTimeout   time.Duration
}

type SessionConfig struct {
	TTL               time.Duration
	RequestsPerMinute int
	DevHosts          []string
}

// Load reads configuration from environment variables for the backend API
// server and validates the values it depends on: database, cache, and base
// domain. Returns an error with a descriptive message if any required value
// is missing or invalid.
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validateServer(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEdge reads configuration for the edge router. The edge holds no
// database or cache connections, so only the edge section is validated.
func LoadEdge() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validateEdge(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port: envInt("STRATO_PORT", 8080),
			Env:  envString("STRATO_ENV", "development"),
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
		Edge: EdgeConfig{
			Port:            envInt("EDGE_PORT", 8081),
			BaseDomain:      os.Getenv("BASE_DOMAIN"),
			OriginURL:       os.Getenv("ORIGIN_URL"),
			ShowTenantField: envBool("EDGE_SHOW_TENANT_FIELD", true),
			SPAFallback:     envBool("EDGE_SPA_FALLBACK", false),
			OriginTimeout:   envDuration("EDGE_ORIGIN_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			TTL:               envDuration("SESSION_TTL", 24*time.Hour),
			RequestsPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 120),
			DevHosts:          envList("DEV_HOSTS", []string{"localhost", "127.0.0.1"}),
		},
	}
}

func (c *Config) validateServer() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	// The server re-derives tenants from forwarded hostnames, so it needs
	// the base domain too.
	return c.validateBaseDomain()
}

func (c *Config) validateEdge() error {
	if err := c.validateBaseDomain(); err != nil {
		return err
	}

	if c.Edge.OriginURL == "" {
		return fmt.Errorf("ORIGIN_URL is required")
	}
	if !strings.HasPrefix(c.Edge.OriginURL, "http://") && !strings.HasPrefix(c.Edge.OriginURL, "https://") {
		return fmt.Errorf("ORIGIN_URL must start with http:// or https://, got %q", c.Edge.OriginURL)
	}

	return nil
}

func (c *Config) validateBaseDomain() error {
	if c.Edge.BaseDomain == "" {
		return fmt.Errorf("BASE_DOMAIN is required")
	}
	if strings.Contains(c.Edge.BaseDomain, "://") || strings.Contains(c.Edge.BaseDomain, "/") {
		return fmt.Errorf("BASE_DOMAIN must be a bare hostname, got %q", c.Edge.BaseDomain)
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

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
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
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

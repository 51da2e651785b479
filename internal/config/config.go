// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	Database DatabaseConfig
	Activity ActivityConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// CatalogConfig holds settings for the remote firm catalog service.
type CatalogConfig struct {
	// BaseURL is the catalog service root, without the /api suffix (required)
	BaseURL string `env:"CATALOG_BASE_URL" envAlt:"BACKEND_URL" required:"true"`

	// Timeout bounds a single catalog request (default: 10s)
	Timeout time.Duration `env:"CATALOG_TIMEOUT" default:"10s"`

	// RequestsPerSecond caps outbound catalog calls (default: 20)
	RequestsPerSecond int `env:"CATALOG_REQUESTS_PER_SECOND" default:"20"`

	// Burst is the outbound limiter burst size (default: 40)
	Burst int `env:"CATALOG_BURST" default:"40"`

	// CacheTTL is how long firm details and statistics are reused (default: 1m)
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL" default:"1m"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	// TTL is the inactivity period after which a session is dropped (default: 30m)
	TTL time.Duration `env:"SESSION_TTL" default:"30m"`

	// CleanupInterval is how often expired sessions are swept (default: 5m)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" default:"5m"`

	// CookieName is the session cookie name (default: propcompare_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"propcompare_session"`

	// SecureCookie marks the cookie Secure; enable behind TLS (default: false)
	SecureCookie bool `env:"SESSION_SECURE_COOKIE" default:"false"`
}

// DatabaseConfig holds the optional activity database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; activity logging is disabled when empty
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ActivityConfig holds activity log retention settings.
type ActivityConfig struct {
	// RetentionDays is how long activity entries are kept (default: 30)
	RetentionDays int `env:"ACTIVITY_RETENTION_DAYS" default:"30"`

	// PruneInterval is how often old entries are removed (default: 6h)
	PruneInterval time.Duration `env:"ACTIVITY_PRUNE_INTERVAL" default:"6h"`

	// RecentLimit caps the /api/activity listing (default: 100)
	RecentLimit int `env:"ACTIVITY_RECENT_LIMIT" default:"100"`
}

// RateLimitConfig holds inbound rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// FilterLimit is requests per minute for filter application (default: 30)
	FilterLimit int `env:"RATE_LIMIT_FILTER" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects operator endpoints (activity log) with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted operator API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// ABOUTME: Configuration loader for the catalog console
// ABOUTME: Loads settings from environment variables (and an optional .env file) with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// View store drivers
const (
	ViewStoreMemory = "memory"
	ViewStoreRedis  = "redis"
)

type Config struct {
	// Server
	Port               string
	CookieSecure       bool          // Set Secure flag on session cookies (default: true)
	CORSAllowedOrigins []string      // allowed CORS origins (empty = block all cross-origin)
	SessionDefaultTTL  time.Duration // used when the API reports no expiry (default: 1h)

	// Remote admin API
	APIBase       string        // origin of the remote API, e.g. https://api.example.com
	APIPath       string        // namespace segment used in /api/{path}/admin/products
	APITimeout    time.Duration // per-request timeout (default: 30s)
	APIAuthScheme string        // Authorization prefix; empty sends the raw token

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitLogin   int  // Login attempts per minute per client (default: 5)
	RateLimitRefresh int  // Product refreshes per minute per session (default: 30)

	// View state store
	ViewStore     string // memory or redis (default: memory)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Terminal browser
	TokenFile string // where the browse command keeps its session token
}

// LoadDotEnv loads variables from an env file without overriding the
// environment. A missing default .env file is not an error.
func LoadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		SessionDefaultTTL:  getEnvDuration("SESSION_DEFAULT_TTL", time.Hour),

		APIBase:       strings.TrimRight(ensureScheme(os.Getenv("API_BASE")), "/"),
		APIPath:       strings.Trim(os.Getenv("API_PATH"), "/"),
		APITimeout:    getEnvDuration("API_TIMEOUT", 30*time.Second),
		APIAuthScheme: strings.TrimSpace(os.Getenv("API_AUTH_SCHEME")),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitLogin:   getEnvInt("RATE_LIMIT_LOGIN", 5),
		RateLimitRefresh: getEnvInt("RATE_LIMIT_REFRESH", 30),

		ViewStore:     strings.ToLower(getEnv("VIEW_STORE", ViewStoreMemory)),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "catalog-console:view:"),

		TokenFile: getEnv("TOKEN_FILE", defaultTokenFile()),
	}

	// Validate required fields
	if cfg.APIBase == "" {
		return nil, fmt.Errorf("API_BASE is required")
	}
	if cfg.APIPath == "" {
		return nil, fmt.Errorf("API_PATH is required")
	}

	if cfg.RateLimitLogin < 1 || cfg.RateLimitLogin > 10000 {
		return nil, fmt.Errorf("RATE_LIMIT_LOGIN must be between 1 and 10000, got %d", cfg.RateLimitLogin)
	}
	if cfg.RateLimitRefresh < 1 || cfg.RateLimitRefresh > 10000 {
		return nil, fmt.Errorf("RATE_LIMIT_REFRESH must be between 1 and 10000, got %d", cfg.RateLimitRefresh)
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be positive")
	}
	if cfg.SessionDefaultTTL <= 0 {
		return nil, fmt.Errorf("SESSION_DEFAULT_TTL must be positive")
	}

	switch cfg.ViewStore {
	case ViewStoreMemory:
	case ViewStoreRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when VIEW_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("invalid VIEW_STORE: %q (must be memory or redis)", cfg.ViewStore)
	}

	return cfg, nil
}

// ProductsURL returns the admin product collection endpoint.
func (c *Config) ProductsURL() string {
	return c.APIBase + "/api/" + c.APIPath + "/admin/products"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or bare seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".catalog-console-session.yaml"
	}
	return filepath.Join(dir, "catalog-console", "session.yaml")
}

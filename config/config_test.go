package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_RequiredFields(t *testing.T) {
	t.Cleanup(withCleanAPIEnv(t, nil))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIBase != "https://api.example.com" {
		t.Errorf("Expected APIBase https://api.example.com, got %s", cfg.APIBase)
	}
	if cfg.ProductsURL() != "https://api.example.com/api/shop/admin/products" {
		t.Errorf("Unexpected products URL %s", cfg.ProductsURL())
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Cleanup(withCleanAPIEnv(t, nil))
	os.Unsetenv("API_PATH")

	if _, err := Load(); err == nil {
		t.Error("Expected error for missing API_PATH, got nil")
	}

	os.Unsetenv("API_BASE")
	os.Setenv("API_PATH", "shop")
	if _, err := Load(); err == nil {
		t.Error("Expected error for missing API_BASE, got nil")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(withCleanAPIEnv(t, nil))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("Expected default API timeout 30s, got %v", cfg.APITimeout)
	}
	if cfg.SessionDefaultTTL != time.Hour {
		t.Errorf("Expected default session TTL 1h, got %v", cfg.SessionDefaultTTL)
	}
	if !cfg.CookieSecure {
		t.Error("Expected CookieSecure to default to true")
	}
	if cfg.ViewStore != ViewStoreMemory {
		t.Errorf("Expected default view store memory, got %s", cfg.ViewStore)
	}
	if cfg.RateLimitLogin != 5 {
		t.Errorf("Expected default login rate limit 5, got %d", cfg.RateLimitLogin)
	}
	if cfg.RateLimitRefresh != 30 {
		t.Errorf("Expected default refresh rate limit 30, got %d", cfg.RateLimitRefresh)
	}
	if cfg.APIAuthScheme != "" {
		t.Errorf("Expected raw token auth by default, got %q", cfg.APIAuthScheme)
	}
}

func TestLoadConfig_NormalizesAPIBaseAndPath(t *testing.T) {
	t.Cleanup(withCleanAPIEnv(t, map[string]string{
		"API_BASE": "api.example.com/",
		"API_PATH": "/shop/",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIBase != "https://api.example.com" {
		t.Errorf("Expected scheme added and slash trimmed, got %s", cfg.APIBase)
	}
	if cfg.APIPath != "shop" {
		t.Errorf("Expected path trimmed, got %s", cfg.APIPath)
	}
}

func TestLoadConfig_Durations(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"45s", 45 * time.Second},
		{"10", 10 * time.Second},
		{"garbage", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Cleanup(withCleanAPIEnv(t, map[string]string{"API_TIMEOUT": tt.value}))

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if cfg.APITimeout != tt.want {
				t.Errorf("APITimeout = %v, want %v", cfg.APITimeout, tt.want)
			}
		})
	}
}

func TestLoadConfig_ViewStore(t *testing.T) {
	t.Run("redis requires address", func(t *testing.T) {
		t.Cleanup(withCleanAPIEnv(t, map[string]string{"VIEW_STORE": "redis"}))
		if _, err := Load(); err == nil {
			t.Error("Expected error for redis without REDIS_ADDR")
		}
	})

	t.Run("redis with address", func(t *testing.T) {
		t.Cleanup(withCleanAPIEnv(t, map[string]string{
			"VIEW_STORE": "Redis",
			"REDIS_ADDR": "localhost:6379",
			"REDIS_DB":   "2",
		}))
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.ViewStore != ViewStoreRedis || cfg.RedisDB != 2 {
			t.Errorf("Unexpected redis config: %+v", cfg)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Cleanup(withCleanAPIEnv(t, map[string]string{"VIEW_STORE": "sqlite"}))
		if _, err := Load(); err == nil {
			t.Error("Expected error for unknown view store")
		}
	})
}

func TestLoadConfig_InvalidRateLimit(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero login limit", map[string]string{"RATE_LIMIT_LOGIN": "0"}},
		{"zero refresh limit", map[string]string{"RATE_LIMIT_REFRESH": "0"}},
		{"refresh limit too high", map[string]string{"RATE_LIMIT_REFRESH": "10001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(withCleanAPIEnv(t, tt.env))

			if _, err := Load(); err == nil {
				t.Error("Expected error for invalid rate limit")
			}
		})
	}
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	t.Cleanup(withCleanAPIEnv(t, map[string]string{
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, ,https://b.example.com",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("Expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Cleanup(withCleanAPIEnv(t, nil))
	os.Unsetenv("API_PATH")

	dir := t.TempDir()
	path := filepath.Join(dir, "console.env")
	if err := os.WriteFile(path, []byte("API_PATH=fromfile\nAPI_BASE=https://ignored.example.com\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIPath != "fromfile" {
		t.Errorf("Expected API_PATH from file, got %s", cfg.APIPath)
	}
	if cfg.APIBase != "https://api.example.com" {
		t.Errorf("Env file must not override existing env, got %s", cfg.APIBase)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("Expected error for missing explicit env file")
	}

	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	os.Chdir(t.TempDir())
	if err := LoadDotEnv(""); err != nil {
		t.Errorf("Missing default .env should be ignored, got %v", err)
	}
}

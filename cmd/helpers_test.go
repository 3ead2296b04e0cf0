// ABOUTME: Test helpers for CLI command tests
// ABOUTME: Provides a fake catalog API and config builders

package cmd

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/storeops/catalog-console/config"
)

const storedToken = "tok-cli"

func newCheckAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/check", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != storedToken {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"請重新登入"}`))
			return
		}
		w.Write([]byte(`{"success":true,"uid":"uid-9"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiBase string) *config.Config {
	t.Helper()
	return &config.Config{
		Port:              "0",
		SessionDefaultTTL: time.Hour,
		APIBase:           apiBase,
		APIPath:           "shop",
		APITimeout:        5 * time.Second,
		RateLimitEnabled:  true,
		RateLimitLogin:    5,
		RateLimitRefresh:  30,
		ViewStore:         config.ViewStoreMemory,
		TokenFile:         filepath.Join(t.TempDir(), "session.yaml"),
	}
}

// withJSONOutput toggles the --json flag for the duration of a test.
func withJSONOutput(t *testing.T, on bool) {
	t.Helper()
	prev := jsonOutput
	jsonOutput = on
	t.Cleanup(func() { jsonOutput = prev })
}

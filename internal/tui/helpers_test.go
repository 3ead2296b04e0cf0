// ABOUTME: Test helpers for the TUI app
// ABOUTME: Runs a fake catalog API and builds apps wired to it

package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/storeops/catalog-console/models"
	"github.com/storeops/catalog-console/services"
	"github.com/storeops/catalog-console/tokenstore"
)

const testToken = "tok-tui"

const productsJSON = `{"success":true,"products":[{"id":"p1","title":"Pen","category":"文具","origin_price":20,"price":15,"is_enabled":true,"description":"blue ink","content":"one pen","imagesUrl":["https://img/pen-2.png"]},{"id":"p2","title":"Pad","category":"文具","origin_price":50,"price":45,"is_enabled":0}]}`

type fakeAPI struct {
	server   *httptest.Server
	checks   atomic.Int32
	products atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/signin", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"帳號或密碼錯誤"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   testToken,
			"expired": time.Now().Add(time.Hour).UnixMilli(),
		})
	})
	mux.HandleFunc("POST /api/user/check", func(w http.ResponseWriter, r *http.Request) {
		f.checks.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != testToken {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"請重新登入"}`))
			return
		}
		w.Write([]byte(`{"success":true,"uid":"uid-7"}`))
	})
	mux.HandleFunc("GET /api/shop/admin/products", func(w http.ResponseWriter, r *http.Request) {
		f.products.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productsJSON))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestApp(t *testing.T) (*App, *fakeAPI, tokenstore.Store) {
	t.Helper()
	api := newFakeAPI(t)
	views := services.NewMemoryViewStore()
	t.Cleanup(func() { views.Close() })

	client := services.NewCatalogClient(api.server.URL, "shop", 5*time.Second)
	mgr := services.NewSessionManager(client, views, time.Hour)
	tokens := tokenstore.NewMemoryStore()

	app := New(context.Background(), mgr, tokens, "api.example.com")
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, api, tokens
}

// run executes cmd and feeds its message back into the app.
func run(t *testing.T, app *App, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := app.Update(cmd())
	return next
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loggedInApp(t *testing.T) (*App, *fakeAPI, tokenstore.Store) {
	t.Helper()
	app, api, tokens := newTestApp(t)
	run(t, app, app.doLogin(models.Credentials{Username: "admin@example.com", Password: "secret"}))
	if app.screen != ScreenCatalog {
		t.Fatalf("expected catalog screen after login, got %d", app.screen)
	}
	return app, api, tokens
}

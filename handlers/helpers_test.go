package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storeops/catalog-console/config"
	"github.com/storeops/catalog-console/middleware"
	"github.com/storeops/catalog-console/services"
	"github.com/storeops/catalog-console/tokenstore"
)

const penProducts = `{"success":true,"products":[{"id":1,"title":"Pen","category":"文具","origin_price":20,"price":15,"is_enabled":true,"imageUrl":"https://img.example.com/pen.png","imagesUrl":["https://img.example.com/pen-2.png"],"description":"藍色原子筆","content":"0.5mm"}]}`

// fakeAPI stands in for the remote product API.
type fakeAPI struct {
	server *httptest.Server

	mu           sync.Mutex
	products     string
	productCalls int
	checkCalls   int
}

func newFakeAPI(t *testing.T, products string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{products: products}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/signin", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"登入失敗"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok-abc",
			"expired": time.Now().Add(time.Hour).UnixMilli(),
		})
	})
	mux.HandleFunc("POST /api/user/check", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.checkCalls++
		f.mu.Unlock()
		if r.Header.Get("Authorization") != "tok-abc" {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"請重新登入"}`))
			return
		}
		w.Write([]byte(`{"success":true,"uid":"uid-1"}`))
	})
	mux.HandleFunc("GET /api/shop/admin/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.productCalls++
		if r.Header.Get("Authorization") != "tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false}`))
			return
		}
		w.Write([]byte(f.products))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) calls() (products, check int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productCalls, f.checkCalls
}

// newTestHandler wires a handler to a fake API with an in-memory view store.
func newTestHandler(t *testing.T, api *fakeAPI) *Handler {
	t.Helper()
	cfg := &config.Config{
		APIBase:           api.server.URL,
		APIPath:           "shop",
		CookieSecure:      false,
		SessionDefaultTTL: time.Hour,
		ViewStore:         config.ViewStoreMemory,
	}
	views := services.NewMemoryViewStore()
	t.Cleanup(func() { views.Close() })
	client := services.NewCatalogClient(cfg.APIBase, cfg.APIPath, 5*time.Second)
	return NewHandler(cfg, services.NewSessionManager(client, views, cfg.SessionDefaultTTL))
}

// browser replays requests against a handler and keeps cookies between them.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	return &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// postForm submits a form, adding the CSRF field from the cookie jar.
func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	if c, ok := b.cookies[middleware.CSRFCookieName]; ok {
		form.Set(middleware.CSRFFormField, c.Value)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// api sends a JSON API request, echoing the CSRF cookie in the header.
func (b *browser) api(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if c, ok := b.cookies[middleware.CSRFCookieName]; ok {
		req.Header.Set(middleware.CSRFHeaderName, c.Value)
	}
	return b.do(req)
}

func (b *browser) sessionCookie() *http.Cookie {
	return b.cookies[tokenstore.CookieName]
}

func newLoginLimiter(limit int) *middleware.RateLimiter {
	return middleware.NewRateLimiter(limit, time.Minute)
}

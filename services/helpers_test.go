package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// mockAPI is an httptest server standing in for the remote product API.
type mockAPI struct {
	server *httptest.Server

	mu           sync.Mutex
	signinCalls  int
	checkCalls   int
	productCalls int
	authHeaders  []string

	username     string
	password     string
	token        string
	expired      int64
	productsJSON string
	productsCode int
}

const pensJSON = `{"success":true,"products":[{"id":1,"title":"Pen","category":"文具","origin_price":20,"price":15,"is_enabled":true,"imageUrl":"https://img/pen.png","imagesUrl":["https://img/pen2.png"],"description":"blue","content":"ink"},{"id":"p2","title":"Pad","category":"文具","origin_price":"50","price":"45","is_enabled":0}],"pagination":{"total_pages":1,"current_page":1,"has_pre":false,"has_next":false}}`

func newMockAPI(t *testing.T) *mockAPI {
	t.Helper()
	m := &mockAPI{
		username:     "admin@example.com",
		password:     "secret",
		token:        "tok-123",
		expired:      time.Now().Add(time.Hour).UnixMilli(),
		productsJSON: pensJSON,
		productsCode: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/signin", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.signinCalls++
		m.mu.Unlock()

		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		token, expired := m.issued()
		w.Header().Set("Content-Type", "application/json")
		if creds.Username != m.username || creds.Password != m.password {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"登入失敗"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "登入成功",
			"uid":     "uid-1",
			"token":   token,
			"expired": expired,
		})
	})
	mux.HandleFunc("POST /api/user/check", func(w http.ResponseWriter, r *http.Request) {
		m.record(r, &m.checkCalls)
		w.Header().Set("Content-Type", "application/json")
		if token, _ := m.issued(); r.Header.Get("Authorization") != token {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"請重新登入"}`))
			return
		}
		w.Write([]byte(`{"success":true,"uid":"uid-1"}`))
	})
	mux.HandleFunc("GET /api/shop/admin/products", func(w http.ResponseWriter, r *http.Request) {
		m.record(r, &m.productCalls)
		w.Header().Set("Content-Type", "application/json")
		if token, _ := m.issued(); r.Header.Get("Authorization") != token {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"驗證錯誤, 請重新登入"}`))
			return
		}
		m.mu.Lock()
		code, body := m.productsCode, m.productsJSON
		m.mu.Unlock()
		w.WriteHeader(code)
		w.Write([]byte(body))
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockAPI) record(r *http.Request, counter *int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter++
	m.authHeaders = append(m.authHeaders, r.Header.Get("Authorization"))
}

func (m *mockAPI) issued() (string, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.expired
}

// issue changes the token and expiry returned by later sign-ins.
func (m *mockAPI) issue(token string, expired int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.expired = expired
}

func (m *mockAPI) headers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.authHeaders...)
}

func (m *mockAPI) setProducts(code int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.productsCode = code
	m.productsJSON = body
}

func (m *mockAPI) counts() (signin, check, products int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signinCalls, m.checkCalls, m.productCalls
}

func (m *mockAPI) client() *CatalogClient {
	return NewCatalogClient(m.server.URL, "shop", 5*time.Second)
}

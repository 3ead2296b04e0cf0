// ABOUTME: Declarative route tables for the JSON API and the HTML console
// ABOUTME: Registers every route on a ServeMux with the shared middleware stack

package handlers

import (
	"net/http"

	"github.com/storeops/catalog-console/middleware"
)

// Route defines an endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Login   bool             // subject to the login rate limit
	Refresh bool             // subject to the per-session refresh limit
}

// Limiters holds the router's rate limiters. A nil field disables that limit.
type Limiters struct {
	Login   *middleware.RateLimiter // keyed by client IP
	Refresh *middleware.RateLimiter // keyed by session cookie
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/view", Handler: h.GetView},

		// Session
		{Method: http.MethodPost, Path: "/api/v1/auth/login", Handler: h.Login, Login: true},
		{Method: http.MethodPost, Path: "/api/v1/auth/check", Handler: h.CheckLogin},
		{Method: http.MethodPost, Path: "/api/v1/auth/logout", Handler: h.Logout},

		// Products
		{Method: http.MethodPost, Path: "/api/v1/products/refresh", Handler: h.RefreshProducts, Refresh: true},
		{Method: http.MethodPost, Path: "/api/v1/products/{id}/select", Handler: h.SelectProduct},
		{Method: http.MethodDelete, Path: "/api/v1/products/selection", Handler: h.ClearSelection},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}

// PageRoutes returns the HTML console routes.
func (h *Handler) PageRoutes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/{$}", Handler: h.Console},
		{Method: http.MethodPost, Path: "/login", Handler: h.LoginForm, Login: true},
		{Method: http.MethodPost, Path: "/check", Handler: h.CheckForm},
		{Method: http.MethodPost, Path: "/logout", Handler: h.LogoutForm},
		{Method: http.MethodPost, Path: "/products/refresh", Handler: h.RefreshForm, Refresh: true},
		{Method: http.MethodPost, Path: "/products/{id}/select", Handler: h.SelectForm},
	}
}

// NewRouter builds the server mux.
func NewRouter(h *Handler, limits Limiters) http.Handler {
	var origins []string
	if h.cfg != nil {
		origins = h.cfg.CORSAllowedOrigins
	}
	cors := middleware.CORS(origins)
	csrf := middleware.CSRF(h.cookieSecure(), "/login", "/api/v1/auth/login")
	loginLimit := middleware.RateLimit(limits.Login, middleware.ClientIP)
	refreshLimit := middleware.RateLimit(limits.Refresh, middleware.SessionKey)

	mux := http.NewServeMux()
	register := func(route Route, mws ...middleware.Middleware) {
		if route.Login {
			mws = append(mws, loginLimit)
		}
		if route.Refresh {
			mws = append(mws, refreshLimit)
		}
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler, mws...))
	}

	for _, route := range h.Routes() {
		register(route, middleware.LogRequest, cors, csrf)
	}
	for _, route := range h.PageRoutes() {
		register(route, middleware.LogRequest, csrf)
	}

	// Preflight requests for any API path
	mux.HandleFunc("OPTIONS /api/v1/", middleware.Chain(func(w http.ResponseWriter, r *http.Request) {}, middleware.LogRequest, cors))

	return mux
}

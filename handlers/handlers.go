// ABOUTME: HTTP handlers for the catalog console
// ABOUTME: Holds shared dependencies and JSON response helpers

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/storeops/catalog-console/config"
	"github.com/storeops/catalog-console/models"
	"github.com/storeops/catalog-console/services"
	"github.com/storeops/catalog-console/tokenstore"
)

type Handler struct {
	cfg       *config.Config
	sessions  *services.SessionManager
	startedAt time.Time
}

// NewHandler creates the handler set. cfg may be nil in tests.
func NewHandler(cfg *config.Config, sessions *services.SessionManager) *Handler {
	return &Handler{
		cfg:       cfg,
		sessions:  sessions,
		startedAt: time.Now(),
	}
}

// tokens returns the cookie-backed token store for this request.
func (h *Handler) tokens(w http.ResponseWriter, r *http.Request) tokenstore.Store {
	return tokenstore.NewCookieStore(w, r, tokenstore.CookieOptions{Secure: h.cookieSecure()})
}

func (h *Handler) cookieSecure() bool {
	if h.cfg == nil {
		return true
	}
	return h.cfg.CookieSecure
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// statusFor maps a session manager error to an HTTP status.
func statusFor(err error) int {
	var apiErr *models.APIError
	switch {
	case errors.Is(err, services.ErrNotAuthenticated), errors.Is(err, tokenstore.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
